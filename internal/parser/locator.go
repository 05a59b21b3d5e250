package parser

import (
	"regexp"
	"strings"

	"reciprocas/internal/model"
)

var reAccountCode = regexp.MustCompile(`C[oó]digo\s+Contable\s*(\d+)`)

// Header 已定位的表头：行索引 + 列名到列索引的映射
type Header struct {
	Index   int // rows 中的下标（0 起）
	columns map[string]int
}

// Col 返回列索引，不存在时为 -1
func (h Header) Col(label string) int {
	if idx, ok := h.columns[NormalizeLabel(label)]; ok {
		return idx
	}
	return -1
}

// Cell 按列名取值
func (h Header) Cell(row []string, label string) string {
	return getCell(row, h.Col(label))
}

// Rows 表头之后的数据行
func (h Header) Rows(rows [][]string) [][]string {
	if h.Index+1 >= len(rows) {
		return [][]string{}
	}
	return rows[h.Index+1:]
}

// LocateHeader 自上而下扫描，第一行非空单元格集合包含全部 labels 的即为表头
func LocateHeader(sheet string, rows [][]string, labels []string) (Header, error) {
	want := make([]string, 0, len(labels))
	for _, l := range labels {
		want = append(want, NormalizeLabel(l))
	}

	for i, row := range rows {
		if !containsAll(nonEmptyCells(row), want) {
			continue
		}
		columns := make(map[string]int, len(row))
		for j, c := range row {
			v := NormalizeLabel(c)
			if v == "" {
				continue
			}
			if _, seen := columns[v]; !seen {
				columns[v] = j
			}
		}
		return Header{Index: i, columns: columns}, nil
	}

	return Header{}, &model.HeaderNotFoundError{Sheet: sheet, Labels: labels}
}

// LocateCode 自上而下扫描，第一行拼接文本匹配 "Codigo Contable <digits>" 的返回代码
func LocateCode(sheet string, rows [][]string) (string, error) {
	for _, row := range rows {
		text := strings.Join(nonEmptyCells(row), " ")
		if text == "" {
			continue
		}
		if m := reAccountCode.FindStringSubmatch(text); len(m) == 2 {
			return m[1], nil
		}
	}
	return "", &model.CodeNotFoundError{Sheet: sheet}
}

func containsAll(cells, want []string) bool {
	set := make(map[string]struct{}, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}
