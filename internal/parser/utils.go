package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeLabel 规范化单元格文本：NFC 组合、去首尾空白、压缩内部空白
// 同一个 "Código" 在不同导出工具里可能是组合字符或分解字符，统一后才能比较。
func NormalizeLabel(s string) string {
	s = norm.NFC.String(s)
	s = strings.TrimSpace(s)
	return whitespaceRe.ReplaceAllString(s, " ")
}

// nonEmptyCells 返回一行中非空单元格（规范化后）
func nonEmptyCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		if v := NormalizeLabel(c); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseAmount 解析金额：空值为 0
//
// 原始数值单元格为 "1234.56"；文本金额可能是 es-CO 格式（"1.234.567,89"）或 en 格式（"1,234,567.89"）。
// 两种分隔符同时出现时，最后出现的一个是小数点；只有 "." 且出现多次时视为千分位；
// 只有一个 "," 且其后不是 3 位数字时视为小数点，否则 "," 为千分位。
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(normalizeAmount(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func normalizeAmount(s string) string {
	dot := strings.LastIndexByte(s, '.')
	comma := strings.LastIndexByte(s, ',')
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case dot >= 0:
		if strings.Count(s, ".") > 1 {
			return strings.ReplaceAll(s, ".", "")
		}
		return s
	case comma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-comma-1 != 3 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	}
	return s
}
