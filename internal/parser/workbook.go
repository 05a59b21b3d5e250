package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"reciprocas/internal/model"
)

// LoadWorkbook 从字节流打开工作簿
func LoadWorkbook(r io.Reader) (*excelize.File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	return f, nil
}

// ReadRows 读取 sheet 全部行（原始单元格值，不套用数字格式）
func ReadRows(wb *excelize.File, sheet string) ([][]string, error) {
	rows, err := wb.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// FindSheet 按名称精确查找（规范化后比较）
func FindSheet(wb *excelize.File, name string) (string, error) {
	want := NormalizeLabel(name)
	sheets := wb.GetSheetList()
	for _, s := range sheets {
		if NormalizeLabel(s) == want {
			return s, nil
		}
	}
	return "", &model.SheetNotFoundError{Want: name, Available: sheets}
}

// FindSheetContaining 返回第一个名称包含 marker 的 sheet
func FindSheetContaining(wb *excelize.File, marker string) (string, error) {
	want := NormalizeLabel(marker)
	sheets := wb.GetSheetList()
	for _, s := range sheets {
		if strings.Contains(NormalizeLabel(s), want) {
			return s, nil
		}
	}
	return "", &model.SheetNotFoundError{Want: "*" + marker + "*", Available: sheets}
}
