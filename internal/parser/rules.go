package parser

import (
	"github.com/xuri/excelize/v2"

	"reciprocas/internal/keys"
	"reciprocas/internal/model"
)

// 规则表列名
const (
	ColRuleCode        = "Código"
	ColRuleDescription = "Descripción"
	ColRuleReportable  = "Reportable al 100%"
)

// RulesLabels 规则表表头必须包含的列
var RulesLabels = []string{ColRuleCode, ColRuleDescription, ColRuleReportable}

// ParseRulesRows 解析规则表行；Código 为空的行跳过
func ParseRulesRows(sheet string, rows [][]string) ([]model.RuleEntry, model.SheetReport, error) {
	report := model.SheetReport{Source: model.SourceRules, SheetName: sheet}

	header, err := LocateHeader(sheet, rows, RulesLabels)
	if err != nil {
		return nil, report, err
	}
	report.HeaderRow = header.Index + 1

	entries := make([]model.RuleEntry, 0, len(rows))
	for i, row := range header.Rows(rows) {
		code := header.Cell(row, ColRuleCode)
		if code == "" {
			continue
		}
		entries = append(entries, model.RuleEntry{
			RowNo:       header.Index + i + 2,
			Code:        code,
			Description: header.Cell(row, ColRuleDescription),
			Reportable:  header.Cell(row, ColRuleReportable),
			CleanedCode: keys.CleanCode(code),
		})
	}

	report.Rows = len(entries)
	return entries, report, nil
}

// ParseRules 读取指定名称的规则 sheet
func ParseRules(wb *excelize.File, sheetName string) ([]model.RuleEntry, model.SheetReport, error) {
	sheet, err := FindSheet(wb, sheetName)
	if err != nil {
		return nil, model.SheetReport{Source: model.SourceRules, SheetName: sheetName}, err
	}
	rows, err := ReadRows(wb, sheet)
	if err != nil {
		return nil, model.SheetReport{Source: model.SourceRules, SheetName: sheet}, err
	}
	return ParseRulesRows(sheet, rows)
}
