package parser

import (
	"github.com/xuri/excelize/v2"

	"reciprocas/internal/keys"
	"reciprocas/internal/model"
)

// 目录表列名（仅前四列参与计算，其余用于识别表头）
const (
	ColEntityID  = "Id Entidad"
	ColNIT       = "Nit"
	ColLegalName = "Razón Social"
)

// DirectoryLabels 目录表表头必须包含的列
var DirectoryLabels = []string{
	ColEntityID,
	ColNIT,
	ColLegalName,
	"Departamento",
	"Municipio",
	"Dirección",
	"Código Postal",
	"Teléfono",
	"Fax",
	"e-mail",
	"Página Web",
	"Ámbito SIIF",
}

// ParseDirectoryRows 解析目录表行；Nit 为空的行跳过
func ParseDirectoryRows(sheet string, rows [][]string) ([]model.DirectoryEntry, model.SheetReport, error) {
	report := model.SheetReport{Source: model.SourceDirectory, SheetName: sheet}

	header, err := LocateHeader(sheet, rows, DirectoryLabels)
	if err != nil {
		return nil, report, err
	}
	report.HeaderRow = header.Index + 1

	entries := make([]model.DirectoryEntry, 0, len(rows))
	for i, row := range header.Rows(rows) {
		nit := header.Cell(row, ColNIT)
		if nit == "" {
			continue
		}
		entries = append(entries, model.DirectoryEntry{
			RowNo:      header.Index + i + 2,
			NIT:        nit,
			CleanedNIT: keys.DirectoryNIT(nit),
			EntityID:   header.Cell(row, ColEntityID),
			LegalName:  header.Cell(row, ColLegalName),
		})
	}

	report.Rows = len(entries)
	return entries, report, nil
}

// ParseDirectory 读取名称包含 marker 的目录 sheet
func ParseDirectory(wb *excelize.File, marker string) ([]model.DirectoryEntry, model.SheetReport, error) {
	sheet, err := FindSheetContaining(wb, marker)
	if err != nil {
		return nil, model.SheetReport{Source: model.SourceDirectory}, err
	}
	rows, err := ReadRows(wb, sheet)
	if err != nil {
		return nil, model.SheetReport{Source: model.SourceDirectory, SheetName: sheet}, err
	}
	return ParseDirectoryRows(sheet, rows)
}
