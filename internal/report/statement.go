// Package report 生成 CGN2005_002 相互业务余额报表
package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"reciprocas/internal/model"
	"reciprocas/internal/reconcile"
)

// 报表固定文本
const (
	DefaultSheetName = "Consolidado"
	DefaultTitle     = "MODELO CGN2005_002_OPERACIONES_RECIPROCAS"
	SectionTitle     = "INFORMACION SOBRE SALDOS DE OPERACIONES RECIPROCAS"

	metadataRow = 3 // 元数据起始行
	sectionRow  = 8
	headerRow   = 9
	dataRow     = 10
)

// Headers 明细表头
var Headers = []string{
	"CODIGO CONTABLE",
	"NOMBRE",
	"CODIGO ENTIDAD",
	"NOMBRE ENTIDAD",
	"VALOR NO CORRIENTE",
	"VALOR CORRIENTE",
}

// Metadata 报表抬头信息（由外部提供）
type Metadata struct {
	Department   string `json:"department" toml:"department"`
	Municipality string `json:"municipality" toml:"municipality"`
	Entity       string `json:"entity" toml:"entity"`
	EntityCode   string `json:"entityCode" toml:"entity_code"`
	CutoffDate   string `json:"cutoffDate" toml:"cutoff_date"`
}

// DefaultMetadata 默认抬头
func DefaultMetadata() Metadata {
	return Metadata{
		Department:   "CUNDINAMARCA",
		Municipality: "BOGOTÁ D.C.",
		Entity:       `ARMADA NACIONAL DE COLOMBIA - BASE NAVAL No. 6 ARC "Bogotá"`,
		EntityCode:   "11100000",
		CutoffDate:   "31 de Marzo de 2021",
	}
}

// Merge 用 o 中的非空字段覆盖 m
func (m Metadata) Merge(o Metadata) Metadata {
	override(&m.Department, o.Department)
	override(&m.Municipality, o.Municipality)
	override(&m.Entity, o.Entity)
	override(&m.EntityCode, o.EntityCode)
	override(&m.CutoffDate, o.CutoffDate)
	return m
}

func override(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func (m Metadata) rows() [][2]string {
	return [][2]string{
		{"DEPARTAMENTO", m.Department},
		{"MUNICIPIO", m.Municipality},
		{"ENTIDAD", m.Entity},
		{"CODIGO", m.EntityCode},
		{"FECHA DE CORTE:", m.CutoffDate},
	}
}

// Options 报表选项
type Options struct {
	SheetName string
	Title     string
}

// Statement 将合并记录写成报表工作簿
//
// 明细按 TruncatedCode 升序（稳定）输出，不依赖入参顺序；余额写为数值单元格。调用方负责 Close。
func Statement(records []model.ConsolidatedRecord, meta Metadata, opts Options) (*excelize.File, error) {
	if opts.SheetName == "" {
		opts.SheetName = DefaultSheetName
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	sheet := opts.SheetName

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeStatement(f, sheet, reconcile.SortByTruncatedCode(records), meta, opts.Title); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func writeStatement(f *excelize.File, sheet string, records []model.ConsolidatedRecord, meta Metadata, title string) error {
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create section style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top", WrapText: true},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// 标题
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", "F1"); err != nil {
		return fmt.Errorf("failed to merge title: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "F1", titleStyle); err != nil {
		return err
	}

	// 抬头
	for i, kv := range meta.rows() {
		row := metadataRow + i
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), kv[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), kv[1]); err != nil {
			return err
		}
	}

	section := fmt.Sprintf("A%d", sectionRow)
	if err := f.SetCellValue(sheet, section, SectionTitle); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, section, fmt.Sprintf("C%d", sectionRow)); err != nil {
		return fmt.Errorf("failed to merge section title: %w", err)
	}
	if err := f.SetCellStyle(sheet, section, fmt.Sprintf("C%d", sectionRow), boldStyle); err != nil {
		return err
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(Headers), headerRow)
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), lastHeader, headerStyle); err != nil {
		return err
	}

	// 明细
	for i, r := range records {
		row := dataRow + i
		values := []interface{}{
			r.AccountCode,
			r.Description,
			r.EntityID,
			r.LegalName,
			r.NonCurrentValue.InexactFloat64(),
			r.CurrentValue.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "B", 45)
	f.SetColWidth(sheet, "C", "C", 16)
	f.SetColWidth(sheet, "D", "D", 45)
	f.SetColWidth(sheet, "E", "F", 20)
	return nil
}
