package parser

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook 按 sheet 顺序写入二维数据
func buildWorkbook(t *testing.T, order []string, sheets map[string][][]interface{}) *excelize.File {
	t.Helper()

	wb := excelize.NewFile()
	t.Cleanup(func() { _ = wb.Close() })

	for i, name := range order {
		if i == 0 {
			if err := wb.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("SetSheetName failed: %v", err)
			}
		} else if _, err := wb.NewSheet(name); err != nil {
			t.Fatalf("NewSheet %s failed: %v", name, err)
		}
		for r, row := range sheets[name] {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			row := row
			if err := wb.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("SetSheetRow %s failed: %v", name, err)
			}
		}
	}
	return wb
}

func ledgerSheet(code string, data ...[]interface{}) [][]interface{} {
	rows := [][]interface{}{
		{"Reporte de Saldos y Movimientos"},
		{"Codigo Contable", code},
		{},
		{"Identificacion", "Descripcion", "Saldo Anterior", "Movimientos Debito", "Movimientos Credito", "Saldo Final"},
	}
	rows = append(rows, data...)
	return rows
}
