package parser

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"reciprocas/internal/model"
)

func TestParseLedgerSheet_DropsTotalsRow(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Entidad: ARMADA"},
		{"Codigo Contable 11050001"},
		{"Identificacion", "Descripcion", "Saldo Anterior", "Movimientos Debito", "Movimientos Credito", "Saldo Final"},
		{"TER 800123456", "Banco A", "10", "5", "1,000.50", "100"},
		{"TER 899999001", "Banco B", "", "", "", "-20.25"},
		{},
		{"", "Total", "10", "5", "1000.50", "79.75"},
	}

	records, report, err := ParseLedgerSheet("Hoja1", rows)
	if err != nil {
		t.Fatalf("ParseLedgerSheet err: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d, want 2", len(records))
	}
	if report.AccountCode != "11050001" || report.HeaderRow != 3 || report.Rows != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}

	r := records[0]
	if r.AccountCode != "11050001" || r.TruncatedCode != "11050" {
		t.Fatalf("codes=%q/%q", r.AccountCode, r.TruncatedCode)
	}
	if r.NIT != "800123456" || r.Identification != "TER 800123456" {
		t.Fatalf("nit=%q identification=%q", r.NIT, r.Identification)
	}
	if !r.CreditMovements.Equal(decimal.RequireFromString("1000.50")) {
		t.Fatalf("credit=%s", r.CreditMovements)
	}
	if !r.FinalBalance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("final=%s", r.FinalBalance)
	}
	if r.RowNo != 4 || r.SourceSheet != "Hoja1" {
		t.Fatalf("row=%d sheet=%q", r.RowNo, r.SourceSheet)
	}

	if !records[1].PriorBalance.IsZero() {
		t.Fatalf("empty prior balance should be zero, got %s", records[1].PriorBalance)
	}
	if !records[1].FinalBalance.Equal(decimal.RequireFromString("-20.25")) {
		t.Fatalf("final=%s", records[1].FinalBalance)
	}
}

func TestParseLedgerSheet_OnlyTotalsRow(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Codigo Contable 11050001"},
		{"Identificacion", "Descripcion", "Saldo Anterior", "Movimientos Debito", "Movimientos Credito", "Saldo Final"},
		{"", "Total", "0", "0", "0", "0"},
	}
	records, _, err := ParseLedgerSheet("s", rows)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records=%d, want 0", len(records))
	}
}

func TestParseLedgerSheet_MissingCode(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Identificacion", "Descripcion", "Saldo Anterior", "Movimientos Debito", "Movimientos Credito", "Saldo Final"},
		{"TER 1", "x", "0", "0", "0", "1"},
		{"", "Total", "0", "0", "0", "1"},
	}
	_, _, err := ParseLedgerSheet("SinCodigo", rows)
	var cnf *model.CodeNotFoundError
	if !errors.As(err, &cnf) || cnf.Sheet != "SinCodigo" {
		t.Fatalf("err=%v, want CodeNotFoundError for SinCodigo", err)
	}
}

func TestParseLedgerSheet_MissingHeader(t *testing.T) {
	t.Parallel()

	rows := [][]string{{"Codigo Contable 11050001"}, {"Identificacion", "Saldo Final"}}
	_, _, err := ParseLedgerSheet("s", rows)
	var hnf *model.HeaderNotFoundError
	if !errors.As(err, &hnf) {
		t.Fatalf("err=%v, want HeaderNotFoundError", err)
	}
}

func TestParseLedgerSheet_ShortCode(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Codigo Contable 12"},
		{"Identificacion", "Descripcion", "Saldo Anterior", "Movimientos Debito", "Movimientos Credito", "Saldo Final"},
	}
	_, _, err := ParseLedgerSheet("s", rows)
	var ke *model.KeyError
	if !errors.As(err, &ke) {
		t.Fatalf("err=%v, want KeyError", err)
	}
}

func TestParseLedgerSheet_InvalidNumber(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Codigo Contable 11050001"},
		{"Identificacion", "Descripcion", "Saldo Anterior", "Movimientos Debito", "Movimientos Credito", "Saldo Final"},
		{"TER 1", "x", "0", "0", "0", "abc"},
		{"", "Total", "0", "0", "0", "0"},
	}
	_, _, err := ParseLedgerSheet("s", rows)
	var ce *model.CellError
	if !errors.As(err, &ce) {
		t.Fatalf("err=%v, want CellError", err)
	}
	if ce.Row != 3 || ce.Column != ColFinalBalance {
		t.Fatalf("unexpected cell error: %+v", ce)
	}
}

func TestParseLedger_ConcatenatesSheetsInOrder(t *testing.T) {
	t.Parallel()

	order := []string{"Caja", "Bancos", "Ingresos"}
	wb := buildWorkbook(t, order, map[string][][]interface{}{
		"Caja": ledgerSheet("11050001",
			[]interface{}{"TER 800123456", "A", 0, 0, 0, 100},
			[]interface{}{"", "Total", 0, 0, 0, 100},
		),
		"Bancos": ledgerSheet("11100001",
			[]interface{}{"TER 800123456", "B", 0, 0, 0, 5},
			[]interface{}{"TER 899999001", "C", 0, 0, 0, 6},
			[]interface{}{"", "Total", 0, 0, 0, 11},
		),
		"Ingresos": ledgerSheet("48050001",
			[]interface{}{"TER 899999001", "D", 0, 0, 0, 7.5},
			[]interface{}{"", "Total", 0, 0, 0, 7.5},
		),
	})

	for _, workers := range []int{1, 4} {
		records, reports, err := ParseLedger(wb, workers)
		if err != nil {
			t.Fatalf("ParseLedger(workers=%d) err: %v", workers, err)
		}
		if len(records) != 4 {
			t.Fatalf("records=%d, want 4", len(records))
		}
		wantDesc := []string{"A", "B", "C", "D"}
		for i, r := range records {
			if r.Description != wantDesc[i] {
				t.Fatalf("records[%d].Description=%q, want %q", i, r.Description, wantDesc[i])
			}
		}
		if len(reports) != 3 || reports[1].SheetName != "Bancos" || reports[1].Rows != 2 {
			t.Fatalf("unexpected reports: %+v", reports)
		}
		if records[3].TruncatedCode != "48050" || !records[3].FinalBalance.Equal(decimal.RequireFromString("7.5")) {
			t.Fatalf("unexpected record: %+v", records[3])
		}
	}
}

func TestParseLedger_OneBadSheetFailsRun(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, []string{"Caja", "Rota"}, map[string][][]interface{}{
		"Caja": ledgerSheet("11050001",
			[]interface{}{"TER 1", "A", 0, 0, 0, 1},
			[]interface{}{"", "Total", 0, 0, 0, 1},
		),
		"Rota": {{"sin encabezado"}},
	})

	_, _, err := ParseLedger(wb, 2)
	var cnf *model.CodeNotFoundError
	if !errors.As(err, &cnf) || cnf.Sheet != "Rota" {
		t.Fatalf("err=%v, want CodeNotFoundError for Rota", err)
	}
}

func TestParseAmount_Separators(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":              "0",
		"100":           "100",
		"-20.25":        "-20.25",
		"1234.5":        "1234.5",
		"1,000.50":      "1000.50",
		"1,234,567":     "1234567",
		"1.234,56":      "1234.56",
		"1.234.567":     "1234567",
		"1.234.567,89":  "1234567.89",
		"1234,5":        "1234.5",
		"- 1.234,00":    "-1234",
		"12 345 678.90": "12345678.90",
	}
	for in, want := range cases {
		got, ok := parseAmount(in)
		if !ok {
			t.Fatalf("parseAmount(%q) rejected", in)
		}
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("parseAmount(%q)=%s, want %s", in, got, want)
		}
	}
	for _, bad := range []string{"abc", "1,2,3.4.5", "1.2.3,4,5"} {
		if _, ok := parseAmount(bad); ok {
			t.Fatalf("parseAmount(%q) accepted", bad)
		}
	}
}

func TestParseLedgerSheet_ColombianAmounts(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Codigo Contable 11050001"},
		{"Identificacion", "Descripcion", "Saldo Anterior", "Movimientos Debito", "Movimientos Credito", "Saldo Final"},
		{"TER 1", "x", "1.234.567", "0", "0", "1.234,56"},
		{"", "Total", "0", "0", "0", "0"},
	}
	records, _, err := ParseLedgerSheet("s", rows)
	if err != nil {
		t.Fatalf("ParseLedgerSheet err: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records=%d, want 1", len(records))
	}
	if !records[0].FinalBalance.Equal(decimal.RequireFromString("1234.56")) {
		t.Fatalf("final=%s, want 1234.56", records[0].FinalBalance)
	}
	if !records[0].PriorBalance.Equal(decimal.NewFromInt(1234567)) {
		t.Fatalf("prior=%s, want 1234567", records[0].PriorBalance)
	}
}
