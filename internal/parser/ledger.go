package parser

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"reciprocas/internal/keys"
	"reciprocas/internal/model"
)

// 辅助账列名
const (
	ColIdentification  = "Identificacion"
	ColDescription     = "Descripcion"
	ColPriorBalance    = "Saldo Anterior"
	ColDebitMovements  = "Movimientos Debito"
	ColCreditMovements = "Movimientos Credito"
	ColFinalBalance    = "Saldo Final"
)

// LedgerLabels 辅助账表头必须包含的列
var LedgerLabels = []string{
	ColIdentification,
	ColDescription,
	ColPriorBalance,
	ColDebitMovements,
	ColCreditMovements,
	ColFinalBalance,
}

// ParseLedgerSheet 解析单个辅助账 sheet
//
// 代码与表头都是首个命中；表头之后的全空行跳过，最后一行是合计行，不计入记录。
func ParseLedgerSheet(sheet string, rows [][]string) ([]model.AccountRecord, model.SheetReport, error) {
	report := model.SheetReport{Source: model.SourceLedger, SheetName: sheet}

	code, err := LocateCode(sheet, rows)
	if err != nil {
		return nil, report, err
	}
	truncated, err := keys.TruncateCode(code)
	if err != nil {
		return nil, report, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	header, err := LocateHeader(sheet, rows, LedgerLabels)
	if err != nil {
		return nil, report, err
	}
	report.AccountCode = code
	report.HeaderRow = header.Index + 1

	type dataRow struct {
		rowNo int
		cells []string
	}
	data := make([]dataRow, 0, len(rows))
	for i, row := range header.Rows(rows) {
		if isBlankRow(header, row, LedgerLabels) {
			continue
		}
		data = append(data, dataRow{rowNo: header.Index + i + 2, cells: row})
	}
	if len(data) > 0 {
		data = data[:len(data)-1]
	}

	records := make([]model.AccountRecord, 0, len(data))
	for _, d := range data {
		amount := func(col string) (decimal.Decimal, error) {
			raw := header.Cell(d.cells, col)
			v, ok := parseAmount(raw)
			if !ok {
				return decimal.Zero, &model.CellError{Sheet: sheet, Row: d.rowNo, Column: col, Value: raw}
			}
			return v, nil
		}

		prior, err := amount(ColPriorBalance)
		if err != nil {
			return nil, report, err
		}
		debit, err := amount(ColDebitMovements)
		if err != nil {
			return nil, report, err
		}
		credit, err := amount(ColCreditMovements)
		if err != nil {
			return nil, report, err
		}
		final, err := amount(ColFinalBalance)
		if err != nil {
			return nil, report, err
		}

		identification := header.Cell(d.cells, ColIdentification)
		records = append(records, model.AccountRecord{
			SourceSheet:     sheet,
			RowNo:           d.rowNo,
			Identification:  identification,
			Description:     header.Cell(d.cells, ColDescription),
			PriorBalance:    prior,
			DebitMovements:  debit,
			CreditMovements: credit,
			FinalBalance:    final,
			AccountCode:     code,
			TruncatedCode:   truncated,
			NIT:             keys.LedgerNIT(identification),
		})
	}

	report.Rows = len(records)
	return records, report, nil
}

type ledgerSheetResult struct {
	records []model.AccountRecord
	report  model.SheetReport
	err     error
}

// ParseLedger 解析辅助账工作簿的全部 sheet，按 sheet 顺序拼接
//
// 行读取顺序进行；各 sheet 的解析互不依赖，最多 workers 个并发。
// 任一 sheet 结构错误即整体失败，返回按 sheet 顺序的第一个错误。
func ParseLedger(wb *excelize.File, workers int) ([]model.AccountRecord, []model.SheetReport, error) {
	sheets := wb.GetSheetList()
	sheetRows := make([][][]string, len(sheets))
	for i, s := range sheets {
		rows, err := ReadRows(wb, s)
		if err != nil {
			return nil, nil, err
		}
		sheetRows[i] = rows
	}

	if workers < 1 {
		workers = 1
	}
	results := make([]ledgerSheetResult, len(sheets))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range sheets {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			records, report, err := ParseLedgerSheet(sheets[i], sheetRows[i])
			results[i] = ledgerSheetResult{records: records, report: report, err: err}
		}(i)
	}
	wg.Wait()

	var records []model.AccountRecord
	reports := make([]model.SheetReport, 0, len(sheets))
	for _, r := range results {
		if r.err != nil {
			return nil, nil, r.err
		}
		records = append(records, r.records...)
		reports = append(reports, r.report)
	}
	return records, reports, nil
}

func isBlankRow(h Header, row []string, labels []string) bool {
	for _, l := range labels {
		if h.Cell(row, l) != "" {
			return false
		}
	}
	return true
}
