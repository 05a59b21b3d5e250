package model

import "github.com/shopspring/decimal"

// AccountRecord 辅助账（SIIF）单行数据
type AccountRecord struct {
	SourceSheet string `json:"sourceSheet"`
	RowNo       int    `json:"rowNo"` // Excel 行号（1 起）

	Identification  string          `json:"identification"`
	Description     string          `json:"description"`
	PriorBalance    decimal.Decimal `json:"priorBalance"`
	DebitMovements  decimal.Decimal `json:"debitMovements"`
	CreditMovements decimal.Decimal `json:"creditMovements"`
	FinalBalance    decimal.Decimal `json:"finalBalance"`

	AccountCode   string `json:"accountCode"`   // 表头上方的 "Codigo Contable <digits>"
	TruncatedCode string `json:"truncatedCode"` // AccountCode 去掉末 3 位，关联键
	NIT           string `json:"nit"`           // Identification 去掉 "TER" 前缀
}

// RuleEntry 规则表（Cuentas al 100%）单行
type RuleEntry struct {
	RowNo       int    `json:"rowNo"`
	Code        string `json:"code"` // 形如 "1.1.05"
	Description string `json:"description"`
	Reportable  string `json:"reportable"`
	CleanedCode string `json:"cleanedCode"` // 去掉 '.'，与 TruncatedCode 同构
}

// DirectoryEntry 实体目录（Directorio）单行
type DirectoryEntry struct {
	RowNo      int    `json:"rowNo"`
	NIT        string `json:"nit"`        // 原值，可能带 ":" 后缀说明
	CleanedNIT string `json:"cleanedNit"` // ":" 之前的部分，关联键
	EntityID   string `json:"entityId"`
	LegalName  string `json:"legalName"`
}

// ConsolidatedRecord 合并 + 分类后的报表行
type ConsolidatedRecord struct {
	AccountCode     string          `json:"accountCode"` // 规则表 Code，首位 ∈ {1,2,4,5}
	TruncatedCode   string          `json:"truncatedCode"`
	Description     string          `json:"description"`
	EntityID        string          `json:"entityId"`
	LegalName       string          `json:"legalName"`
	FinalBalance    decimal.Decimal `json:"finalBalance"`
	CurrentValue    decimal.Decimal `json:"currentValue"`
	NonCurrentValue decimal.Decimal `json:"nonCurrentValue"`
}
