package model

// SourceKind 输入来源类型
type SourceKind string

const (
	SourceLedger    SourceKind = "ledger"    // SIIF 辅助账
	SourceRules     SourceKind = "rules"     // 规则表
	SourceDirectory SourceKind = "directory" // 实体目录
)

// Label 面向用户的来源名称
func (k SourceKind) Label() string {
	switch k {
	case SourceLedger:
		return "SIIF"
	case SourceRules:
		return "Reglas"
	case SourceDirectory:
		return "Directorio"
	default:
		return string(k)
	}
}

// SheetReport 单个 sheet 的解析结果
type SheetReport struct {
	Source      SourceKind `json:"source"`
	SheetName   string     `json:"sheetName"`
	HeaderRow   int        `json:"headerRow"` // Excel 行号（1 起）
	AccountCode string     `json:"accountCode,omitempty"`
	Rows        int        `json:"rows"`
}

// Duplicate 关联键重复（阻断输出）
type Duplicate struct {
	Source SourceKind `json:"source"`
	Key    string     `json:"key"`
	Count  int        `json:"count"`
	Rows   []int      `json:"rows"`
}

// Message 面向用户的修正提示
func (d Duplicate) Message() string {
	switch d.Source {
	case SourceDirectory:
		return "El NIT " + d.Key + " está repetido. Deja solo uno en el archivo de Directorio"
	case SourceRules:
		return "El Código " + d.Key + " está repetido. Deja solo uno en el archivo de Reglas"
	default:
		return "La clave " + d.Key + " está repetida en " + d.Source.Label()
	}
}
