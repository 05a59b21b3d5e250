// Package reconcile 三方对账：辅助账 ↔ 规则表 ↔ 目录，单次前向流水线。
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"reciprocas/internal/model"
	"reciprocas/internal/parser"
)

// Sources 一次对账的三个输入工作簿
type Sources struct {
	Ledger    *excelize.File
	Rules     *excelize.File
	Directory *excelize.File
}

// Options 对账选项
type Options struct {
	RulesSheet      string // 规则 sheet 名称
	DirectoryMarker string // 目录 sheet 名称关键字
	Workers         int    // 辅助账 sheet 并发解析数
	Progress        func(ProgressEvent)
}

// Result 对账结果；Blocked 时调用方不得生成报表
type Result struct {
	RunID      string                     `json:"runId"`
	Records    []model.ConsolidatedRecord `json:"records"`
	Duplicates []model.Duplicate          `json:"duplicates"`
	Blocked    bool                       `json:"blocked"`
	Sheets     []model.SheetReport        `json:"sheets"`

	Accounts int           `json:"accounts"`
	Rules    int           `json:"rules"`
	Entities int           `json:"entities"`
	Duration time.Duration `json:"duration"`
}

// Reconciler 对账器
type Reconciler struct {
	logger *zap.Logger
	opts   Options
}

// NewReconciler 创建对账器
func NewReconciler(logger *zap.Logger, opts Options) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.RulesSheet == "" {
		opts.RulesSheet = "Cuentas al 100%"
	}
	if opts.DirectoryMarker == "" {
		opts.DirectoryMarker = "Directorio"
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Reconciler{logger: logger, opts: opts}
}

// Run 执行 parse → normalize → merge → validate → classify
//
// 结构错误（缺表头/缺代码/缺 sheet）直接返回 *model.SourceError；重复键不是错误，体现在 Result.Blocked。
func (r *Reconciler) Run(ctx context.Context, src Sources) (*Result, error) {
	if src.Ledger == nil || src.Rules == nil || src.Directory == nil {
		return nil, fmt.Errorf("reconcile: all three sources are required")
	}

	start := time.Now()
	res := &Result{RunID: uuid.New().String()}
	log := r.logger.With(zap.String("run_id", res.RunID))

	reportProgress(r.opts.Progress, ProgressEvent{Percent: 5, Stage: "Leyendo archivo SIIF", Source: model.SourceLedger})
	accounts, sheets, err := parser.ParseLedger(src.Ledger, r.opts.Workers)
	if err != nil {
		return nil, &model.SourceError{Source: model.SourceLedger, Err: err}
	}
	res.Sheets = append(res.Sheets, sheets...)
	log.Info("ledger parsed", zap.Int("sheets", len(sheets)), zap.Int("records", len(accounts)))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reportProgress(r.opts.Progress, ProgressEvent{
		Percent: 30,
		Stage:   "Archivo SIIF leído",
		Source:  model.SourceLedger,
		Sheets:  len(sheets),
		Records: len(accounts),
	})
	rules, rulesSheet, err := parser.ParseRules(src.Rules, r.opts.RulesSheet)
	if err != nil {
		return nil, &model.SourceError{Source: model.SourceRules, Err: err}
	}
	res.Sheets = append(res.Sheets, rulesSheet)
	log.Info("rules parsed", zap.String("sheet", rulesSheet.SheetName), zap.Int("entries", len(rules)))

	reportProgress(r.opts.Progress, ProgressEvent{
		Percent: 45,
		Stage:   "Reglas leídas",
		Source:  model.SourceRules,
		Sheet:   rulesSheet.SheetName,
		Records: len(rules),
	})
	directory, dirSheet, err := parser.ParseDirectory(src.Directory, r.opts.DirectoryMarker)
	if err != nil {
		return nil, &model.SourceError{Source: model.SourceDirectory, Err: err}
	}
	res.Sheets = append(res.Sheets, dirSheet)
	log.Info("directory parsed", zap.String("sheet", dirSheet.SheetName), zap.Int("entries", len(directory)))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Accounts = len(accounts)
	res.Rules = len(rules)
	res.Entities = len(directory)

	reportProgress(r.opts.Progress, ProgressEvent{
		Percent: 60,
		Stage:   "Directorio leído",
		Source:  model.SourceDirectory,
		Sheet:   dirSheet.SheetName,
		Records: len(directory),
	})
	merged := Merge(accounts, rules, directory)
	log.Info("sources merged", zap.Int("rows", len(merged)))

	reportProgress(r.opts.Progress, ProgressEvent{Percent: 75, Stage: "Archivos cruzados", Records: len(merged)})
	v := Validate(merged, rules, directory)
	res.Duplicates = v.All()
	res.Blocked = v.Blocked()
	if res.Blocked {
		log.Warn("duplicate keys block the statement",
			zap.Int("duplicate_nits", len(v.DuplicateNITs)),
			zap.Int("duplicate_codes", len(v.DuplicateCodes)),
		)
	}

	reportProgress(r.opts.Progress, ProgressEvent{
		Percent:    90,
		Stage:      "Duplicados verificados",
		Records:    len(merged),
		Duplicates: len(res.Duplicates),
	})
	records, err := ClassifyAll(merged)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	res.Records = SortByTruncatedCode(records)
	res.Duration = time.Since(start)

	reportProgress(r.opts.Progress, ProgressEvent{Percent: 100, Stage: "Conciliación terminada", Records: len(res.Records)})
	log.Info("reconciliation finished",
		zap.Int("records", len(res.Records)),
		zap.Bool("blocked", res.Blocked),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}
