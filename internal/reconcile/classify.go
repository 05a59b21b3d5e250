package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"reciprocas/internal/model"
)

// Classify 按代码首位划分：1/2 非流动，4/5 流动
func Classify(j Joined) (model.ConsolidatedRecord, error) {
	rec := model.ConsolidatedRecord{
		AccountCode:     j.Rule.Code,
		TruncatedCode:   j.Account.TruncatedCode,
		Description:     j.Rule.Description,
		EntityID:        j.Entity.EntityID,
		LegalName:       j.Entity.LegalName,
		FinalBalance:    j.Account.FinalBalance,
		CurrentValue:    decimal.Zero,
		NonCurrentValue: decimal.Zero,
	}

	if rec.AccountCode == "" {
		return model.ConsolidatedRecord{}, &model.ClassificationError{Code: rec.AccountCode}
	}
	switch rec.AccountCode[0] {
	case '1', '2':
		rec.NonCurrentValue = j.Account.FinalBalance
	case '4', '5':
		rec.CurrentValue = j.Account.FinalBalance
	default:
		return model.ConsolidatedRecord{}, &model.ClassificationError{Code: rec.AccountCode}
	}
	return rec, nil
}

// ClassifyAll 逐行分类，遇到越界代码立即失败
func ClassifyAll(rows []Joined) ([]model.ConsolidatedRecord, error) {
	out := make([]model.ConsolidatedRecord, 0, len(rows))
	for _, j := range rows {
		rec, err := Classify(j)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// SortByTruncatedCode 按 TruncatedCode 升序（稳定排序，同键保持合并顺序）
func SortByTruncatedCode(records []model.ConsolidatedRecord) []model.ConsolidatedRecord {
	out := make([]model.ConsolidatedRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TruncatedCode < out[j].TruncatedCode
	})
	return out
}
