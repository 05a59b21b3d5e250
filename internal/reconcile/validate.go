package reconcile

import (
	"sort"

	"reciprocas/internal/model"
)

// Validation 重复键检查结果
type Validation struct {
	DuplicateNITs  []model.Duplicate `json:"duplicateNits"`
	DuplicateCodes []model.Duplicate `json:"duplicateCodes"`
}

// Blocked 存在任何重复即不输出
func (v Validation) Blocked() bool {
	return len(v.DuplicateNITs) > 0 || len(v.DuplicateCodes) > 0
}

// All 先 NIT 后 Código
func (v Validation) All() []model.Duplicate {
	out := make([]model.Duplicate, 0, len(v.DuplicateNITs)+len(v.DuplicateCodes))
	out = append(out, v.DuplicateNITs...)
	return append(out, v.DuplicateCodes...)
}

// Validate 只检查合并结果中出现过的键：
// 规则表按 Code 限定在结果的 Code 集合内，目录按 CleanedNIT 限定在结果的 NIT 集合内，
// 然后按各自的键计数。结果集之外的重复不报告。
func Validate(merged []Joined, rules []model.RuleEntry, directory []model.DirectoryEntry) Validation {
	codes := make(map[string]struct{}, len(merged))
	nits := make(map[string]struct{}, len(merged))
	for _, j := range merged {
		codes[j.Rule.Code] = struct{}{}
		nits[j.Account.NIT] = struct{}{}
	}

	ruleRows := make(map[string][]int)
	for _, r := range rules {
		if _, ok := codes[r.Code]; ok {
			ruleRows[r.Code] = append(ruleRows[r.Code], r.RowNo)
		}
	}
	dirRows := make(map[string][]int)
	for _, d := range directory {
		if _, ok := nits[d.CleanedNIT]; ok {
			dirRows[d.CleanedNIT] = append(dirRows[d.CleanedNIT], d.RowNo)
		}
	}

	return Validation{
		DuplicateNITs:  duplicates(model.SourceDirectory, dirRows),
		DuplicateCodes: duplicates(model.SourceRules, ruleRows),
	}
}

func duplicates(source model.SourceKind, rowsByKey map[string][]int) []model.Duplicate {
	out := make([]model.Duplicate, 0)
	for key, rows := range rowsByKey {
		if len(rows) < 2 {
			continue
		}
		out = append(out, model.Duplicate{
			Source: source,
			Key:    key,
			Count:  len(rows),
			Rows:   rows,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
