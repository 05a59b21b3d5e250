package reconcile

import (
	"strings"

	"reciprocas/internal/model"
)

// reportablePrefixes 报表范围内的代码首位
const reportablePrefixes = "1245"

// Joined 关联中间结果；不修改任何一侧的原记录
type Joined struct {
	Account model.AccountRecord
	Rule    model.RuleEntry
	Entity  model.DirectoryEntry
}

// IsReportable 代码首位是否属于 {1,2,4,5}
func IsReportable(code string) bool {
	return code != "" && strings.ContainsRune(reportablePrefixes, rune(code[0]))
}

// JoinRules 内连接 TruncatedCode = CleanedCode
//
// 键重复时结果按笛卡尔积扩展（左侧顺序优先，再按规则表顺序），是否阻断由 Validate 决定。
func JoinRules(accounts []model.AccountRecord, rules []model.RuleEntry) []Joined {
	byCode := make(map[string][]model.RuleEntry, len(rules))
	for _, r := range rules {
		byCode[r.CleanedCode] = append(byCode[r.CleanedCode], r)
	}

	out := make([]Joined, 0, len(accounts))
	for _, a := range accounts {
		for _, r := range byCode[a.TruncatedCode] {
			out = append(out, Joined{Account: a, Rule: r})
		}
	}
	return out
}

// FilterReportable 仅保留规则代码首位在 {1,2,4,5} 的行
func FilterReportable(rows []Joined) []Joined {
	out := make([]Joined, 0, len(rows))
	for _, j := range rows {
		if IsReportable(j.Rule.Code) {
			out = append(out, j)
		}
	}
	return out
}

// JoinDirectory 内连接 NIT = CleanedNIT
func JoinDirectory(rows []Joined, directory []model.DirectoryEntry) []Joined {
	byNIT := make(map[string][]model.DirectoryEntry, len(directory))
	for _, d := range directory {
		byNIT[d.CleanedNIT] = append(byNIT[d.CleanedNIT], d)
	}

	out := make([]Joined, 0, len(rows))
	for _, j := range rows {
		for _, d := range byNIT[j.Account.NIT] {
			out = append(out, Joined{Account: j.Account, Rule: j.Rule, Entity: d})
		}
	}
	return out
}

// Merge 辅助账 ↔ 规则表 → 过滤 → ↔ 目录
func Merge(accounts []model.AccountRecord, rules []model.RuleEntry, directory []model.DirectoryEntry) []Joined {
	return JoinDirectory(FilterReportable(JoinRules(accounts, rules)), directory)
}
