// Package keys 关联键规范化：三个来源的标识字段格式不一致，统一到可比较的形式。
package keys

import (
	"regexp"
	"strings"

	"reciprocas/internal/model"
)

// codeSuffixLen 辅助账代码固定 3 位后缀（如 "001"）
const codeSuffixLen = 3

var reTerPrefix = regexp.MustCompile(`^TER\s*`)

// TruncateCode 去掉辅助账代码末 3 位；截断后为空视为失败
func TruncateCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if len(code) <= codeSuffixLen {
		return "", &model.KeyError{Field: "account code", Value: code}
	}
	return code[:len(code)-codeSuffixLen], nil
}

// CleanCode 去掉规则表代码中的 '.'
func CleanCode(code string) string {
	return strings.ReplaceAll(strings.TrimSpace(code), ".", "")
}

// LedgerNIT 辅助账 Identificacion -> NIT
func LedgerNIT(identification string) string {
	return reTerPrefix.ReplaceAllString(strings.TrimSpace(identification), "")
}

// DirectoryNIT 目录 Nit -> 关联键（":" 之前）
func DirectoryNIT(nit string) string {
	nit = strings.TrimSpace(nit)
	if i := strings.IndexByte(nit, ':'); i >= 0 {
		nit = nit[:i]
	}
	return strings.TrimSpace(nit)
}
