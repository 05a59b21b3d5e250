package model

import (
	"fmt"
	"strings"
)

// HeaderNotFoundError sheet 中找不到包含全部期望列名的表头行
type HeaderNotFoundError struct {
	Sheet  string
	Labels []string
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q: header row not found (expected %s)", e.Sheet, strings.Join(e.Labels, ", "))
}

// CodeNotFoundError 辅助账 sheet 中找不到 "Codigo Contable" 代码
type CodeNotFoundError struct {
	Sheet string
}

func (e *CodeNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q: account code token not found", e.Sheet)
}

// SheetNotFoundError 工作簿中找不到目标 sheet
type SheetNotFoundError struct {
	Want      string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found (available: %s)", e.Want, strings.Join(e.Available, ", "))
}

// CellError 单元格取值失败
type CellError struct {
	Sheet  string
	Row    int
	Column string
	Value  string
}

func (e *CellError) Error() string {
	return fmt.Sprintf("sheet %q row %d column %q: invalid number %q", e.Sheet, e.Row, e.Column, e.Value)
}

// KeyError 关联键无法规范化
type KeyError struct {
	Field string
	Value string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("cannot normalize %s %q", e.Field, e.Value)
}

// ClassificationError 代码首位不在 {1,2,4,5}，说明上游过滤失效
type ClassificationError struct {
	Code string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("account code %q outside reportable prefixes", e.Code)
}

// SourceError 标记出错的输入来源
type SourceError struct {
	Source SourceKind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
