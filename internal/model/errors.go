package model

import (
	"fmt"
	"strings"
)

// SchemaError 规范化后仍存在重复列名，该表无法继续处理
type SchemaError struct {
	Sheet  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheet %q has duplicate column %q after normalization", e.Sheet, e.Column)
}

// EmptySheetError 清洗后没有可用数据行
type EmptySheetError struct {
	Sheet string
}

func (e *EmptySheetError) Error() string {
	return fmt.Sprintf("sheet %q has no usable rows after cleaning", e.Sheet)
}

// InvalidColumnError 请求的列在清洗后的表中不存在
type InvalidColumnError struct {
	Column string
	Sheets []string // 缺失该列的表名
}

func (e *InvalidColumnError) Error() string {
	if len(e.Sheets) == 0 {
		return fmt.Sprintf("column %q not found", e.Column)
	}
	return fmt.Sprintf("column %q not found in sheet(s): %s", e.Column, strings.Join(e.Sheets, ", "))
}

// NotFoundError 请求的文件或表不存在
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return e.What + " not found"
}

// InvalidStateError 会话状态不满足当前操作的前置条件
type InvalidStateError struct {
	Operation string
	Reason    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Operation, e.Reason)
}

// DuplicateKeyWarning 主表键重复，仅记录不阻断，首次出现的行生效
type DuplicateKeyWarning struct {
	Key      string `json:"key"`
	FirstRow int    `json:"first_row"`
	DupRow   int    `json:"dup_row"`
}

func (w DuplicateKeyWarning) String() string {
	return fmt.Sprintf("duplicate key %q at row %d (first seen at row %d)", w.Key, w.DupRow, w.FirstRow)
}
