package model

import "strings"

// Status 激活状态（跨表匹配的结果分类）
type Status string

const (
	StatusActive   Status = "D"         // 主表中有效
	StatusCheck    Status = "0"         // 命中但状态待确认
	StatusInactive Status = "X"         // 主表中已停用
	StatusNotFound Status = "NOT_FOUND" // 主表未命中或键缺失
)

// AllStatuses 固定顺序的完整状态列表
func AllStatuses() []Status {
	return []Status{StatusActive, StatusCheck, StatusInactive, StatusNotFound}
}

// ParseStatus 把主表状态列的原始值归一到状态枚举
// 非 D/0/X 的值（含空值）归入待确认，second 值表示是否为规范值
func ParseStatus(raw string) (Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "D":
		return StatusActive, true
	case "0":
		return StatusCheck, true
	case "X":
		return StatusInactive, true
	default:
		return StatusCheck, false
	}
}

// Label 展示名
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusCheck:
		return "Check"
	case StatusInactive:
		return "Inactive"
	case StatusNotFound:
		return "Not Found"
	default:
		return string(s)
	}
}

// Matched 是否命中主表
func (s Status) Matched() bool {
	return s == StatusActive || s == StatusCheck || s == StatusInactive
}
