package model

import (
	"strconv"
	"time"
)

// CellKind 单元格值类型标签
type CellKind string

const (
	CellNull   CellKind = "null"
	CellString CellKind = "string"
	CellNumber CellKind = "number"
	CellDate   CellKind = "date"
)

// Cell 带类型标签的标量值，保留原始文本便于导出和精确计算
type Cell struct {
	Kind CellKind
	Raw  string    // 原始文本，CellNull 时为空
	Num  float64   // Kind == CellNumber 时有效
	Date time.Time // Kind == CellDate 时有效
}

// NullCell 空单元格
func NullCell() Cell {
	return Cell{Kind: CellNull}
}

// StringCell 文本单元格
func StringCell(s string) Cell {
	return Cell{Kind: CellString, Raw: s}
}

// NumberCell 数值单元格
func NumberCell(raw string, v float64) Cell {
	return Cell{Kind: CellNumber, Raw: raw, Num: v}
}

// DateCell 日期单元格
func DateCell(raw string, t time.Time) Cell {
	return Cell{Kind: CellDate, Raw: raw, Date: t}
}

// IsNull 是否为空值
func (c Cell) IsNull() bool {
	return c.Kind == CellNull
}

// String 渲染为文本：空值返回空串，数值返回去尾零表示，日期返回 ISO 格式
func (c Cell) String() string {
	switch c.Kind {
	case CellNull:
		return ""
	case CellNumber:
		if c.Raw != "" {
			return c.Raw
		}
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellDate:
		if c.Raw != "" {
			return c.Raw
		}
		return c.Date.Format("2006-01-02")
	default:
		return c.Raw
	}
}

// Value 渲染为 JSON 友好的值：空值为 nil，数值为 float64，其余为文本
func (c Cell) Value() any {
	switch c.Kind {
	case CellNull:
		return nil
	case CellNumber:
		return c.Num
	default:
		return c.String()
	}
}
