package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// dateLayouts 支持的日期格式，按常见程度排序
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006/01/02",
	"02.01.2006",
	"01/02/2006",
}

// ParseNumber 尝试把文本解析为数值
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseDate 尝试把文本解析为日期
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InferColumnType 基于非空值推断列类型
//
// 抽样的非空值全部可解析为数值则判数值列，全部可解析为日期则判日期列；
// 否则按去重比例区分分类列（< 50% 唯一）和普通文本列。
func InferColumnType(cells []model.Cell, sampleSize int) model.ColumnType {
	if sampleSize <= 0 {
		sampleSize = 100
	}

	sampled := 0
	allNumeric, allDate := true, true
	unique := make(map[string]struct{})
	nonNull := 0

	for _, c := range cells {
		if c.IsNull() {
			continue
		}
		nonNull++
		s := c.String()
		unique[s] = struct{}{}
		if sampled >= sampleSize {
			continue
		}
		sampled++
		if allNumeric {
			if _, ok := ParseNumber(s); !ok {
				allNumeric = false
			}
		}
		if allDate {
			if _, ok := ParseDate(s); !ok {
				allDate = false
			}
		}
	}

	if nonNull == 0 {
		return model.ColumnString
	}
	if allNumeric {
		return model.ColumnNumeric
	}
	if allDate {
		return model.ColumnDate
	}
	if float64(len(unique))/float64(nonNull) < 0.5 {
		return model.ColumnCategorical
	}
	return model.ColumnString
}

// coerceCell 按列类型转换单元格，无法解析的值归为空值
func coerceCell(c model.Cell, typ model.ColumnType) model.Cell {
	if c.IsNull() {
		return c
	}
	switch typ {
	case model.ColumnNumeric:
		if v, ok := ParseNumber(c.Raw); ok {
			return model.NumberCell(strings.TrimSpace(c.Raw), v)
		}
		return model.NullCell()
	case model.ColumnDate:
		if t, ok := ParseDate(c.Raw); ok {
			return model.DateCell(strings.TrimSpace(c.Raw), t)
		}
		return model.NullCell()
	default:
		return c
	}
}

// ComputeColumnStats 推断所有列类型并完成单元格转换，返回每列画像
func ComputeColumnStats(t *model.Table, sampleSize int) []model.ColumnStats {
	stats := make([]model.ColumnStats, 0, len(t.Columns))
	for idx, col := range t.Columns {
		column := make([]model.Cell, 0, len(t.Rows))
		for _, row := range t.Rows {
			column = append(column, row[idx])
		}
		typ := InferColumnType(column, sampleSize)

		nonNull := 0
		unique := make(map[string]struct{})
		for ri, row := range t.Rows {
			cell := coerceCell(row[idx], typ)
			t.Rows[ri][idx] = cell
			if cell.IsNull() {
				continue
			}
			nonNull++
			unique[cell.String()] = struct{}{}
		}

		completeness := 0.0
		if len(t.Rows) > 0 {
			completeness = float64(nonNull) / float64(len(t.Rows))
		}
		stats = append(stats, model.ColumnStats{
			Name:         col,
			Type:         typ,
			NonNull:      nonNull,
			Completeness: completeness,
			UniqueCount:  len(unique),
		})
	}
	return stats
}
