package matcher

import (
	"strings"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// Engine 跨表匹配引擎
//
// 以连接键把目标表逐行对齐到主表，解析每行的激活状态。
type Engine struct {
	// StatusColumns 主表状态承载列的候选规范名，按顺序探测
	StatusColumns []string
}

// NewEngine 创建使用默认状态列候选的引擎
func NewEngine() *Engine {
	return &Engine{
		StatusColumns: []string{"ACTIVATION_STATUS", "STATUS", "ACTIVATION", "STATE"},
	}
}

// Stats 匹配过程统计
type Stats struct {
	MasterRecords int    `json:"master_records"`
	UniqueKeys    int    `json:"master_unique_records"`
	TargetRecords int    `json:"target_records"`
	EmptyKeys     int    `json:"empty_target_keys"`
	StatusColumn  string `json:"status_column,omitempty"`
}

// Outcome 一次匹配的完整产物，对相同输入完全可复现
type Outcome struct {
	Results     []model.LookupResult
	ResultTable *model.Table // 目标表 + 第二列插入 ACTIVATION_STATUS
	Warnings    []model.DuplicateKeyWarning
	Stats       Stats
}

// NormalizeKey 连接键归一化：去首尾空白并转大写
func NormalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Lookup 以 keyColumn 连接目标表与主表
//
// 主表键重复时首次出现的行生效，后续出现记为 DuplicateKeyWarning；
// 目标行键为空或未命中时状态为 NOT_FOUND。输出顺序与目标表行序一致，
// 入参两表不被修改。
func (e *Engine) Lookup(master, target *model.CleanedTable, keyColumn string) (*Outcome, error) {
	masterIdx := master.CanonicalIndex(keyColumn)
	targetIdx := target.CanonicalIndex(keyColumn)
	if masterIdx < 0 || targetIdx < 0 {
		var missing []string
		if masterIdx < 0 {
			missing = append(missing, master.Name)
		}
		if targetIdx < 0 {
			missing = append(missing, target.Name)
		}
		return nil, &model.InvalidColumnError{Column: keyColumn, Sheets: missing}
	}

	statusIdx := e.findStatusColumn(master.Table)

	index, warnings := buildKeyIndex(master.Table, masterIdx)

	results := make([]model.LookupResult, 0, target.RowCount())
	emptyKeys := 0
	for _, row := range target.Rows {
		res := model.LookupResult{
			Row:       row.Clone(),
			Status:    model.StatusNotFound,
			MasterRow: -1,
		}
		key := NormalizeKey(row[targetIdx].String())
		res.Key = key
		if key == "" {
			emptyKeys++
		} else if mi, ok := index[key]; ok {
			res.MasterRow = mi
			res.Status = resolveStatus(master.Table, statusIdx, mi)
		}
		results = append(results, res)
	}

	resultTable := buildResultTable(target.Table, results)

	stats := Stats{
		MasterRecords: master.RowCount(),
		UniqueKeys:    len(index),
		TargetRecords: target.RowCount(),
		EmptyKeys:     emptyKeys,
	}
	if statusIdx >= 0 {
		stats.StatusColumn = master.Columns[statusIdx]
	}

	return &Outcome{
		Results:     results,
		ResultTable: resultTable,
		Warnings:    warnings,
		Stats:       stats,
	}, nil
}

// findStatusColumn 在主表中探测状态承载列，未找到返回 -1
func (e *Engine) findStatusColumn(t *model.Table) int {
	for _, candidate := range e.StatusColumns {
		if idx := t.CanonicalIndex(candidate); idx >= 0 {
			return idx
		}
	}
	return -1
}

// buildKeyIndex 构建归一化键到首次出现行的索引，重复键记为告警
func buildKeyIndex(t *model.Table, keyIdx int) (map[string]int, []model.DuplicateKeyWarning) {
	index := make(map[string]int, len(t.Rows))
	var warnings []model.DuplicateKeyWarning
	for ri, row := range t.Rows {
		key := NormalizeKey(row[keyIdx].String())
		if key == "" {
			continue
		}
		if first, ok := index[key]; ok {
			warnings = append(warnings, model.DuplicateKeyWarning{Key: key, FirstRow: first, DupRow: ri})
			continue
		}
		index[key] = ri
	}
	return index, warnings
}

// resolveStatus 解析命中行的状态
//
// 主表无状态列时命中即视为有效（D）；状态列取值为空或不规范时归入
// 待确认（0）。
func resolveStatus(master *model.Table, statusIdx, row int) model.Status {
	if statusIdx < 0 {
		return model.StatusActive
	}
	cell := master.Rows[row][statusIdx]
	if cell.IsNull() {
		return model.StatusCheck
	}
	status, _ := model.ParseStatus(cell.String())
	return status
}

// buildResultTable 目标表副本加上 ACTIVATION_STATUS 列（第二列位置）
// 目标表已有同名列时就地覆盖取值
func buildResultTable(target *model.Table, results []model.LookupResult) *model.Table {
	out := target.Clone()
	out.Name = target.Name

	idx := out.ColumnIndex("ACTIVATION_STATUS")
	if idx < 0 {
		pos := 1
		if len(out.Columns) < 1 {
			pos = 0
		}
		_ = out.InsertColumn(pos, "ACTIVATION_STATUS", model.NullCell())
		idx = pos
	}
	for ri := range out.Rows {
		out.Rows[ri][idx] = model.StringCell(string(results[ri].Status))
	}
	return out
}
