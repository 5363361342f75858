package matcher

import (
	"fmt"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// UpdateOutcome 主表回写的完整产物
type UpdateOutcome struct {
	Master *model.Table // 回写后的主表快照，入参主表不被修改
	Report *model.UpdateReport
}

// ApplyUpdates 按激活状态把匹配结果回写到主表
//
// 规则（按 X、D、0、NOT_FOUND 的顺序分组处理）：
//   - X：主表已停用，跳过；
//   - D：把命中主表行的 lookupColumn 置为 X，记一次更新；
//   - 0：键已存在于主表记为重复，否则作为新行插入且 lookupColumn 置为 X；
//   - NOT_FOUND：直接作为新行插入，lookupColumn 置为 X。
//
// 新行按主表列结构构造，从目标行拷贝同名列（ACTIVATION_STATUS 除外）。
func ApplyUpdates(master *model.CleanedTable, result *model.Table, lookupColumn string) (*UpdateOutcome, error) {
	lookupIdx := master.CanonicalIndex(lookupColumn)
	if lookupIdx < 0 {
		return nil, &model.InvalidColumnError{Column: lookupColumn, Sheets: []string{master.Name}}
	}
	statusIdx := result.ColumnIndex("ACTIVATION_STATUS")
	if statusIdx < 0 {
		return nil, &model.InvalidStateError{
			Operation: "process updates",
			Reason:    "result table has no ACTIVATION_STATUS column, run the lookup first",
		}
	}

	keyColumn := master.Key.Column
	if !master.Key.Found {
		return nil, &model.InvalidStateError{
			Operation: "process updates",
			Reason:    "no key column identified in the master sheet",
		}
	}
	masterKeyIdx := master.ColumnIndex(keyColumn)
	targetKeyIdx := result.CanonicalIndex(keyColumn)
	if targetKeyIdx < 0 {
		return nil, &model.InvalidColumnError{Column: keyColumn, Sheets: []string{result.Name}}
	}

	out := master.Table.Clone()
	report := &model.UpdateReport{
		UpdatedRecords:  []string{},
		InsertedRecords: []string{},
		Duplicates:      []string{},
	}

	// 主表键索引随插入增量维护，重复键首行生效
	index := make(map[string]int, len(out.Rows))
	for ri, row := range out.Rows {
		key := NormalizeKey(row[masterKeyIdx].String())
		if key == "" {
			continue
		}
		if _, ok := index[key]; !ok {
			index[key] = ri
		}
	}

	byStatus := make(map[model.Status][]model.Row, 4)
	for _, row := range result.Rows {
		status, _ := parseResultStatus(row[statusIdx])
		byStatus[status] = append(byStatus[status], row)
	}

	for _, status := range []model.Status{model.StatusInactive, model.StatusActive, model.StatusCheck, model.StatusNotFound} {
		rows := byStatus[status]
		if len(rows) == 0 {
			continue
		}
		switch status {
		case model.StatusInactive:
			report.SkippedCount += len(rows)
		case model.StatusActive:
			for _, row := range rows {
				key := NormalizeKey(row[targetKeyIdx].String())
				mi, ok := index[key]
				if key == "" || !ok {
					continue
				}
				out.Rows[mi][lookupIdx] = model.StringCell("X")
				report.UpdatedCount++
				report.UpdatedRecords = append(report.UpdatedRecords,
					fmt.Sprintf("%s: D -> X in %s", key, lookupColumn))
			}
		case model.StatusCheck:
			for _, row := range rows {
				key := NormalizeKey(row[targetKeyIdx].String())
				if key == "" {
					continue
				}
				if _, ok := index[key]; ok {
					report.DuplicatesCount++
					report.Duplicates = append(report.Duplicates,
						fmt.Sprintf("%s: already present in master sheet", key))
					continue
				}
				insertRow(out, result, row, lookupIdx, index, masterKeyIdx)
				report.InsertedCount++
				report.InsertedRecords = append(report.InsertedRecords,
					fmt.Sprintf("%s: inserted (status 0), %s = X", key, lookupColumn))
			}
		case model.StatusNotFound:
			for _, row := range rows {
				key := NormalizeKey(row[targetKeyIdx].String())
				insertRow(out, result, row, lookupIdx, index, masterKeyIdx)
				report.InsertedCount++
				report.InsertedRecords = append(report.InsertedRecords,
					fmt.Sprintf("%s: inserted (not found), %s = X", key, lookupColumn))
			}
		}
	}

	return &UpdateOutcome{Master: out, Report: report}, nil
}

// insertRow 按主表列结构插入目标行，lookupIdx 列固定置 X
func insertRow(master *model.Table, result *model.Table, row model.Row, lookupIdx int, index map[string]int, masterKeyIdx int) {
	cells := make(model.Row, len(master.Columns))
	for i, col := range master.Columns {
		cells[i] = model.NullCell()
		if model.CanonicalColumn(col) == "ACTIVATION_STATUS" {
			continue
		}
		if si := result.CanonicalIndex(col); si >= 0 {
			cells[i] = row[si]
		}
	}
	cells[lookupIdx] = model.StringCell("X")
	master.Rows = append(master.Rows, cells)

	if key := NormalizeKey(cells[masterKeyIdx].String()); key != "" {
		if _, ok := index[key]; !ok {
			index[key] = len(master.Rows) - 1
		}
	}
}

// parseResultStatus 解析结果表状态列，空值与未知值归入 NOT_FOUND
func parseResultStatus(c model.Cell) (model.Status, bool) {
	s := model.Status(c.String())
	switch s {
	case model.StatusActive, model.StatusCheck, model.StatusInactive, model.StatusNotFound:
		return s, true
	default:
		return model.StatusNotFound, false
	}
}
