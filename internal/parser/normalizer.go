package parser

import (
	"fmt"
	"sort"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// NormalizeGrid 把带表头的原始行列数据规范化为表
//
// 空表头生成 COLUMN_N 占位名；行长超出表头时扩展占位列；
// 规范化后仍重名的列返回 SchemaError。
func NormalizeGrid(name string, header []string, rows [][]string) (*model.Table, error) {
	width := len(header)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	columns := make([]string, 0, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		col := ""
		if i < len(header) {
			col = model.NormalizeColumnName(header[i])
		}
		if col == "" {
			col = fmt.Sprintf("COLUMN_%d", i+1)
		}
		fold := model.FoldColumn(col)
		if _, ok := seen[fold]; ok {
			return nil, &model.SchemaError{Sheet: name, Column: col}
		}
		seen[fold] = i
		columns = append(columns, col)
	}

	t := model.NewTable(name, columns)
	for _, row := range rows {
		cells := make(model.Row, width)
		for i := 0; i < width; i++ {
			if i < len(row) && row[i] != "" {
				cells[i] = model.StringCell(row[i])
			} else {
				cells[i] = model.NullCell()
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// NormalizeRecords 把键值式行数据规范化为表
//
// 各行的键集合可以不一致：列集合取所有出现过的键的并集，缺失处补空值。
// 大小写不敏感的重复键折叠为同一列，首次出现的写法保留；
// 同一行内出现折叠后重名的键返回 SchemaError。
func NormalizeRecords(name string, records []map[string]string) (*model.Table, error) {
	var columns []string
	colIndex := make(map[string]int)

	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		rowSeen := make(map[string]bool, len(rec))
		for _, k := range keys {
			display := model.NormalizeColumnName(k)
			if display == "" {
				continue
			}
			fold := model.FoldColumn(display)
			if rowSeen[fold] {
				return nil, &model.SchemaError{Sheet: name, Column: display}
			}
			rowSeen[fold] = true
			if _, ok := colIndex[fold]; !ok {
				colIndex[fold] = len(columns)
				columns = append(columns, display)
			}
		}
	}

	t := model.NewTable(name, columns)
	for _, rec := range records {
		cells := make(model.Row, len(columns))
		for i := range cells {
			cells[i] = model.NullCell()
		}
		for k, v := range rec {
			display := model.NormalizeColumnName(k)
			if display == "" {
				continue
			}
			if idx, ok := colIndex[model.FoldColumn(display)]; ok && v != "" {
				cells[idx] = model.StringCell(v)
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}
