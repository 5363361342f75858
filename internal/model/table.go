package model

import "fmt"

// Row 一行数据，与所属表的列定义逐位对齐
type Row []Cell

// Clone 深拷贝
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Table 规范化后的工作表：固定列集合 + 对齐的行
//
// 不变式：每行的单元格数量等于列数，规范化阶段负责补齐。
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// NewTable 创建空表
func NewTable(name string, columns []string) *Table {
	return &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
	}
}

// ColumnIndex 返回列下标，不存在返回 -1
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// HasColumn 列是否存在
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// RowCount 行数
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// AppendRow 追加一行，长度不足时用空值补齐
func (t *Table) AppendRow(cells Row) {
	row := make(Row, len(t.Columns))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = NullCell()
		}
	}
	t.Rows = append(t.Rows, row)
}

// CellAt 取指定行列的单元格，越界或列不存在返回空值
func (t *Table) CellAt(row int, column string) Cell {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return NullCell()
	}
	return t.Rows[row][idx]
}

// Clone 深拷贝整张表
func (t *Table) Clone() *Table {
	out := NewTable(t.Name, t.Columns)
	out.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = row.Clone()
	}
	return out
}

// InsertColumn 在 pos 处插入一列，所有行填充 fill
func (t *Table) InsertColumn(pos int, name string, fill Cell) error {
	if t.HasColumn(name) {
		return fmt.Errorf("column %q already exists in sheet %q", name, t.Name)
	}
	if pos < 0 || pos > len(t.Columns) {
		return fmt.Errorf("column position %d out of range", pos)
	}
	cols := make([]string, 0, len(t.Columns)+1)
	cols = append(cols, t.Columns[:pos]...)
	cols = append(cols, name)
	cols = append(cols, t.Columns[pos:]...)
	t.Columns = cols

	for i, row := range t.Rows {
		cells := make(Row, 0, len(row)+1)
		cells = append(cells, row[:pos]...)
		cells = append(cells, fill)
		cells = append(cells, row[pos:]...)
		t.Rows[i] = cells
	}
	return nil
}

// Records 输出前 limit 行的键值记录，limit <= 0 时输出全部行
func (t *Table) Records(limit int) []map[string]any {
	n := len(t.Rows)
	if limit > 0 && limit < n {
		n = limit
	}
	records := make([]map[string]any, 0, n)
	for _, row := range t.Rows[:n] {
		rec := make(map[string]any, len(t.Columns))
		for i, col := range t.Columns {
			rec[col] = row[i].Value()
		}
		records = append(records, rec)
	}
	return records
}
