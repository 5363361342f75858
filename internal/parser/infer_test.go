package parser

import (
	"testing"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

func cells(values ...string) []model.Cell {
	out := make([]model.Cell, 0, len(values))
	for _, v := range values {
		if v == "" {
			out = append(out, model.NullCell())
		} else {
			out = append(out, model.StringCell(v))
		}
	}
	return out
}

func TestInferColumnType(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   model.ColumnType
	}{
		{"all numeric", []string{"1", "2.5", "-3"}, model.ColumnNumeric},
		{"numeric with nulls", []string{"1", "", "2"}, model.ColumnNumeric},
		{"all dates", []string{"2024-01-01", "2024-02-15"}, model.ColumnDate},
		{"mixed is not numeric", []string{"1", "abc"}, model.ColumnString},
		{"low cardinality is categorical", []string{"A", "A", "B", "A", "B", "A"}, model.ColumnCategorical},
		{"high cardinality is string", []string{"a", "b", "c", "d"}, model.ColumnString},
		{"all null", []string{"", ""}, model.ColumnString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferColumnType(cells(tt.values...), 100); got != tt.want {
				t.Fatalf("InferColumnType(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestComputeColumnStatsCoercesAndCounts(t *testing.T) {
	table := buildTable(t, "Sheet1",
		[]string{"Qty", "When"},
		[][]string{
			{"2", "2024-01-01"},
			{"3", ""},
			{"2", "2024-03-01"},
		})

	stats := ComputeColumnStats(table, 100)

	qty := stats[0]
	if qty.Type != model.ColumnNumeric || qty.NonNull != 3 || qty.UniqueCount != 2 {
		t.Fatalf("qty stats = %+v, want numeric/3/2", qty)
	}
	if qty.Completeness != 1.0 {
		t.Fatalf("qty completeness = %v, want 1.0", qty.Completeness)
	}

	when := stats[1]
	if when.Type != model.ColumnDate || when.NonNull != 2 {
		t.Fatalf("when stats = %+v, want date/2", when)
	}

	// 数值列单元格被转换为 NumberCell
	if got := table.CellAt(0, "Qty"); got.Kind != model.CellNumber || got.Num != 2 {
		t.Fatalf("coerced cell = %+v, want number 2", got)
	}
}
