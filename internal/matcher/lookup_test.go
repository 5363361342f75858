package matcher

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/Storbiic/ETL-Automated-Tool/internal/insights"
	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// cleaned 测试辅助：直接构造清洗后的表，空串表示空值
func cleaned(name string, columns []string, rows [][]string) *model.CleanedTable {
	t := model.NewTable(name, columns)
	for _, r := range rows {
		cells := make(model.Row, len(r))
		for i, v := range r {
			if v == "" {
				cells[i] = model.NullCell()
			} else {
				cells[i] = model.StringCell(v)
			}
		}
		t.AppendRow(cells)
	}
	ct := &model.CleanedTable{Table: t}
	if len(columns) > 0 {
		ct.Key = model.KeyCandidate{Found: true, Column: columns[0]}
	}
	return ct
}

func statuses(results []model.LookupResult) []model.Status {
	out := make([]model.Status, len(results))
	for i, r := range results {
		out[i] = r.Status
	}
	return out
}

func TestLookupBasicMatch(t *testing.T) {
	master := cleaned("Master",
		[]string{"YAZAKI_PN", "ACTIVATION_STATUS"},
		[][]string{{"A1", "D"}, {"A2", "X"}})
	target := cleaned("Target",
		[]string{"YAZAKI_PN", "QTY"},
		[][]string{{"a1 ", "1"}, {" A2", "2"}, {"A3", "3"}})

	outcome, err := NewEngine().Lookup(master, target, "YAZAKI_PN")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	// 键归一化后逐行对齐，未命中为 NOT_FOUND
	want := []model.Status{model.StatusActive, model.StatusInactive, model.StatusNotFound}
	if got := statuses(outcome.Results); !reflect.DeepEqual(got, want) {
		t.Fatalf("statuses = %v, want %v", got, want)
	}

	sum := insights.Summarize(outcome.Results)
	quality := insights.BuildQuality(sum)
	if math.Abs(quality.MatchRate-66.7) > 0.05 {
		t.Fatalf("match rate = %v, want 66.7", quality.MatchRate)
	}
	if sum.SuccessfulMatches+sum.FailedMatches != sum.TotalRecords {
		t.Fatalf("matches %d+%d != total %d",
			sum.SuccessfulMatches, sum.FailedMatches, sum.TotalRecords)
	}
}

func TestLookupNullKeyIsNotFound(t *testing.T) {
	master := cleaned("Master",
		[]string{"YAZAKI_PN", "ACTIVATION_STATUS"},
		[][]string{{"A1", "D"}})
	target := cleaned("Target",
		[]string{"YAZAKI_PN"},
		[][]string{{""}, {"A1"}})

	outcome, err := NewEngine().Lookup(master, target, "YAZAKI_PN")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if outcome.Results[0].Status != model.StatusNotFound {
		t.Fatalf("null key status = %v, want NOT_FOUND", outcome.Results[0].Status)
	}
	if outcome.Stats.EmptyKeys != 1 {
		t.Fatalf("EmptyKeys = %d, want 1", outcome.Stats.EmptyKeys)
	}
}

func TestLookupMissingColumn(t *testing.T) {
	master := cleaned("Master", []string{"YAZAKI_PN"}, [][]string{{"A1"}})
	target := cleaned("Target", []string{"OTHER"}, [][]string{{"A1"}})

	_, err := NewEngine().Lookup(master, target, "YAZAKI_PN")
	var colErr *model.InvalidColumnError
	if !errors.As(err, &colErr) {
		t.Fatalf("err = %v, want InvalidColumnError", err)
	}
	if colErr.Column != "YAZAKI_PN" || len(colErr.Sheets) != 1 || colErr.Sheets[0] != "Target" {
		t.Fatalf("InvalidColumnError = %+v, want YAZAKI_PN missing in Target", colErr)
	}
}

func TestLookupDuplicateMasterKeysFirstWins(t *testing.T) {
	master := cleaned("Master",
		[]string{"YAZAKI_PN", "ACTIVATION_STATUS"},
		[][]string{{"A1", "D"}, {"A1", "X"}})
	target := cleaned("Target", []string{"YAZAKI_PN"}, [][]string{{"A1"}})

	outcome, err := NewEngine().Lookup(master, target, "YAZAKI_PN")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if outcome.Results[0].Status != model.StatusActive {
		t.Fatalf("status = %v, want first occurrence D", outcome.Results[0].Status)
	}
	if len(outcome.Warnings) != 1 || outcome.Warnings[0].Key != "A1" {
		t.Fatalf("warnings = %v, want one for A1", outcome.Warnings)
	}
	if outcome.Stats.UniqueKeys != 1 {
		t.Fatalf("UniqueKeys = %d, want 1", outcome.Stats.UniqueKeys)
	}
}

func TestLookupStatusResolution(t *testing.T) {
	master := cleaned("Master",
		[]string{"YAZAKI_PN", "ACTIVATION_STATUS"},
		[][]string{
			{"A1", "d"},
			{"A2", ""},
			{"A3", "??"},
		})
	target := cleaned("Target",
		[]string{"YAZAKI_PN"},
		[][]string{{"A1"}, {"A2"}, {"A3"}})

	outcome, err := NewEngine().Lookup(master, target, "YAZAKI_PN")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	// 状态值大小写不敏感，空值与不规范值归入待确认
	want := []model.Status{model.StatusActive, model.StatusCheck, model.StatusCheck}
	if got := statuses(outcome.Results); !reflect.DeepEqual(got, want) {
		t.Fatalf("statuses = %v, want %v", got, want)
	}
}

func TestLookupNoStatusColumnDefaultsToActive(t *testing.T) {
	master := cleaned("Master", []string{"YAZAKI_PN", "DESC"}, [][]string{{"A1", "bolt"}})
	target := cleaned("Target", []string{"YAZAKI_PN"}, [][]string{{"A1"}})

	outcome, err := NewEngine().Lookup(master, target, "YAZAKI_PN")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if outcome.Results[0].Status != model.StatusActive {
		t.Fatalf("status = %v, want D when master has no status column", outcome.Results[0].Status)
	}
	if outcome.Stats.StatusColumn != "" {
		t.Fatalf("StatusColumn = %q, want empty", outcome.Stats.StatusColumn)
	}
}

func TestLookupResultTableInsertsStatusColumn(t *testing.T) {
	master := cleaned("Master",
		[]string{"YAZAKI_PN", "ACTIVATION_STATUS"},
		[][]string{{"A1", "D"}})
	target := cleaned("Target",
		[]string{"YAZAKI_PN", "QTY"},
		[][]string{{"A1", "2"}})

	outcome, err := NewEngine().Lookup(master, target, "YAZAKI_PN")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	rt := outcome.ResultTable
	if len(rt.Columns) != 3 || rt.Columns[1] != "ACTIVATION_STATUS" {
		t.Fatalf("result columns = %v, want ACTIVATION_STATUS at position 1", rt.Columns)
	}
	if got := rt.CellAt(0, "ACTIVATION_STATUS").String(); got != "D" {
		t.Fatalf("status cell = %q, want D", got)
	}
	// 目标表本身不被修改
	if len(target.Columns) != 2 {
		t.Fatalf("target columns mutated: %v", target.Columns)
	}
}

func TestLookupIsIdempotent(t *testing.T) {
	master := cleaned("Master",
		[]string{"YAZAKI_PN", "ACTIVATION_STATUS"},
		[][]string{{"A1", "D"}, {"A2", "0"}})
	target := cleaned("Target",
		[]string{"YAZAKI_PN"},
		[][]string{{"A1"}, {"A2"}, {"A9"}})

	engine := NewEngine()
	first, err := engine.Lookup(master, target, "YAZAKI_PN")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	second, err := engine.Lookup(master, target, "YAZAKI_PN")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if !reflect.DeepEqual(statuses(first.Results), statuses(second.Results)) {
		t.Fatal("repeated lookup produced different statuses")
	}
	if !reflect.DeepEqual(first.Stats, second.Stats) {
		t.Fatalf("repeated lookup stats differ: %+v vs %+v", first.Stats, second.Stats)
	}
}
