package session

import (
	"errors"
	"testing"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// rawTable 测试辅助：构造规范化原始表，空串表示空值
func rawTable(name string, columns []string, rows [][]string) *model.Table {
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
	return t
}

func sampleSheets() []*model.Table {
	master := rawTable("Master",
		[]string{"YAZAKI PN", "ACTIVATION STATUS", "PROJECT A"},
		[][]string{
			{"A1", "D", ""},
			{"A2", "X", ""},
		})
	target := rawTable("Target",
		[]string{"YAZAKI PN", "Qty"},
		[][]string{
			{"a1 ", "1"},
			{"A3", "2"},
		})
	empty := rawTable("Empty", []string{"YAZAKI PN"}, [][]string{{""}})
	return []*model.Table{master, target, empty}
}

func newSession(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(Options{})
	m.Create("file-1", "parts.xlsx", "/tmp/parts.xlsx", sampleSheets())
	return m
}

func TestManagerFullFlow(t *testing.T) {
	m := newSession(t)

	st := m.Status()
	if !st.Active || st.Stage != StageUploaded || st.FileID != "file-1" {
		t.Fatalf("status after create = %+v", st)
	}
	if len(st.SheetNames) != 3 {
		t.Fatalf("sheet names = %v, want 3", st.SheetNames)
	}

	pv, err := m.Preview("Master", "Target", 10)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if pv.Rows["Master"] != 2 || pv.Columns["Target"] != 2 {
		t.Fatalf("preview = %+v", pv)
	}
	if m.Status().Stage != StagePreviewed {
		t.Fatalf("stage = %v, want previewed", m.Status().Stage)
	}

	cr, err := m.Clean(5)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if cr.MasterShape != [2]int{2, 3} {
		t.Fatalf("master shape = %v, want [2 3]", cr.MasterShape)
	}
	if m.Status().Stage != StageCleaned {
		t.Fatalf("stage = %v, want cleaned", m.Status().Stage)
	}

	cols, err := m.LookupColumns(0, 0)
	if err != nil {
		t.Fatalf("LookupColumns failed: %v", err)
	}
	if len(cols) != 3 {
		t.Fatalf("lookup columns = %v, want 3", cols)
	}

	out, err := m.Lookup("YAZAKI PN", 5)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if out.Summary.TotalRecords != 2 || out.Summary.SuccessfulMatches != 1 {
		t.Fatalf("summary = %+v, want 2 total / 1 matched", out.Summary)
	}
	if out.LookupColumn != "YAZAKI PN" {
		t.Fatalf("lookup column = %q", out.LookupColumn)
	}
	if m.Status().Stage != StageLookup {
		t.Fatalf("stage = %v, want lookup_done", m.Status().Stage)
	}

	report, err := m.ProcessUpdates("", "", "", "PROJECT A")
	if err != nil {
		t.Fatalf("ProcessUpdates failed: %v", err)
	}
	// A1 命中有效记一次更新，A3 未命中作为新行插入
	if report.UpdatedCount != 1 || report.InsertedCount != 1 {
		t.Fatalf("report = %+v, want updated=1 inserted=1", report)
	}
	if m.Status().Stage != StageUpdated {
		t.Fatalf("stage = %v, want updates_applied", m.Status().Stage)
	}

	view, err := m.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if view.Master.RowCount() != 3 {
		t.Fatalf("exported master rows = %d, want 3 after insert", view.Master.RowCount())
	}
	if !view.Result.HasColumn("ACTIVATION_STATUS") {
		t.Fatal("exported result table has no ACTIVATION_STATUS column")
	}
}

func TestManagerVersionIncrements(t *testing.T) {
	m := newSession(t)
	v0 := m.Status().Version

	if _, err := m.Preview("Master", "Target", 5); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if _, err := m.Clean(5); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if got := m.Status().Version; got != v0+2 {
		t.Fatalf("version = %d, want %d", got, v0+2)
	}

	// 只读操作不递增版本
	if _, err := m.LookupColumns(0, 0); err != nil {
		t.Fatalf("LookupColumns failed: %v", err)
	}
	if got := m.Status().Version; got != v0+2 {
		t.Fatalf("version after read = %d, want %d", got, v0+2)
	}
}

func TestPreviewUnknownSheet(t *testing.T) {
	m := newSession(t)

	_, err := m.Preview("Master", "Nope", 5)
	var nf *model.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	// 失败的预览不选定任何表
	if st := m.Status(); st.TargetSheet != "" || st.Stage != StageUploaded {
		t.Fatalf("status = %+v, want unchanged", st)
	}
}

func TestStageOrderingErrors(t *testing.T) {
	m := newSession(t)

	if _, err := m.Clean(5); !isInvalidState(err) {
		t.Fatalf("Clean before preview: err = %v, want InvalidStateError", err)
	}
	if _, err := m.Lookup("YAZAKI PN", 5); !isInvalidState(err) {
		t.Fatalf("Lookup before clean: err = %v, want InvalidStateError", err)
	}
	if _, err := m.ProcessUpdates("", "", "", ""); !isInvalidState(err) {
		t.Fatalf("ProcessUpdates before lookup: err = %v, want InvalidStateError", err)
	}
	if _, err := m.Export(); !isInvalidState(err) {
		t.Fatalf("Export before lookup: err = %v, want InvalidStateError", err)
	}
	if _, err := m.Dashboard(nil, 10); !isInvalidState(err) {
		t.Fatalf("Dashboard before lookup: err = %v, want InvalidStateError", err)
	}
}

func TestNoSessionErrors(t *testing.T) {
	m := NewManager(Options{})

	if _, err := m.Preview("Master", "Target", 5); !isInvalidState(err) {
		t.Fatalf("err = %v, want InvalidStateError", err)
	}
	if st := m.Status(); st.Active || st.Stage != StageEmpty {
		t.Fatalf("status = %+v, want empty", st)
	}
}

func TestCleanFailureKeepsPreviousResults(t *testing.T) {
	m := newSession(t)

	if _, err := m.Preview("Master", "Target", 5); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if _, err := m.Clean(5); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if _, err := m.Lookup("YAZAKI PN", 5); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	// 换成会清洗失败的目标表
	if _, err := m.Preview("Master", "Empty", 5); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	_, err := m.Clean(5)
	var emptyErr *model.EmptySheetError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("err = %v, want EmptySheetError", err)
	}

	// 上一轮的清洗与匹配产物保持可用
	if _, err := m.Insights(); err != nil {
		t.Fatalf("Insights after failed clean: %v", err)
	}
	out, err := m.LookupInsights(5)
	if err != nil {
		t.Fatalf("LookupInsights after failed clean: %v", err)
	}
	if out.Summary.TotalRecords != 2 {
		t.Fatalf("summary = %+v, want previous lookup preserved", out.Summary)
	}
}

func TestCleanInvalidatesLookupState(t *testing.T) {
	m := newSession(t)

	if _, err := m.Preview("Master", "Target", 5); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if _, err := m.Clean(5); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if _, err := m.Lookup("YAZAKI PN", 5); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	// 重新清洗后旧的匹配结果失效
	if _, err := m.Clean(5); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if _, err := m.LookupInsights(5); !isInvalidState(err) {
		t.Fatalf("err = %v, want InvalidStateError after re-clean", err)
	}
}

func TestProcessUpdatesConsistencyChecks(t *testing.T) {
	m := newSession(t)
	if _, err := m.Preview("Master", "Target", 5); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if _, err := m.Clean(5); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if _, err := m.Lookup("YAZAKI PN", 5); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if _, err := m.ProcessUpdates("other-file", "", "", "PROJECT A"); !isInvalidState(err) {
		t.Fatalf("mismatched file id: err = %v, want InvalidStateError", err)
	}
	if _, err := m.ProcessUpdates("", "Target", "", "PROJECT A"); !isInvalidState(err) {
		t.Fatalf("mismatched master sheet: err = %v, want InvalidStateError", err)
	}
}

func TestProcessedSheetPrecedence(t *testing.T) {
	m := newSession(t)
	if _, err := m.Preview("Master", "Target", 5); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if _, err := m.Clean(5); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	// 清洗后目标表返回清洗形态（列名已标准化）
	tbl, err := m.ProcessedSheet("file-1", "Target")
	if err != nil {
		t.Fatalf("ProcessedSheet failed: %v", err)
	}
	if !tbl.HasColumn("YAZAKI_PN") {
		t.Fatalf("columns = %v, want standardized YAZAKI_PN", tbl.Columns)
	}

	if _, err := m.Lookup("YAZAKI PN", 5); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	// 匹配后目标表返回结果形态（含 ACTIVATION_STATUS）
	tbl, err = m.ProcessedSheet("file-1", "Target")
	if err != nil {
		t.Fatalf("ProcessedSheet failed: %v", err)
	}
	if !tbl.HasColumn("ACTIVATION_STATUS") {
		t.Fatalf("columns = %v, want ACTIVATION_STATUS", tbl.Columns)
	}

	// 未选定的表退回规范化原始形态
	if _, err := m.ProcessedSheet("file-1", "Empty"); err != nil {
		t.Fatalf("ProcessedSheet(Empty) failed: %v", err)
	}

	var nf *model.NotFoundError
	if _, err := m.ProcessedSheet("other-file", "Target"); !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError for unknown file", err)
	}
	if _, err := m.ProcessedSheet("file-1", "Nope"); !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError for unknown sheet", err)
	}
}

func TestReset(t *testing.T) {
	m := newSession(t)
	m.Reset()

	st := m.Status()
	if st.Active || st.Stage != StageEmpty {
		t.Fatalf("status after reset = %+v, want empty", st)
	}
	if _, err := m.Export(); !isInvalidState(err) {
		t.Fatalf("err = %v, want InvalidStateError after reset", err)
	}
}

func isInvalidState(err error) bool {
	var stateErr *model.InvalidStateError
	return errors.As(err, &stateErr)
}
