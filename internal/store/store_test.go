package store

import (
	"path/filepath"
	"testing"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestImportLogRoundTrip(t *testing.T) {
	s := newTestStore(t)

	last, err := s.LastImport()
	if err != nil {
		t.Fatalf("LastImport failed: %v", err)
	}
	if last != nil {
		t.Fatalf("LastImport on empty store = %+v, want nil", last)
	}

	id, err := s.InsertImportLog(&model.ImportRecord{
		FileID:     "file-1",
		Filename:   "parts.xlsx",
		SheetCount: 3,
		TotalRows:  120,
	})
	if err != nil {
		t.Fatalf("InsertImportLog failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id = %d, want > 0", id)
	}
	if _, err := s.InsertImportLog(&model.ImportRecord{
		FileID:   "file-2",
		Filename: "parts2.xlsx",
	}); err != nil {
		t.Fatalf("InsertImportLog failed: %v", err)
	}

	records, err := s.ListImportLogs(0)
	if err != nil {
		t.Fatalf("ListImportLogs failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	// 倒序：最新的在前
	if records[0].FileID != "file-2" || records[1].FileID != "file-1" {
		t.Fatalf("order = [%s %s], want newest first", records[0].FileID, records[1].FileID)
	}
	if records[1].SheetCount != 3 || records[1].TotalRows != 120 {
		t.Fatalf("record = %+v", records[1])
	}
	if records[0].ImportedAt.IsZero() {
		t.Fatal("ImportedAt not populated")
	}

	last, err = s.LastImport()
	if err != nil {
		t.Fatalf("LastImport failed: %v", err)
	}
	if last == nil || last.FileID != "file-2" {
		t.Fatalf("LastImport = %+v, want file-2", last)
	}

	limited, err := s.ListImportLogs(1)
	if err != nil {
		t.Fatalf("ListImportLogs(1) failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limited records = %d, want 1", len(limited))
	}
}

func TestLookupRunRoundTrip(t *testing.T) {
	s := newTestStore(t)

	n, err := s.CountLookupRuns()
	if err != nil {
		t.Fatalf("CountLookupRuns failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("count = %d, want 0", n)
	}

	rec := &model.RunRecord{
		FileID:        "file-1",
		MasterSheet:   "Master",
		TargetSheet:   "Target",
		LookupColumn:  "YAZAKI_PN",
		TotalRecords:  3,
		Matched:       2,
		Failed:        1,
		MatchRate:     66.7,
		StatusD:       1,
		StatusX:       1,
		NotFound:      1,
		DuplicateKeys: 0,
	}
	if _, err := s.InsertLookupRun(rec); err != nil {
		t.Fatalf("InsertLookupRun failed: %v", err)
	}

	runs, err := s.ListLookupRuns(10)
	if err != nil {
		t.Fatalf("ListLookupRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	got := runs[0]
	if got.LookupColumn != "YAZAKI_PN" || got.TotalRecords != 3 ||
		got.Matched != 2 || got.MatchRate != 66.7 {
		t.Fatalf("run = %+v", got)
	}
	if got.StatusD != 1 || got.StatusX != 1 || got.NotFound != 1 {
		t.Fatalf("status counts = %+v", got)
	}
	if got.RunAt.IsZero() {
		t.Fatal("RunAt not populated")
	}

	n, err = s.CountLookupRuns()
	if err != nil {
		t.Fatalf("CountLookupRuns failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := s.InsertImportLog(&model.ImportRecord{FileID: "f", Filename: "a.xlsx"}); err != nil {
		t.Fatalf("InsertImportLog failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// 重新打开同一库文件，建表语句可重复执行且数据保留
	s2, err := New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = s2.Close() }()

	records, err := s2.ListImportLogs(0)
	if err != nil {
		t.Fatalf("ListImportLogs failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records after reopen = %d, want 1", len(records))
	}
}
