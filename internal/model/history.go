package model

import "time"

// ImportRecord 一次上传的留痕
type ImportRecord struct {
	ID         int64     `json:"id"`
	FileID     string    `json:"file_id"`
	Filename   string    `json:"filename"`
	SheetCount int       `json:"sheet_count"`
	TotalRows  int       `json:"total_rows"`
	ImportedAt time.Time `json:"imported_at"`
}

// RunRecord 一次匹配运行的留痕，驱动仪表盘时间序列
type RunRecord struct {
	ID            int64     `json:"id"`
	FileID        string    `json:"file_id"`
	MasterSheet   string    `json:"master_sheet"`
	TargetSheet   string    `json:"target_sheet"`
	LookupColumn  string    `json:"lookup_column"`
	TotalRecords  int       `json:"total_records"`
	Matched       int       `json:"successful_matches"`
	Failed        int       `json:"failed_matches"`
	MatchRate     float64   `json:"match_rate"`
	StatusD       int       `json:"status_d"`
	Status0       int       `json:"status_0"`
	StatusX       int       `json:"status_x"`
	NotFound      int       `json:"not_found"`
	DuplicateKeys int       `json:"duplicate_keys"`
	RunAt         time.Time `json:"run_at"`
}
