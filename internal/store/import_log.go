package store

import (
	"fmt"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// InsertImportLog 记录一次上传，返回日志 id
func (s *Store) InsertImportLog(rec *model.ImportRecord) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (file_id, filename, sheet_count, total_rows)
		VALUES (?, ?, ?, ?)
	`, rec.FileID, rec.Filename, rec.SheetCount, rec.TotalRows)
	if err != nil {
		return 0, fmt.Errorf("failed to insert import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// ListImportLogs 按时间倒序取最近 limit 条上传留痕，limit <= 0 取全部
func (s *Store) ListImportLogs(limit int) ([]model.ImportRecord, error) {
	query := `
		SELECT id, file_id, filename, sheet_count, total_rows, imported_at
		FROM import_logs
		ORDER BY imported_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import logs: %w", err)
	}
	defer rows.Close()

	var records []model.ImportRecord
	for rows.Next() {
		var r model.ImportRecord
		if err := rows.Scan(&r.ID, &r.FileID, &r.Filename, &r.SheetCount, &r.TotalRows, &r.ImportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// LastImport 最近一次上传留痕，没有记录时返回 nil
func (s *Store) LastImport() (*model.ImportRecord, error) {
	records, err := s.ListImportLogs(1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}
