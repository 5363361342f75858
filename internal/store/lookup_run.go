package store

import (
	"fmt"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// InsertLookupRun 记录一次匹配运行，返回记录 id
func (s *Store) InsertLookupRun(rec *model.RunRecord) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO lookup_runs (
			file_id, master_sheet, target_sheet, lookup_column,
			total_records, successful_matches, failed_matches, match_rate,
			status_d, status_0, status_x, not_found, duplicate_keys
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.FileID, rec.MasterSheet, rec.TargetSheet, rec.LookupColumn,
		rec.TotalRecords, rec.Matched, rec.Failed, rec.MatchRate,
		rec.StatusD, rec.Status0, rec.StatusX, rec.NotFound, rec.DuplicateKeys)
	if err != nil {
		return 0, fmt.Errorf("failed to insert lookup run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get lookup run id: %w", err)
	}
	return id, nil
}

// ListLookupRuns 按运行时间倒序取最近 limit 条记录，limit <= 0 取全部
func (s *Store) ListLookupRuns(limit int) ([]model.RunRecord, error) {
	query := `
		SELECT id, file_id, master_sheet, target_sheet, lookup_column,
			total_records, successful_matches, failed_matches, match_rate,
			status_d, status_0, status_x, not_found, duplicate_keys, run_at
		FROM lookup_runs
		ORDER BY run_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookup runs: %w", err)
	}
	defer rows.Close()

	var records []model.RunRecord
	for rows.Next() {
		var r model.RunRecord
		if err := rows.Scan(
			&r.ID, &r.FileID, &r.MasterSheet, &r.TargetSheet, &r.LookupColumn,
			&r.TotalRecords, &r.Matched, &r.Failed, &r.MatchRate,
			&r.StatusD, &r.Status0, &r.StatusX, &r.NotFound, &r.DuplicateKeys, &r.RunAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lookup run: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountLookupRuns 匹配运行总数
func (s *Store) CountLookupRuns() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM lookup_runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count lookup runs: %w", err)
	}
	return n, nil
}
