package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// WorkbookInput 结果工作簿的数据来源
type WorkbookInput struct {
	MasterSheet string
	TargetSheet string
	Master      *model.Table
	Result      *model.Table
	Summary     *model.LookupSummary
	Quality     *model.DataQualityInsights
}

// BuildWorkbook 生成结果工作簿：主表、匹配结果、汇总三个 sheet
func BuildWorkbook(in WorkbookInput) (*excelize.File, error) {
	f := excelize.NewFile()

	masterSheet := in.MasterSheet
	if masterSheet == "" {
		masterSheet = "Master"
	}
	targetSheet := in.TargetSheet
	if targetSheet == "" {
		targetSheet = "Results"
	}

	if err := f.SetSheetName("Sheet1", masterSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeTable(f, masterSheet, in.Master); err != nil {
		_ = f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(targetSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create sheet %q: %w", targetSheet, err)
	}
	if err := writeTable(f, targetSheet, in.Result); err != nil {
		_ = f.Close()
		return nil, err
	}

	if in.Summary != nil {
		if err := writeSummarySheet(f, in.Summary, in.Quality); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// writeTable 写入一张表：首行列名，单元格按推断类型写入
func writeTable(f *excelize.File, sheet string, t *model.Table) error {
	for ci, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(ci+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header %q: %w", col, err)
		}
	}

	for ri, row := range t.Rows {
		for ci := range t.Columns {
			c := row[ci]
			if c.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}
			var v any
			switch c.Kind {
			case model.CellNumber:
				v = c.Num
			default:
				v = c.String()
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

// writeSummarySheet 写入汇总 sheet
func writeSummarySheet(f *excelize.File, sum *model.LookupSummary, quality *model.DataQualityInsights) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	rows := [][]any{
		{"Metric", "Value"},
		{"Total records", sum.TotalRecords},
		{"Successful matches", sum.SuccessfulMatches},
		{"Failed matches", sum.FailedMatches},
	}
	if quality != nil {
		rows = append(rows, []any{"Match rate (%)", quality.MatchRate})
	}
	for _, s := range model.AllStatuses() {
		rows = append(rows, []any{
			fmt.Sprintf("Status %s (%s)", string(s), s.Label()),
			sum.StatusDistribution[s],
		})
	}

	for ri, row := range rows {
		for ci, v := range row {
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write summary cell %s: %w", cell, err)
			}
		}
	}
	return nil
}
