package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// RawSheet 未规范化的原始表数据
type RawSheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Workbook 读取后的上传文件
type Workbook struct {
	Filename string
	Sheets   []RawSheet
}

// SheetNames 所有表名
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// Sheet 按名取表，nil 表示不存在
func (w *Workbook) Sheet(name string) *RawSheet {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i]
		}
	}
	return nil
}

// ReadWorkbook 按扩展名读取上传文件，支持 xlsx/xlsm/csv
func ReadWorkbook(path string) (*Workbook, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readExcelWorkbook(path)
	case ".csv":
		return readCSVWorkbook(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

// Normalize 把原始表规范化为表模型
func (s *RawSheet) Normalize() (*model.Table, error) {
	return NormalizeGrid(s.Name, s.Header, s.Rows)
}

func readExcelWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	wb := &Workbook{Filename: filepath.Base(path)}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		raw := RawSheet{Name: sheet}
		if len(rows) > 0 {
			raw.Header = rows[0]
			raw.Rows = rows[1:]
		}
		wb.Sheets = append(wb.Sheets, raw)
	}
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return wb, nil
}

func readCSVWorkbook(path string) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // 行长允许不一致，规范化阶段补齐
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	raw := RawSheet{Name: "Sheet1"}
	if len(records) > 0 {
		raw.Header = records[0]
		raw.Rows = records[1:]
	}
	return &Workbook{
		Filename: filepath.Base(path),
		Sheets:   []RawSheet{raw},
	}, nil
}
