package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Storbiic/ETL-Automated-Tool/internal/insights"
	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

var (
	keyNoiseRe  = regexp.MustCompile(`[^A-Z0-9]`)
	cellNoiseRe = regexp.MustCompile(`['"+]+`)
)

// Cleaner 主/目标表清洗器
type Cleaner struct {
	SampleSize int // 类型推断抽样上限
}

// NewCleaner 创建使用默认参数的清洗器
func NewCleaner() *Cleaner {
	return &Cleaner{SampleSize: 100}
}

// Clean 同时清洗主表和目标表并产出列画像
//
// 任一表清洗失败则整体失败，不产出部分结果。
func (c *Cleaner) Clean(master, target *model.Table) (*model.CleanedTable, *model.CleanedTable, *model.ColumnInsights, error) {
	cm, err := c.CleanMaster(master)
	if err != nil {
		return nil, nil, nil, err
	}
	ct, err := c.CleanTarget(target)
	if err != nil {
		return nil, nil, nil, err
	}
	return cm, ct, insights.BuildColumnInsights(cm, ct), nil
}

// CleanMaster 清洗主表
//
// 剔除全空行后，对识别出的关键列做取值归一化（转大写、去除非字母数字），
// 归一化后键为空的行被剔除。列类型推断与转换在最后进行。
func (c *Cleaner) CleanMaster(t *model.Table) (*model.CleanedTable, error) {
	work := t.Clone()
	stats := model.CleaningStats{OriginalRows: t.RowCount()}

	trimCells(work)
	stats.DroppedEmptyRows = dropEmptyRows(work)
	if work.RowCount() == 0 {
		return nil, &model.EmptySheetError{Sheet: t.Name}
	}

	key := DetectKeyColumn(work.Columns)
	if key.Found {
		stats.ScrubbedKeys, stats.DroppedKeyRows = scrubMasterKeys(work, key.Column)
		if work.RowCount() == 0 {
			return nil, &model.EmptySheetError{Sheet: t.Name}
		}
	}

	colStats := ComputeColumnStats(work, c.SampleSize)
	fillKeyCandidate(&key, work, colStats)

	return &model.CleanedTable{Table: work, Stats: colStats, Key: key, Cleaning: stats}, nil
}

// CleanTarget 清洗目标表
//
// 列名标准化为大写下划线形式，文本单元格剥离引号和加号噪声，
// 关键列取值去除内部空格以便与主表键对齐。
func (c *Cleaner) CleanTarget(t *model.Table) (*model.CleanedTable, error) {
	work := t.Clone()
	stats := model.CleaningStats{OriginalRows: t.RowCount()}

	renamed, err := standardizeColumns(work)
	if err != nil {
		return nil, err
	}
	stats.RenamedColumns = renamed

	stripNoise(work)
	stats.DroppedEmptyRows = dropEmptyRows(work)
	if work.RowCount() == 0 {
		return nil, &model.EmptySheetError{Sheet: t.Name}
	}

	key := DetectKeyColumn(work.Columns)
	if key.Found {
		stats.ScrubbedKeys = scrubTargetKeys(work, key.Column)
	}

	colStats := ComputeColumnStats(work, c.SampleSize)
	fillKeyCandidate(&key, work, colStats)

	return &model.CleanedTable{Table: work, Stats: colStats, Key: key, Cleaning: stats}, nil
}

// DetectKeyColumn 识别类料号关键列
//
// 对每个列名的规范形式打分，取分数最高且不低于阈值的列。
func DetectKeyColumn(columns []string) model.KeyCandidate {
	const threshold = 0.6

	best := model.KeyCandidate{}
	for _, col := range columns {
		score := keyScore(model.CanonicalColumn(col))
		if score > best.Score {
			best = model.KeyCandidate{Found: score >= threshold, Column: col, Score: score}
		}
	}
	if !best.Found {
		return model.KeyCandidate{}
	}
	return best
}

func keyScore(canonical string) float64 {
	switch {
	case canonical == "YAZAKI_PN":
		return 1.0
	case strings.Contains(canonical, "YAZAKI") && strings.Contains(canonical, "PN"):
		return 0.95
	case canonical == "PART_NUMBER" || canonical == "PART_NO" || canonical == "PN" || canonical == "P_N":
		return 0.9
	case strings.HasSuffix(canonical, "_PN") || strings.HasPrefix(canonical, "PN_"):
		return 0.8
	case strings.Contains(canonical, "PART_NUMBER"):
		return 0.75
	case strings.Contains(canonical, "PART") && strings.Contains(canonical, "NO"):
		return 0.7
	case strings.Contains(canonical, "PN"):
		return 0.6
	}
	return 0
}

// trimCells 去除文本单元格首尾空白，空文本归为空值
func trimCells(t *model.Table) {
	for ri, row := range t.Rows {
		for ci, cell := range row {
			if cell.Kind != model.CellString {
				continue
			}
			s := strings.TrimSpace(cell.Raw)
			if s == "" {
				t.Rows[ri][ci] = model.NullCell()
			} else if s != cell.Raw {
				t.Rows[ri][ci] = model.StringCell(s)
			}
		}
	}
}

// dropEmptyRows 剔除所有单元格均为空值的行，返回剔除数量
func dropEmptyRows(t *model.Table) int {
	kept := t.Rows[:0]
	dropped := 0
	for _, row := range t.Rows {
		empty := true
		for _, cell := range row {
			if !cell.IsNull() {
				empty = false
				break
			}
		}
		if empty {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	t.Rows = kept
	return dropped
}

// scrubMasterKeys 归一化主表关键列：转大写并去除非字母数字字符
// 归一化后为空的键所在行被剔除
func scrubMasterKeys(t *model.Table, keyColumn string) (scrubbed, dropped int) {
	idx := t.ColumnIndex(keyColumn)
	if idx < 0 {
		return 0, 0
	}

	kept := t.Rows[:0]
	for _, row := range t.Rows {
		cell := row[idx]
		if cell.IsNull() {
			dropped++
			continue
		}
		s := cell.String()
		cleaned := keyNoiseRe.ReplaceAllString(strings.ToUpper(s), "")
		if cleaned == "" {
			dropped++
			continue
		}
		if cleaned != s {
			scrubbed++
			row[idx] = model.StringCell(cleaned)
		}
		kept = append(kept, row)
	}
	t.Rows = kept
	return scrubbed, dropped
}

// scrubTargetKeys 去除目标表关键列取值的内部空格，空键归为空值
func scrubTargetKeys(t *model.Table, keyColumn string) int {
	idx := t.ColumnIndex(keyColumn)
	if idx < 0 {
		return 0
	}

	scrubbed := 0
	for ri, row := range t.Rows {
		cell := row[idx]
		if cell.IsNull() {
			continue
		}
		s := strings.ReplaceAll(cell.String(), " ", "")
		if s == "" {
			t.Rows[ri][idx] = model.NullCell()
			scrubbed++
		} else if s != cell.String() {
			t.Rows[ri][idx] = model.StringCell(s)
			scrubbed++
		}
	}
	return scrubbed
}

// standardizeColumns 把列名标准化为规范形式，冲突时返回 SchemaError
func standardizeColumns(t *model.Table) ([]string, error) {
	renamed := make([]string, 0)
	seen := make(map[string]bool, len(t.Columns))
	for i, col := range t.Columns {
		canon := model.CanonicalColumn(col)
		if canon == "" {
			canon = fmt.Sprintf("COLUMN_%d", i+1)
		}
		if seen[canon] {
			return nil, &model.SchemaError{Sheet: t.Name, Column: canon}
		}
		seen[canon] = true
		if canon != col {
			renamed = append(renamed, fmt.Sprintf("%s -> %s", col, canon))
			t.Columns[i] = canon
		}
	}
	return renamed, nil
}

// stripNoise 剥离文本单元格中的引号和加号，去除首尾空白
func stripNoise(t *model.Table) {
	for ri, row := range t.Rows {
		for ci, cell := range row {
			if cell.Kind != model.CellString {
				continue
			}
			s := strings.TrimSpace(cellNoiseRe.ReplaceAllString(cell.Raw, ""))
			if s == "" {
				t.Rows[ri][ci] = model.NullCell()
			} else if s != cell.Raw {
				t.Rows[ri][ci] = model.StringCell(s)
			}
		}
	}
}

// fillKeyCandidate 用列画像补全关键列的唯一值与空值统计
func fillKeyCandidate(key *model.KeyCandidate, t *model.Table, stats []model.ColumnStats) {
	if !key.Found {
		return
	}
	for _, s := range stats {
		if s.Name == key.Column {
			key.UniqueCount = s.UniqueCount
			key.NullCount = t.RowCount() - s.NonNull
			return
		}
	}
}
