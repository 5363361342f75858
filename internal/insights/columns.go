package insights

import "github.com/Storbiic/ETL-Automated-Tool/internal/model"

// BuildSheetAnalysis 生成单表画像
//
// 全表完整度 = 非空单元格数 / 单元格总数，百分数一位小数。
func BuildSheetAnalysis(ct *model.CleanedTable) model.SheetAnalysis {
	analysis := model.SheetAnalysis{
		SheetName:        ct.Name,
		TotalRows:        ct.RowCount(),
		TotalColumns:     len(ct.Columns),
		Columns:          ct.Stats,
		KeyCandidate:     ct.Key,
		DroppedEmptyRows: ct.Cleaning.DroppedEmptyRows,
	}

	totalCells := ct.RowCount() * len(ct.Columns)
	if totalCells > 0 {
		nonNull := 0
		for _, s := range ct.Stats {
			nonNull += s.NonNull
		}
		analysis.Completeness = round1(float64(nonNull) / float64(totalCells) * 100)
	}
	return analysis
}

// BuildColumnInsights 生成主/目标表的列画像载荷
func BuildColumnInsights(master, target *model.CleanedTable) *model.ColumnInsights {
	m := BuildSheetAnalysis(master)
	t := BuildSheetAnalysis(target)
	return &model.ColumnInsights{
		Master: m,
		Target: t,
		Quality: model.DataQuality{
			MasterCompleteness: m.Completeness,
			TargetCompleteness: t.Completeness,
		},
	}
}
