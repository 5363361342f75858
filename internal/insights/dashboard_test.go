package insights

import (
	"testing"
	"time"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// bomTable 测试辅助：构造带关键列信息的 BOM 表，空串表示空值
func bomTable(columns []string, rows [][]string) *model.CleanedTable {
	t := model.NewTable("Master", columns)
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
	return &model.CleanedTable{
		Table: t,
		Key:   model.KeyCandidate{Found: true, Column: columns[0]},
	}
}

func sampleBOM() *model.CleanedTable {
	return bomTable(
		[]string{"YAZAKI_PN", "DESCRIPTION", "CATEGORY", "QTY", "UNIT_COST", "SUPPLIER", "ACTIVATION_STATUS"},
		[][]string{
			{"A1", "bolt", "Fasteners", "2", "0.1", "ACME", "D"},
			{"A2", "nut", "Fasteners", "3", "0.2", "ACME", "X"},
			{"A3", "washer", "", "1", "0.5", "BOLTCO", "D"},
		})
}

func TestDetectBOMColumns(t *testing.T) {
	cols := detectBOMColumns(sampleBOM())
	if cols.part != 0 || cols.desc != 1 || cols.category != 2 ||
		cols.qty != 3 || cols.unitCost != 4 || cols.supplier != 5 || cols.status != 6 {
		t.Fatalf("detected columns = %+v", cols)
	}
	if cols.totalCost != -1 {
		t.Fatalf("totalCost = %d, want -1", cols.totalCost)
	}
}

func TestAnalyzeBOMAggregates(t *testing.T) {
	analysis, top := analyzeBOM(sampleBOM(), 2)

	if analysis.TotalParts != 3 || analysis.TotalCategories != 1 {
		t.Fatalf("analysis = %+v, want 3 parts / 1 category", analysis)
	}
	if analysis.TotalQuantity != 6 {
		t.Fatalf("TotalQuantity = %v, want 6", analysis.TotalQuantity)
	}
	// 无总价列时金额按 单价 * 数量 精确累加：0.1*2 + 0.2*3 + 0.5*1
	if analysis.TotalValue != 1.3 {
		t.Fatalf("TotalValue = %v, want 1.3", analysis.TotalValue)
	}
	if analysis.AvgUnitCost != 0.2667 {
		t.Fatalf("AvgUnitCost = %v, want 0.2667", analysis.AvgUnitCost)
	}

	// 金额降序取前 topN
	if len(top) != 2 || top[0].PartNumber != "A2" || top[1].PartNumber != "A3" {
		t.Fatalf("top products = %+v, want [A2 A3]", top)
	}
	if top[0].TotalCost != 0.6 {
		t.Fatalf("top[0].TotalCost = %v, want 0.6", top[0].TotalCost)
	}
}

func TestBuildBOMReportCategoryAggregation(t *testing.T) {
	report := BuildBOMReport(sampleBOM(), 0)

	if len(report.BOMData) != 3 {
		t.Fatalf("records = %d, want 3", len(report.BOMData))
	}
	// 类别缺失归入 Uncategorized
	if report.BOMData[2].Category != "Uncategorized" {
		t.Fatalf("category = %q, want Uncategorized", report.BOMData[2].Category)
	}

	if len(report.CategoryAnalysis) != 2 {
		t.Fatalf("category analysis = %+v, want 2 categories", report.CategoryAnalysis)
	}
	// 金额降序：Fasteners 0.8 > Uncategorized 0.5
	fasteners := report.CategoryAnalysis[0]
	if fasteners.Category != "Fasteners" || fasteners.PartCount != 2 ||
		fasteners.TotalQuantity != 5 || fasteners.TotalValue != 0.8 || fasteners.ActiveParts != 1 {
		t.Fatalf("Fasteners = %+v", fasteners)
	}
	other := report.CategoryAnalysis[1]
	if other.Category != "Uncategorized" || other.PartCount != 1 || other.ActiveParts != 1 {
		t.Fatalf("Uncategorized = %+v", other)
	}
}

func TestBuildBOMReportLimit(t *testing.T) {
	report := BuildBOMReport(sampleBOM(), 2)
	if len(report.BOMData) != 2 {
		t.Fatalf("records = %d, want 2", len(report.BOMData))
	}
	// 类别聚合不受明细条数限制
	if len(report.CategoryAnalysis) != 2 {
		t.Fatalf("category analysis = %d, want 2", len(report.CategoryAnalysis))
	}
}

func TestBuildDashboardTimeSeriesAscending(t *testing.T) {
	sum := Summarize(results(model.StatusActive, model.StatusNotFound))
	quality := BuildQuality(sum)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	history := []model.RunRecord{
		{RunAt: base.Add(time.Hour), TotalRecords: 5, Matched: 4, Failed: 1, MatchRate: 80},
		{RunAt: base, TotalRecords: 3, Matched: 3, Failed: 0, MatchRate: 100},
	}

	dash := BuildDashboard(sampleBOM(), sum, quality, history, 10)

	if dash.KPIs.TotalParts != 2 || dash.KPIs.MatchedParts != 1 {
		t.Fatalf("KPIs = %+v, want total=2 matched=1", dash.KPIs)
	}
	if dash.KPIs.MatchRate != 50 {
		t.Fatalf("MatchRate = %v, want 50", dash.KPIs.MatchRate)
	}
	if len(dash.StatusBreakdown) != 4 {
		t.Fatalf("breakdown = %+v, want 4 slices", dash.StatusBreakdown)
	}

	// 时间序列按运行时间升序
	ts := dash.TimeSeries
	if len(ts) != 2 {
		t.Fatalf("time series = %d points, want 2", len(ts))
	}
	if ts[0].TotalRecords != 3 || ts[1].TotalRecords != 5 {
		t.Fatalf("time series order = %+v, want earliest first", ts)
	}
	if ts[0].Timestamp != "2025-06-01 10:00:00" {
		t.Fatalf("timestamp = %q", ts[0].Timestamp)
	}
}
