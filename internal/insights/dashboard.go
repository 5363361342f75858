package insights

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// bomColumns BOM 表中识别出的业务列下标，未识别为 -1
type bomColumns struct {
	part      int
	desc      int
	category  int
	qty       int
	unitCost  int
	totalCost int
	supplier  int
	status    int
}

// detectBOMColumns 按规范列名识别 BOM 业务列
func detectBOMColumns(ct *model.CleanedTable) bomColumns {
	cols := bomColumns{part: -1, desc: -1, category: -1, qty: -1, unitCost: -1, totalCost: -1, supplier: -1, status: -1}
	if ct.Key.Found {
		cols.part = ct.ColumnIndex(ct.Key.Column)
	}
	for i, col := range ct.Columns {
		canon := model.CanonicalColumn(col)
		switch {
		case cols.part < 0 && (canon == "PART_NUMBER" || canon == "PART_NO" || strings.Contains(canon, "PN")):
			cols.part = i
		case cols.desc < 0 && strings.Contains(canon, "DESCRIPTION"):
			cols.desc = i
		case cols.category < 0 && (canon == "CATEGORY" || canon == "PART_TYPE" || canon == "FAMILY" || canon == "COMMODITY"):
			cols.category = i
		case cols.qty < 0 && (canon == "QUANTITY" || canon == "QTY"):
			cols.qty = i
		case cols.unitCost < 0 && (canon == "UNIT_COST" || canon == "UNIT_PRICE" || canon == "PRICE"):
			cols.unitCost = i
		case cols.totalCost < 0 && (canon == "TOTAL_COST" || canon == "TOTAL_VALUE" || canon == "TOTAL_PRICE" || canon == "EXTENDED_COST"):
			cols.totalCost = i
		case cols.supplier < 0 && (canon == "SUPPLIER" || canon == "VENDOR" || canon == "MANUFACTURER"):
			cols.supplier = i
		case cols.status < 0 && (canon == "ACTIVATION_STATUS" || canon == "STATUS" || canon == "STATE" || canon == "ACTIVATION"):
			cols.status = i
		}
	}
	return cols
}

// cellDecimal 把单元格解析为精确小数，优先用原始文本避免浮点误差
func cellDecimal(c model.Cell) (decimal.Decimal, bool) {
	if c.IsNull() {
		return decimal.Zero, false
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(c.Raw)); err == nil {
		return d, true
	}
	if c.Kind == model.CellNumber {
		return decimal.NewFromFloat(c.Num), true
	}
	return decimal.Zero, false
}

// BuildStatusBreakdown 按固定顺序输出状态分布
func BuildStatusBreakdown(sum *model.LookupSummary) []model.StatusSlice {
	slices := make([]model.StatusSlice, 0, 4)
	for _, s := range model.AllStatuses() {
		slices = append(slices, model.StatusSlice{
			Status:     s,
			Label:      s.Label(),
			Count:      sum.StatusDistribution[s],
			Percentage: sum.Percentages[s],
		})
	}
	return slices
}

// BuildDashboard 组装仪表盘数据
//
// history 为匹配运行留痕，时间序列按运行时间升序输出。
func BuildDashboard(master *model.CleanedTable, sum *model.LookupSummary, quality *model.DataQualityInsights, history []model.RunRecord, topN int) *model.DashboardData {
	bom, top := analyzeBOM(master, topN)
	return &model.DashboardData{
		KPIs: model.KPIs{
			TotalParts:    sum.TotalRecords,
			MatchedParts:  sum.SuccessfulMatches,
			MatchRate:     quality.MatchRate,
			ActiveParts:   sum.StatusDistribution[model.StatusActive],
			CheckParts:    sum.StatusDistribution[model.StatusCheck],
			InactiveParts: sum.StatusDistribution[model.StatusInactive],
			NotFoundParts: sum.StatusDistribution[model.StatusNotFound],
		},
		StatusBreakdown: BuildStatusBreakdown(sum),
		BOMAnalysis:     bom,
		TimeSeries:      buildTimeSeries(history),
		TopProducts:     top,
	}
}

// analyzeBOM 聚合 BOM 总体指标并挑选金额排名靠前的物料
func analyzeBOM(ct *model.CleanedTable, topN int) (model.BOMAnalysis, []model.TopProduct) {
	cols := detectBOMColumns(ct)
	categories := make(map[string]struct{})
	qtySum, valueSum, unitCostSum := decimal.Zero, decimal.Zero, decimal.Zero
	unitCostN := 0

	products := make([]model.TopProduct, 0, ct.RowCount())
	for _, row := range ct.Rows {
		p := model.TopProduct{}
		if cols.part >= 0 {
			p.PartNumber = row[cols.part].String()
		}
		if cols.desc >= 0 {
			p.Description = row[cols.desc].String()
		}
		if cols.category >= 0 && !row[cols.category].IsNull() {
			p.Category = row[cols.category].String()
			categories[p.Category] = struct{}{}
		}
		if cols.status >= 0 {
			p.Status = row[cols.status].String()
		}

		qty, hasQty := decimal.Zero, false
		if cols.qty >= 0 {
			qty, hasQty = cellDecimal(row[cols.qty])
			if hasQty {
				qtySum = qtySum.Add(qty)
				p.Quantity = qty.InexactFloat64()
			}
		}
		if cols.unitCost >= 0 {
			if unit, ok := cellDecimal(row[cols.unitCost]); ok {
				unitCostSum = unitCostSum.Add(unit)
				unitCostN++
				if cols.totalCost < 0 && hasQty {
					rowValue := unit.Mul(qty)
					valueSum = valueSum.Add(rowValue)
					p.TotalCost = rowValue.Round(2).InexactFloat64()
				}
			}
		}
		if cols.totalCost >= 0 {
			if total, ok := cellDecimal(row[cols.totalCost]); ok {
				valueSum = valueSum.Add(total)
				p.TotalCost = total.Round(2).InexactFloat64()
			}
		}
		products = append(products, p)
	}

	sort.SliceStable(products, func(i, j int) bool {
		if products[i].TotalCost != products[j].TotalCost {
			return products[i].TotalCost > products[j].TotalCost
		}
		if products[i].Quantity != products[j].Quantity {
			return products[i].Quantity > products[j].Quantity
		}
		return products[i].PartNumber < products[j].PartNumber
	})
	if topN > 0 && len(products) > topN {
		products = products[:topN]
	}

	analysis := model.BOMAnalysis{
		TotalParts:      ct.RowCount(),
		TotalCategories: len(categories),
		TotalQuantity:   qtySum.InexactFloat64(),
		TotalValue:      valueSum.Round(2).InexactFloat64(),
	}
	if unitCostN > 0 {
		analysis.AvgUnitCost = unitCostSum.DivRound(decimal.NewFromInt(int64(unitCostN)), 4).InexactFloat64()
	}
	return analysis, products
}

// BuildBOMReport 输出物料明细与按类别聚合的视图
//
// limit 限制明细条数，<= 0 为全部；类别聚合始终覆盖全部行。
func BuildBOMReport(ct *model.CleanedTable, limit int) *model.BOMReport {
	cols := detectBOMColumns(ct)

	type catAgg struct {
		count  int
		qty    decimal.Decimal
		value  decimal.Decimal
		active int
	}
	byCategory := make(map[string]*catAgg)

	records := make([]model.PartRecord, 0, ct.RowCount())
	for _, row := range ct.Rows {
		rec := model.PartRecord{}
		if cols.part >= 0 {
			rec.PartNumber = row[cols.part].String()
		}
		if cols.desc >= 0 {
			rec.Description = row[cols.desc].String()
		}
		if cols.supplier >= 0 {
			rec.Supplier = row[cols.supplier].String()
		}
		if cols.status >= 0 {
			rec.Status = row[cols.status].String()
		}

		category := "Uncategorized"
		if cols.category >= 0 && !row[cols.category].IsNull() {
			category = row[cols.category].String()
		}
		rec.Category = category

		qty, hasQty := decimal.Zero, false
		if cols.qty >= 0 {
			if q, ok := cellDecimal(row[cols.qty]); ok {
				qty, hasQty = q, true
				rec.Quantity = q.InexactFloat64()
			}
		}
		unit, hasUnit := decimal.Zero, false
		if cols.unitCost >= 0 {
			if u, ok := cellDecimal(row[cols.unitCost]); ok {
				unit, hasUnit = u, true
				rec.UnitCost = u.Round(4).InexactFloat64()
			}
		}
		rowValue, hasValue := decimal.Zero, false
		if cols.totalCost >= 0 {
			if v, ok := cellDecimal(row[cols.totalCost]); ok {
				rowValue, hasValue = v, true
			}
		}
		if !hasValue && hasUnit && hasQty {
			rowValue, hasValue = unit.Mul(qty), true
		}
		if hasValue {
			rec.TotalCost = rowValue.Round(2).InexactFloat64()
		}

		agg := byCategory[category]
		if agg == nil {
			agg = &catAgg{qty: decimal.Zero, value: decimal.Zero}
			byCategory[category] = agg
		}
		agg.count++
		if hasQty {
			agg.qty = agg.qty.Add(qty)
		}
		if hasValue {
			agg.value = agg.value.Add(rowValue)
		}
		if status, ok := model.ParseStatus(rec.Status); ok && status == model.StatusActive {
			agg.active++
		}

		records = append(records, rec)
	}

	analysis := make([]model.CategoryAnalysis, 0, len(byCategory))
	for name, agg := range byCategory {
		analysis = append(analysis, model.CategoryAnalysis{
			Category:      name,
			PartCount:     agg.count,
			TotalQuantity: agg.qty.InexactFloat64(),
			TotalValue:    agg.value.Round(2).InexactFloat64(),
			ActiveParts:   agg.active,
		})
	}
	sort.SliceStable(analysis, func(i, j int) bool {
		if analysis[i].TotalValue != analysis[j].TotalValue {
			return analysis[i].TotalValue > analysis[j].TotalValue
		}
		return analysis[i].Category < analysis[j].Category
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return &model.BOMReport{BOMData: records, CategoryAnalysis: analysis}
}

func buildTimeSeries(history []model.RunRecord) []model.TimeSeriesPoint {
	sorted := append([]model.RunRecord(nil), history...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RunAt.Before(sorted[j].RunAt)
	})

	points := make([]model.TimeSeriesPoint, 0, len(sorted))
	for _, r := range sorted {
		points = append(points, model.TimeSeriesPoint{
			Timestamp:         r.RunAt.Format("2006-01-02 15:04:05"),
			TotalRecords:      r.TotalRecords,
			SuccessfulMatches: r.Matched,
			FailedMatches:     r.Failed,
			MatchRate:         r.MatchRate,
		})
	}
	return points
}
