package model

// KPIs 仪表盘核心指标
type KPIs struct {
	TotalParts    int     `json:"total_parts"`
	MatchedParts  int     `json:"matched_parts"`
	MatchRate     float64 `json:"match_rate"`
	ActiveParts   int     `json:"active_parts"`
	CheckParts    int     `json:"check_parts"`
	InactiveParts int     `json:"inactive_parts"`
	NotFoundParts int     `json:"not_found_parts"`
}

// StatusSlice 状态分布的一个扇区
type StatusSlice struct {
	Status     Status  `json:"status"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// BOMAnalysis BOM 总体分析
type BOMAnalysis struct {
	TotalParts      int     `json:"total_parts"`
	TotalCategories int     `json:"total_categories"`
	TotalQuantity   float64 `json:"total_quantity"`
	TotalValue      float64 `json:"total_value"`
	AvgUnitCost     float64 `json:"avg_unit_cost"`
}

// TimeSeriesPoint 一次匹配运行的历史点
type TimeSeriesPoint struct {
	Timestamp         string  `json:"timestamp"`
	TotalRecords      int     `json:"total_records"`
	SuccessfulMatches int     `json:"successful_matches"`
	FailedMatches     int     `json:"failed_matches"`
	MatchRate         float64 `json:"match_rate"`
}

// TopProduct 金额或数量排名靠前的物料
type TopProduct struct {
	PartNumber  string  `json:"part_number"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Quantity    float64 `json:"quantity"`
	TotalCost   float64 `json:"total_cost"`
	Status      string  `json:"status,omitempty"`
}

// DashboardData 仪表盘数据载荷
type DashboardData struct {
	KPIs            KPIs              `json:"kpis"`
	StatusBreakdown []StatusSlice     `json:"status_breakdown"`
	BOMAnalysis     BOMAnalysis       `json:"bom_analysis"`
	TimeSeries      []TimeSeriesPoint `json:"time_series_data"`
	TopProducts     []TopProduct      `json:"top_products"`
}

// PartRecord 单条物料记录
type PartRecord struct {
	PartNumber  string  `json:"part_number"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	Quantity    float64 `json:"quantity"`
	UnitCost    float64 `json:"unit_cost"`
	TotalCost   float64 `json:"total_cost"`
	Supplier    string  `json:"supplier"`
}

// CategoryAnalysis 按类别聚合的 BOM 视图
type CategoryAnalysis struct {
	Category      string  `json:"category"`
	PartCount     int     `json:"part_count"`
	TotalQuantity float64 `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
	ActiveParts   int     `json:"active_parts"`
}

// BOMReport bom 分析载荷
type BOMReport struct {
	BOMData          []PartRecord       `json:"bom_data"`
	CategoryAnalysis []CategoryAnalysis `json:"category_analysis"`
}
