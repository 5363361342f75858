package model

// LookupResult 单行匹配结果：目标行 + 解析出的状态 + 命中的主表行
type LookupResult struct {
	Row       Row
	Key       string // 归一化后的连接键，键缺失时为空串
	Status    Status
	MasterRow int // 命中的主表行下标，未命中为 -1
}

// LookupSummary 匹配结果汇总
type LookupSummary struct {
	TotalRecords       int                `json:"total_records"`
	SuccessfulMatches  int                `json:"successful_matches"`
	FailedMatches      int                `json:"failed_matches"`
	StatusDistribution map[Status]int     `json:"activation_status_distribution"`
	Percentages        map[Status]float64 `json:"activation_percentages"`
}

// DataQualityInsights 匹配质量指标
type DataQualityInsights struct {
	MatchRate     float64 `json:"match_rate"`
	StatusDParts  int     `json:"status_d_parts"`
	StatusXParts  int     `json:"status_x_parts"`
	Status0Parts  int     `json:"status_0_parts"`
	NotFoundParts int     `json:"not_found_parts"`
}

// SheetAnalysis 单表画像
type SheetAnalysis struct {
	SheetName        string        `json:"sheet_name"`
	TotalRows        int           `json:"total_rows"`
	TotalColumns     int           `json:"total_columns"`
	Completeness     float64       `json:"completeness"` // 全表非空占比，百分数
	Columns          []ColumnStats `json:"columns"`
	KeyCandidate     KeyCandidate  `json:"key_candidate"`
	DroppedEmptyRows int           `json:"dropped_empty_rows"`
}

// DataQuality 主/目标表完整度（百分数）
type DataQuality struct {
	MasterCompleteness float64 `json:"master_completeness"`
	TargetCompleteness float64 `json:"target_completeness"`
}

// ColumnInsights 列画像响应载荷
type ColumnInsights struct {
	Master  SheetAnalysis `json:"master_sheet_analysis"`
	Target  SheetAnalysis `json:"target_sheet_analysis"`
	Quality DataQuality   `json:"data_quality"`
}

// UpdateReport 主表回写执行结果
type UpdateReport struct {
	UpdatedCount    int      `json:"updated_count"`
	InsertedCount   int      `json:"inserted_count"`
	DuplicatesCount int      `json:"duplicates_count"`
	SkippedCount    int      `json:"skipped_count"`
	UpdatedRecords  []string `json:"updated_records"`
	InsertedRecords []string `json:"inserted_records"`
	Duplicates      []string `json:"duplicates"`
}
