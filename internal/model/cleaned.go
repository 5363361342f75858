package model

// ColumnType 列类型推断结果
type ColumnType string

const (
	ColumnString      ColumnType = "string"
	ColumnNumeric     ColumnType = "numeric"
	ColumnDate        ColumnType = "date"
	ColumnCategorical ColumnType = "categorical"
)

// ColumnStats 单列画像
type ColumnStats struct {
	Name         string     `json:"name"`
	Type         ColumnType `json:"type"`
	NonNull      int        `json:"non_null"`
	Completeness float64    `json:"completeness"` // 非空占比 0~1
	UniqueCount  int        `json:"unique_count"`
}

// KeyCandidate 类料号关键列的识别结果
type KeyCandidate struct {
	Found       bool    `json:"found"`
	Column      string  `json:"column"`
	Score       float64 `json:"score"`
	UniqueCount int     `json:"unique_count"`
	NullCount   int     `json:"null_count"`
}

// CleaningStats 清洗过程统计
type CleaningStats struct {
	OriginalRows     int      `json:"original_rows"`
	DroppedEmptyRows int      `json:"dropped_empty_rows"`
	DroppedKeyRows   int      `json:"dropped_key_rows"` // 关键列清洗后为空被剔除的行
	ScrubbedKeys     int      `json:"scrubbed_keys"`    // 关键列被归一化修改的值数量
	RenamedColumns   []string `json:"renamed_columns,omitempty"`
}

// CleanedTable 清洗后的表：规范化数据 + 列画像 + 关键列信息
type CleanedTable struct {
	*Table
	Stats    []ColumnStats
	Key      KeyCandidate
	Cleaning CleaningStats
}

// ColumnStat 取指定列的画像，不存在返回零值
func (ct *CleanedTable) ColumnStat(name string) ColumnStats {
	for _, s := range ct.Stats {
		if s.Name == name {
			return s
		}
	}
	return ColumnStats{}
}
