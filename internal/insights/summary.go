package insights

import (
	"fmt"
	"math"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// Thresholds 建议生成的阈值
type Thresholds struct {
	LowMatchRate     float64 // 低于该匹配率时提示复查键列选择，百分数
	HighNotFoundRate float64 // 未命中占比超过该值时提示检查键格式，百分数
}

// DefaultThresholds 默认阈值
func DefaultThresholds() Thresholds {
	return Thresholds{LowMatchRate: 70, HighNotFoundRate: 10}
}

// Summarize 汇总匹配结果
//
// 分布覆盖全部四种状态，未出现的状态计数为 0；百分比各自四舍五入到
// 一位小数，允许合计存在舍入漂移。
func Summarize(results []model.LookupResult) *model.LookupSummary {
	sum := &model.LookupSummary{
		TotalRecords:       len(results),
		StatusDistribution: make(map[model.Status]int, 4),
		Percentages:        make(map[model.Status]float64, 4),
	}
	for _, s := range model.AllStatuses() {
		sum.StatusDistribution[s] = 0
		sum.Percentages[s] = 0
	}

	for _, r := range results {
		sum.StatusDistribution[r.Status]++
		if r.Status.Matched() {
			sum.SuccessfulMatches++
		} else {
			sum.FailedMatches++
		}
	}

	if sum.TotalRecords > 0 {
		for _, s := range model.AllStatuses() {
			sum.Percentages[s] = round1(float64(sum.StatusDistribution[s]) / float64(sum.TotalRecords) * 100)
		}
	}
	return sum
}

// BuildQuality 从汇总导出质量指标，total 为零时匹配率为 0
func BuildQuality(sum *model.LookupSummary) *model.DataQualityInsights {
	q := &model.DataQualityInsights{
		StatusDParts:  sum.StatusDistribution[model.StatusActive],
		Status0Parts:  sum.StatusDistribution[model.StatusCheck],
		StatusXParts:  sum.StatusDistribution[model.StatusInactive],
		NotFoundParts: sum.StatusDistribution[model.StatusNotFound],
	}
	if sum.TotalRecords > 0 {
		q.MatchRate = round1(float64(sum.SuccessfulMatches) / float64(sum.TotalRecords) * 100)
	}
	return q
}

// BuildRecommendations 按固定规则生成建议，输入相同则输出相同
func BuildRecommendations(sum *model.LookupSummary, quality *model.DataQualityInsights, warnings []model.DuplicateKeyWarning, th Thresholds) []string {
	if sum.TotalRecords == 0 {
		return []string{"No records to analyze. Upload data and run the lookup again."}
	}

	recs := make([]string, 0, 4)
	if quality.MatchRate < th.LowMatchRate {
		recs = append(recs, fmt.Sprintf(
			"Match rate %.1f%% is below the %.0f%% target. Review the lookup column selection and key formatting.",
			quality.MatchRate, th.LowMatchRate))
	}
	notFoundRate := float64(quality.NotFoundParts) / float64(sum.TotalRecords) * 100
	if notFoundRate > th.HighNotFoundRate {
		recs = append(recs, fmt.Sprintf(
			"%d parts (%.1f%%) were not found in the master sheet. Check for typos or format mismatches in the key column.",
			quality.NotFoundParts, notFoundRate))
	}
	if len(warnings) > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d duplicate keys in the master sheet were ignored (first occurrence wins). Consider deduplicating the master sheet.",
			len(warnings)))
	}
	if quality.Status0Parts > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d matched parts carry no usable activation status. Review parts marked 0 before processing updates.",
			quality.Status0Parts))
	}
	if len(recs) == 0 {
		recs = append(recs, "Data quality looks good. Proceed to process updates.")
	}
	return recs
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
