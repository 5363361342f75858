package exporter

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// ReportInput HTML 报告的数据来源
type ReportInput struct {
	Filename        string
	StatusBreakdown []model.StatusSlice
	Categories      []model.CategoryAnalysis
	TimeSeries      []model.TimeSeriesPoint
}

// WriteReport 渲染独立的 HTML 图表报告
//
// 包含状态分布饼图、类别金额柱状图与历史匹配率折线图，
// 数据缺失的图表自动省略。
func WriteReport(w io.Writer, in ReportInput) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("BOM Reconciliation Report - %s", in.Filename)

	if len(in.StatusBreakdown) > 0 {
		page.AddCharts(statusPie(in.StatusBreakdown))
	}
	if len(in.Categories) > 0 {
		page.AddCharts(categoryBar(in.Categories))
	}
	if len(in.TimeSeries) > 0 {
		page.AddCharts(matchRateLine(in.TimeSeries))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// statusPie 激活状态分布饼图
func statusPie(breakdown []model.StatusSlice) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Activation Status Distribution"}),
	)

	data := make([]opts.PieData, 0, len(breakdown))
	for _, s := range breakdown {
		data = append(data, opts.PieData{Name: s.Label, Value: s.Count})
	}
	pie.AddSeries("status", data)
	return pie
}

// categoryBar 按类别聚合的金额柱状图
func categoryBar(categories []model.CategoryAnalysis) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Value by Category"}),
	)

	names := make([]string, 0, len(categories))
	values := make([]opts.BarData, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Category)
		values = append(values, opts.BarData{Value: c.TotalValue})
	}
	bar.SetXAxis(names).AddSeries("total value", values)
	return bar
}

// matchRateLine 历史匹配率折线图
func matchRateLine(series []model.TimeSeriesPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Match Rate History"}),
	)

	timestamps := make([]string, 0, len(series))
	rates := make([]opts.LineData, 0, len(series))
	for _, p := range series {
		timestamps = append(timestamps, p.Timestamp)
		rates = append(rates, opts.LineData{Value: p.MatchRate})
	}
	line.SetXAxis(timestamps).AddSeries("match rate %", rates)
	return line
}
