package v2

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// runHistoryLimit 时间序列读取的最近运行条数
const runHistoryLimit = 50

// DashboardData 仪表盘数据
// GET /api/dashboard/data
func (h *Handler) DashboardData(c *gin.Context) {
	var history []model.RunRecord
	if h.store != nil {
		var err error
		history, err = h.store.ListLookupRuns(runHistoryLimit)
		if err != nil {
			// 历史读取失败时仪表盘仍可用，时间序列为空
			log.Printf("failed to load run history: %v", err)
			history = nil
		}
	}

	data, err := h.sessions.Dashboard(history, h.etl.TopProducts)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, gin.H{
		"kpis":             data.KPIs,
		"status_breakdown": data.StatusBreakdown,
		"bom_analysis":     data.BOMAnalysis,
		"time_series_data": data.TimeSeries,
		"top_products":     data.TopProducts,
	})
}

// BOMAnalysis BOM 明细与类别聚合
// GET /api/bom/analysis
func (h *Handler) BOMAnalysis(c *gin.Context) {
	report, err := h.sessions.BOMReport(h.etl.BOMDetailLimit)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, gin.H{
		"bom_data":          report.BOMData,
		"category_analysis": report.CategoryAnalysis,
	})
}
