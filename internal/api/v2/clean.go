package v2

import (
	"github.com/gin-gonic/gin"
)

// CleanSession 清洗已选定的主/目标表
// POST /api/clean-session
func (h *Handler) CleanSession(c *gin.Context) {
	result, err := h.sessions.Clean(5)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, gin.H{
		"message":         "Data cleaning completed successfully",
		"master_cleaning": result.MasterCleaning,
		"target_cleaning": result.TargetCleaning,
		"master_shape":    result.MasterShape,
		"target_shape":    result.TargetShape,
		"master_preview":  result.MasterPreview,
		"target_preview":  result.TargetPreview,
	})
}

// ColumnInsights 清洗后的列画像
// POST /api/column-insights
func (h *Handler) ColumnInsights(c *gin.Context) {
	ins, err := h.sessions.Insights()
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, gin.H{
		"master_sheet_analysis": ins.Master,
		"target_sheet_analysis": ins.Target,
		"data_quality":          ins.Quality,
	})
}
