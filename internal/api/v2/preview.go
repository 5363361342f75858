package v2

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PreviewRequest 预览请求
type PreviewRequest struct {
	MasterSheet string `json:"master_sheet" binding:"required"`
	TargetSheet string `json:"target_sheet" binding:"required"`
}

// PreviewSession 选定主/目标表并返回预览
// POST /api/preview-session
func (h *Handler) PreviewSession(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failStatus(c, http.StatusBadRequest, "master_sheet and target_sheet are required")
		return
	}

	result, err := h.sessions.Preview(req.MasterSheet, req.TargetSheet, h.etl.PreviewRows)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, gin.H{
		"previews":      result.Previews,
		"row_counts":    result.Rows,
		"column_counts": result.Columns,
	})
}
