package v2

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UpdateRequest 主表回写请求
//
// 字段用于核对请求与活动会话一致，允许留空（取会话当前值）。
type UpdateRequest struct {
	FileID       string `json:"file_id"`
	MasterSheet  string `json:"master_sheet"`
	TargetSheet  string `json:"target_sheet"`
	LookupColumn string `json:"lookup_column"`
}

// ProcessUpdates 按激活状态回写主表
// POST /api/process-updates
func (h *Handler) ProcessUpdates(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failStatus(c, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.sessions.ProcessUpdates(req.FileID, req.MasterSheet, req.TargetSheet, req.LookupColumn)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, gin.H{
		"message":          "Master BOM updates completed successfully",
		"updated_count":    report.UpdatedCount,
		"inserted_count":   report.InsertedCount,
		"duplicates_count": report.DuplicatesCount,
		"skipped_count":    report.SkippedCount,
		"duplicates":       report.Duplicates,
		"updated_records":  report.UpdatedRecords,
		"inserted_records": report.InsertedRecords,
	})
}
