package v2

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
	"github.com/Storbiic/ETL-Automated-Tool/internal/session"
)

// GetLookupColumns 主表中可作为连接键的列
// POST /api/get-lookup-columns
func (h *Handler) GetLookupColumns(c *gin.Context) {
	columns, err := h.sessions.LookupColumns(h.etl.LookupColumnStart, h.etl.LookupColumnEnd)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"columns": columns})
}

// SuggestColumnRequest 列名建议请求
type SuggestColumnRequest struct {
	ColumnName string `json:"column_name" binding:"required"`
}

// SuggestColumn 为输入的列名找最接近的主表列
// POST /api/suggest-column
func (h *Handler) SuggestColumn(c *gin.Context) {
	var req SuggestColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failStatus(c, http.StatusBadRequest, "column_name is required")
		return
	}

	suggested, confidence, err := h.sessions.SuggestColumn(req.ColumnName)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, gin.H{
		"suggested_column": suggested,
		"confidence":       confidence,
		"found":            suggested != req.ColumnName,
	})
}

// LookupRequest 匹配请求
type LookupRequest struct {
	LookupColumn string `json:"lookup_column" binding:"required"`
}

// LookupSession 执行跨表匹配并返回汇总
// POST /api/lookup-session
func (h *Handler) LookupSession(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failStatus(c, http.StatusBadRequest, "lookup_column is required")
		return
	}

	out, err := h.sessions.Lookup(req.LookupColumn, h.etl.PreviewRows)
	if err != nil {
		fail(c, err)
		return
	}

	h.recordRun(req.LookupColumn, out)
	ok(c, lookupPayload(out))
}

// LookupInsights 最近一次匹配的汇总
// POST /api/lookup-insights
func (h *Handler) LookupInsights(c *gin.Context) {
	out, err := h.sessions.LookupInsights(h.etl.PreviewRows)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, lookupPayload(out))
}

// lookupPayload 匹配结果的响应载荷
func lookupPayload(out *session.LookupOutput) gin.H {
	return gin.H{
		"lookup_summary":         out.Summary,
		"data_quality_insights":  out.Quality,
		"recommendations":        out.Recommendations,
		"duplicate_key_warnings": out.Warnings,
		"lookup_stats":           out.Stats,
		"preview":                out.Preview,
		"lookup_column":          out.LookupColumn,
	}
}

// recordRun 匹配运行落库，失败仅记日志
func (h *Handler) recordRun(lookupColumn string, out *session.LookupOutput) {
	if h.store == nil {
		return
	}
	status := h.sessions.Status()
	if _, err := h.store.InsertLookupRun(&model.RunRecord{
		FileID:        status.FileID,
		MasterSheet:   status.MasterSheet,
		TargetSheet:   status.TargetSheet,
		LookupColumn:  lookupColumn,
		TotalRecords:  out.Summary.TotalRecords,
		Matched:       out.Summary.SuccessfulMatches,
		Failed:        out.Summary.FailedMatches,
		MatchRate:     out.Quality.MatchRate,
		StatusD:       out.Quality.StatusDParts,
		Status0:       out.Quality.Status0Parts,
		StatusX:       out.Quality.StatusXParts,
		NotFound:      out.Quality.NotFoundParts,
		DuplicateKeys: len(out.Warnings),
	}); err != nil {
		log.Printf("failed to record lookup run: %v", err)
	}
}
