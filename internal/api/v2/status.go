package v2

import (
	"log"

	"github.com/gin-gonic/gin"
)

// GetStatus 系统与会话状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	status := h.sessions.Status()

	payload := gin.H{
		"version": Version,
		"session": status,
	}
	if h.store != nil {
		if runs, err := h.store.CountLookupRuns(); err == nil {
			payload["lookup_runs"] = runs
		}
		last, err := h.store.LastImport()
		if err != nil {
			log.Printf("failed to read last import: %v", err)
		} else if last != nil {
			payload["last_import"] = last
		}
	}
	ok(c, payload)
}

// ResetSession 丢弃当前会话
// POST /api/session/reset
func (h *Handler) ResetSession(c *gin.Context) {
	h.sessions.Reset()
	ok(c, gin.H{"message": "Session reset"})
}
