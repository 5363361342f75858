package v2

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Storbiic/ETL-Automated-Tool/internal/config"
	"github.com/Storbiic/ETL-Automated-Tool/internal/importer"
	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
	"github.com/Storbiic/ETL-Automated-Tool/internal/session"
	"github.com/Storbiic/ETL-Automated-Tool/internal/store"
)

// Version 对外 API 版本号
const Version = "2.0.0"

// Handler 会话流水线 API 处理器
type Handler struct {
	store       *store.Store
	sessions    *session.Manager
	coordinator *importer.Coordinator
	etl         config.ETLConfig
	uploadsDir  string
	exportsDir  string
	downloads   *exportDownloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(store *store.Store, sessions *session.Manager, etl config.ETLConfig, uploadsDir, exportsDir string) *Handler {
	return &Handler{
		store:       store,
		sessions:    sessions,
		coordinator: importer.NewCoordinator(store, sessions),
		etl:         etl,
		uploadsDir:  uploadsDir,
		exportsDir:  exportsDir,
		downloads:   newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 上传
	router.POST("/upload", h.Upload)
	router.POST("/upload/stream", h.UploadStream)

	// 会话流水线
	router.POST("/preview-session", h.PreviewSession)
	router.POST("/clean-session", h.CleanSession)
	router.POST("/column-insights", h.ColumnInsights)
	router.POST("/get-lookup-columns", h.GetLookupColumns)
	router.POST("/suggest-column", h.SuggestColumn)
	router.POST("/lookup-session", h.LookupSession)
	router.POST("/lookup-insights", h.LookupInsights)
	router.POST("/process-updates", h.ProcessUpdates)
	router.POST("/session/reset", h.ResetSession)

	// 分析视图
	router.GET("/dashboard/data", h.DashboardData)
	router.GET("/bom/analysis", h.BOMAnalysis)

	// 导出
	router.GET("/download/:file_id/:sheet_name", h.DownloadSheet)
	router.POST("/export/workbook", h.ExportWorkbook)
	router.POST("/export/report", h.ExportReport)
	router.GET("/export/download/:token", h.DownloadExport)
}

// ok 成功响应：success 恒为 true，extra 为附加字段
func ok(c *gin.Context, extra gin.H) {
	payload := gin.H{"success": true}
	for k, v := range extra {
		payload[k] = v
	}
	c.JSON(http.StatusOK, payload)
}

// fail 失败响应：success=false + error 消息
func fail(c *gin.Context, err error) {
	c.JSON(errStatus(err), gin.H{"success": false, "error": err.Error()})
}

// failStatus 指定 HTTP 状态码的失败响应
func failStatus(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// errStatus 错误分类到 HTTP 状态码的映射
func errStatus(err error) int {
	var notFound *model.NotFoundError
	var schemaErr *model.SchemaError
	var emptyErr *model.EmptySheetError
	var columnErr *model.InvalidColumnError
	var stateErr *model.InvalidStateError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &schemaErr), errors.As(err, &emptyErr), errors.As(err, &columnErr):
		return http.StatusBadRequest
	case errors.As(err, &stateErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
