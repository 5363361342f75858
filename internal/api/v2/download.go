package v2

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Storbiic/ETL-Automated-Tool/internal/exporter"
	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// exportTTL 导出令牌有效期
const exportTTL = 10 * time.Minute

// DownloadSheet 下载某个表的最新形态（CSV）
// GET /api/download/:file_id/:sheet_name
func (h *Handler) DownloadSheet(c *gin.Context) {
	fileID := c.Param("file_id")
	sheetName := c.Param("sheet_name")

	table, err := h.sessions.ProcessedSheet(fileID, sheetName)
	if err != nil {
		fail(c, err)
		return
	}

	filename := fmt.Sprintf("processed_%s.csv", sanitizeFilename(sheetName))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "text/csv")
	if err := exporter.WriteCSV(c.Writer, table); err != nil {
		// 响应头已发出，只能中断连接
		_ = c.Error(err)
	}
}

// ExportWorkbook 生成结果工作簿并返回一次性下载令牌
// POST /api/export/workbook
func (h *Handler) ExportWorkbook(c *gin.Context) {
	view, err := h.sessions.Export()
	if err != nil {
		fail(c, err)
		return
	}

	f, err := exporter.BuildWorkbook(exporter.WorkbookInput{
		MasterSheet: view.MasterSheet,
		TargetSheet: view.TargetSheet,
		Master:      view.Master.Table,
		Result:      view.Result,
		Summary:     view.Summary,
		Quality:     view.Quality,
	})
	if err != nil {
		fail(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	filename := fmt.Sprintf("reconciled_%s.xlsx", sanitizeFilename(strings.TrimSuffix(view.Filename, filepath.Ext(view.Filename))))
	path := filepath.Join(h.exportsDir, fmt.Sprintf("%s_%s", uuid.NewString(), filename))
	if err := f.SaveAs(path); err != nil {
		failStatus(c, http.StatusInternalServerError, fmt.Sprintf("failed to save workbook: %v", err))
		return
	}

	token := h.downloads.put(path, filename,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", exportTTL)
	ok(c, gin.H{"token": token, "filename": filename})
}

// ExportReport 生成 HTML 图表报告并返回一次性下载令牌
// POST /api/export/report
func (h *Handler) ExportReport(c *gin.Context) {
	view, err := h.sessions.Export()
	if err != nil {
		fail(c, err)
		return
	}

	var history []model.RunRecord
	if h.store != nil {
		history, _ = h.store.ListLookupRuns(runHistoryLimit)
	}
	data, err := h.sessions.Dashboard(history, h.etl.TopProducts)
	if err != nil {
		fail(c, err)
		return
	}
	report, err := h.sessions.BOMReport(0)
	if err != nil {
		fail(c, err)
		return
	}

	filename := fmt.Sprintf("report_%s.html", sanitizeFilename(strings.TrimSuffix(view.Filename, filepath.Ext(view.Filename))))
	path := filepath.Join(h.exportsDir, fmt.Sprintf("%s_%s", uuid.NewString(), filename))
	out, err := os.Create(path)
	if err != nil {
		failStatus(c, http.StatusInternalServerError, fmt.Sprintf("failed to create report file: %v", err))
		return
	}
	renderErr := exporter.WriteReport(out, exporter.ReportInput{
		Filename:        view.Filename,
		StatusBreakdown: data.StatusBreakdown,
		Categories:      report.CategoryAnalysis,
		TimeSeries:      data.TimeSeries,
	})
	closeErr := out.Close()
	if renderErr != nil {
		failStatus(c, http.StatusInternalServerError, fmt.Sprintf("failed to render report: %v", renderErr))
		return
	}
	if closeErr != nil {
		failStatus(c, http.StatusInternalServerError, fmt.Sprintf("failed to write report: %v", closeErr))
		return
	}

	token := h.downloads.put(path, filename, "text/html; charset=utf-8", exportTTL)
	ok(c, gin.H{"token": token, "filename": filename})
}

// DownloadExport 按令牌下载导出产物，令牌一次性有效
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	item, found := h.downloads.get(token)
	if !found {
		failStatus(c, http.StatusNotFound, "download token is invalid or expired")
		return
	}
	h.downloads.delete(token)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", item.filename))
	c.Header("Content-Type", item.contentType)
	c.File(item.filePath)
}

// sanitizeFilename 文件名中不安全字符替换为下划线
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_", ":", "_")
	name = replacer.Replace(name)
	if name == "" {
		name = "export"
	}
	return name
}
