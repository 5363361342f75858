package v2

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Storbiic/ETL-Automated-Tool/internal/importer"
)

// allowedExtensions 支持的上传文件类型
var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".csv":  true,
}

// saveUpload 校验并落盘上传文件，返回存储路径
func (h *Handler) saveUpload(c *gin.Context) (path, filename string, err error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", "", fmt.Errorf("no file in upload form")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", "", fmt.Errorf("unsupported file type %q, only .xlsx/.xlsm/.csv are accepted", ext)
	}

	// 以随机前缀落盘，避免并发上传互相覆盖
	stored := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(file.Filename))
	path = filepath.Join(h.uploadsDir, stored)
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", "", fmt.Errorf("failed to save uploaded file: %w", err)
	}
	return path, file.Filename, nil
}

// Upload 上传工作簿并创建会话
// POST /api/upload
func (h *Handler) Upload(c *gin.Context) {
	path, filename, err := h.saveUpload(c)
	if err != nil {
		failStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.coordinator.ImportFile(importer.ImportOptions{
		FilePath: path,
		Filename: filename,
	})
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, gin.H{
		"message":        fmt.Sprintf("File %q uploaded successfully", filename),
		"file_id":        result.FileID,
		"sheet_names":    result.SheetNames,
		"total_rows":     result.TotalRows,
		"skipped_sheets": result.Skipped,
	})
}

// UploadStream 上传工作簿，进度以 SSE 流式返回
// POST /api/upload/stream
func (h *Handler) UploadStream(c *gin.Context) {
	path, filename, err := h.saveUpload(c)
	if err != nil {
		failStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	flusher, okFlush := c.Writer.(http.Flusher)
	if !okFlush {
		failStatus(c, http.StatusInternalServerError, "streaming is not supported")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	progressChan := h.coordinator.Import(importer.ImportOptions{
		FilePath: path,
		Filename: filename,
	})

	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}
		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}
