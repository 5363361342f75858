package importer

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
	"github.com/Storbiic/ETL-Automated-Tool/internal/parser"
	"github.com/Storbiic/ETL-Automated-Tool/internal/session"
	"github.com/Storbiic/ETL-Automated-Tool/internal/store"
)

// Coordinator 上传导入协调器
//
// 读取上传文件、逐表规范化、创建会话并写入上传留痕。
type Coordinator struct {
	store    *store.Store
	sessions *session.Manager
}

// NewCoordinator 创建导入协调器
func NewCoordinator(store *store.Store, sessions *session.Manager) *Coordinator {
	return &Coordinator{store: store, sessions: sessions}
}

// ImportOptions 导入选项
type ImportOptions struct {
	FilePath string // 已落盘的上传文件路径
	Filename string // 原始文件名
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string    `json:"type"`    // start/sheet_start/sheet_done/warning/done/error
	Message   string    `json:"message"` // 事件消息
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SheetIssue 被跳过的表及原因
type SheetIssue struct {
	SheetName string `json:"sheet_name"`
	Error     string `json:"error"`
}

// Result 一次导入的最终结果
type Result struct {
	FileID     string        `json:"file_id"`
	Filename   string        `json:"filename"`
	SheetNames []string      `json:"sheet_names"`
	TotalRows  int           `json:"total_rows"`
	Skipped    []SheetIssue  `json:"skipped_sheets,omitempty"`
	Duration   time.Duration `json:"-"`
}

// Import 异步执行导入，进度通过返回的通道流出
func (c *Coordinator) Import(opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doImport(opts, progressChan)
	}()

	return progressChan
}

// ImportFile 同步执行导入
func (c *Coordinator) ImportFile(opts ImportOptions) (*Result, error) {
	var result *Result
	var importErr error
	for event := range c.Import(opts) {
		switch event.Type {
		case "done":
			if r, ok := event.Data.(*Result); ok {
				result = r
			}
		case "error":
			importErr = errors.New(event.Message)
		}
	}
	if importErr != nil {
		return nil, importErr
	}
	if result == nil {
		return nil, errors.New("import finished without a result")
	}
	return result, nil
}

// doImport 执行导入逻辑
func (c *Coordinator) doImport(opts ImportOptions, progressChan chan ProgressEvent) {
	startTime := time.Now()
	filename := opts.Filename
	if filename == "" {
		filename = filepath.Base(opts.FilePath)
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "start",
		Message:   fmt.Sprintf("Reading workbook %s", filename),
		Data:      map[string]string{"filename": filename},
		Timestamp: time.Now(),
	})

	wb, err := parser.ReadWorkbook(opts.FilePath)
	if err != nil {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("failed to read workbook: %v", err),
			Timestamp: time.Now(),
		})
		return
	}

	result := &Result{
		FileID:   uuid.NewString(),
		Filename: filename,
	}

	var tables []*model.Table
	for i := range wb.Sheets {
		raw := &wb.Sheets[i]
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "sheet_start",
			Message:   fmt.Sprintf("Normalizing sheet %q", raw.Name),
			Data:      map[string]string{"sheet_name": raw.Name},
			Timestamp: time.Now(),
		})

		table, err := raw.Normalize()
		if err != nil {
			// 单表的 SchemaError 只阻断该表，其余表继续
			result.Skipped = append(result.Skipped, SheetIssue{SheetName: raw.Name, Error: err.Error()})
			c.sendProgress(progressChan, ProgressEvent{
				Type:      "warning",
				Message:   fmt.Sprintf("Sheet %q skipped: %v", raw.Name, err),
				Timestamp: time.Now(),
			})
			continue
		}

		tables = append(tables, table)
		result.SheetNames = append(result.SheetNames, table.Name)
		result.TotalRows += table.RowCount()
		c.sendProgress(progressChan, ProgressEvent{
			Type:    "sheet_done",
			Message: fmt.Sprintf("Sheet %q ready: %d rows, %d columns", table.Name, table.RowCount(), len(table.Columns)),
			Data: map[string]any{
				"sheet_name": table.Name,
				"rows":       table.RowCount(),
				"columns":    len(table.Columns),
			},
			Timestamp: time.Now(),
		})
	}

	if len(tables) == 0 {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "error",
			Message:   "no usable sheets in the uploaded file",
			Timestamp: time.Now(),
		})
		return
	}

	c.sessions.Create(result.FileID, filename, opts.FilePath, tables)

	// 留痕写入失败不影响会话创建
	if c.store != nil {
		if _, err := c.store.InsertImportLog(&model.ImportRecord{
			FileID:     result.FileID,
			Filename:   filename,
			SheetCount: len(tables),
			TotalRows:  result.TotalRows,
		}); err != nil {
			log.Printf("failed to record import log: %v", err)
		}
	}

	result.Duration = time.Since(startTime)
	c.sendProgress(progressChan, ProgressEvent{
		Type:      "done",
		Message:   fmt.Sprintf("File %q imported: %d sheets", filename, len(tables)),
		Data:      result,
		Timestamp: time.Now(),
	})
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}
