package session

import (
	"fmt"
	"sync"

	"github.com/Storbiic/ETL-Automated-Tool/internal/insights"
	"github.com/Storbiic/ETL-Automated-Tool/internal/matcher"
	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
	"github.com/Storbiic/ETL-Automated-Tool/internal/parser"
)

// Stage 会话所处的流水线阶段
type Stage string

const (
	StageEmpty     Stage = "empty"
	StageUploaded  Stage = "uploaded"
	StagePreviewed Stage = "previewed"
	StageCleaned   Stage = "cleaned"
	StageLookup    Stage = "lookup_done"
	StageUpdated   Stage = "updates_applied"
)

// state 会话内部状态
//
// 每个阶段只在成功时整体替换相关字段（原子提交），失败保持上一阶段产物不变。
type state struct {
	fileID   string
	filename string
	filePath string
	sheets   []*model.Table // 规范化后的原始表，按上传顺序

	masterSheet string
	targetSheet string

	cleanedMaster *model.CleanedTable
	cleanedTarget *model.CleanedTable
	insights      *model.ColumnInsights

	lookupColumn    string
	outcome         *matcher.Outcome
	summary         *model.LookupSummary
	quality         *model.DataQualityInsights
	recommendations []string

	updateReport *model.UpdateReport

	stage Stage
}

// Manager 单会话管理器
//
// 服务实例内同一时刻只有一个活动会话；互斥锁在整个阶段处理期间持有，
// 并发请求被串行化，阶段间不会交错读写。
type Manager struct {
	mu      sync.Mutex
	version int64
	state   *state

	cleaner    *parser.Cleaner
	engine     *matcher.Engine
	thresholds insights.Thresholds
}

// Options 管理器可调参数
type Options struct {
	SampleSize int
	Thresholds insights.Thresholds
}

// NewManager 创建会话管理器
func NewManager(opts Options) *Manager {
	cleaner := parser.NewCleaner()
	if opts.SampleSize > 0 {
		cleaner.SampleSize = opts.SampleSize
	}
	th := opts.Thresholds
	if th.LowMatchRate == 0 && th.HighNotFoundRate == 0 {
		th = insights.DefaultThresholds()
	}
	return &Manager{
		cleaner:    cleaner,
		engine:     matcher.NewEngine(),
		thresholds: th,
	}
}

// Status 会话状态快照
type Status struct {
	Active      bool     `json:"active"`
	FileID      string   `json:"file_id,omitempty"`
	Filename    string   `json:"filename,omitempty"`
	SheetNames  []string `json:"sheet_names,omitempty"`
	MasterSheet string   `json:"master_sheet,omitempty"`
	TargetSheet string   `json:"target_sheet,omitempty"`
	Stage       Stage    `json:"stage"`
	Version     int64    `json:"version"`
}

// Create 用新上传的文件替换当前会话
func (m *Manager) Create(fileID, filename, filePath string, sheets []*model.Table) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = &state{
		fileID:   fileID,
		filename: filename,
		filePath: filePath,
		sheets:   sheets,
		stage:    StageUploaded,
	}
	m.version++
	return m.statusLocked()
}

// Reset 丢弃当前会话
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = nil
	m.version++
}

// Status 返回当前会话状态
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

func (m *Manager) statusLocked() Status {
	st := Status{Stage: StageEmpty, Version: m.version}
	if m.state == nil {
		return st
	}
	st.Active = true
	st.FileID = m.state.fileID
	st.Filename = m.state.filename
	st.MasterSheet = m.state.masterSheet
	st.TargetSheet = m.state.targetSheet
	st.Stage = m.state.stage
	for _, t := range m.state.sheets {
		st.SheetNames = append(st.SheetNames, t.Name)
	}
	return st
}

// PreviewResult 预览响应载荷
type PreviewResult struct {
	Previews map[string][]map[string]any `json:"previews"`
	Rows     map[string]int              `json:"row_counts"`
	Columns  map[string]int              `json:"column_counts"`
}

// Preview 选定主/目标表并输出前 limit 行预览
func (m *Manager) Preview(masterSheet, targetSheet string, limit int) (*PreviewResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return nil, errNoSession("preview sheets")
	}
	master := m.sheetLocked(masterSheet)
	target := m.sheetLocked(targetSheet)
	if master == nil {
		return nil, &model.NotFoundError{What: fmt.Sprintf("sheet %q", masterSheet)}
	}
	if target == nil {
		return nil, &model.NotFoundError{What: fmt.Sprintf("sheet %q", targetSheet)}
	}

	res := &PreviewResult{
		Previews: map[string][]map[string]any{
			masterSheet: master.Records(limit),
			targetSheet: target.Records(limit),
		},
		Rows:    map[string]int{masterSheet: master.RowCount(), targetSheet: target.RowCount()},
		Columns: map[string]int{masterSheet: len(master.Columns), targetSheet: len(target.Columns)},
	}

	m.state.masterSheet = masterSheet
	m.state.targetSheet = targetSheet
	if m.state.stage == StageUploaded {
		m.state.stage = StagePreviewed
	}
	m.version++
	return res, nil
}

// CleanResult 清洗响应载荷
type CleanResult struct {
	MasterCleaning model.CleaningStats   `json:"master_cleaning"`
	TargetCleaning model.CleaningStats   `json:"target_cleaning"`
	MasterShape    [2]int                `json:"master_shape"`
	TargetShape    [2]int                `json:"target_shape"`
	MasterPreview  []map[string]any      `json:"master_preview"`
	TargetPreview  []map[string]any      `json:"target_preview"`
	Insights       *model.ColumnInsights `json:"-"`
}

// Clean 清洗已选定的主/目标表
//
// 失败时不触碰已有的清洗产物（上一轮 Clean 的结果保持可用）。
func (m *Manager) Clean(previewRows int) (*CleanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return nil, errNoSession("clean sheets")
	}
	if m.state.masterSheet == "" || m.state.targetSheet == "" {
		return nil, &model.InvalidStateError{Operation: "clean sheets", Reason: "master and target sheets are not selected, preview first"}
	}

	master := m.sheetLocked(m.state.masterSheet)
	target := m.sheetLocked(m.state.targetSheet)
	cm, ct, ins, err := m.cleaner.Clean(master, target)
	if err != nil {
		return nil, err
	}

	// 原子提交：清洗产物全部就绪后才替换，旧的匹配结果随之失效
	m.state.cleanedMaster = cm
	m.state.cleanedTarget = ct
	m.state.insights = ins
	m.state.outcome = nil
	m.state.summary = nil
	m.state.quality = nil
	m.state.recommendations = nil
	m.state.updateReport = nil
	m.state.stage = StageCleaned
	m.version++

	return &CleanResult{
		MasterCleaning: cm.Cleaning,
		TargetCleaning: ct.Cleaning,
		MasterShape:    [2]int{cm.RowCount(), len(cm.Columns)},
		TargetShape:    [2]int{ct.RowCount(), len(ct.Columns)},
		MasterPreview:  cm.Records(previewRows),
		TargetPreview:  ct.Records(previewRows),
		Insights:       ins,
	}, nil
}

// Insights 返回清洗阶段产出的列画像
func (m *Manager) Insights() (*model.ColumnInsights, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return nil, errNoSession("get column insights")
	}
	if m.state.insights == nil {
		return nil, &model.InvalidStateError{Operation: "get column insights", Reason: "sheets are not cleaned yet"}
	}
	return m.state.insights, nil
}

// LookupColumns 返回主表中可作为连接键的列（窗口 [start, end)）
func (m *Manager) LookupColumns(start, end int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cm, err := m.cleanedMasterLocked("get lookup columns")
	if err != nil {
		return nil, err
	}
	cols := cm.Columns
	if start < 0 {
		start = 0
	}
	if end <= 0 || end > len(cols) {
		end = len(cols)
	}
	if start >= end {
		return []string{}, nil
	}
	return append([]string(nil), cols[start:end]...), nil
}

// SuggestColumn 在主表列中为输入名找最接近的列
func (m *Manager) SuggestColumn(input string) (string, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cm, err := m.cleanedMasterLocked("suggest column")
	if err != nil {
		return "", 0, err
	}
	suggested, confidence := parser.SuggestColumn(input, cm.Columns)
	return suggested, confidence, nil
}

// LookupOutput 匹配响应载荷
type LookupOutput struct {
	Summary         *model.LookupSummary        `json:"lookup_summary"`
	Quality         *model.DataQualityInsights  `json:"data_quality_insights"`
	Recommendations []string                    `json:"recommendations"`
	Warnings        []model.DuplicateKeyWarning `json:"duplicate_key_warnings,omitempty"`
	Stats           matcher.Stats               `json:"lookup_stats"`
	Preview         []map[string]any            `json:"preview"`
	LookupColumn    string                      `json:"lookup_column"`
}

// Lookup 以指定列连接目标表与主表并汇总
func (m *Manager) Lookup(lookupColumn string, previewRows int) (*LookupOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return nil, errNoSession("run lookup")
	}
	if m.state.cleanedMaster == nil || m.state.cleanedTarget == nil {
		return nil, &model.InvalidStateError{Operation: "run lookup", Reason: "no cleaned tables present, clean the sheets first"}
	}

	outcome, err := m.engine.Lookup(m.state.cleanedMaster, m.state.cleanedTarget, lookupColumn)
	if err != nil {
		return nil, err
	}

	sum := insights.Summarize(outcome.Results)
	quality := insights.BuildQuality(sum)
	recs := insights.BuildRecommendations(sum, quality, outcome.Warnings, m.thresholds)

	m.state.lookupColumn = lookupColumn
	m.state.outcome = outcome
	m.state.summary = sum
	m.state.quality = quality
	m.state.recommendations = recs
	m.state.updateReport = nil
	m.state.stage = StageLookup
	m.version++

	return m.lookupOutputLocked(previewRows), nil
}

// LookupInsights 返回最近一次匹配的汇总，未执行过匹配时报错
func (m *Manager) LookupInsights(previewRows int) (*LookupOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return nil, errNoSession("get lookup insights")
	}
	if m.state.summary == nil {
		return nil, &model.InvalidStateError{Operation: "get lookup insights", Reason: "no lookup has been run yet"}
	}
	return m.lookupOutputLocked(previewRows), nil
}

func (m *Manager) lookupOutputLocked(previewRows int) *LookupOutput {
	return &LookupOutput{
		Summary:         m.state.summary,
		Quality:         m.state.quality,
		Recommendations: m.state.recommendations,
		Warnings:        m.state.outcome.Warnings,
		Stats:           m.state.outcome.Stats,
		Preview:         m.state.outcome.ResultTable.Records(previewRows),
		LookupColumn:    m.state.lookupColumn,
	}
}

// ProcessUpdates 按匹配结果回写主表
//
// 入参用于核对请求与会话是否一致，防止陈旧客户端回写错误的数据。
func (m *Manager) ProcessUpdates(fileID, masterSheet, targetSheet, lookupColumn string) (*model.UpdateReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return nil, errNoSession("process updates")
	}
	if m.state.outcome == nil {
		return nil, &model.InvalidStateError{Operation: "process updates", Reason: "no lookup results present, run the lookup first"}
	}
	if fileID != "" && fileID != m.state.fileID {
		return nil, &model.InvalidStateError{Operation: "process updates", Reason: fmt.Sprintf("file id %q does not match the active session", fileID)}
	}
	if masterSheet != "" && masterSheet != m.state.masterSheet {
		return nil, &model.InvalidStateError{Operation: "process updates", Reason: fmt.Sprintf("master sheet %q does not match the active session", masterSheet)}
	}
	if targetSheet != "" && targetSheet != m.state.targetSheet {
		return nil, &model.InvalidStateError{Operation: "process updates", Reason: fmt.Sprintf("target sheet %q does not match the active session", targetSheet)}
	}
	if lookupColumn == "" {
		lookupColumn = m.state.lookupColumn
	}

	outcome, err := matcher.ApplyUpdates(m.state.cleanedMaster, m.state.outcome.ResultTable, lookupColumn)
	if err != nil {
		return nil, err
	}

	// 提交新的主表快照，画像等派生数据保持上一阶段口径
	updated := *m.state.cleanedMaster
	updated.Table = outcome.Master
	m.state.cleanedMaster = &updated
	m.state.updateReport = outcome.Report
	m.state.stage = StageUpdated
	m.version++
	return outcome.Report, nil
}

// ExportView 导出用的只读快照
type ExportView struct {
	FileID       string
	Filename     string
	MasterSheet  string
	TargetSheet  string
	LookupColumn string
	Master       *model.CleanedTable
	Result       *model.Table
	Summary      *model.LookupSummary
	Quality      *model.DataQualityInsights
}

// Export 取导出所需的完整快照，要求至少完成过一次匹配
func (m *Manager) Export() (*ExportView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return nil, errNoSession("export results")
	}
	if m.state.outcome == nil {
		return nil, &model.InvalidStateError{Operation: "export results", Reason: "no lookup results present, run the lookup first"}
	}
	return &ExportView{
		FileID:       m.state.fileID,
		Filename:     m.state.filename,
		MasterSheet:  m.state.masterSheet,
		TargetSheet:  m.state.targetSheet,
		LookupColumn: m.state.lookupColumn,
		Master:       m.state.cleanedMaster,
		Result:       m.state.outcome.ResultTable,
		Summary:      m.state.summary,
		Quality:      m.state.quality,
	}, nil
}

// Dashboard 组装仪表盘数据，history 为持久化的运行留痕
func (m *Manager) Dashboard(history []model.RunRecord, topN int) (*model.DashboardData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return nil, errNoSession("build dashboard")
	}
	if m.state.summary == nil {
		return nil, &model.InvalidStateError{Operation: "build dashboard", Reason: "no lookup has been run yet"}
	}
	return insights.BuildDashboard(m.state.cleanedMaster, m.state.summary, m.state.quality, history, topN), nil
}

// BOMReport 输出 BOM 明细与类别聚合
func (m *Manager) BOMReport(limit int) (*model.BOMReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cm, err := m.cleanedMasterLocked("build bom analysis")
	if err != nil {
		return nil, err
	}
	return insights.BuildBOMReport(cm, limit), nil
}

// ProcessedSheet 取某个表的最新形态：匹配结果 > 清洗结果 > 规范化原始表
func (m *Manager) ProcessedSheet(fileID, name string) (*model.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return nil, errNoSession("download sheet")
	}
	if fileID != "" && fileID != m.state.fileID {
		return nil, &model.NotFoundError{What: fmt.Sprintf("file %q", fileID)}
	}
	if name == m.state.targetSheet && m.state.outcome != nil {
		return m.state.outcome.ResultTable, nil
	}
	if name == m.state.masterSheet && m.state.cleanedMaster != nil {
		return m.state.cleanedMaster.Table, nil
	}
	if name == m.state.targetSheet && m.state.cleanedTarget != nil {
		return m.state.cleanedTarget.Table, nil
	}
	if t := m.sheetLocked(name); t != nil {
		return t, nil
	}
	return nil, &model.NotFoundError{What: fmt.Sprintf("sheet %q", name)}
}

func (m *Manager) sheetLocked(name string) *model.Table {
	for _, t := range m.state.sheets {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (m *Manager) cleanedMasterLocked(op string) (*model.CleanedTable, error) {
	if m.state == nil {
		return nil, errNoSession(op)
	}
	if m.state.cleanedMaster == nil {
		return nil, &model.InvalidStateError{Operation: op, Reason: "sheets are not cleaned yet"}
	}
	return m.state.cleanedMaster, nil
}

func errNoSession(op string) error {
	return &model.InvalidStateError{Operation: op, Reason: "no active session, upload a file first"}
}
