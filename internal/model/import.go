package model

import "time"

// ResolveResult 工作簿解析阶段产物：两个角色各自选中的 sheet
type ResolveResult struct {
	Aggregate    SheetRecognition `json:"aggregate"`
	Detail       SheetRecognition `json:"detail"`
	UnusedSheets []string         `json:"unusedSheets"`
}

// DropReason 行被剔除的原因
type DropReason string

const (
	DropEmpty   DropReason = "empty"   // 整行为空
	DropSummary DropReason = "summary" // 合计/汇总行
	DropJunk    DropReason = "junk"    // 业务员为空或等于组别
	DropDate    DropReason = "date"    // 日期缺失、无法解析或年份异常
)

// SheetStats 单个 sheet 的清洗统计
type SheetStats struct {
	SheetName   string             `json:"sheetName"`
	ReadRows    int                `json:"readRows"`
	KeptRows    int                `json:"keptRows"`
	Dropped     map[DropReason]int `json:"dropped"`
	DateSources map[string]int     `json:"dateSources"` // 保留行的日期来源：typed/serial/text
}

// NewSheetStats 创建统计
func NewSheetStats(sheetName string, readRows int) *SheetStats {
	return &SheetStats{
		SheetName:   sheetName,
		ReadRows:    readRows,
		Dropped:     make(map[DropReason]int),
		DateSources: make(map[string]int),
	}
}

// Drop 记录一行被剔除
func (s *SheetStats) Drop(reason DropReason) {
	s.Dropped[reason]++
}

// CountDate 记录一个保留行的日期来源
func (s *SheetStats) CountDate(source string) {
	s.DateSources[source]++
}

// RunReport 一次对账运行的报告
type RunReport struct {
	RunID         string        `json:"runId"`
	InputPath     string        `json:"inputPath"`
	OutputPath    string        `json:"outputPath"`
	Aggregate     *SheetStats   `json:"aggregate"`
	Detail        *SheetStats   `json:"detail"`
	MissingDates  []string      `json:"missingDates"`
	Discrepancies []Discrepancy `json:"discrepancies"`
	Duration      time.Duration `json:"duration"`
}
