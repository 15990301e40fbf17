package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"salesrecon/internal/cleaner"
	"salesrecon/internal/config"
	"salesrecon/internal/model"
	"salesrecon/internal/parser"
	"salesrecon/internal/reconcile"
	"salesrecon/internal/service/excel"
	"salesrecon/internal/util"
)

// ErrInputNotFound 输入文件不存在
var ErrInputNotFound = errors.New("input file not found")

// MissingHeader 缺失名单的列名
var MissingHeader = []string{"日期", "组别", "业务员"}

// Coordinator 对账协调器：读取 → 清洗 → 比对 → 保存
type Coordinator struct {
	cfg      *config.AppConfig
	progress func(ProgressEvent)
	now      func() time.Time
}

// NewCoordinator 创建协调器
func NewCoordinator(cfg *config.AppConfig) *Coordinator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Coordinator{
		cfg: cfg,
		now: time.Now,
	}
}

// OnProgress 注册进度回调，回调在调用方 goroutine 中同步执行
func (c *Coordinator) OnProgress(fn func(ProgressEvent)) {
	c.progress = fn
}

// SetClock 替换时钟，输出文件名依赖当天日期
func (c *Coordinator) SetClock(now func() time.Time) {
	c.now = now
}

// runContext 单次运行上下文
type runContext struct {
	report    *model.RunReport
	startTime time.Time
	resolved  model.ResolveResult
	aggregate *model.Table
	detail    *model.Table
}

// Run 执行一次完整的对账流程
func (c *Coordinator) Run() (*model.RunReport, error) {
	startTime := c.now()
	ctx := &runContext{
		startTime: startTime,
		report: &model.RunReport{
			RunID:      uuid.New().String(),
			InputPath:  c.cfg.InputPath(),
			OutputPath: c.cfg.OutputPath(startTime),
		},
	}

	c.send(ProgressEvent{
		Type:    "start",
		Message: "程序启动",
		Data: map[string]string{
			"run_id": ctx.report.RunID,
			"input":  ctx.report.InputPath,
			"output": filepath.Base(ctx.report.OutputPath),
		},
	})

	if err := c.load(ctx); err != nil {
		return ctx.report, err
	}
	if err := c.clean(ctx); err != nil {
		return ctx.report, err
	}
	result, err := c.reconcile(ctx)
	if err != nil {
		return ctx.report, err
	}
	if err := c.save(ctx, result); err != nil {
		return ctx.report, err
	}

	ctx.report.Duration = c.now().Sub(startTime)
	c.send(ProgressEvent{
		Type:    "done",
		Message: "完成",
		Data:    ctx.report,
		Percent: 100,
	})
	return ctx.report, nil
}

// load 打开工作簿、识别 sheet 并读取两张表
func (c *Coordinator) load(ctx *runContext) error {
	path := ctx.report.InputPath
	if !util.FileExists(path) {
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}

	p := excel.NewParser(c.cfg.Input.HeaderRow)
	if err := p.OpenFile(path); err != nil {
		return err
	}
	defer p.Close()

	resolved, err := excel.ResolveWorkbook(p.Workbook(), excel.ResolveOptions{
		AggregateKeyword: c.cfg.Input.AggregateKeyword,
		DetailKeyword:    c.cfg.Input.DetailKeyword,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", excel.ErrSheetRead, err)
	}
	ctx.resolved = resolved

	c.send(ProgressEvent{
		Type:    "info",
		Message: fmt.Sprintf("汇总表: %s%s", resolved.Aggregate.SheetName, fallbackNote(resolved.Aggregate)),
		Data:    resolved.Aggregate,
		Percent: 10,
	})
	c.send(ProgressEvent{
		Type:    "info",
		Message: fmt.Sprintf("员工表: %s%s", resolved.Detail.SheetName, fallbackNote(resolved.Detail)),
		Data:    resolved.Detail,
		Percent: 15,
	})

	if ctx.aggregate, err = p.ReadTable(resolved.Aggregate.SheetName); err != nil {
		return err
	}
	if ctx.detail, err = p.ReadTable(resolved.Detail.SheetName); err != nil {
		return err
	}
	return nil
}

// clean 分别清洗两张表
func (c *Coordinator) clean(ctx *runContext) error {
	cl := cleaner.New(cleaner.Options{
		DateColumns:        c.cfg.Columns.Date,
		GroupColumns:       c.cfg.Columns.Group,
		SalespersonColumns: c.cfg.Columns.Salesperson,
		SummaryMarkers:     c.cfg.Cleaning.SummaryMarkers,
		Normalizer:         parser.NewDateNormalizer(c.cfg.Cleaning.MinSerial, c.cfg.Cleaning.MinYear),
	})

	aggregate, stats, err := cl.CleanAggregate(ctx.aggregate)
	if err != nil {
		return err
	}
	ctx.aggregate = aggregate
	ctx.report.Aggregate = stats
	c.send(ProgressEvent{
		Type:    "sheet_done",
		Message: fmt.Sprintf("汇总表清洗完成: 读取 %d 行, 保留 %d 行", stats.ReadRows, stats.KeptRows),
		Data:    stats,
		Percent: 40,
	})

	detail, stats, err := cl.CleanDetail(ctx.detail)
	if err != nil {
		return err
	}
	ctx.detail = detail
	ctx.report.Detail = stats
	c.send(ProgressEvent{
		Type:    "sheet_done",
		Message: fmt.Sprintf("员工表清洗完成: 读取 %d 行, 保留 %d 行", stats.ReadRows, stats.KeptRows),
		Data:    stats,
		Percent: 60,
	})
	return nil
}

// reconcile 比对两张表的日期集合
func (c *Coordinator) reconcile(ctx *runContext) (*reconcile.Result, error) {
	result, err := reconcile.FindMissing(ctx.aggregate, ctx.detail, reconcile.Columns{
		Date:        c.cfg.Columns.Date,
		Group:       c.cfg.Columns.Group,
		Salesperson: c.cfg.Columns.Salesperson,
	})
	if err != nil {
		return nil, err
	}
	ctx.report.MissingDates = result.MissingDates
	ctx.report.Discrepancies = result.Records

	msg := "Total 表没有整天缺失的情况"
	if result.HasMissing() {
		msg = fmt.Sprintf("发现 Total 表缺失以下日期的所有数据: %v", result.MissingDates)
	}
	c.send(ProgressEvent{
		Type:    "reconcile",
		Message: msg,
		Data:    result,
		Percent: 80,
	})
	return result, nil
}

// save 写出清洗后的两张表（可选附带缺失名单）
func (c *Coordinator) save(ctx *runContext, result *reconcile.Result) error {
	sheets := []excel.SheetData{
		{Name: c.cfg.Output.AggregateSheet, Table: ctx.aggregate},
		{Name: c.cfg.Output.DetailSheet, Table: ctx.detail},
	}
	if name := c.cfg.Output.MissingSheet; name != "" {
		sheets = append(sheets, excel.SheetData{
			Name:  name,
			Table: reconcile.ToTable(name, result.Records, MissingHeader),
		})
	}

	exp := excel.NewExporter(excel.ExportOptions{
		HeaderRow: c.cfg.Input.HeaderRow,
		RunID:     ctx.report.RunID,
		Now:       ctx.startTime,
	})
	f, err := exp.Export(sheets)
	if err != nil {
		return fmt.Errorf("%w: %v", excel.ErrOutputWrite, err)
	}
	defer f.Close()

	if err := excel.SaveWorkbook(f, ctx.report.OutputPath); err != nil {
		return err
	}

	c.send(ProgressEvent{
		Type:    "saved",
		Message: fmt.Sprintf("文件已生成: %s", filepath.Base(ctx.report.OutputPath)),
		Data:    ctx.report.OutputPath,
		Percent: 95,
	})
	return nil
}

func (c *Coordinator) send(evt ProgressEvent) {
	reportProgress(c.progress, evt)
}

func fallbackNote(r model.SheetRecognition) string {
	if r.Fallback {
		return fmt.Sprintf(" (未匹配到名称，按位置取第 %d 个 sheet)", r.Index+1)
	}
	return ""
}
