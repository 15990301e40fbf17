package cleaner

import (
	"errors"
	"fmt"

	"github.com/schollz/closestmatch"

	"salesrecon/internal/model"
	"salesrecon/internal/parser"
)

// ErrColumnNotFound 缺少必需的列
var ErrColumnNotFound = errors.New("column not found")

// Options 清洗规则
type Options struct {
	DateColumns        []string
	GroupColumns       []string
	SalespersonColumns []string
	SummaryMarkers     []string
	Normalizer         *parser.DateNormalizer
}

// Cleaner 汇总表/员工表清洗器
type Cleaner struct {
	opts Options
}

// New 创建清洗器
func New(opts Options) *Cleaner {
	if opts.Normalizer == nil {
		opts.Normalizer = parser.NewDateNormalizer(10000, 2000)
	}
	return &Cleaner{opts: opts}
}

// CleanAggregate 清洗汇总表：去空行、删合计行、修复日期
// 没有组别列时跳过合计行过滤
func (c *Cleaner) CleanAggregate(t *model.Table) (*model.Table, *model.SheetStats, error) {
	out, stats := prepare(t)

	dateIdx := out.ColumnIndex(c.opts.DateColumns...)
	if dateIdx < 0 {
		return nil, stats, columnError(out, "date", c.opts.DateColumns)
	}
	groupIdx := out.ColumnIndex(c.opts.GroupColumns...)

	kept := out.Rows[:0]
	for _, row := range out.Rows {
		if groupIdx >= 0 && parser.ContainsAnyFold(row.Value(groupIdx), c.opts.SummaryMarkers) {
			stats.Drop(model.DropSummary)
			continue
		}
		kept = append(kept, row)
	}
	out.Rows = kept

	c.fixDates(out, dateIdx, stats)
	stats.KeptRows = len(out.Rows)
	return out, stats, nil
}

// CleanDetail 清洗员工表：去空行、删业务员为空/等于组别/含合计字样的行、修复日期
func (c *Cleaner) CleanDetail(t *model.Table) (*model.Table, *model.SheetStats, error) {
	out, stats := prepare(t)

	dateIdx := out.ColumnIndex(c.opts.DateColumns...)
	if dateIdx < 0 {
		return nil, stats, columnError(out, "date", c.opts.DateColumns)
	}
	groupIdx := out.ColumnIndex(c.opts.GroupColumns...)
	if groupIdx < 0 {
		return nil, stats, columnError(out, "group", c.opts.GroupColumns)
	}
	personIdx := out.ColumnIndex(c.opts.SalespersonColumns...)
	if personIdx < 0 {
		return nil, stats, columnError(out, "salesperson", c.opts.SalespersonColumns)
	}

	kept := out.Rows[:0]
	for _, row := range out.Rows {
		person := row.Value(personIdx)
		switch {
		case person == "":
			stats.Drop(model.DropJunk)
		case person == row.Value(groupIdx):
			stats.Drop(model.DropJunk)
		case parser.ContainsAnyFold(person, c.opts.SummaryMarkers):
			stats.Drop(model.DropSummary)
		default:
			kept = append(kept, row)
		}
	}
	out.Rows = kept

	c.fixDates(out, dateIdx, stats)
	stats.KeptRows = len(out.Rows)
	return out, stats, nil
}

// fixDates 规范化日期列，无效日期所在行直接剔除
func (c *Cleaner) fixDates(t *model.Table, dateIdx int, stats *model.SheetStats) {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		r := c.opts.Normalizer.Normalize(row.Cell(dateIdx))
		if !r.OK {
			stats.Drop(model.DropDate)
			continue
		}
		cells := make([]model.Cell, len(row.Cells))
		copy(cells, row.Cells)
		row.Cells = cells
		for len(row.Cells) <= dateIdx {
			row.Cells = append(row.Cells, model.Cell{Kind: model.CellEmpty})
		}
		row.Cells[dateIdx] = model.TextCell(r.Canonical())
		stats.CountDate(r.Source.String())
		kept = append(kept, row)
	}
	t.Rows = kept
}

// prepare 复制表格、去除列名首尾空白并丢弃整行为空的行
func prepare(t *model.Table) (*model.Table, *model.SheetStats) {
	stats := model.NewSheetStats(t.Name, len(t.Rows))
	out := &model.Table{
		Name:   t.Name,
		Title:  t.Title,
		Header: parser.TrimHeaders(t.Header),
		Rows:   make([]model.Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		if row.IsBlank() {
			stats.Drop(model.DropEmpty)
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out, stats
}

func columnError(t *model.Table, role string, aliases []string) error {
	err := fmt.Errorf("%w: sheet %q has no %s column (tried %v)", ErrColumnNotFound, t.Name, role, aliases)
	if s := suggestColumn(t.Header, aliases); s != "" {
		err = fmt.Errorf("%w, did you mean %q?", err, s)
	}
	return err
}

// suggestColumn 在现有列名中找与别名最接近的一个
func suggestColumn(headers, aliases []string) string {
	candidates := make([]string, 0, len(headers))
	for _, h := range headers {
		if h != "" {
			candidates = append(candidates, h)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	cm := closestmatch.New(candidates, []int{1, 2})
	for _, alias := range aliases {
		if s := cm.Closest(alias); s != "" {
			return s
		}
	}
	return ""
}
