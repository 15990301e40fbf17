package cleaner

import (
	"errors"
	"strings"
	"testing"
	"time"

	"salesrecon/internal/model"
	"salesrecon/internal/parser"
)

func newTestCleaner() *Cleaner {
	return New(Options{
		DateColumns:        []string{"日期", "Date"},
		GroupColumns:       []string{"组别", "Group"},
		SalespersonColumns: []string{"业务员", "Salesperson"},
		SummaryMarkers:     []string{"合计", "Total"},
		Normalizer:         parser.NewDateNormalizer(10000, 2000),
	})
}

func text(s string) model.Cell { return model.TextCell(s) }

func num(s string) model.Cell { return model.Cell{Kind: model.CellNumber, Raw: s} }

func row(n int, cells ...model.Cell) model.Row {
	return model.Row{Number: n, Cells: cells}
}

func TestCleanDetail_FiltersJunkAndNormalizesDates(t *testing.T) {
	t.Parallel()

	table := &model.Table{
		Name:   "Employee",
		Header: []string{" 日期 ", "组别 ", " 业务员", "金额"},
		Rows: []model.Row{
			row(3, num("45292"), text("A组"), text("张三"), num("10")),
			row(4, text("2024/1/2"), text("A组"), text("A组"), num("99")),   // 业务员 = 组别
			row(5, text("2024/1/2"), text("A组"), text("A组合计"), num("99")), // 合计行
			row(6, text("2024/1/2"), text("B组"), model.Cell{}, num("1")),  // 业务员为空
			row(7),                                                       // 空行
			row(8, num("500"), text("B组"), text("李四"), num("5")),          // 序列号过小
			row(9, text("2024-01-02"), text("B组"), text("王五"), num("7")),
			row(10, text("total"), text("B组"), text("TOTAL"), num("7")), // 大小写不敏感
			row(11, model.Cell{Kind: model.CellDate, Time: time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)}, text("C组"), text("赵六")),
		},
	}

	out, stats, err := newTestCleaner().CleanDetail(table)
	if err != nil {
		t.Fatalf("CleanDetail failed: %v", err)
	}

	if out.Header[0] != "日期" || out.Header[1] != "组别" || out.Header[2] != "业务员" {
		t.Fatalf("headers not trimmed: %q", out.Header)
	}

	wantRows := []int{3, 9, 11}
	wantDates := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	if len(out.Rows) != len(wantRows) {
		t.Fatalf("kept rows=%d, want %d", len(out.Rows), len(wantRows))
	}
	for i, r := range out.Rows {
		if r.Number != wantRows[i] {
			t.Fatalf("row[%d].Number=%d, want %d", i, r.Number, wantRows[i])
		}
		c := r.Cell(0)
		if c.Kind != model.CellText || c.Raw != wantDates[i] {
			t.Fatalf("row[%d] date=%+v, want %s", i, c, wantDates[i])
		}
	}

	if stats.ReadRows != 9 || stats.KeptRows != 3 {
		t.Fatalf("stats=%+v", stats)
	}
	if stats.Dropped[model.DropEmpty] != 1 || stats.Dropped[model.DropJunk] != 2 ||
		stats.Dropped[model.DropSummary] != 2 || stats.Dropped[model.DropDate] != 1 {
		t.Fatalf("dropped=%v", stats.Dropped)
	}
	if stats.DateSources["serial"] != 1 || stats.DateSources["text"] != 1 || stats.DateSources["typed"] != 1 {
		t.Fatalf("date sources=%v", stats.DateSources)
	}

	// 原表不被修改
	if table.Rows[0].Cell(0).Kind != model.CellNumber || table.Header[0] != " 日期 " {
		t.Fatalf("input table was mutated")
	}
}

func TestCleanDetail_SalespersonEqualsGroupAlwaysExcluded(t *testing.T) {
	t.Parallel()

	table := &model.Table{
		Name:   "Employee",
		Header: []string{"日期", "组别", "业务员"},
		Rows: []model.Row{
			row(3, text("2024-05-01"), text("华东"), text("华东")),
			row(4, text("2024-05-01"), text("华东 "), text(" 华东")),
			row(5, text("2024-05-01"), num("7"), num("7")),
		},
	}

	out, _, err := newTestCleaner().CleanDetail(table)
	if err != nil {
		t.Fatalf("CleanDetail failed: %v", err)
	}
	if len(out.Rows) != 0 {
		t.Fatalf("kept %d rows, want 0", len(out.Rows))
	}
}

func TestCleanAggregate_DropsSummaryRows(t *testing.T) {
	t.Parallel()

	table := &model.Table{
		Name:   "Total",
		Header: []string{"日期", "组别", "销售额"},
		Rows: []model.Row{
			row(3, text("2024-01-01"), text("A组"), num("100")),
			row(4, text("2024-01-01"), text("合计"), num("300")),
			row(5, text("2024-01-01"), text("Grand total"), num("300")),
			row(6, num("45293"), text("B组"), num("200")),
			row(7, text("abc"), text("C组"), num("1")),
			row(8, text("2024-01-01"), model.Cell{}, num("1")),
		},
	}

	out, stats, err := newTestCleaner().CleanAggregate(table)
	if err != nil {
		t.Fatalf("CleanAggregate failed: %v", err)
	}
	if len(out.Rows) != 3 {
		t.Fatalf("kept rows=%d, want 3", len(out.Rows))
	}
	if got := out.Rows[1].Value(0); got != "2024-01-02" {
		t.Fatalf("serial date=%q, want 2024-01-02", got)
	}
	if stats.Dropped[model.DropSummary] != 2 || stats.Dropped[model.DropDate] != 1 {
		t.Fatalf("dropped=%v", stats.Dropped)
	}
}

func TestCleanAggregate_WithoutGroupColumn(t *testing.T) {
	t.Parallel()

	table := &model.Table{
		Name:   "Total",
		Header: []string{"Date", "Amount"},
		Rows: []model.Row{
			row(3, text("2024-01-01"), num("1")),
			row(4, text("2024-01-02"), num("2")),
		},
	}

	out, _, err := newTestCleaner().CleanAggregate(table)
	if err != nil {
		t.Fatalf("CleanAggregate failed: %v", err)
	}
	if len(out.Rows) != 2 {
		t.Fatalf("kept rows=%d, want 2", len(out.Rows))
	}
}

func TestCleanDetail_MissingColumn(t *testing.T) {
	t.Parallel()

	table := &model.Table{
		Name:   "Employee",
		Header: []string{"日期", "组别", "业务"},
	}

	_, _, err := newTestCleaner().CleanDetail(table)
	if !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("err=%v, want ErrColumnNotFound", err)
	}
	if !strings.Contains(err.Error(), "salesperson") {
		t.Fatalf("error should name the missing column: %v", err)
	}
}

func TestCleanAggregate_MissingDateColumn(t *testing.T) {
	t.Parallel()

	table := &model.Table{Name: "Total", Header: []string{"组别"}}
	if _, _, err := newTestCleaner().CleanAggregate(table); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("err=%v, want ErrColumnNotFound", err)
	}
}

func TestClean_Idempotent(t *testing.T) {
	t.Parallel()

	table := &model.Table{
		Name:   "Employee",
		Header: []string{"日期", "组别", "业务员"},
		Rows: []model.Row{
			row(3, num("45292"), text("A组"), text("张三")),
			row(4, text("2024/1/2"), text("B组"), text("李四")),
			row(5, text("2024年1月3日"), text("B组"), text("B组")),
		},
	}

	c := newTestCleaner()
	first, _, err := c.CleanDetail(table)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, stats, err := c.CleanDetail(first)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if len(second.Rows) != len(first.Rows) || stats.KeptRows != stats.ReadRows {
		t.Fatalf("second pass lost rows: %d -> %d", len(first.Rows), len(second.Rows))
	}
	for i := range first.Rows {
		if first.Rows[i].Value(0) != second.Rows[i].Value(0) {
			t.Fatalf("row %d date changed: %q -> %q", i, first.Rows[i].Value(0), second.Rows[i].Value(0))
		}
	}
}
