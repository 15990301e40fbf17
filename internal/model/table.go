package model

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// CellKind 单元格值类型
type CellKind int

const (
	CellEmpty  CellKind = iota
	CellText            // 文本
	CellNumber          // 数值（未设置日期格式）
	CellDate            // 带日期格式的数值，已转换为时间
)

// Cell 单元格
// Raw 保存未经格式化的原始值；Time 仅在 CellDate 时有效。
type Cell struct {
	Kind CellKind
	Raw  string
	Time time.Time
}

// TextCell 构造文本单元格，空串视为空单元格
func TextCell(s string) Cell {
	if s == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellText, Raw: s}
}

// IsEmpty 是否为空单元格
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String 单元格的文本形式
func (c Cell) String() string {
	switch c.Kind {
	case CellEmpty:
		return ""
	case CellDate:
		return c.Time.Format("2006-01-02")
	default:
		return c.Raw
	}
}

// Row 数据行
type Row struct {
	Number int // Excel 中的行号（1 起）
	Cells  []Cell
}

// Cell 按列索引取值，越界返回空单元格
func (r Row) Cell(idx int) Cell {
	if idx < 0 || idx >= len(r.Cells) {
		return Cell{Kind: CellEmpty}
	}
	return r.Cells[idx]
}

// Value 按列索引取去空白后的文本
func (r Row) Value(idx int) string {
	return strings.TrimSpace(r.Cell(idx).String())
}

// IsBlank 整行是否全为空
func (r Row) IsBlank() bool {
	for _, c := range r.Cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Table 一个 sheet 的表格数据（表头 + 数据行）
type Table struct {
	Name   string
	Title  string // 表头上方第一行的标题，可能为空
	Header []string
	Rows   []Row
}

// ColumnIndex 按别名查找列，大小写、全半角与空白不敏感；找不到返回 -1
func (t *Table) ColumnIndex(aliases ...string) int {
	for _, alias := range aliases {
		want := NormalizeHeader(alias)
		if want == "" {
			continue
		}
		for i, h := range t.Header {
			if NormalizeHeader(h) == want {
				return i
			}
		}
	}
	return -1
}

// NormalizeHeader 列名比较用的键：全角转半角、去除所有空白并做大小写折叠
func NormalizeHeader(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Join(strings.Fields(s), "")
	return cases.Fold().String(s)
}
