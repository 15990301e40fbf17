package excel

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"salesrecon/internal/model"
	"salesrecon/internal/util"
)

// ErrOutputLocked 输出文件被占用（通常是在 Excel 中打开着）
var ErrOutputLocked = errors.New("output file is locked")

// ErrOutputWrite 输出文件写入失败
var ErrOutputWrite = errors.New("failed to write output")

// SheetData 待写出的 sheet
type SheetData struct {
	Name  string
	Table *model.Table
}

// ExportOptions 导出选项
type ExportOptions struct {
	HeaderRow int    // 表头所在行，与输入保持一致，便于再次作为输入
	RunID     string // 写入文档属性
	Now       time.Time
}

// Exporter 清洗结果导出器
type Exporter struct {
	opts ExportOptions
}

// NewExporter 创建导出器
func NewExporter(opts ExportOptions) *Exporter {
	if opts.HeaderRow < 1 {
		opts.HeaderRow = 1
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	return &Exporter{opts: opts}
}

// Export 把多个表格写入同一个新工作簿，sheet 顺序与参数一致
func (e *Exporter) Export(sheets []SheetData) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, errors.New("no sheets to export")
	}

	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return nil, err
		}
		if err := e.writeTable(f, s.Name, s.Table, headerStyle); err != nil {
			return nil, fmt.Errorf("write sheet %s: %w", s.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:    "salesrecon",
		Title:      "Cleaned sales report",
		Identifier: e.opts.RunID,
		Created:    e.opts.Now.UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}

	return f, nil
}

func (e *Exporter) writeTable(f *excelize.File, sheet string, t *model.Table, headerStyle int) error {
	if t == nil {
		return nil
	}

	headerRow := e.opts.HeaderRow
	if headerRow > 1 {
		title := t.Title
		if title == "" {
			title = sheet
		}
		if err := f.SetCellStr(sheet, "A1", title); err != nil {
			return err
		}
	}

	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	start, err := excelize.CoordinatesToCellName(1, headerRow)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &header); err != nil {
		return err
	}
	if len(t.Header) > 0 {
		if err := f.SetRowStyle(sheet, headerRow, headerRow, headerStyle); err != nil {
			return err
		}
	}

	for i, row := range t.Rows {
		values := make([]interface{}, len(row.Cells))
		for j, c := range row.Cells {
			values[j] = cellValue(c)
		}
		cell, err := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	if len(t.Header) > 0 {
		last, err := excelize.ColumnNumberToName(len(t.Header))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, 15); err != nil {
			return err
		}
	}
	return nil
}

// cellValue 单元格写回时的值：数值保持为数字，日期保持为日期
func cellValue(c model.Cell) interface{} {
	switch c.Kind {
	case model.CellEmpty:
		return nil
	case model.CellNumber:
		d, err := decimal.NewFromString(c.Raw)
		if err != nil {
			return c.Raw
		}
		return d.InexactFloat64()
	case model.CellDate:
		return c.Time
	default:
		return c.Raw
	}
}

// SaveWorkbook 保存工作簿；文件被 Excel 占用时返回 ErrOutputLocked
func SaveWorkbook(f *excelize.File, path string) error {
	if util.IsLocked(path) {
		return fmt.Errorf("%w: %s", ErrOutputLocked, path)
	}
	if err := util.EnsureDir(util.Dir(path)); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}
	if err := f.SaveAs(path); err != nil {
		if util.IsLockError(err) {
			return fmt.Errorf("%w: %s: %v", ErrOutputLocked, path, err)
		}
		return fmt.Errorf("%w: %s: %v", ErrOutputWrite, path, err)
	}
	return nil
}
