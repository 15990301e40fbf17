package excel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"salesrecon/internal/model"
)

var (
	// ErrWorkbookOpen 工作簿无法打开
	ErrWorkbookOpen = errors.New("failed to open workbook")
	// ErrSheetRead sheet 读取失败
	ErrSheetRead = errors.New("failed to read sheet")
)

// Parser Excel 解析器：把 sheet 读成带类型的表格
type Parser struct {
	file      *excelize.File
	headerRow int
	date1904  bool
	dateStyle map[int]bool
}

// NewParser 创建解析器，headerRow 为表头所在行（1 起）
func NewParser(headerRow int) *Parser {
	if headerRow < 1 {
		headerRow = 1
	}
	return &Parser{
		headerRow: headerRow,
		dateStyle: make(map[int]bool),
	}
}

// OpenFile 按路径打开工作簿
func (p *Parser) OpenFile(path string) error {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWorkbookOpen, path, err)
	}
	p.SetWorkbook(file)
	return nil
}

// SetWorkbook 使用已打开的工作簿
func (p *Parser) SetWorkbook(file *excelize.File) {
	p.file = file
	p.date1904 = false
	p.dateStyle = make(map[int]bool)
	if props, err := file.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		p.date1904 = *props.Date1904
	}
}

// Workbook 返回已加载的工作簿对象（只读使用）
func (p *Parser) Workbook() *excelize.File {
	return p.file
}

// GetSheets 获取工作表列表
func (p *Parser) GetSheets() ([]string, error) {
	if p.file == nil {
		return nil, errors.New("no file loaded")
	}
	return p.file.GetSheetList(), nil
}

// ReadTable 读取 sheet：表头行之上的第一行作为标题，表头行之后为数据
// 超出表头宽度的列命名为 "Unnamed: n"
func (p *Parser) ReadTable(sheet string) (*model.Table, error) {
	if p.file == nil {
		return nil, errors.New("no file loaded")
	}

	rows, err := p.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSheetRead, sheet, err)
	}

	table := &model.Table{Name: sheet}
	headerIdx := p.headerRow - 1
	if headerIdx > 0 && len(rows) > 0 {
		table.Title = firstNonEmpty(rows[0])
	}
	if len(rows) <= headerIdx {
		return table, nil
	}

	width := len(rows[headerIdx])
	for _, row := range rows[headerIdx+1:] {
		if len(row) > width {
			width = len(row)
		}
	}

	table.Header = make([]string, width)
	for i := range table.Header {
		name := getCell(rows[headerIdx], i)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		} else {
			name = rows[headerIdx][i]
		}
		table.Header[i] = name
	}

	table.Rows = make([]model.Row, 0, len(rows)-headerIdx-1)
	for r := headerIdx + 1; r < len(rows); r++ {
		cells := make([]model.Cell, width)
		for c, raw := range rows[r] {
			cells[c] = p.readCell(sheet, c, r, raw)
		}
		table.Rows = append(table.Rows, model.Row{
			Number: r + 1,
			Cells:  cells,
		})
	}

	return table, nil
}

// readCell 区分文本、数值与日期单元格；col/row 为 0 起的索引
func (p *Parser) readCell(sheet string, col, row int, raw string) model.Cell {
	if raw == "" {
		return model.Cell{Kind: model.CellEmpty}
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return model.Cell{Kind: model.CellText, Raw: raw}
	}

	cellName, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return model.Cell{Kind: model.CellText, Raw: raw}
	}

	cellType, err := p.file.GetCellType(sheet, cellName)
	if err != nil {
		return model.Cell{Kind: model.CellText, Raw: raw}
	}
	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
	default:
		// 共享字符串、内联字符串、公式字符串等，即使内容是数字也按文本处理
		return model.Cell{Kind: model.CellText, Raw: raw}
	}

	styleID, err := p.file.GetCellStyle(sheet, cellName)
	if err == nil && p.isDateStyle(styleID) {
		if t, err := excelize.ExcelDateToTime(value, p.date1904); err == nil {
			return model.Cell{Kind: model.CellDate, Raw: raw, Time: t}
		}
	}

	return model.Cell{Kind: model.CellNumber, Raw: raw}
}

func (p *Parser) isDateStyle(styleID int) bool {
	if styleID <= 0 {
		return false
	}
	if v, ok := p.dateStyle[styleID]; ok {
		return v
	}

	isDate := false
	if style, err := p.file.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = IsDateFormatCode(*style.CustomNumFmt)
		} else {
			isDate = IsBuiltInDateFormat(style.NumFmt)
		}
	}
	p.dateStyle[styleID] = isDate
	return isDate
}

// Close 关闭文件
func (p *Parser) Close() error {
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// IsBuiltInDateFormat 内置数字格式中表示日期（含日期时间）的编号
func IsBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// IsDateFormatCode 判断自定义格式是否为日期格式
// 忽略引号内文本、方括号段（颜色、区域、耗时）以及转义字符
func IsDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote := false
	inBracket := false
	escaped := false
	for _, ch := range code {
		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case ch == '"':
			inQuote = true
		case inBracket:
			if ch == ']' {
				inBracket = false
			}
		case ch == '[':
			inBracket = true
		case ch == ';':
			// 只看正数段
			return isDateTokens(b.String())
		default:
			b.WriteRune(ch)
		}
	}
	return isDateTokens(b.String())
}

func isDateTokens(s string) bool {
	s = strings.ToLower(s)
	if strings.ContainsAny(s, "yd") {
		return true
	}
	// 仅有 m 且无时分秒时视为月份
	return strings.Contains(s, "m") && !strings.ContainsAny(s, "hs")
}

func firstNonEmpty(row []string) string {
	for _, v := range row {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
