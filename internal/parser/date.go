package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"salesrecon/internal/model"
)

// CanonicalDateLayout 规范化日期文本格式
const CanonicalDateLayout = "2006-01-02"

// MaxExcelSerial Excel 能表示的最大日期 9999-12-31
const MaxExcelSerial = 2958465

// DateNormalizer 统一修复日期：序列号、斜杠/横杠字符串、日期单元格
type DateNormalizer struct {
	MinSerial int64 // 小于该值的序列号视为噪声
	MinYear   int   // 年份必须大于该值
}

// NewDateNormalizer 创建日期规范化器
func NewDateNormalizer(minSerial int64, minYear int) *DateNormalizer {
	return &DateNormalizer{
		MinSerial: minSerial,
		MinYear:   minYear,
	}
}

// Normalize 规范化单个单元格的日期值
// 无法识别或年份异常的值返回 OK=false，不会返回错误
func (n *DateNormalizer) Normalize(c model.Cell) DateResult {
	switch c.Kind {
	case model.CellEmpty:
		return DateResult{}
	case model.CellDate:
		return n.accept(c.Time, DateSourceTyped)
	case model.CellNumber:
		d, err := decimal.NewFromString(strings.TrimSpace(c.Raw))
		if err != nil {
			return DateResult{}
		}
		return n.fromSerial(d)
	}

	s := strings.TrimSpace(c.Raw)
	if s == "" {
		return DateResult{}
	}

	if IsSerialText(s) {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return DateResult{}
		}
		return n.fromSerial(d)
	}

	t, ok := ParseDateText(s)
	if !ok {
		return DateResult{}
	}
	return n.accept(t, DateSourceText)
}

// NormalizeString 规范化字符串形式的日期，返回 YYYY-MM-DD
func (n *DateNormalizer) NormalizeString(s string) (string, bool) {
	r := n.Normalize(model.TextCell(s))
	return r.Canonical(), r.OK
}

func (n *DateNormalizer) fromSerial(d decimal.Decimal) DateResult {
	if d.LessThan(decimal.NewFromInt(n.MinSerial)) || d.GreaterThan(decimal.NewFromInt(MaxExcelSerial)) {
		return DateResult{}
	}
	t, err := excelize.ExcelDateToTime(d.InexactFloat64(), false)
	if err != nil {
		return DateResult{}
	}
	return n.accept(t, DateSourceSerial)
}

func (n *DateNormalizer) accept(t time.Time, source DateSource) DateResult {
	if t.IsZero() || t.Year() <= n.MinYear {
		return DateResult{}
	}
	return DateResult{
		Time:   time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
		Source: source,
		OK:     true,
	}
}

// IsSerialText 纯数字（最多一个小数点）视为 Excel 序列号
func IsSerialText(s string) bool {
	digits := 0
	dots := 0
	for _, ch := range s {
		switch {
		case ch >= '0' && ch <= '9':
			digits++
		case ch == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}

var (
	// 日期后只允许跟时分（秒）
	reCJKDate = regexp.MustCompile(`^(\d{4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*[日号]?(?:\s*\d{1,2}[:：]\d{2}(?:[:：]\d{2})?)?$`)

	// dateparse 会忽略日期后的多余文本，交给它之前先检查只含日期相关的词
	dateWords = map[string]bool{
		"jan": true, "january": true, "feb": true, "february": true, "mar": true, "march": true,
		"apr": true, "april": true, "may": true, "jun": true, "june": true, "jul": true, "july": true,
		"aug": true, "august": true, "sep": true, "sept": true, "september": true, "oct": true,
		"october": true, "nov": true, "november": true, "dec": true, "december": true,
		"mon": true, "monday": true, "tue": true, "tuesday": true, "wed": true, "wednesday": true,
		"thu": true, "thursday": true, "fri": true, "friday": true, "sat": true, "saturday": true,
		"sun": true, "sunday": true,
		"am": true, "pm": true, "t": true, "z": true, "utc": true, "gmt": true,
	}

	textLayouts = []string{
		"2006-1-2",
		"2006/1/2",
		"2006.1.2",
		"2006-1-2 15:04:05",
		"2006/1/2 15:04:05",
		"2006-1-2 15:04",
		"2006/1/2 15:04",
		"2006-01-02T15:04:05",
		time.RFC3339,
	}
)

// ParseDateText 解析自由格式日期字符串
// 先匹配中文日期与常见斜杠/横杠格式，再交给 dateparse 兜底
func ParseDateText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := reCJKDate.FindStringSubmatch(s); len(m) == 4 {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return makeDate(year, month, day)
	}

	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if !onlyDateTokens(s) {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// onlyDateTokens 字母段必须是月份、星期或时区词，其余字符只能是数字与分隔符
func onlyDateTokens(s string) bool {
	var word strings.Builder
	flush := func() bool {
		if word.Len() == 0 {
			return true
		}
		ok := dateWords[strings.ToLower(word.String())]
		word.Reset()
		return ok
	}

	for _, ch := range s {
		switch {
		case unicode.IsLetter(ch):
			word.WriteRune(ch)
			continue
		case unicode.IsDigit(ch), unicode.IsSpace(ch), strings.ContainsRune("-/.:,+", ch):
		default:
			return false
		}
		if !flush() {
			return false
		}
	}
	return flush()
}

// makeDate 构造日期并拒绝 2 月 30 日这类会被 time.Date 顺延的值
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
