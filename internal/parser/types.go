package parser

import "time"

// DateSource 日期值的来源编码
type DateSource int

const (
	DateSourceNone   DateSource = iota
	DateSourceTyped             // 单元格本身就是日期
	DateSourceSerial            // Excel 日期序列号
	DateSourceText              // 自由格式日期字符串
)

func (s DateSource) String() string {
	switch s {
	case DateSourceTyped:
		return "typed"
	case DateSourceSerial:
		return "serial"
	case DateSourceText:
		return "text"
	default:
		return "none"
	}
}

// DateResult 单个日期值的规范化结果
type DateResult struct {
	Time   time.Time
	Source DateSource
	OK     bool
}

// Canonical 规范化后的文本，格式 YYYY-MM-DD
func (r DateResult) Canonical() string {
	if !r.OK {
		return ""
	}
	return r.Time.Format(CanonicalDateLayout)
}
