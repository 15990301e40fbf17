package parser

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// TrimHeaders 去除每个列名首尾空白
func TrimHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// Fold 大小写折叠，用于不区分大小写的比较
// cases.Caser 有状态，不能跨 goroutine 共享，因此每次新建。
func Fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}

// ContainsFold 不区分大小写的子串判断
func ContainsFold(text, sub string) bool {
	if sub == "" {
		return false
	}
	return strings.Contains(Fold(text), Fold(sub))
}

// ContainsAnyFold 检查字符串是否包含任意一个关键词（不区分大小写）
func ContainsAnyFold(text string, keywords []string) bool {
	folded := Fold(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(folded, Fold(kw)) {
			return true
		}
	}
	return false
}
