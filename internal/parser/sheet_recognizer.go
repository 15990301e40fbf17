package parser

import (
	"salesrecon/internal/model"
)

// SheetRecognizer 按 sheet 名识别汇总表/员工表
type SheetRecognizer struct {
	aggregateKeyword string
	detailKeyword    string
}

// NewSheetRecognizer 创建识别器
func NewSheetRecognizer(aggregateKeyword, detailKeyword string) *SheetRecognizer {
	return &SheetRecognizer{
		aggregateKeyword: aggregateKeyword,
		detailKeyword:    detailKeyword,
	}
}

// Pick 为指定角色挑选 sheet：先按名称匹配取第一个，否则按位置兜底
// 汇总表兜底取第二个 sheet，员工表兜底取第一个 sheet
func (r *SheetRecognizer) Pick(sheetNames []string, role model.SheetRole) (model.SheetRecognition, bool) {
	keyword := r.aggregateKeyword
	fallback := 1
	if role == model.SheetRoleDetail {
		keyword = r.detailKeyword
		fallback = 0
	}

	for i, name := range sheetNames {
		if ContainsFold(name, keyword) {
			return model.SheetRecognition{
				SheetName: name,
				Index:     i,
				Role:      role,
				Score:     1.0,
			}, true
		}
	}

	if fallback < len(sheetNames) {
		return model.SheetRecognition{
			SheetName: sheetNames[fallback],
			Index:     fallback,
			Role:      role,
			Fallback:  true,
		}, true
	}

	return model.SheetRecognition{Role: model.SheetRoleUnknown, Index: -1}, false
}
