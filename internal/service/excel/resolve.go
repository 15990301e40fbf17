package excel

import (
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"salesrecon/internal/model"
	"salesrecon/internal/parser"
)

// ErrSheetNotFound 工作簿中找不到汇总表或员工表
var ErrSheetNotFound = errors.New("sheet not found")

// ResolveOptions ResolveWorkbook 的选项
type ResolveOptions struct {
	AggregateKeyword string
	DetailKeyword    string
}

// ResolveWorkbook 根据 sheet 名选择汇总表与员工表，匹配不到时按位置兜底
func ResolveWorkbook(wb *excelize.File, opts ResolveOptions) (model.ResolveResult, error) {
	if wb == nil {
		return model.ResolveResult{}, errors.New("workbook is nil")
	}
	return ResolveSheets(wb.GetSheetList(), opts)
}

// ResolveSheets 同 ResolveWorkbook，直接基于 sheet 名列表
func ResolveSheets(sheets []string, opts ResolveOptions) (model.ResolveResult, error) {
	rec := parser.NewSheetRecognizer(opts.AggregateKeyword, opts.DetailKeyword)
	result := model.ResolveResult{UnusedSheets: []string{}}

	agg, ok := rec.Pick(sheets, model.SheetRoleAggregate)
	if !ok {
		return result, fmt.Errorf("%w: no sheet matches %q and workbook has %d sheet(s)", ErrSheetNotFound, opts.AggregateKeyword, len(sheets))
	}
	det, ok := rec.Pick(sheets, model.SheetRoleDetail)
	if !ok {
		return result, fmt.Errorf("%w: no sheet matches %q", ErrSheetNotFound, opts.DetailKeyword)
	}

	result.Aggregate = agg
	result.Detail = det
	for _, name := range sheets {
		if name == agg.SheetName || name == det.SheetName {
			continue
		}
		result.UnusedSheets = append(result.UnusedSheets, name)
	}
	sort.Strings(result.UnusedSheets)
	return result, nil
}
