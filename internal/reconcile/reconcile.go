package reconcile

import (
	"errors"
	"fmt"
	"sort"

	"salesrecon/internal/model"
)

// ErrNoDateColumn 表格缺少日期列
var ErrNoDateColumn = errors.New("date column not found")

// Columns 对账用到的列别名
type Columns struct {
	Date        []string
	Group       []string
	Salesperson []string
}

// Result 对账结果
type Result struct {
	AggregateDates []string            // 汇总表中出现的日期（升序）
	DetailDates    []string            // 员工表中出现的日期（升序）
	MissingDates   []string            // 员工表有而汇总表整天缺失的日期（升序）
	Records        []model.Discrepancy // 缺失日期对应的员工记录，按（日期, 组别）排序
}

// HasMissing 是否存在整天缺失
func (r *Result) HasMissing() bool {
	return len(r.MissingDates) > 0
}

// FindMissing 找出员工表中有、汇总表中整天缺失的日期，并提取对应的（日期, 组别, 业务员）
// 两张表的日期列都应已规范化为 YYYY-MM-DD 文本
func FindMissing(aggregate, detail *model.Table, cols Columns) (*Result, error) {
	aggDateIdx := aggregate.ColumnIndex(cols.Date...)
	if aggDateIdx < 0 {
		return nil, fmt.Errorf("%w: sheet %q", ErrNoDateColumn, aggregate.Name)
	}
	detDateIdx := detail.ColumnIndex(cols.Date...)
	if detDateIdx < 0 {
		return nil, fmt.Errorf("%w: sheet %q", ErrNoDateColumn, detail.Name)
	}

	aggDates := DistinctDates(aggregate, aggDateIdx)
	detDates := DistinctDates(detail, detDateIdx)

	missing := make(map[string]struct{})
	for d := range detDates {
		if _, ok := aggDates[d]; !ok {
			missing[d] = struct{}{}
		}
	}

	result := &Result{
		AggregateDates: sortedKeys(aggDates),
		DetailDates:    sortedKeys(detDates),
		MissingDates:   sortedKeys(missing),
		Records:        []model.Discrepancy{},
	}
	if len(missing) == 0 {
		return result, nil
	}

	groupIdx := detail.ColumnIndex(cols.Group...)
	personIdx := detail.ColumnIndex(cols.Salesperson...)
	for _, row := range detail.Rows {
		date := row.Value(detDateIdx)
		if _, ok := missing[date]; !ok {
			continue
		}
		result.Records = append(result.Records, model.Discrepancy{
			Date:        date,
			Group:       row.Value(groupIdx),
			Salesperson: row.Value(personIdx),
		})
	}

	sort.SliceStable(result.Records, func(i, j int) bool {
		a, b := result.Records[i], result.Records[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Group < b.Group
	})

	return result, nil
}

// DistinctDates 列中出现过的非空日期集合
func DistinctDates(t *model.Table, dateIdx int) map[string]struct{} {
	out := make(map[string]struct{})
	for _, row := range t.Rows {
		if d := row.Value(dateIdx); d != "" {
			out[d] = struct{}{}
		}
	}
	return out
}

// ToTable 把缺失名单转换为表格，便于写入工作簿
func ToTable(name string, records []model.Discrepancy, header []string) *model.Table {
	t := &model.Table{
		Name:   name,
		Header: header,
		Rows:   make([]model.Row, 0, len(records)),
	}
	for i, r := range records {
		t.Rows = append(t.Rows, model.Row{
			Number: i + 1,
			Cells: []model.Cell{
				model.TextCell(r.Date),
				model.TextCell(r.Group),
				model.TextCell(r.Salesperson),
			},
		})
	}
	return t
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
