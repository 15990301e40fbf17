package excel_test

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

type sheetSpec struct {
	name string
	rows [][]interface{}
}

// buildWorkbook 按顺序创建 sheet 并从 A1 起逐行写入
func buildWorkbook(t *testing.T, sheets ...sheetSpec) *excelize.File {
	t.Helper()

	wb := excelize.NewFile()
	defaultSheet := wb.GetSheetName(0)

	for i, s := range sheets {
		if i == 0 {
			if err := wb.SetSheetName(defaultSheet, s.name); err != nil {
				t.Fatalf("SetSheetName %s failed: %v", s.name, err)
			}
		} else if _, err := wb.NewSheet(s.name); err != nil {
			t.Fatalf("NewSheet %s failed: %v", s.name, err)
		}
		for r, row := range s.rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			values := row
			if err := wb.SetSheetRow(s.name, cell, &values); err != nil {
				t.Fatalf("SetSheetRow %s failed: %v", s.name, err)
			}
		}
	}

	t.Cleanup(func() { _ = wb.Close() })
	return wb
}
