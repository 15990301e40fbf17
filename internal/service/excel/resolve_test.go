package excel_test

import (
	"errors"
	"testing"

	"salesrecon/internal/service/excel"
)

var defaultResolveOptions = excel.ResolveOptions{
	AggregateKeyword: "total",
	DetailKeyword:    "employee",
}

func TestResolveWorkbookByName(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t,
		sheetSpec{name: "说明"},
		sheetSpec{name: "Daily Total"},
		sheetSpec{name: "Employee Detail"},
	)

	result, err := excel.ResolveWorkbook(wb, defaultResolveOptions)
	if err != nil {
		t.Fatalf("ResolveWorkbook failed: %v", err)
	}
	if got, want := result.Aggregate.SheetName, "Daily Total"; got != want {
		t.Fatalf("aggregate=%q, want %q", got, want)
	}
	if got, want := result.Detail.SheetName, "Employee Detail"; got != want {
		t.Fatalf("detail=%q, want %q", got, want)
	}
	if result.Aggregate.Fallback || result.Detail.Fallback {
		t.Fatalf("name match must not be marked as fallback")
	}
	if len(result.UnusedSheets) != 1 || result.UnusedSheets[0] != "说明" {
		t.Fatalf("unused=%v", result.UnusedSheets)
	}
}

func TestResolveWorkbookFallsBackToPosition(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t,
		sheetSpec{name: "员工"},
		sheetSpec{name: "汇总"},
	)

	result, err := excel.ResolveWorkbook(wb, defaultResolveOptions)
	if err != nil {
		t.Fatalf("ResolveWorkbook failed: %v", err)
	}
	if result.Aggregate.SheetName != "汇总" || !result.Aggregate.Fallback {
		t.Fatalf("aggregate=%+v", result.Aggregate)
	}
	if result.Detail.SheetName != "员工" || !result.Detail.Fallback {
		t.Fatalf("detail=%+v", result.Detail)
	}
}

func TestResolveSheetsSingleSheet(t *testing.T) {
	t.Parallel()

	_, err := excel.ResolveSheets([]string{"Sheet1"}, defaultResolveOptions)
	if !errors.Is(err, excel.ErrSheetNotFound) {
		t.Fatalf("err=%v, want ErrSheetNotFound", err)
	}
}
