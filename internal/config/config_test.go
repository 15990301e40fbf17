package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig_Paths(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	if got, want := cfg.InputPath(), "original_data.xlsx"; got != want {
		t.Fatalf("InputPath=%q, want %q", got, want)
	}

	now := time.Date(2025, 11, 18, 9, 30, 0, 0, time.Local)
	if got, want := cfg.OutputFileName(now), "clean_data_20251118.xlsx"; got != want {
		t.Fatalf("OutputFileName=%q, want %q", got, want)
	}

	cfg.SetFolder(filepath.Join("data", "reports"))
	if got, want := cfg.OutputPath(now), filepath.Join("data", "reports", "clean_data_20251118.xlsx"); got != want {
		t.Fatalf("OutputPath=%q, want %q", got, want)
	}
}

func TestLoadConfigWithInfo_ExplicitPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ConfigFileName)
	data := []byte(`
[input]
file_name = "march.xlsx"
header_row = 1

[columns]
date = ["Day"]

[cleaning]
summary_markers = ["Subtotal"]
preview_rows = 3
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, info, err := LoadConfigWithInfo(path)
	if err != nil {
		t.Fatalf("LoadConfigWithInfo: %v", err)
	}
	if !info.Found || info.Path != path {
		t.Fatalf("info=%+v, want found at %s", info, path)
	}
	if cfg.Input.FileName != "march.xlsx" || cfg.Input.HeaderRow != 1 {
		t.Fatalf("input=%+v", cfg.Input)
	}
	if len(cfg.Columns.Date) != 1 || cfg.Columns.Date[0] != "Day" {
		t.Fatalf("columns.date=%v", cfg.Columns.Date)
	}
	// 未配置的字段保持默认值
	if cfg.Input.AggregateKeyword != "total" {
		t.Fatalf("aggregate keyword=%q, want default", cfg.Input.AggregateKeyword)
	}
	if cfg.Cleaning.MinSerial != 10000 || cfg.Cleaning.PreviewRows != 3 {
		t.Fatalf("cleaning=%+v", cfg.Cleaning)
	}
}

func TestLoadConfigWithInfo_MissingExplicitPath(t *testing.T) {
	t.Parallel()

	_, _, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestLoadConfigWithInfo_InvalidHeaderRow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("[input]\nheader_row = 0\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := LoadConfigWithInfo(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := DefaultConfig()
	cfg.Output.MissingSheet = "Missing_Records"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Output.MissingSheet != "Missing_Records" {
		t.Fatalf("missing sheet=%q", loaded.Output.MissingSheet)
	}
}
