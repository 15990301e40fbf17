package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName 配置文件名
const ConfigFileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Input    InputConfig    `toml:"input"`
	Output   OutputConfig   `toml:"output"`
	Columns  ColumnConfig   `toml:"columns"`
	Cleaning CleaningConfig `toml:"cleaning"`
}

// InputConfig 输入文件配置
type InputConfig struct {
	Folder           string `toml:"folder"`
	FileName         string `toml:"file_name"`
	HeaderRow        int    `toml:"header_row"` // 表头所在行（1 起），第一行通常是标题
	AggregateKeyword string `toml:"aggregate_keyword"`
	DetailKeyword    string `toml:"detail_keyword"`
}

// OutputConfig 输出文件配置
type OutputConfig struct {
	Folder         string `toml:"folder"`
	FilePrefix     string `toml:"file_prefix"`
	DateLayout     string `toml:"date_layout"` // Go 时间格式，用于文件名中的运行日期
	AggregateSheet string `toml:"aggregate_sheet"`
	DetailSheet    string `toml:"detail_sheet"`
	MissingSheet   string `toml:"missing_sheet"` // 为空则不输出缺失名单 sheet
}

// ColumnConfig 列名别名，按顺序匹配
type ColumnConfig struct {
	Date        []string `toml:"date"`
	Group       []string `toml:"group"`
	Salesperson []string `toml:"salesperson"`
}

// CleaningConfig 清洗规则配置
type CleaningConfig struct {
	SummaryMarkers []string `toml:"summary_markers"`
	MinYear        int      `toml:"min_year"`   // 年份必须大于该值
	MinSerial      int64    `toml:"min_serial"` // 小于该值的日期序列号视为噪声
	PreviewRows    int      `toml:"preview_rows"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path  string // 实际读取的配置文件，未找到时为空
	Found bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Input: InputConfig{
			Folder:           ".",
			FileName:         "original_data.xlsx",
			HeaderRow:        2,
			AggregateKeyword: "total",
			DetailKeyword:    "employee",
		},
		Output: OutputConfig{
			Folder:         ".",
			FilePrefix:     "clean_data_",
			DateLayout:     "20060102",
			AggregateSheet: "Total_Cleaned",
			DetailSheet:    "Employee_Cleaned",
			MissingSheet:   "",
		},
		Columns: ColumnConfig{
			Date:        []string{"日期", "Date"},
			Group:       []string{"组别", "Group"},
			Salesperson: []string{"业务员", "Salesperson"},
		},
		Cleaning: CleaningConfig{
			SummaryMarkers: []string{"合计", "总计", "Total", "Summary"},
			MinYear:        2000,
			MinSerial:      10000,
			PreviewRows:    10,
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// candidatePaths 配置文件查找顺序：可执行文件目录优先，其次当前目录
func candidatePaths() []string {
	paths := make([]string, 0, 2)
	if exeDir, err := GetExeDir(); err == nil {
		paths = append(paths, filepath.Join(exeDir, ConfigFileName))
	}
	return append(paths, ConfigFileName)
}

// LoadConfigWithInfo 加载配置并返回元信息
// path 为空时按默认位置查找；配置文件不存在时使用默认配置
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	paths := candidatePaths()
	if path != "" {
		paths = []string{path}
	}

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) && path == "" {
				continue
			}
			return nil, info, err
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", p, err)
		}
		info.Path = p
		info.Found = true
		break
	}

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// LoadConfig 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate 校验配置
func (c *AppConfig) Validate() error {
	if c.Input.FileName == "" {
		return fmt.Errorf("input.file_name is empty")
	}
	if c.Input.HeaderRow < 1 {
		return fmt.Errorf("input.header_row must be >= 1, got %d", c.Input.HeaderRow)
	}
	if len(c.Columns.Date) == 0 {
		return fmt.Errorf("columns.date is empty")
	}
	if c.Output.AggregateSheet == "" || c.Output.DetailSheet == "" {
		return fmt.Errorf("output sheet names must not be empty")
	}
	if c.Output.AggregateSheet == c.Output.DetailSheet {
		return fmt.Errorf("output sheet names must differ")
	}
	if c.Cleaning.PreviewRows < 0 {
		return fmt.Errorf("cleaning.preview_rows must be >= 0")
	}
	return nil
}

// InputPath 输入文件完整路径
func (c *AppConfig) InputPath() string {
	return filepath.Join(c.Input.Folder, c.Input.FileName)
}

// OutputFileName 输出文件名，附带运行日期，如 clean_data_20251118.xlsx
func (c *AppConfig) OutputFileName(now time.Time) string {
	return c.Output.FilePrefix + now.Format(c.Output.DateLayout) + ".xlsx"
}

// OutputPath 输出文件完整路径
func (c *AppConfig) OutputPath(now time.Time) string {
	return filepath.Join(c.Output.Folder, c.OutputFileName(now))
}

// SetFolder 同时覆盖输入与输出目录
func (c *AppConfig) SetFolder(dir string) {
	c.Input.Folder = dir
	c.Output.Folder = dir
}
