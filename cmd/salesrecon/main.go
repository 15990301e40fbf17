package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"salesrecon/internal/cleaner"
	"salesrecon/internal/config"
	"salesrecon/internal/importer"
	"salesrecon/internal/model"
	"salesrecon/internal/reconcile"
	"salesrecon/internal/service/excel"
)

var (
	configPath = flag.String("config", "", "配置文件路径 (默认依次查找程序目录与当前目录下的 config.toml)")
	workDir    = flag.String("dir", "", "输入输出目录 (覆盖配置文件)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  SalesRecon - 销售日报清洗与对账工具")
	fmt.Println("==========================================")

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo(*configPath)
	if err != nil {
		if *configPath != "" {
			log.Printf("加载配置失败: %v", err)
			os.Exit(1)
		}
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}
	if info.Found {
		fmt.Printf("配置文件: %s\n", info.Path)
	}

	// 命令行参数覆盖配置
	if *workDir != "" {
		cfg.SetFolder(*workDir)
	}

	coord := importer.NewCoordinator(cfg)
	coord.OnProgress(func(evt importer.ProgressEvent) {
		printEvent(cfg, evt)
	})

	if _, err := coord.Run(); err != nil {
		fmt.Println(describeError(err))
		log.Printf("运行失败: %v", err)
		os.Exit(1)
	}
}

func printEvent(cfg *config.AppConfig, evt importer.ProgressEvent) {
	switch evt.Type {
	case "start":
		fmt.Println(evt.Message)
		if data, ok := evt.Data.(map[string]string); ok {
			fmt.Printf("运行编号: %s\n", data["run_id"])
			fmt.Printf("输入文件: %s\n", data["input"])
		}
	case "sheet_done":
		fmt.Println(evt.Message)
		if stats, ok := evt.Data.(*model.SheetStats); ok {
			printDropped(stats)
		}
	case "reconcile":
		result, ok := evt.Data.(*reconcile.Result)
		if !ok || !result.HasMissing() {
			fmt.Println(evt.Message)
			return
		}
		fmt.Println("\n发现 Total 表缺失以下日期的所有数据:")
		for _, d := range result.MissingDates {
			fmt.Printf("  %s\n", d)
		}
		fmt.Println("\n缺失记录预览:")
		if err := reconcile.WritePreview(os.Stdout, importer.MissingHeader, result.Records, cfg.Cleaning.PreviewRows); err != nil {
			log.Printf("输出预览失败: %v", err)
		}
		fmt.Printf("共缺失 %d 条员工记录\n\n", len(result.Records))
	case "done":
		if report, ok := evt.Data.(*model.RunReport); ok {
			fmt.Printf("完成，用时 %s\n", report.Duration.Round(time.Millisecond))
		}
	default:
		fmt.Println(evt.Message)
	}
}

func printDropped(stats *model.SheetStats) {
	dropped := make(map[string]int, len(stats.Dropped))
	for reason, n := range stats.Dropped {
		dropped[string(reason)] = n
	}
	if line := formatCounts(dropped); line != "" {
		fmt.Printf("  剔除: %s\n", line)
	}
	if line := formatCounts(stats.DateSources); line != "" {
		fmt.Printf("  日期来源: %s\n", line)
	}
}

// formatCounts 按键排序输出 k=v 列表
func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}

func describeError(err error) string {
	switch {
	case errors.Is(err, importer.ErrInputNotFound):
		return "找不到输入文件，请确认文件名与目录是否正确"
	case errors.Is(err, excel.ErrOutputLocked):
		return "保存失败: 输出文件正被 Excel 打开，请关闭后重试"
	case errors.Is(err, excel.ErrWorkbookOpen):
		return "无法打开输入文件，请确认是有效的 xlsx 工作簿"
	case errors.Is(err, excel.ErrSheetRead):
		return "读取 sheet 失败，请检查工作簿结构"
	case errors.Is(err, cleaner.ErrColumnNotFound):
		return fmt.Sprintf("缺少必要的列: %v", err)
	default:
		return fmt.Sprintf("运行失败: %v", err)
	}
}
