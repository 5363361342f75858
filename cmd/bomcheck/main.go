package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Storbiic/ETL-Automated-Tool/internal/exporter"
	"github.com/Storbiic/ETL-Automated-Tool/internal/insights"
	"github.com/Storbiic/ETL-Automated-Tool/internal/matcher"
	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
	"github.com/Storbiic/ETL-Automated-Tool/internal/parser"
)

var (
	file    = flag.String("file", "", "工作簿路径 (.xlsx/.xlsm/.csv)")
	master  = flag.String("master", "", "主表名 (csv 文件可省略)")
	target  = flag.String("target", "", "目标表名")
	key     = flag.String("key", "", "连接键列名")
	outPath = flag.String("out", "", "匹配结果 CSV 输出路径 (可选)")
)

// bomcheck 无服务端的命令行核对：读取工作簿，清洗主/目标表，
// 执行跨表匹配并在控制台输出汇总。
func main() {
	flag.Parse()
	if *file == "" || *target == "" || *key == "" {
		flag.Usage()
		os.Exit(2)
	}

	wb, err := parser.ReadWorkbook(*file)
	if err != nil {
		log.Fatalf("read workbook: %v", err)
	}

	masterName := *master
	if masterName == "" {
		masterName = wb.Sheets[0].Name
	}
	masterRaw := wb.Sheet(masterName)
	targetRaw := wb.Sheet(*target)
	if masterRaw == nil {
		log.Fatalf("sheet %q not found (available: %v)", masterName, wb.SheetNames())
	}
	if targetRaw == nil {
		log.Fatalf("sheet %q not found (available: %v)", *target, wb.SheetNames())
	}

	masterTable, err := masterRaw.Normalize()
	if err != nil {
		log.Fatalf("normalize %q: %v", masterName, err)
	}
	targetTable, err := targetRaw.Normalize()
	if err != nil {
		log.Fatalf("normalize %q: %v", *target, err)
	}

	cleaner := parser.NewCleaner()
	cm, ct, _, err := cleaner.Clean(masterTable, targetTable)
	if err != nil {
		log.Fatalf("clean: %v", err)
	}

	engine := matcher.NewEngine()
	outcome, err := engine.Lookup(cm, ct, *key)
	if err != nil {
		log.Fatalf("lookup: %v", err)
	}

	sum := insights.Summarize(outcome.Results)
	quality := insights.BuildQuality(sum)
	recs := insights.BuildRecommendations(sum, quality, outcome.Warnings, insights.DefaultThresholds())

	printSummary(sum, quality)
	printDistribution(sum)
	fmt.Println("Recommendations:")
	for _, r := range recs {
		fmt.Printf("  - %s\n", r)
	}
	if n := len(outcome.Warnings); n > 0 {
		fmt.Printf("\n%d duplicate master keys (first occurrence wins), e.g. %s\n",
			n, outcome.Warnings[0].String())
	}

	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("create output: %v", err)
		}
		if err := exporter.WriteCSV(f, outcome.ResultTable); err != nil {
			_ = f.Close()
			log.Fatalf("write output: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("close output: %v", err)
		}
		fmt.Printf("\nResult written to %s\n", *outPath)
	}
}

// printSummary 输出匹配汇总表
func printSummary(sum *model.LookupSummary, quality *model.DataQualityInsights) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Total records", sum.TotalRecords},
		{"Successful matches", sum.SuccessfulMatches},
		{"Failed matches", sum.FailedMatches},
		{"Match rate", fmt.Sprintf("%.1f%%", quality.MatchRate)},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}

// printDistribution 输出状态分布表
func printDistribution(sum *model.LookupSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Status", "Label", "Count", "Percent"})
	for _, s := range model.AllStatuses() {
		t.AppendRow(table.Row{
			string(s), s.Label(),
			sum.StatusDistribution[s],
			fmt.Sprintf("%.1f%%", sum.Percentages[s]),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
