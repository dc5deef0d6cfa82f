package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Visualizer 用量统计的终端渲染器
type Visualizer struct {
	out io.Writer
}

// NewVisualizer 创建渲染器
func NewVisualizer(out io.Writer) *Visualizer {
	return &Visualizer{out: out}
}

// ShowOverview 打印总体用量概览
func (v *Visualizer) ShowOverview(db *UsageDB) {
	title := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgWhite)
	value := color.New(color.FgGreen, color.Bold)
	warn := color.New(color.FgYellow)

	title.Fprintln(v.out, "📊 Translation Usage Overview")
	fmt.Fprintln(v.out, strings.Repeat("─", 40))

	label.Fprint(v.out, "Documents translated: ")
	value.Fprintf(v.out, "%d\n", db.TotalDocuments)
	label.Fprint(v.out, "Lines translated:     ")
	value.Fprintf(v.out, "%d\n", db.TotalLines)
	label.Fprint(v.out, "Chunks processed:     ")
	value.Fprintf(v.out, "%d\n", db.TotalChunks)

	if db.TotalQuotaFailures > 0 {
		label.Fprint(v.out, "Quota failures:       ")
		warn.Fprintf(v.out, "%d\n", db.TotalQuotaFailures)
	}

	if len(db.TierTotals) > 0 {
		fmt.Fprintln(v.out)
		title.Fprintln(v.out, "Chunks by provider:")
		v.showTierBars(db.TierTotals)
	}

	if !db.LastUpdated.IsZero() {
		fmt.Fprintln(v.out)
		label.Fprintf(v.out, "Last updated: %s\n", db.LastUpdated.Format(time.RFC3339))
	}
}

// ShowRecentJobs 打印最近的任务记录
func (v *Visualizer) ShowRecentJobs(db *UsageDB, limit int) {
	title := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	title.Fprintln(v.out, "🕘 Recent Jobs")
	fmt.Fprintln(v.out, strings.Repeat("─", 40))

	if len(db.RecentJobs) == 0 {
		dim.Fprintln(v.out, "no jobs recorded yet")
		return
	}

	for i, job := range db.RecentJobs {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(v.out, "%s  %4d lines  %6dms  %s\n",
			job.StartedAt.Format("2006-01-02 15:04"),
			job.Lines,
			job.DurationMS,
			formatTiers(job.TierCounts))
	}
}

// showTierBars 各提供商的占比条形图
func (v *Visualizer) showTierBars(totals map[string]int64) {
	names := make([]string, 0, len(totals))
	var sum int64
	for name, n := range totals {
		names = append(names, name)
		sum += n
	}
	sort.Strings(names)

	bar := color.New(color.FgGreen)
	for _, name := range names {
		n := totals[name]
		width := 0
		if sum > 0 {
			width = int(n * 20 / sum)
		}
		fmt.Fprintf(v.out, "  %-18s %6d ", name, n)
		bar.Fprintln(v.out, strings.Repeat("█", width))
	}
}

func formatTiers(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s:%d", name, counts[name]))
	}
	return strings.Join(parts, " ")
}
