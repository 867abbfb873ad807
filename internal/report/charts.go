package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/schema"
)

const (
	chartWidth  = "1100px"
	chartHeight = "500px"
	xAxisRotate = 45
)

// renderChartPage assembles the HTML report page from the derived metrics.
// Sections without data are simply skipped.
func renderChartPage(data *schema.ReportData, cfg *contract.Config, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Contribution stats for %s", data.RepoPath)

	if len(data.DailySeries) > 0 {
		page.AddCharts(buildDailyLineChart(data.DailySeries))
	}
	if len(data.Snapshot.Authors) > 0 {
		page.AddCharts(buildAuthorBarChart(data.Snapshot, cfg.ResultLimit))
	}
	if len(data.TimezoneHistogram) > 0 {
		page.AddCharts(buildTimezoneBarChart(data.TimezoneHistogram))
	}
	if data.Tree != nil && len(data.Tree.Extensions) > 0 {
		page.AddCharts(buildExtensionPieChart(data.Tree, cfg.ResultLimit))
	}

	return page.Render(w)
}

// buildDailyLineChart plots the running line and file counts over days.
func buildDailyLineChart(series []schema.DailyPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Repository size over time",
			Subtitle: "Running line and file counts per calendar day",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	labels := make([]string, len(series))
	lineData := make([]opts.LineData, len(series))
	fileData := make([]opts.LineData, len(series))
	for i, p := range series {
		labels[i] = p.Day
		lineData[i] = opts.LineData{Value: p.NetLines}
		fileData[i] = opts.LineData{Value: p.TotalFiles}
	}

	line.SetXAxis(labels)
	line.AddSeries("Lines", lineData,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)
	line.AddSeries("Files", fileData,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)
	return line
}

// buildAuthorBarChart plots commit counts for the top authors.
func buildAuthorBarChart(snap *schema.AggregateSnapshot, limit int) *charts.Bar {
	rows := TopAuthors(snap, limit)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Commits per author",
			Subtitle: fmt.Sprintf("Top %d authors by commit count", len(rows)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"},
		}),
	)

	labels := make([]string, len(rows))
	commitData := make([]opts.BarData, len(rows))
	for i, r := range rows {
		labels[i] = r.Key
		commitData[i] = opts.BarData{Value: r.Agg.Commits}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("Commits", commitData)
	return bar
}

// buildTimezoneBarChart plots the commit distribution over author UTC offsets.
func buildTimezoneBarChart(histogram map[int]int) *charts.Bar {
	offsets := make([]int, 0, len(histogram))
	for offset := range histogram {
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Commits by timezone",
			Subtitle: "Author UTC offsets across the full history",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, len(offsets))
	counts := make([]opts.BarData, len(offsets))
	for i, offset := range offsets {
		labels[i] = formatUTCOffset(offset)
		counts[i] = opts.BarData{Value: histogram[offset]}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("Commits", counts)
	return bar
}

// buildExtensionPieChart plots the line share of the top extensions.
func buildExtensionPieChart(tree *schema.TreeStats, limit int) *charts.Pie {
	rows := topExtensions(tree, limit)

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Lines by extension",
			Subtitle: "Line counts in the final tree",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	pieData := make([]opts.PieData, len(rows))
	for i, r := range rows {
		pieData[i] = opts.PieData{Name: r.Ext, Value: r.Stat.Lines}
	}

	pie.AddSeries("Lines", pieData)
	return pie
}

// formatUTCOffset renders an offset in minutes as "UTC+05:30" style text.
func formatUTCOffset(minutes int) string {
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, minutes/60, minutes%60)
}
