package outwriter

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/commitpulse/schema"
)

const (
	chartWidth  = "100%"
	chartHeight = "420px"

	// timelineLabelFormat is the hour bucket label on the x axis
	timelineLabelFormat = "01-02 15:00"
)

// writeHTMLReport renders an interactive page with the commit type mix, the
// hourly timeline and the top contributors.
func writeHTMLReport(w io.Writer, result schema.AnalysisResult) error {
	page := components.NewPage()
	page.PageTitle = "commitpulse: " + result.Collection.Repository
	page.AddCharts(
		buildTypesPie(result.Trends),
		buildTimelineChart(result.Trends),
		buildContributorsBar(result.Trends),
	)
	return page.Render(w)
}

func buildTypesPie(report schema.TrendReport) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Commit Types", Subtitle: string(report.Types.Phase)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	data := make([]opts.PieData, 0, len(report.Types.Counts))
	for _, c := range schema.AllCategories {
		if n := report.Types.Counts[c]; n > 0 {
			data = append(data, opts.PieData{Name: string(c), Value: n})
		}
	}
	pie.AddSeries("Commit types", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c} ({d}%)",
			}),
		)
	return pie
}

func buildTimelineChart(report schema.TrendReport) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Activity Timeline", Subtitle: "commits and changes per hour (UTC)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	labels := make([]string, len(report.Timeline.Buckets))
	commits := make([]opts.LineData, len(report.Timeline.Buckets))
	changes := make([]opts.LineData, len(report.Timeline.Buckets))
	for i, b := range report.Timeline.Buckets {
		labels[i] = b.Start.UTC().Format(timelineLabelFormat)
		commits[i] = opts.LineData{Value: b.Commits}
		changes[i] = opts.LineData{Value: b.Changes}
	}
	line.SetXAxis(labels).
		AddSeries("Commits", commits).
		AddSeries("Changes", changes)
	return line
}

func buildContributorsBar(report schema.TrendReport) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Top Contributors"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	names := make([]string, len(report.Contributors.Top))
	commits := make([]opts.BarData, len(report.Contributors.Top))
	lines := make([]opts.BarData, len(report.Contributors.Top))
	for i, p := range report.Contributors.Top {
		names[i] = p.Name
		commits[i] = opts.BarData{Value: p.Commits}
		lines[i] = opts.BarData{Value: p.Additions + p.Deletions}
	}
	bar.SetXAxis(names).
		AddSeries("Commits", commits).
		AddSeries("Lines changed", lines)
	return bar
}
