package dashboard

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const pageTitle = "Commit Race"

// RenderHTML writes the dashboard page for snap: the ranking in received
// order and one line per team across the history.
func RenderHTML(w io.Writer, snap Snapshot) error {
	page := components.NewPage()
	page.PageTitle = pageTitle
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(rankingChart(snap), historyChart(snap))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return nil
}

func rankingChart(snap Snapshot) *charts.Bar {
	legend := snap.Legend()
	names := make([]string, len(legend))
	data := make([]opts.BarData, len(legend))
	for i, item := range legend {
		names[i] = fmt.Sprintf("#%d %s", i+1, item.Name)
		bar := opts.BarData{Name: item.ID, Value: snap.Leaderboard[i].TotalCommits}
		if item.Color != "" {
			bar.ItemStyle = &opts.ItemStyle{Color: item.Color}
		}
		data[i] = bar
	}

	subtitle := "No data yet"
	if !snap.FetchedAt.IsZero() {
		sum := Summarize(snap.Totals())
		subtitle = fmt.Sprintf("updated %s · %s commits in the last %d windows · per window: mean %.1f, median %.1f, p90 %.0f, max %.0f",
			humanize.Time(snap.FetchedAt), humanize.Comma(int64(sum.Sum)), sum.Windows, sum.Mean, sum.Median, sum.P90, sum.Max)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: pageTitle, Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Leaderboard", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Total commits"}),
	)
	bar.SetXAxis(names).AddSeries("Total commits", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return bar
}

func historyChart(snap Snapshot) *charts.Line {
	labels, series := snap.Series()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: pageTitle, Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Commits per window"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Commits"}),
	)
	line.SetXAxis(labels)
	for _, s := range series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.LineData{Value: v}
		}
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		}
		if s.Team.Color != "" {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Team.Color}))
		}
		line.AddSeries(s.Team.Name, data, seriesOpts...)
	}
	return line
}
