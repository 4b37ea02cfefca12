package dashboard

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// podium colors the top three ranks.
var podium = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgWhite, color.Bold),
	color.New(color.FgRed),
}

// RenderTable writes the ranking as a terminal table, in received order,
// with the latest window count next to the cumulative total.
func RenderTable(w io.Writer, snap Snapshot) {
	var latest map[string]int
	if n := len(snap.History); n > 0 {
		latest = snap.History[n-1].Teams
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Team", "Total commits", "Last window"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	for i, item := range snap.Legend() {
		rank := strconv.Itoa(i + 1)
		name := item.Name
		if i < len(podium) {
			rank = podium[i].Sprint(rank)
			name = podium[i].Sprint(name)
		}
		t.AppendRow(table.Row{
			rank,
			name,
			humanize.Comma(int64(snap.Leaderboard[i].TotalCommits)),
			latest[item.ID],
		})
	}

	sum := Summarize(snap.Totals())
	t.AppendFooter(table.Row{"", "Windows", humanize.Comma(int64(sum.Sum)), fmt.Sprintf("mean %.1f · median %.1f · max %.0f", sum.Mean, sum.Median, sum.Max)})
	if !snap.FetchedAt.IsZero() {
		t.SetCaption("updated %s", humanize.Time(snap.FetchedAt))
	}
	t.Render()
}
