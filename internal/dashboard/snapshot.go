// Package dashboard is the presentation client: it polls the published
// artifacts and renders the ranking and the trend chart.
package dashboard

import (
	"time"

	"github.com/naka-gawa/commit-race/internal/domain"
)

// Snapshot is the last successfully fetched pair of artifacts.
type Snapshot struct {
	Leaderboard domain.Leaderboard `json:"leaderboard"`
	History     domain.History     `json:"history"`
	FetchedAt   time.Time          `json:"fetched_at"`
}

// LegendItem is the display identity of a team.
type LegendItem struct {
	ID    string
	Name  string
	Color string
}

// Legend derives the team legend from the leaderboard, in ranking order.
func (s Snapshot) Legend() []LegendItem {
	legend := make([]LegendItem, 0, len(s.Leaderboard))
	for _, e := range s.Leaderboard {
		name := e.Name
		if name == "" {
			name = e.ID
		}
		legend = append(legend, LegendItem{ID: e.ID, Name: name, Color: e.Color})
	}
	return legend
}

// TeamSeries is the per-window commit counts of one team across the history.
type TeamSeries struct {
	Team   LegendItem
	Values []int
}

// Series flattens the history into one series per legend item. A history
// entry that omits a team contributes 0 for it.
func (s Snapshot) Series() (labels []string, series []TeamSeries) {
	labels = make([]string, len(s.History))
	for i, h := range s.History {
		labels[i] = h.Time
	}
	for _, item := range s.Legend() {
		values := make([]int, len(s.History))
		for i, h := range s.History {
			values[i] = h.Teams[item.ID]
		}
		series = append(series, TeamSeries{Team: item, Values: values})
	}
	return labels, series
}

// Totals returns the per-window totals in history order.
func (s Snapshot) Totals() []int {
	totals := make([]int, len(s.History))
	for i, h := range s.History {
		totals[i] = h.Total
	}
	return totals
}
