package domain

import "time"

// HistoryTimeLayout is the wall-clock label format of a history entry.
const HistoryTimeLayout = "15:04"

// HistoryEntry is the snapshot of a single window.
type HistoryEntry struct {
	Time      string         `json:"time"`
	Timestamp int64          `json:"timestamp"`
	Teams     map[string]int `json:"teams"`
	Total     int            `json:"total"`
}

// History is ordered oldest first.
type History []HistoryEntry

// NewHistoryEntry builds the entry recorded for a window ending at now.
func NewHistoryEntry(now time.Time, counts WindowCounts) HistoryEntry {
	teams := make(map[string]int, len(counts.ByTeam))
	for id, n := range counts.ByTeam {
		teams[id] = n
	}
	return HistoryEntry{
		Time:      now.Format(HistoryTimeLayout),
		Timestamp: now.UnixMilli(),
		Teams:     teams,
		Total:     counts.Total,
	}
}

// Append returns a new history with entry added at the end and the oldest
// entries dropped so that at most limit remain.
func (h History) Append(entry HistoryEntry, limit int) History {
	next := make(History, 0, len(h)+1)
	next = append(next, h...)
	next = append(next, entry)
	if limit > 0 && len(next) > limit {
		next = next[len(next)-limit:]
	}
	return next
}
