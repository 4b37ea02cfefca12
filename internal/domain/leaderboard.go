package domain

import "sort"

// LeaderboardEntry holds the cumulative commit total of a single team.
type LeaderboardEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TotalCommits int    `json:"total_commits"`
	Color        string `json:"color"`
}

// Leaderboard is sorted descending by TotalCommits.
type Leaderboard []LeaderboardEntry

// Find returns the index of the entry with the given id, or -1.
func (l Leaderboard) Find(id string) int {
	for i, e := range l {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Sort orders the leaderboard descending by total, keeping the prior
// relative order of ties.
func (l Leaderboard) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].TotalCommits > l[j].TotalCommits
	})
}
