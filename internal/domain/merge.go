package domain

import "time"

// Merge folds one window of counts into the previous leaderboard and history.
// Neither input is modified.
//
// Every configured team gets an entry, even with a zero count. Entries of
// teams that have left the config are kept as they are.
func Merge(board Leaderboard, history History, teams []Team, counts WindowCounts, now time.Time, limit int) (Leaderboard, History) {
	next := make(Leaderboard, len(board))
	copy(next, board)

	for _, team := range teams {
		i := next.Find(team.ID)
		if i < 0 {
			next = append(next, LeaderboardEntry{ID: team.ID})
			i = len(next) - 1
		}
		next[i].Name = team.Name
		next[i].Color = team.Color
		next[i].TotalCommits += counts.ByTeam[team.ID]
	}
	next.Sort()

	return next, history.Append(NewHistoryEntry(now, counts), limit)
}
