package store

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/commit-race/internal/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStore_LoadTeams(t *testing.T) {
	testCases := []struct {
		name     string
		content  *string
		expected []domain.Team
	}{
		{
			name:    "json array",
			content: ptr(`[{"id":"a","name":"Alpha","repos":["o/r1","o/r2"],"color":"#f00"}]`),
			expected: []domain.Team{
				{ID: "a", Name: "Alpha", Repos: []string{"o/r1", "o/r2"}, Color: "#f00"},
			},
		},
		{
			name: "yaml",
			content: ptr(`- id: b
  name: Bravo
  repos: [o/r3]
  color: "#0f0"
`),
			expected: []domain.Team{
				{ID: "b", Name: "Bravo", Repos: []string{"o/r3"}, Color: "#0f0"},
			},
		},
		{
			name:     "missing file",
			expected: []domain.Team{},
		},
		{
			name:     "malformed file",
			content:  ptr(`{"id": "a"`),
			expected: []domain.Team{},
		},
		{
			name:     "empty file",
			content:  ptr(``),
			expected: []domain.Team{},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "teams.json")
			if tc.content != nil {
				writeFile(t, path, *tc.content)
			}
			s := New(dir, log.New(io.Discard, "", 0))

			assert.Equal(t, tc.expected, s.LoadTeams(path))
		})
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s := New(dir, log.New(io.Discard, "", 0))
	board := domain.Leaderboard{
		{ID: "a", Name: "Alpha", TotalCommits: 3, Color: "#f00"},
		{ID: "b", Name: "Bravo", TotalCommits: 0, Color: "#0f0"},
	}
	history := domain.History{
		{Time: "09:05", Timestamp: 1760519100000, Teams: map[string]int{"a": 3, "b": 0}, Total: 3},
	}

	require.NoError(t, s.Save(board, history))

	assert.Equal(t, board, s.LoadLeaderboard())
	assert.Equal(t, history, s.LoadHistory())

	raw, err := os.ReadFile(s.LeaderboardPath())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"total_commits": 3`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files must not be left behind")
}

func TestStore_LoadArtifactsDefaults(t *testing.T) {
	var logs bytes.Buffer
	dir := t.TempDir()
	s := New(dir, log.New(&logs, "", 0))

	assert.Equal(t, domain.Leaderboard{}, s.LoadLeaderboard())
	assert.Equal(t, domain.History{}, s.LoadHistory())
	assert.Empty(t, logs.String(), "missing files are not worth a log line")

	writeFile(t, s.LeaderboardPath(), `[{"id":"a","total_commits":"many"}]`)
	writeFile(t, s.HistoryPath(), `not json`)

	assert.Equal(t, domain.Leaderboard{}, s.LoadLeaderboard())
	assert.Equal(t, domain.History{}, s.LoadHistory())
	assert.Contains(t, logs.String(), "failed to parse")
}

func ptr(s string) *string { return &s }
