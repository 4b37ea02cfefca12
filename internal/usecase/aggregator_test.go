package usecase

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/naka-gawa/commit-race/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockCounter is a mock implementation of the gateway.Counter interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockCounter struct {
	mock.Mock
}

func (m *mockCounter) CountCommits(ctx context.Context, owner, name string, since, until time.Time) int {
	args := m.Called(ctx, owner, name, since, until)
	return args.Int(0)
}

var (
	testUntil = time.Date(2026, 10, 15, 9, 5, 0, 0, time.UTC)
	testSince = testUntil.Add(-domain.Window)
)

// TestAggregator_Aggregate uses a table-driven approach to test the aggregator.
func TestAggregator_Aggregate(t *testing.T) {
	testCases := []struct {
		name     string
		teams    []domain.Team
		counts   map[string]int // owner/name -> commits
		expected domain.WindowCounts
	}{
		{
			name: "failed repository contributes zero",
			teams: []domain.Team{
				{ID: "a", Repos: []string{"o/r1"}},
				{ID: "b", Repos: []string{"o/r2"}},
			},
			// The gateway turns the o/r2 error into 0.
			counts:   map[string]int{"o/r1": 3, "o/r2": 0},
			expected: domain.WindowCounts{ByTeam: map[string]int{"a": 3, "b": 0}, Total: 3},
		},
		{
			name: "repositories of a team are summed",
			teams: []domain.Team{
				{ID: "a", Repos: []string{"o/r1", "o/r2", "p/r3"}},
				{ID: "b", Repos: []string{"o/r4"}},
			},
			counts:   map[string]int{"o/r1": 1, "o/r2": 2, "p/r3": 4, "o/r4": 8},
			expected: domain.WindowCounts{ByTeam: map[string]int{"a": 7, "b": 8}, Total: 15},
		},
		{
			name: "team without repositories is present with zero",
			teams: []domain.Team{
				{ID: "a", Repos: []string{"o/r1"}},
				{ID: "empty"},
			},
			counts:   map[string]int{"o/r1": 2},
			expected: domain.WindowCounts{ByTeam: map[string]int{"a": 2, "empty": 0}, Total: 2},
		},
		{
			name: "malformed repository identifier is skipped",
			teams: []domain.Team{
				{ID: "a", Repos: []string{"not-a-repo", "o/r1"}},
			},
			counts:   map[string]int{"o/r1": 5},
			expected: domain.WindowCounts{ByTeam: map[string]int{"a": 5}, Total: 5},
		},
		{
			name:     "no teams",
			expected: domain.WindowCounts{ByTeam: map[string]int{}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			counter := new(mockCounter)
			for repo, n := range tc.counts {
				ref, err := domain.ParseRepo(repo)
				assert.NoError(t, err)
				counter.On("CountCommits", mock.Anything, ref.Owner, ref.Name, testSince, testUntil).Return(n).Once()
			}
			aggregator := NewAggregator(counter, 3, log.New(io.Discard, "", 0))

			// --- Act ---
			result := aggregator.Aggregate(context.Background(), tc.teams, testSince, testUntil)

			// --- Assert ---
			assert.Equal(t, tc.expected, result)
			counter.AssertExpectations(t)
		})
	}
}
