package dashboard

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/commit-race/internal/domain"
	"github.com/naka-gawa/commit-race/internal/store"
)

func TestClient_Fetch(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 5, 0, 0, time.UTC)
	testCases := []struct {
		name           string
		handlerFunc    func(t *testing.T) http.HandlerFunc
		expected       Snapshot
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path - both artifacts with cache busting",
			handlerFunc: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, fmt.Sprint(now.UnixMilli()), r.URL.Query().Get(CacheBustParam))
					switch r.URL.Path {
					case "/stats/leaderboard.json":
						fmt.Fprint(w, `[{"id":"a","name":"Alpha","total_commits":3,"color":"#f00"}]`)
					case "/stats/history.json":
						fmt.Fprint(w, `[{"time":"09:05","timestamp":1760519100000,"teams":{"a":3},"total":3}]`)
					default:
						http.NotFound(w, r)
					}
				}
			},
			expected: Snapshot{
				Leaderboard: domain.Leaderboard{{ID: "a", Name: "Alpha", TotalCommits: 3, Color: "#f00"}},
				History:     domain.History{{Time: "09:05", Timestamp: 1760519100000, Teams: map[string]int{"a": 3}, Total: 3}},
				FetchedAt:   now,
			},
		},
		{
			name: "error case - artifact missing",
			handlerFunc: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					if strings.HasSuffix(r.URL.Path, "history.json") {
						http.NotFound(w, r)
						return
					}
					fmt.Fprint(w, `[]`)
				}
			},
			expectError:    true,
			expectedErrMsg: "failed to fetch history.json: unexpected status 404",
		},
		{
			name: "error case - malformed artifact",
			handlerFunc: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					fmt.Fprint(w, `{"oops"`)
				}
			},
			expectError:    true,
			expectedErrMsg: "failed to decode leaderboard.json",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handlerFunc(t))
			defer server.Close()
			client := NewClient(server.URL+"/stats/", server.Client())
			client.now = func() time.Time { return now }

			snap, err := client.Fetch(context.Background())

			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, snap)
			}
		})
	}
}

// TestClient_RoundTrip reads back what the store persisted through the fetch path.
func TestClient_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir, log.New(io.Discard, "", 0))
	board := domain.Leaderboard{
		{ID: "b", Name: "Bravo", TotalCommits: 14, Color: "#0f0"},
		{ID: "a", Name: "Alpha", TotalCommits: 10, Color: "#f00"},
		{ID: "c", Name: "Charlie", TotalCommits: 0, Color: "#00f"},
	}
	history := domain.History{
		{Time: "09:00", Timestamp: 1, Teams: map[string]int{"a": 10, "b": 9}, Total: 19},
		{Time: "09:05", Timestamp: 2, Teams: map[string]int{"a": 0, "b": 5, "c": 0}, Total: 5},
	}
	require.NoError(t, s.Save(board, history))

	server := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer server.Close()

	snap, err := NewClient(server.URL, server.Client()).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, board, snap.Leaderboard)
	assert.Equal(t, history, snap.History)

	// Flattening into series is invertible for every team an entry carries.
	labels, series := snap.Series()
	assert.Equal(t, []string{"09:00", "09:05"}, labels)
	for i, entry := range history {
		for _, s := range series {
			if n, ok := entry.Teams[s.Team.ID]; ok {
				assert.Equal(t, n, s.Values[i])
			}
		}
	}
}
