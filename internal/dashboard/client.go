package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/naka-gawa/commit-race/internal/domain"
	"github.com/naka-gawa/commit-race/internal/store"
)

// CacheBustParam is the query parameter that defeats CDN and browser caches.
const CacheBustParam = "t"

// Client fetches the published artifacts over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a Client for artifacts published under baseURL.
// If httpClient is nil a client with a 10 second timeout is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Fetch downloads both artifacts. Either both succeed or an error is returned.
func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	var board domain.Leaderboard
	if err := c.get(ctx, store.LeaderboardFile, &board); err != nil {
		return Snapshot{}, err
	}
	var history domain.History
	if err := c.get(ctx, store.HistoryFile, &history); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Leaderboard: board, History: history, FetchedAt: c.now()}, nil
}

func (c *Client) get(ctx context.Context, name string, v any) error {
	u, err := url.Parse(c.baseURL + "/" + name)
	if err != nil {
		return fmt.Errorf("failed to build URL for %s: %w", name, err)
	}
	q := u.Query()
	q.Set(CacheBustParam, strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", name, err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch %s: unexpected status %s", name, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}
