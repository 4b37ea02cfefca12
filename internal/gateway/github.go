// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/commit-race/internal/metrics"
)

// Counter backends.
const (
	BackendREST    = "rest"
	BackendGraphQL = "graphql"
)

// DefaultPerPage is the page size of the REST commit listing. Only the
// first page is read, so a busier window is undercounted.
const DefaultPerPage = 100

// Counter counts the commits of a repository within a window.
// It never fails: errors are logged and count as zero.
type Counter interface {
	CountCommits(ctx context.Context, owner, name string, since, until time.Time) int
}

// Options configures NewGitHubGateway.
type Options struct {
	Token      string
	Backend    string
	PerPage    int
	APIURL     string // REST base URL, empty for github.com
	GraphQLURL string // GraphQL endpoint, empty for github.com
}

// GitHubGateway is the concrete implementation of the Counter interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	backend       string
	perPage       int
	logger        *log.Logger
	recorder      *metrics.Recorder
}

// commitHistoryQuery counts the default branch commits in a window.
type commitHistoryQuery struct {
	Repository struct {
		DefaultBranchRef struct {
			Target struct {
				Commit struct {
					History struct {
						TotalCount githubv4.Int
					} `graphql:"history(since: $since, until: $until)"`
				} `graphql:"... on Commit"`
			}
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// recorder may be nil.
func NewGitHubGateway(opts Options, logger *log.Logger, recorder *metrics.Recorder) (*GitHubGateway, error) {
	backend := opts.Backend
	if backend == "" {
		backend = BackendREST
	}
	if backend != BackendREST && backend != BackendGraphQL {
		return nil, fmt.Errorf("unknown counter backend %q", backend)
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	if opts.APIURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(opts.APIURL, opts.APIURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set GitHub API URL: %w", err)
		}
	}
	graphqlClient := githubv4.NewClient(httpClient)
	if opts.GraphQLURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		backend:       backend,
		perPage:       perPage,
		logger:        logger,
		recorder:      recorder,
	}, nil
}

// CountCommits returns the number of commits in owner/name between since and until.
// Any error is logged with the repository and yields 0 so that one bad
// repository never aborts a run. There is no retry.
func (g *GitHubGateway) CountCommits(ctx context.Context, owner, name string, since, until time.Time) int {
	var (
		count int
		err   error
	)
	switch g.backend {
	case BackendGraphQL:
		count, err = g.countGraphQL(ctx, owner, name, since, until)
	default:
		count, err = g.countREST(ctx, owner, name, since, until)
	}
	if err != nil {
		g.logger.Printf("gateway: %s/%s: %v (counted as 0)\n", owner, name, err)
		if g.recorder != nil {
			g.recorder.RepoQueryFailures.WithLabelValues(owner + "/" + name).Inc()
		}
		return 0
	}
	g.logger.Printf("gateway: %s/%s: %d commits\n", owner, name, count)
	return count
}

func (g *GitHubGateway) countREST(ctx context.Context, owner, name string, since, until time.Time) (int, error) {
	opts := &github.CommitsListOptions{
		Since:       since,
		Until:       until,
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	commits, _, err := g.restClient.Repositories.ListCommits(ctx, owner, name, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to list commits with REST API: %w", err)
	}
	return len(commits), nil
}

func (g *GitHubGateway) countGraphQL(ctx context.Context, owner, name string, since, until time.Time) (int, error) {
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
		"since": githubv4.GitTimestamp{Time: since},
		"until": githubv4.GitTimestamp{Time: until},
	}
	var q commitHistoryQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, fmt.Errorf("failed to execute GraphQL query for commit history: %w", err)
	}
	return int(q.Repository.DefaultBranchRef.Target.Commit.History.TotalCount), nil
}
