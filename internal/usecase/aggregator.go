// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"
	"time"

	"github.com/naka-gawa/commit-race/internal/domain"
	"github.com/naka-gawa/commit-race/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// Aggregator is the use case for counting one window across all teams.
// It fans the per-repository queries out and sums them per team.
type Aggregator struct {
	counter     gateway.Counter
	concurrency int
	logger      *log.Logger
}

// NewAggregator creates a new Aggregator instance.
// concurrency bounds the number of queries in flight; values below 1 mean 1.
func NewAggregator(counter gateway.Counter, concurrency int, logger *log.Logger) *Aggregator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Aggregator{
		counter:     counter,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Aggregate counts the commits of every team's repositories in [since, until].
// Every team is present in the result, with 0 when nothing was counted.
// Failed or malformed repositories contribute 0.
func (a *Aggregator) Aggregate(ctx context.Context, teams []domain.Team, since, until time.Time) domain.WindowCounts {
	a.logger.Printf("usecase: counting commits between %s and %s\n", since.Format(time.RFC3339), until.Format(time.RFC3339))

	// Each query owns one slot, so no locking is needed.
	results := make([][]int, len(teams))

	var eg errgroup.Group
	eg.SetLimit(a.concurrency)

	for ti, team := range teams {
		results[ti] = make([]int, len(team.Repos))
		for ri, repo := range team.Repos {
			ref, err := domain.ParseRepo(repo)
			if err != nil {
				a.logger.Printf("usecase: team %s: %v (counted as 0)\n", team.ID, err)
				continue
			}
			eg.Go(func() error {
				results[ti][ri] = a.counter.CountCommits(ctx, ref.Owner, ref.Name, since, until)
				return nil
			})
		}
	}
	_ = eg.Wait() // the counter absorbs its own errors

	counts := domain.WindowCounts{ByTeam: make(map[string]int, len(teams))}
	for ti, team := range teams {
		sum := 0
		for _, n := range results[ti] {
			sum += n
		}
		counts.ByTeam[team.ID] += sum
		counts.Total += sum
	}

	a.logger.Printf("usecase: window total %d commits across %d teams\n", counts.Total, len(teams))
	return counts
}
