package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/naka-gawa/commit-race/internal/domain"
	"github.com/naka-gawa/commit-race/internal/metrics"
)

// StateSource provides the inputs of a run.
type StateSource interface {
	LoadTeams(path string) []domain.Team
	LoadLeaderboard() domain.Leaderboard
	LoadHistory() domain.History
}

// Publisher makes the updated artifacts durable and visible to readers.
type Publisher interface {
	Publish(ctx context.Context, board domain.Leaderboard, history domain.History) error
}

// RunConfig holds the settings of a single run.
type RunConfig struct {
	TeamsFile    string
	Window       time.Duration
	HistoryLimit int
}

// Runner performs one end-to-end run: load, count, merge, publish.
// It keeps no state between runs; the artifacts are the only continuity.
type Runner struct {
	cfg        RunConfig
	source     StateSource
	aggregator *Aggregator
	publisher  Publisher
	recorder   *metrics.Recorder
	logger     *log.Logger
	now        func() time.Time
}

// NewRunner creates a Runner. recorder may be nil.
func NewRunner(cfg RunConfig, source StateSource, aggregator *Aggregator, publisher Publisher, recorder *metrics.Recorder, logger *log.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		source:     source,
		aggregator: aggregator,
		publisher:  publisher,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one run. Only a publish failure is returned; every other
// failure has already degraded to a default value.
func (r *Runner) Run(ctx context.Context) error {
	until := r.now()
	since := until.Add(-r.cfg.Window)

	teams := r.source.LoadTeams(r.cfg.TeamsFile)
	board := r.source.LoadLeaderboard()
	history := r.source.LoadHistory()
	r.logger.Printf("usecase: loaded %d teams, %d leaderboard entries, %d history entries\n", len(teams), len(board), len(history))

	counts := r.aggregator.Aggregate(ctx, teams, since, until)
	if r.recorder != nil {
		for id, n := range counts.ByTeam {
			r.recorder.WindowCommits.WithLabelValues(id).Set(float64(n))
		}
	}

	board, history = domain.Merge(board, history, teams, counts, until, r.cfg.HistoryLimit)

	if err := r.publisher.Publish(ctx, board, history); err != nil {
		r.record(false)
		return fmt.Errorf("failed to publish stats: %w", err)
	}
	r.record(true)
	r.logger.Println("usecase: run complete.")
	return nil
}

func (r *Runner) record(ok bool) {
	if r.recorder == nil {
		return
	}
	result := metrics.ResultSuccess
	if !ok {
		result = metrics.ResultFailure
	}
	r.recorder.Runs.WithLabelValues(result).Inc()
}
