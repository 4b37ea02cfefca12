package dashboard

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/naka-gawa/commit-race/internal/metrics"
)

// Fetcher returns a fresh snapshot of the published artifacts.
type Fetcher interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// Poller refreshes the displayed snapshot on a fixed interval. A failed
// fetch keeps the previous snapshot.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	logger   *log.Logger
	recorder *metrics.Recorder

	mu       sync.RWMutex
	current  Snapshot
	ok       bool
	onUpdate func(Snapshot)
}

// NewPoller creates a Poller. recorder may be nil.
func NewPoller(fetcher Fetcher, interval time.Duration, logger *log.Logger, recorder *metrics.Recorder) *Poller {
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		logger:   logger,
		recorder: recorder,
	}
}

// OnUpdate registers fn to be called after every successful refresh.
// It must be set before Run.
func (p *Poller) OnUpdate(fn func(Snapshot)) {
	p.onUpdate = fn
}

// Run refreshes once immediately and then on every tick until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	_ = p.Refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = p.Refresh(ctx)
		}
	}
}

// Refresh fetches once and replaces the snapshot on success.
func (p *Poller) Refresh(ctx context.Context) error {
	snap, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.logger.Printf("dashboard: refresh failed, keeping previous snapshot: %v\n", err)
		if p.recorder != nil {
			p.recorder.PollFailures.Inc()
		}
		return err
	}

	p.mu.Lock()
	p.current = snap
	p.ok = true
	p.mu.Unlock()

	if p.recorder != nil {
		p.recorder.LastPollSuccess.Set(float64(snap.FetchedAt.Unix()))
	}
	p.logger.Printf("dashboard: refreshed %d teams, %d history entries\n", len(snap.Leaderboard), len(snap.History))
	if p.onUpdate != nil {
		p.onUpdate(snap)
	}
	return nil
}

// Snapshot returns the last successful snapshot and whether there is one.
func (p *Poller) Snapshot() (Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.ok
}
