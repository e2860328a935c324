// Package poller implements the periodic-refresh driver behind every
// collection the application keeps warm.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the refresh cadence for all collections.
const DefaultInterval = 60 * time.Second

// Guard reports whether refreshing must be suspended. While it returns true
// (an edit is in progress) ticks are skipped entirely; the next tick after
// it clears fetches immediately.
type Guard func() bool

// Fetch pulls one snapshot and publishes it. Implementations must check
// ctx before applying their result: a fetch that outlives Stop gets a
// cancelled context, which makes its late result safely discardable.
type Fetch func(ctx context.Context) error

// Poller periodically invokes a fetch function while its guard allows it.
type Poller struct {
	name     string
	interval time.Duration
	guard    Guard
	fetch    Fetch

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a poller. A nil guard never suspends; a zero interval falls
// back to DefaultInterval.
func New(name string, interval time.Duration, guard Guard, fetch Fetch) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if guard == nil {
		guard = func() bool { return false }
	}
	return &Poller{
		name:     name,
		interval: interval,
		guard:    guard,
		fetch:    fetch,
	}
}

// Start begins polling: one immediate fetch, then one per interval. It is a
// no-op if the poller is already running.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx, p.done)
}

// Stop cancels the pending timer and waits for an in-flight tick to return.
// Late fetch results see a cancelled context and must not be applied.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if p.guard() {
		slog.Debug("Refresh suspended while editing", "poller", p.name)
		return
	}
	if err := p.fetch(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("Refresh failed, keeping previous snapshot",
			"poller", p.name, "error", err)
	}
}
