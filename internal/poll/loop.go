// Package poll fetches the light snapshot on a fixed cadence.
package poll

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/angristan/lifx-tui/internal/api"
	"github.com/angristan/lifx-tui/internal/models"
)

// Interval is the fixed polling period
const Interval = 500 * time.Millisecond

// Fetcher retrieves a full snapshot from the registry
type Fetcher interface {
	FetchLights(ctx context.Context) (models.Snapshot, error)
}

// Handler receives every successfully fetched snapshot
type Handler func(models.Snapshot)

// Loop polls a Fetcher every Interval. At most one fetch is in flight;
// a tick that finds the previous fetch still running is skipped.
type Loop struct {
	fetcher  Fetcher
	handler  Handler
	interval time.Duration
	timeout  time.Duration

	inFlight atomic.Bool
	wg       sync.WaitGroup

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Loop
type Option func(*Loop)

// WithTimeout bounds each fetch
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loop) {
		if timeout > 0 {
			l.timeout = timeout
		}
	}
}

// New creates a poll loop. It does nothing until Start is called.
func New(fetcher Fetcher, handler Handler, opts ...Option) *Loop {
	l := &Loop{
		fetcher:  fetcher,
		handler:  handler,
		interval: Interval,
		timeout:  api.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start begins polling, with the first fetch issued immediately.
// Calling Start on a running loop is a no-op.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})

	go l.run(ctx, l.done)
	log.Debug().Dur("interval", l.interval).Msg("Poll loop started")
}

// Stop halts polling and waits for an in-flight fetch to return
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	l.wg.Wait()
	log.Debug().Msg("Poll loop stopped")
}

func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Tick(ctx)
		}
	}
}

// Tick issues one fetch in the background. It returns false when the
// previous fetch has not finished, in which case nothing is sent.
func (l *Loop) Tick(ctx context.Context) bool {
	if !l.inFlight.CompareAndSwap(false, true) {
		log.Debug().Msg("Previous poll still in flight, skipping tick")
		return false
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.inFlight.Store(false)
		l.fetch(ctx)
	}()
	return true
}

func (l *Loop) fetch(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	snapshot, err := l.fetcher.FetchLights(ctx)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}
		log.Warn().Err(err).Msg("Failed to poll lights")
		return
	}

	if l.handler != nil {
		l.handler(snapshot)
	}
}

// Wait blocks until the in-flight fetch, if any, has returned
func (l *Loop) Wait() {
	l.wg.Wait()
}
