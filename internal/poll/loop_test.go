package poll

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angristan/lifx-tui/internal/api"
	"github.com/angristan/lifx-tui/internal/models"
)

// gatedFetcher blocks every fetch until release is closed
type gatedFetcher struct {
	calls   atomic.Int32
	release chan struct{}
}

func (g *gatedFetcher) FetchLights(ctx context.Context) (models.Snapshot, error) {
	g.calls.Add(1)
	select {
	case <-g.release:
		return models.Snapshot{"a": {Label: "A"}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type failingFetcher struct {
	calls atomic.Int32
}

func (f *failingFetcher) FetchLights(ctx context.Context) (models.Snapshot, error) {
	f.calls.Add(1)
	return nil, errors.New("connection refused")
}

func TestTick_SingleFlight(t *testing.T) {
	fetcher := &gatedFetcher{release: make(chan struct{})}
	var got atomic.Int32
	loop := New(fetcher, func(models.Snapshot) { got.Add(1) })
	ctx := context.Background()

	if !loop.Tick(ctx) {
		t.Fatal("first tick should start a fetch")
	}
	if loop.Tick(ctx) {
		t.Error("second tick should be skipped while the first is in flight")
	}

	close(fetcher.release)
	loop.Wait()

	if n := fetcher.calls.Load(); n != 1 {
		t.Errorf("expected 1 fetch, got %d", n)
	}
	if n := got.Load(); n != 1 {
		t.Errorf("expected handler to run once, got %d", n)
	}

	if !loop.Tick(ctx) {
		t.Error("tick after completion should start a new fetch")
	}
	loop.Wait()
}

func TestTick_FailureSkipsHandler(t *testing.T) {
	fetcher := &failingFetcher{}
	called := false
	loop := New(fetcher, func(models.Snapshot) { called = true })

	loop.Tick(context.Background())
	loop.Wait()

	if called {
		t.Error("handler must not run on a failed fetch")
	}

	// A failure does not block the next tick
	if !loop.Tick(context.Background()) {
		t.Error("tick after a failure should run")
	}
	loop.Wait()
	if n := fetcher.calls.Load(); n != 2 {
		t.Errorf("expected 2 fetches, got %d", n)
	}
}

func TestTick_Timeout(t *testing.T) {
	fetcher := &gatedFetcher{release: make(chan struct{})}
	loop := New(fetcher, nil, WithTimeout(20*time.Millisecond))

	loop.Tick(context.Background())

	done := make(chan struct{})
	go func() {
		loop.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hung fetch was not bounded by the timeout")
	}
	if !loop.Tick(context.Background()) {
		t.Error("gate should reopen after a timed out fetch")
	}
	close(fetcher.release)
	loop.Wait()
}

func TestStartStop(t *testing.T) {
	var mu sync.Mutex
	var snapshots []models.Snapshot

	loop := New(api.NewDemoRegistry(), func(s models.Snapshot) {
		mu.Lock()
		snapshots = append(snapshots, s)
		mu.Unlock()
	})
	loop.interval = 10 * time.Millisecond

	loop.Start(context.Background())
	loop.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	loop.Stop()

	mu.Lock()
	n := len(snapshots)
	mu.Unlock()

	if n < 2 {
		t.Errorf("expected several polls, got %d", n)
	}
	if len(snapshots[0]) != 5 {
		t.Errorf("expected 5 demo lights, got %d", len(snapshots[0]))
	}

	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	after := len(snapshots)
	mu.Unlock()
	if after != n {
		t.Errorf("polling continued after Stop: %d -> %d", n, after)
	}

	loop.Stop()
}

func TestStart_FirstTickImmediate(t *testing.T) {
	got := make(chan models.Snapshot, 1)
	loop := New(api.NewDemoRegistry(), func(s models.Snapshot) {
		select {
		case got <- s:
		default:
		}
	})

	loop.Start(context.Background())
	defer loop.Stop()

	select {
	case <-got:
	case <-time.After(Interval / 2):
		t.Fatal("first poll should not wait for the interval")
	}
}

func TestMailbox_ReplacesUnread(t *testing.T) {
	mb := NewMailbox()

	mb.Put(models.Snapshot{"old": {}})
	mb.Put(models.Snapshot{"new": {}})

	select {
	case s := <-mb.C():
		if _, ok := s["new"]; !ok {
			t.Errorf("expected newest snapshot, got %v", s.IDs())
		}
	default:
		t.Fatal("mailbox empty")
	}

	select {
	case s := <-mb.C():
		t.Errorf("mailbox should hold one snapshot, got extra %v", s.IDs())
	default:
	}
}
