package actions

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Task is one outbound request issued by the dispatcher. Callers may ignore
// it entirely; the next poll is what makes the outcome visible.
type Task struct {
	ID      string
	Action  string
	LightID string

	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

func newTask(action, lightID string, cancel context.CancelFunc) *Task {
	return &Task{
		ID:      uuid.New().String(),
		Action:  action,
		LightID: lightID,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Done is closed once the request has finished
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the request error. Only meaningful after Done is closed.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Wait blocks until the task finishes or ctx ends
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel aborts the request if it is still waiting or in flight
func (t *Task) Cancel() {
	if t.cancel != nil {
		t.cancel()
	}
}

func (t *Task) finish(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
	close(t.done)
}
