// Package actions turns user gestures into single outbound registry requests.
package actions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/angristan/lifx-tui/internal/api"
	"github.com/angristan/lifx-tui/internal/models"
)

// Action names, used in logs and task metadata
const (
	ActionTogglePower = "toggle_power"
	ActionSetColor    = "set_color"
	ActionSetName     = "set_name"
	ActionOnboard     = "onboard"
)

// DefaultRateLimit is the number of requests per second allowed to the registry
const DefaultRateLimit = 20.0

// Dispatcher issues fire-and-forget requests against a light registry.
// Nothing is retried; failures are only logged.
type Dispatcher struct {
	registry api.LightRegistry
	limiter  *rate.Limiter
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithRateLimit sets the requests-per-second budget. Zero keeps the default.
func WithRateLimit(rps float64) Option {
	return func(d *Dispatcher) {
		if rps > 0 {
			d.limiter = rate.NewLimiter(rate.Limit(rps), burst(rps))
		}
	}
}

// WithTimeout bounds each request, including the time spent rate limited
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// New creates a dispatcher. Cancelling ctx aborts every outstanding task.
func New(ctx context.Context, registry api.LightRegistry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		limiter:  rate.NewLimiter(rate.Limit(DefaultRateLimit), burst(DefaultRateLimit)),
		timeout:  api.DefaultTimeout,
	}
	d.ctx, d.cancel = context.WithCancel(ctx)

	for _, opt := range opts {
		opt(d)
	}
	return d
}

func burst(rps float64) int {
	if rps < 1 {
		return 1
	}
	return int(rps)
}

// TogglePower asks the registry to flip a light's power. Nothing changes
// locally until a poll reports the new state.
func (d *Dispatcher) TogglePower(lightID string) *Task {
	return d.run(ActionTogglePower, lightID, func(ctx context.Context) error {
		return d.registry.SetPower(ctx, lightID)
	})
}

// SetColor sends a picked hex color together with the light's last-known
// kelvin. An unparseable color is rejected before anything is sent.
func (d *Dispatcher) SetColor(lightID, hex string, kelvin uint16) (*Task, error) {
	color, err := models.DeviceColorFromHex(hex, kelvin)
	if err != nil {
		return nil, fmt.Errorf("failed to convert color for %s: %w", lightID, err)
	}

	return d.run(ActionSetColor, lightID, func(ctx context.Context) error {
		return d.registry.SetColor(ctx, lightID, color)
	}), nil
}

// SetName renames a light
func (d *Dispatcher) SetName(lightID, label string) *Task {
	return d.run(ActionSetName, lightID, func(ctx context.Context) error {
		return d.registry.SetName(ctx, lightID, label)
	})
}

// Onboard sends Wi-Fi credentials for a bulb waiting in its setup network
func (d *Dispatcher) Onboard(ssid, password string) *Task {
	return d.run(ActionOnboard, "", func(ctx context.Context) error {
		return d.registry.Onboard(ctx, ssid, password)
	})
}

// Wait blocks until every task issued so far has finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close cancels outstanding tasks and waits for them
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}

func (d *Dispatcher) run(action, lightID string, fn func(ctx context.Context) error) *Task {
	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	task := newTask(action, lightID, cancel)

	logger := log.With().
		Str("task", task.ID).
		Str("action", action).
		Str("light", lightID).
		Logger()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()

		err := d.limiter.Wait(ctx)
		if err == nil {
			err = fn(ctx)
		}

		if err != nil {
			logger.Error().Err(err).Msg("Action failed")
		} else {
			logger.Debug().Msg("Action completed")
		}
		task.finish(err)
	}()

	return task
}
