package api

import (
	"context"

	"github.com/angristan/lifx-tui/internal/models"
)

// LightRegistry defines the interface for talking to the service that owns
// the lights. This abstraction allows for both a real registry and demo mode.
type LightRegistry interface {
	// FetchLights retrieves the current state of every known light
	FetchLights(ctx context.Context) (models.Snapshot, error)

	// Light control methods
	SetPower(ctx context.Context, lightID string) error
	SetColor(ctx context.Context, lightID string, color models.DeviceColor) error
	SetName(ctx context.Context, lightID, name string) error

	// Onboard hands Wi-Fi credentials to a factory-fresh bulb
	Onboard(ctx context.Context, ssid, password string) error

	// Metadata
	BaseURL() string
}

// Compile-time checks
var (
	_ LightRegistry = (*RegistryClient)(nil)
	_ LightRegistry = (*DemoRegistry)(nil)
)
