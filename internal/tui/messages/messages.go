package messages

import (
	"time"

	"github.com/angristan/lifx-tui/internal/actions"
	"github.com/angristan/lifx-tui/internal/models"
)

// RegistryConnectedMsg indicates a registry answered a probe
type RegistryConnectedMsg struct {
	URL    string
	Name   string
	Lights int
}

// SnapshotMsg carries a freshly polled snapshot
type SnapshotMsg struct {
	Snapshot models.Snapshot
	At       time.Time
}

// ActionDoneMsg indicates a dispatched task has finished
type ActionDoneMsg struct {
	Task *actions.Task
	// Label sent with a rename, empty for other actions
	Label string
	// Edit session the rename was sent from
	Edit int
}

// ErrorMsg indicates an error occurred
type ErrorMsg struct {
	Err error
}

// ShowOnboardMsg requests showing the onboarding modal
type ShowOnboardMsg struct{}

// HideOnboardMsg requests hiding the onboarding modal
type HideOnboardMsg struct{}

// OnboardRequestMsg asks for a bulb to be provisioned
type OnboardRequestMsg struct {
	SSID     string
	Password string
}

// RefreshMsg requests an immediate poll
type RefreshMsg struct{}
