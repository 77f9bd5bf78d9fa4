package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/angristan/lifx-tui/internal/models"
)

// DemoRegistry implements LightRegistry for demo mode without real lights.
// All state changes are maintained in memory.
type DemoRegistry struct {
	lights map[string]models.LightState
	ssids  []string
	mu     sync.RWMutex
}

// NewDemoRegistry creates a demo registry with sample lights
func NewDemoRegistry() *DemoRegistry {
	d := &DemoRegistry{
		lights: make(map[string]models.LightState),
	}
	d.initializeDemoData()
	return d
}

// NewEmptyDemoRegistry creates a demo registry with no lights
func NewEmptyDemoRegistry() *DemoRegistry {
	return &DemoRegistry{
		lights: make(map[string]models.LightState),
	}
}

// BaseURL returns the demo registry address
func (d *DemoRegistry) BaseURL() string {
	return "demo://registry.local"
}

// FetchLights returns a copy of the demo lights
func (d *DemoRegistry) FetchLights(ctx context.Context) (models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	snapshot := make(models.Snapshot, len(d.lights))
	for id, light := range d.lights {
		snapshot[id] = light
	}
	return snapshot, nil
}

// SetPower flips a demo light between off and fully on
func (d *DemoRegistry) SetPower(ctx context.Context, lightID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	light, ok := d.lights[lightID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLightNotFound, lightID)
	}

	if light.IsOn() {
		light.Power = 0
	} else {
		light.Power = models.PowerOn
	}
	d.lights[lightID] = light
	return nil
}

// SetColor stores a demo light's color
func (d *DemoRegistry) SetColor(ctx context.Context, lightID string, color models.DeviceColor) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	light, ok := d.lights[lightID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLightNotFound, lightID)
	}

	light.Hue = int(color.Hue)
	light.Saturation = int(color.Saturation)
	light.Brightness = int(color.Brightness)
	light.Kelvin = int(color.Kelvin)
	light.Known = true
	d.lights[lightID] = light
	return nil
}

// SetName renames a demo light
func (d *DemoRegistry) SetName(ctx context.Context, lightID, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	light, ok := d.lights[lightID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLightNotFound, lightID)
	}

	light.Label = name
	d.lights[lightID] = light
	return nil
}

// Onboard records the network a demo bulb was told to join
func (d *DemoRegistry) Onboard(ctx context.Context, ssid, password string) error {
	if ssid == "" {
		return fmt.Errorf("ssid must not be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.ssids = append(d.ssids, ssid)
	return nil
}

// OnboardedNetworks returns the SSIDs passed to Onboard
func (d *DemoRegistry) OnboardedNetworks() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]string(nil), d.ssids...)
}

// Put adds or replaces a demo light
func (d *DemoRegistry) Put(lightID string, light models.LightState) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lights[lightID] = light
}

// Remove drops a demo light, as if it stopped answering
func (d *DemoRegistry) Remove(lightID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.lights, lightID)
}

// initializeDemoData creates the demo lights
func (d *DemoRegistry) initializeDemoData() {
	d.lights["192.168.1.41:56700"] = models.LightState{
		Label:           "Living Room",
		Power:           models.PowerOn,
		Hue:             7100, // warm orange
		Saturation:      45000,
		Brightness:      52000,
		Kelvin:          3500,
		FirmwareVersion: "1532997580.3.70",
		Known:           true,
	}
	d.lights["192.168.1.42:56700"] = models.LightState{
		Label:      "Bedroom",
		Power:      0,
		Hue:        49151, // purple
		Saturation: 65535,
		Brightness: 20000,
		Kelvin:     2700,
		Known:      true,
	}
	d.lights["192.168.1.43:56700"] = models.LightState{
		Label:      "Desk",
		Power:      models.PowerOn,
		Hue:        0,
		Saturation: 0,
		Brightness: 65535,
		Kelvin:     5000,
		Known:      true,
	}
	d.lights["192.168.1.44:56700"] = models.LightState{
		Label:      "Hallway Strip",
		Power:      models.PowerOn,
		Hue:        21845, // green
		Saturation: 60000,
		Brightness: 40000,
		Kelvin:     4000,
		Known:      true,
	}
	// Discovered but no state received yet
	d.lights["192.168.1.45:56700"] = models.LightState{}
}
