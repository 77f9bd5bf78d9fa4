package models

import "sort"

// PowerOn is the power level a light reports when it is on
const PowerOn = DeviceMax

// LightState is the last state the registry reported for one light
type LightState struct {
	// User-editable display name
	Label string
	// 0 (off) or 65535 (on)
	Power int
	// 16-bit device color channels
	Hue        int
	Saturation int
	Brightness int
	// Color temperature, echoed back on color changes
	Kelvin int
	// Firmware string, empty until the registry has asked the light for it
	FirmwareVersion string
	// Whether the registry has received a color state from the light yet
	Known bool
}

// IsOn reports whether the light is powered on
func (l LightState) IsOn() bool {
	return l.Power == PowerOn
}

// Hex returns the light's color as a #RRGGBB string
func (l LightState) Hex(scale DeviceScale) string {
	return DeviceHSVToHexScaled(scale, l.Hue, l.Saturation, l.Brightness)
}

// KelvinValue returns the kelvin clamped to the 16-bit wire range
func (l LightState) KelvinValue() uint16 {
	if l.Kelvin < 0 {
		return 0
	}
	if l.Kelvin > DeviceMax {
		return DeviceMax
	}
	return uint16(l.Kelvin)
}

// DisplayLabel returns the label, falling back to the light's address
func (l LightState) DisplayLabel(id string) string {
	if l.Label == "" {
		return id
	}
	return l.Label
}

// Snapshot is one complete poll response, keyed by light address.
// Each poll replaces the previous snapshot wholesale.
type Snapshot map[string]LightState

// IDs returns the light identifiers in a stable order
func (s Snapshot) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CountOn returns how many lights in the snapshot are on
func (s Snapshot) CountOn() int {
	count := 0
	for _, light := range s {
		if light.IsOn() {
			count++
		}
	}
	return count
}
