package api

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/hashicorp/mdns"

	"github.com/angristan/lifx-tui/internal/models"
)

func TestDemoRegistryData(t *testing.T) {
	d := NewDemoRegistry()
	snapshot, err := d.FetchLights(context.Background())
	if err != nil {
		t.Fatalf("FetchLights returned error: %v", err)
	}

	t.Logf("Lights: %d, on: %d", len(snapshot), snapshot.CountOn())

	if len(snapshot) == 0 {
		t.Fatal("No lights returned")
	}
	for id, light := range snapshot {
		if light.Known && light.Label == "" {
			t.Errorf("light %s has state but no label", id)
		}
	}
}

func TestDemoRegistry_SnapshotIsCopy(t *testing.T) {
	d := NewDemoRegistry()
	ctx := context.Background()

	first, _ := d.FetchLights(ctx)
	first["192.168.1.41:56700"] = models.LightState{Label: "mutated"}

	second, _ := d.FetchLights(ctx)
	if second["192.168.1.41:56700"].Label != "Living Room" {
		t.Error("mutating a snapshot changed the registry")
	}
}

func TestDemoRegistry_TogglePower(t *testing.T) {
	d := NewDemoRegistry()
	ctx := context.Background()
	id := "192.168.1.41:56700"

	if err := d.SetPower(ctx, id); err != nil {
		t.Fatalf("SetPower returned error: %v", err)
	}
	snapshot, _ := d.FetchLights(ctx)
	if snapshot[id].IsOn() {
		t.Error("light should be off after first toggle")
	}

	_ = d.SetPower(ctx, id)
	snapshot, _ = d.FetchLights(ctx)
	if !snapshot[id].IsOn() {
		t.Error("light should be on after second toggle")
	}
}

func TestDemoRegistry_UnknownLight(t *testing.T) {
	d := NewEmptyDemoRegistry()
	ctx := context.Background()

	if err := d.SetName(ctx, "nope", "x"); !errors.Is(err, ErrLightNotFound) {
		t.Errorf("SetName error = %v, want ErrLightNotFound", err)
	}
	if err := d.SetColor(ctx, "nope", models.DeviceColor{}); !errors.Is(err, ErrLightNotFound) {
		t.Errorf("SetColor error = %v, want ErrLightNotFound", err)
	}
}

func TestDemoRegistry_PutRemove(t *testing.T) {
	d := NewEmptyDemoRegistry()
	ctx := context.Background()

	d.Put("a", models.LightState{Label: "A"})
	snapshot, _ := d.FetchLights(ctx)
	if len(snapshot) != 1 {
		t.Fatalf("expected 1 light, got %d", len(snapshot))
	}

	d.Remove("a")
	snapshot, _ = d.FetchLights(ctx)
	if len(snapshot) != 0 {
		t.Errorf("expected empty registry, got %d lights", len(snapshot))
	}
}

func TestRegistryFromEntry(t *testing.T) {
	tests := []struct {
		name   string
		entry  *mdns.ServiceEntry
		want   DiscoveredRegistry
		wantOK bool
	}{
		{
			name: "full entry",
			entry: &mdns.ServiceEntry{
				Name:       "Kitchen Pi." + ServiceName + ".local.",
				AddrV4:     net.ParseIP("192.168.1.10"),
				Port:       8080,
				InfoFields: []string{"lights=4"},
			},
			want:   DiscoveredRegistry{URL: "http://192.168.1.10:8080", Name: "Kitchen Pi", Lights: 4},
			wantOK: true,
		},
		{
			name: "path and host fallback",
			entry: &mdns.ServiceEntry{
				Host:       "pi.local.",
				AddrV4:     net.ParseIP("10.0.0.5"),
				Port:       80,
				InfoFields: []string{"path=/lifx/"},
			},
			want:   DiscoveredRegistry{URL: "http://10.0.0.5:80/lifx", Name: "pi.local", Lights: -1},
			wantOK: true,
		},
		{
			name:  "no address",
			entry: &mdns.ServiceEntry{Name: "x", Port: 80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := registryFromEntry(tt.entry)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("registryFromEntry = %+v, want %+v", got, tt.want)
			}
		})
	}
}
