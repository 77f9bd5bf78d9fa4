package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angristan/lifx-tui/internal/models"
)

func newDemoServer(t *testing.T) (*DemoRegistry, *RegistryClient) {
	t.Helper()
	reg := NewDemoRegistry()
	srv := httptest.NewServer(NewRegistryHandler(reg))
	t.Cleanup(srv.Close)
	return reg, NewRegistryClient(srv.URL, 0)
}

func TestFetchLights(t *testing.T) {
	_, client := newDemoServer(t)

	snapshot, err := client.FetchLights(context.Background())
	if err != nil {
		t.Fatalf("FetchLights returned error: %v", err)
	}
	if len(snapshot) != 5 {
		t.Fatalf("expected 5 lights, got %d", len(snapshot))
	}

	living := snapshot["192.168.1.41:56700"]
	if living.Label != "Living Room" || !living.IsOn() || !living.Known {
		t.Errorf("unexpected living room state: %+v", living)
	}
	if living.Kelvin != 3500 || living.FirmwareVersion != "1532997580.3.70" {
		t.Errorf("kelvin/firmware not decoded: %+v", living)
	}

	unknown := snapshot["192.168.1.45:56700"]
	if unknown.Known {
		t.Errorf("light without color state should not be Known: %+v", unknown)
	}
}

func TestFetchLights_NullFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"10.0.0.2:56700": {"label": null, "power": null, "hue": null, "saturation": null, "brightness": null, "kelvin": null},
			"10.0.0.3:56700": {"label": "Porch\u0000\u0000", "power": 65535, "hue": 0, "saturation": 0, "brightness": 65535, "kelvin": 2700}
		}`))
	}))
	defer srv.Close()

	snapshot, err := NewRegistryClient(srv.URL, 0).FetchLights(context.Background())
	if err != nil {
		t.Fatalf("FetchLights returned error: %v", err)
	}

	blank := snapshot["10.0.0.2:56700"]
	if blank != (models.LightState{}) {
		t.Errorf("null fields should decode to zero values, got %+v", blank)
	}
	if got := blank.DisplayLabel("10.0.0.2:56700"); got != "10.0.0.2:56700" {
		t.Errorf("DisplayLabel = %q, want identifier", got)
	}

	porch := snapshot["10.0.0.3:56700"]
	if porch.Label != "Porch" {
		t.Errorf("label padding not trimmed: %q", porch.Label)
	}
}

func TestFetchLights_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			if _, err := NewRegistryClient(srv.URL, 0).FetchLights(context.Background()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSetPower(t *testing.T) {
	reg, client := newDemoServer(t)
	ctx := context.Background()

	if err := client.SetPower(ctx, "192.168.1.42:56700"); err != nil {
		t.Fatalf("SetPower returned error: %v", err)
	}

	snapshot, _ := reg.FetchLights(ctx)
	if !snapshot["192.168.1.42:56700"].IsOn() {
		t.Error("bedroom should be on after toggle")
	}
}

func TestSetPower_UnknownLight(t *testing.T) {
	_, client := newDemoServer(t)

	err := client.SetPower(context.Background(), "10.9.9.9:56700")
	if !errors.Is(err, ErrLightNotFound) {
		t.Errorf("expected ErrLightNotFound, got %v", err)
	}
}

func TestSetColor(t *testing.T) {
	reg, client := newDemoServer(t)
	ctx := context.Background()

	color := models.DeviceColor{Hue: 10922, Saturation: 65535, Brightness: 40000, Kelvin: 3500}
	if err := client.SetColor(ctx, "192.168.1.43:56700", color); err != nil {
		t.Fatalf("SetColor returned error: %v", err)
	}

	desk := mustLight(t, reg, "192.168.1.43:56700")
	if desk.Hue != 10922 || desk.Saturation != 65535 || desk.Brightness != 40000 || desk.Kelvin != 3500 {
		t.Errorf("color not applied: %+v", desk)
	}
}

func TestSetColor_Query(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/setColor" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		got = map[string]string{}
		for k := range r.URL.Query() {
			got[k] = r.URL.Query().Get(k)
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	color := models.DeviceColor{Hue: 0, Saturation: 65535, Brightness: 65535, Kelvin: 2700}
	if err := NewRegistryClient(srv.URL, 0).SetColor(context.Background(), "10.0.0.2:56700", color); err != nil {
		t.Fatalf("SetColor returned error: %v", err)
	}

	want := map[string]string{
		"ip":         "10.0.0.2:56700",
		"hue":        "0",
		"saturation": "65535",
		"brightness": "65535",
		"kelvin":     "2700",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("query %s = %q, want %q", k, got[k], v)
		}
	}
}

func TestSetColor_RejectsBadQuery(t *testing.T) {
	srv := httptest.NewServer(NewRegistryHandler(NewDemoRegistry()))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/setColor?ip=192.168.1.43:56700&hue=70000&saturation=0&brightness=0&kelvin=0", "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSetName(t *testing.T) {
	reg, client := newDemoServer(t)

	if err := client.SetName(context.Background(), "192.168.1.43:56700", "Office"); err != nil {
		t.Fatalf("SetName returned error: %v", err)
	}
	if got := mustLight(t, reg, "192.168.1.43:56700").Label; got != "Office" {
		t.Errorf("label = %q, want Office", got)
	}
}

func TestSetName_Body(t *testing.T) {
	var body nameRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("invalid body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := NewRegistryClient(srv.URL, 0).SetName(context.Background(), "10.0.0.2:56700", "Kitchen"); err != nil {
		t.Fatalf("SetName returned error: %v", err)
	}
	if body.IP != "10.0.0.2:56700" || body.Name != "Kitchen" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestOnboard(t *testing.T) {
	reg, client := newDemoServer(t)
	ctx := context.Background()

	if err := client.Onboard(ctx, "HomeNet", "hunter2"); err != nil {
		t.Fatalf("Onboard returned error: %v", err)
	}
	if got := reg.OnboardedNetworks(); len(got) != 1 || got[0] != "HomeNet" {
		t.Errorf("OnboardedNetworks = %v", got)
	}

	if err := client.Onboard(ctx, "", "x"); err == nil {
		t.Error("expected error for empty ssid")
	}
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(NewRegistryHandler(NewDemoRegistry()))
	defer srv.Close()

	n, err := Probe(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if n != 5 {
		t.Errorf("Probe = %d lights, want 5", n)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "192.168.1.10:8080", want: "http://192.168.1.10:8080"},
		{in: " http://lights.local/ ", want: "http://lights.local"},
		{in: "https://lights.example/registry/", want: "https://lights.example/registry"},
		{in: "", wantErr: true},
		{in: "ftp://lights", wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizeURL(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeURL(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func mustLight(t *testing.T, reg *DemoRegistry, id string) models.LightState {
	t.Helper()
	snapshot, err := reg.FetchLights(context.Background())
	if err != nil {
		t.Fatalf("FetchLights returned error: %v", err)
	}
	light, ok := snapshot[id]
	if !ok {
		t.Fatalf("light %s missing", id)
	}
	return light
}
