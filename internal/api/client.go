package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/angristan/lifx-tui/internal/models"
)

// DefaultTimeout bounds a single registry request
const DefaultTimeout = 5 * time.Second

// ErrLightNotFound is returned when the registry does not know a light
var ErrLightNotFound = errors.New("light not found")

// RegistryClient talks to a light registry over HTTP
type RegistryClient struct {
	baseURL string
	client  *http.Client
}

// NewRegistryClient creates a new registry client. A zero timeout uses
// DefaultTimeout.
func NewRegistryClient(baseURL string, timeout time.Duration) *RegistryClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RegistryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the registry base URL
func (c *RegistryClient) BaseURL() string {
	return c.baseURL
}

// doRequest performs a request against the registry
func (c *RegistryClient) doRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.client.Do(req)
}

// lightResource is a light as the registry serializes it. Every field may
// be null until the registry has heard from the light.
type lightResource struct {
	Label           *string `json:"label"`
	FirmwareVersion *string `json:"firmware_version"`
	Power           *int    `json:"power"`
	Hue             *int    `json:"hue"`
	Saturation      *int    `json:"saturation"`
	Brightness      *int    `json:"brightness"`
	Kelvin          *int    `json:"kelvin"`
}

func (r *lightResource) toModel() models.LightState {
	light := models.LightState{
		Known: r.Hue != nil && r.Saturation != nil && r.Brightness != nil,
	}

	if r.Label != nil {
		light.Label = strings.TrimRight(*r.Label, "\x00")
	}
	if r.FirmwareVersion != nil {
		light.FirmwareVersion = *r.FirmwareVersion
	}
	if r.Power != nil {
		light.Power = *r.Power
	}
	if r.Hue != nil {
		light.Hue = *r.Hue
	}
	if r.Saturation != nil {
		light.Saturation = *r.Saturation
	}
	if r.Brightness != nil {
		light.Brightness = *r.Brightness
	}
	if r.Kelvin != nil {
		light.Kelvin = *r.Kelvin
	}

	return light
}

func newLightResource(l models.LightState) lightResource {
	r := lightResource{
		Label: &l.Label,
		Power: &l.Power,
	}
	if l.FirmwareVersion != "" {
		r.FirmwareVersion = &l.FirmwareVersion
	}
	if l.Known {
		r.Hue = &l.Hue
		r.Saturation = &l.Saturation
		r.Brightness = &l.Brightness
		r.Kelvin = &l.Kelvin
	}
	return r
}

// FetchLights retrieves all lights from the registry
func (c *RegistryClient) FetchLights(ctx context.Context) (snapshot models.Snapshot, err error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/lights", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get lights: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var raw map[string]lightResource
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode lights response: %w", err)
	}

	snapshot = make(models.Snapshot, len(raw))
	for id, r := range raw {
		snapshot[id] = r.toModel()
	}

	return snapshot, nil
}

// SetPower asks the registry to flip a light's power
func (c *RegistryClient) SetPower(ctx context.Context, lightID string) error {
	query := url.Values{"ip": {lightID}}
	return c.post(ctx, "/api/setPower", query, nil)
}

// SetColor sets a light's color in device units
func (c *RegistryClient) SetColor(ctx context.Context, lightID string, color models.DeviceColor) error {
	query := url.Values{
		"ip":         {lightID},
		"hue":        {strconv.Itoa(int(color.Hue))},
		"saturation": {strconv.Itoa(int(color.Saturation))},
		"brightness": {strconv.Itoa(int(color.Brightness))},
		"kelvin":     {strconv.Itoa(int(color.Kelvin))},
	}
	return c.post(ctx, "/api/setColor", query, nil)
}

// nameRequest is the body of a rename
type nameRequest struct {
	IP   string `json:"ip"`
	Name string `json:"name"`
}

// SetName renames a light
func (c *RegistryClient) SetName(ctx context.Context, lightID, name string) error {
	body, err := json.Marshal(nameRequest{IP: lightID, Name: name})
	if err != nil {
		return err
	}
	return c.post(ctx, "/api/setName", nil, bytes.NewReader(body))
}

// onboardRequest carries the Wi-Fi credentials for a new bulb
type onboardRequest struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
}

// Onboard asks the registry to provision a bulb sitting in its setup network
func (c *RegistryClient) Onboard(ctx context.Context, ssid, password string) error {
	body, err := json.Marshal(onboardRequest{SSID: ssid, Password: password})
	if err != nil {
		return err
	}
	return c.post(ctx, "/api/onboard", nil, bytes.NewReader(body))
}

// post sends a state-changing request. The response body is not used.
func (c *RegistryClient) post(ctx context.Context, path string, query url.Values, body io.Reader) (err error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, query, body)
	if err != nil {
		return fmt.Errorf("failed to post %s: %w", path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func statusError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(bodyBytes))
	if resp.StatusCode == http.StatusNotFound && strings.Contains(msg, ErrLightNotFound.Error()) {
		return fmt.Errorf("API error (status %d): %w", resp.StatusCode, ErrLightNotFound)
	}
	return fmt.Errorf("API error (status %d): %s", resp.StatusCode, msg)
}

// Probe checks that a URL serves a light registry
func Probe(ctx context.Context, baseURL string) (int, error) {
	snapshot, err := NewRegistryClient(baseURL, DefaultTimeout).FetchLights(ctx)
	if err != nil {
		return 0, err
	}
	return len(snapshot), nil
}
