package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/angristan/lifx-tui/internal/models"
)

// NewRegistryHandler serves the registry HTTP API on top of any
// LightRegistry. Combined with the demo registry it stands in for a real
// registry during development and tests.
func NewRegistryHandler(registry LightRegistry) http.Handler {
	h := &registryHandler{registry: registry}

	r := mux.NewRouter()
	r.HandleFunc("/api/lights", h.lights).Methods(http.MethodGet)
	r.HandleFunc("/api/setPower", h.setPower).Methods(http.MethodPost).Queries("ip", "{ip}")
	r.HandleFunc("/api/setColor", h.setColor).Methods(http.MethodPost).Queries("ip", "{ip}")
	r.HandleFunc("/api/setName", h.setName).Methods(http.MethodPost)
	r.HandleFunc("/api/onboard", h.onboard).Methods(http.MethodPost)
	r.Use(noCache)

	return r
}

type registryHandler struct {
	registry LightRegistry
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		next.ServeHTTP(w, r)
	})
}

func (h *registryHandler) lights(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.registry.FetchLights(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make(map[string]lightResource, len(snapshot))
	for id, light := range snapshot {
		out[id] = newLightResource(light)
	}
	writeJSON(w, out)
}

func (h *registryHandler) setPower(w http.ResponseWriter, r *http.Request) {
	ip := mux.Vars(r)["ip"]
	log.Debug().Str("light", ip).Msg("Toggle power request")

	if err := h.registry.SetPower(r.Context(), ip); err != nil {
		writeError(w, err)
		return
	}
	writeAck(w)
}

func (h *registryHandler) setColor(w http.ResponseWriter, r *http.Request) {
	ip := mux.Vars(r)["ip"]
	log.Debug().Str("light", ip).Msg("Color request")

	q := r.URL.Query()
	var color models.DeviceColor
	fields := []struct {
		name string
		dst  *uint16
	}{
		{"hue", &color.Hue},
		{"saturation", &color.Saturation},
		{"brightness", &color.Brightness},
		{"kelvin", &color.Kelvin},
	}
	for _, f := range fields {
		v, err := strconv.ParseUint(q.Get(f.name), 10, 16)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid %s: %q", f.name, q.Get(f.name)), http.StatusBadRequest)
			return
		}
		*f.dst = uint16(v)
	}

	if err := h.registry.SetColor(r.Context(), ip, color); err != nil {
		writeError(w, err)
		return
	}
	writeAck(w)
}

func (h *registryHandler) setName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	log.Debug().Str("light", req.IP).Msg("Set name request")

	if err := h.registry.SetName(r.Context(), req.IP, req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeAck(w)
}

func (h *registryHandler) onboard(w http.ResponseWriter, r *http.Request) {
	var req onboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	log.Debug().Str("ssid", req.SSID).Msg("Onboarding request")

	if err := h.registry.Onboard(r.Context(), req.SSID, req.Password); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeAck(w)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

func writeAck(w http.ResponseWriter) {
	writeJSON(w, map[string]bool{"success": true})
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrLightNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
