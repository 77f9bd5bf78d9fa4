package api

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceName is the mDNS service a light registry advertises
const ServiceName = "_lifx-web._tcp"

// DiscoveredRegistry represents a light registry found on the network
type DiscoveredRegistry struct {
	// Base URL of the registry, e.g. http://192.168.1.10:8080
	URL string
	// Instance name from mDNS
	Name string
	// Light count reported in the TXT record, -1 when absent
	Lights int
}

// DiscoverMDNS discovers light registries on the local network using mDNS
func DiscoverMDNS(ctx context.Context, timeout time.Duration) ([]DiscoveredRegistry, error) {
	var registries []DiscoveredRegistry
	var mu sync.Mutex
	seen := make(map[string]bool)

	entriesCh := make(chan *mdns.ServiceEntry, 10)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for entry := range entriesCh {
			reg, ok := registryFromEntry(entry)
			if !ok {
				continue
			}

			mu.Lock()
			if !seen[reg.URL] {
				seen[reg.URL] = true
				registries = append(registries, reg)
			}
			mu.Unlock()
		}
	}()

	params := mdns.DefaultParams(ServiceName)
	params.Entries = entriesCh
	params.Timeout = timeout
	params.DisableIPv6 = true

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < params.Timeout {
			params.Timeout = remaining
		}
	}

	err := mdns.Query(params)
	close(entriesCh)
	<-done

	mu.Lock()
	defer mu.Unlock()

	if err != nil {
		return registries, fmt.Errorf("mDNS query failed: %w", err)
	}
	if ctx.Err() != nil {
		return registries, ctx.Err()
	}

	return registries, nil
}

// registryFromEntry builds a registry from an mDNS answer. TXT records may
// carry "path=" for a registry mounted below the root and "lights=" with
// the number of known lights.
func registryFromEntry(entry *mdns.ServiceEntry) (DiscoveredRegistry, bool) {
	if entry == nil || entry.AddrV4 == nil || entry.Port == 0 {
		return DiscoveredRegistry{}, false
	}

	reg := DiscoveredRegistry{
		Name:   strings.TrimSuffix(entry.Name, "."+ServiceName+".local."),
		Lights: -1,
	}

	path := ""
	for _, txt := range entry.InfoFields {
		switch {
		case strings.HasPrefix(txt, "path="):
			path = "/" + strings.Trim(strings.TrimPrefix(txt, "path="), "/")
		case strings.HasPrefix(txt, "lights="):
			if n, err := strconv.Atoi(strings.TrimPrefix(txt, "lights=")); err == nil {
				reg.Lights = n
			}
		}
	}

	host := net.JoinHostPort(entry.AddrV4.String(), strconv.Itoa(entry.Port))
	reg.URL = "http://" + host + strings.TrimRight(path, "/")

	if reg.Name == "" && entry.Host != "" {
		reg.Name = strings.TrimSuffix(entry.Host, ".")
	}
	if reg.Name == "" {
		reg.Name = host
	}

	return reg, true
}

// NormalizeURL turns user input such as "192.168.1.10:8080" into a base URL
func NormalizeURL(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("registry address is empty")
	}
	if !strings.Contains(input, "://") {
		input = "http://" + input
	}
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return "", fmt.Errorf("unsupported scheme in %q", input)
	}
	return strings.TrimRight(input, "/"), nil
}
