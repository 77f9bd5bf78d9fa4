package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/angristan/lifx-tui/internal/actions"
	"github.com/angristan/lifx-tui/internal/api"
	"github.com/angristan/lifx-tui/internal/models"
)

const appName = "lifx-tui"

// RegistryConfig stores connection details for a light registry
type RegistryConfig struct {
	// Base URL, e.g. http://192.168.1.10:8080
	URL string `yaml:"url"`
	// Display name, usually from mDNS
	Name string `yaml:"name,omitempty"`
}

// LogConfig controls logging output
type LogConfig struct {
	Level string `yaml:"level" envconfig:"LIFX_LOG_LEVEL"`
	JSON  bool   `yaml:"json" envconfig:"LIFX_LOG_JSON"`
	// Log file path; empty uses the state directory
	File string `yaml:"file,omitempty" envconfig:"LIFX_LOG_FILE"`
}

// ColorConfig controls color conversion
type ColorConfig struct {
	// Use the (v-1)/65564 device scaling of the registry's own web page
	LegacyScale bool `yaml:"legacy_scale" envconfig:"LIFX_LEGACY_SCALE"`
}

// ActionsConfig controls outbound requests
type ActionsConfig struct {
	RateLimitRPS float64 `yaml:"rate_limit_rps" envconfig:"LIFX_RATE_LIMIT_RPS"`
}

// Config stores all application configuration
type Config struct {
	// List of known registries
	Registries []RegistryConfig `yaml:"registries" ignored:"true"`
	// URL of the last used registry
	LastRegistry string `yaml:"last_registry,omitempty" ignored:"true"`

	// RegistryURL, when set from the environment, takes precedence over
	// the saved registries and is never written back.
	RegistryURL string `yaml:"-" envconfig:"LIFX_REGISTRY_URL"`

	Log            LogConfig     `yaml:"log,omitempty"`
	Color          ColorConfig   `yaml:"color,omitempty"`
	Actions        ActionsConfig `yaml:"actions,omitempty"`
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty" envconfig:"LIFX_REQUEST_TIMEOUT"`

	// Settings as read from config.yaml, before .env, the environment,
	// flags and defaults. Nil when the Config was not loaded from disk.
	file *settings
}

// settings are the tunables a config file carries besides registries
type settings struct {
	Log            LogConfig
	Color          ColorConfig
	Actions        ActionsConfig
	RequestTimeout time.Duration
}

func (c *Config) snapshot() settings {
	return settings{Log: c.Log, Color: c.Color, Actions: c.Actions, RequestTimeout: c.RequestTimeout}
}

var (
	ErrRegistryNotFound = errors.New("registry not found")
	ErrNoRegistry       = errors.New("no registry configured")
)

// Defaults
const (
	DefaultLogLevel       = "info"
	DefaultRateLimitRPS   = actions.DefaultRateLimit
	DefaultRequestTimeout = api.DefaultTimeout
)

// configDir returns the configuration directory path
func configDir() (string, error) {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appName), nil
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// stateDir returns the directory for logs
func stateDir() (string, error) {
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}

// configPath returns the full path to the config file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration from disk, then applies a .env file in the
// working directory and LIFX_* environment variables on top.
func Load() (*Config, error) {
	cfg, err := loadFile()
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func loadFile() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{file: &settings{}}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	file := cfg.snapshot()
	cfg.file = &file
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Actions.RateLimitRPS <= 0 {
		c.Actions.RateLimitRPS = DefaultRateLimitRPS
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
}

// Save writes the configuration to disk. Registries are written as they
// are now; settings are written as they were read from the file, so
// environment, flag and default overrides never end up persisted.
func (c *Config) Save() error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}

	out := *c
	if c.file != nil {
		out.Log, out.Color, out.Actions, out.RequestTimeout = c.file.Log, c.file.Color, c.file.Actions, c.file.RequestTimeout
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// LogPath returns the file logs are written to
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}

// Scale returns the device scaling selected by the color settings
func (c *Config) Scale() models.DeviceScale {
	if c.Color.LegacyScale {
		return models.ScaleLegacy
	}
	return models.ScaleCanonical
}

// AddRegistry adds or updates a registry, keyed by URL
func (c *Config) AddRegistry(registry RegistryConfig) {
	for i, r := range c.Registries {
		if r.URL == registry.URL {
			c.Registries[i] = registry
			return
		}
	}

	c.Registries = append(c.Registries, registry)
}

// GetRegistry returns the registry with the given URL
func (c *Config) GetRegistry(url string) (*RegistryConfig, error) {
	for i := range c.Registries {
		if c.Registries[i].URL == url {
			return &c.Registries[i], nil
		}
	}
	return nil, ErrRegistryNotFound
}

// GetLastRegistry returns the environment override, the last used
// registry, or the first saved one, in that order.
func (c *Config) GetLastRegistry() (*RegistryConfig, error) {
	if c.RegistryURL != "" {
		return &RegistryConfig{URL: c.RegistryURL, Name: "LIFX_REGISTRY_URL"}, nil
	}
	if len(c.Registries) == 0 {
		return nil, ErrNoRegistry
	}

	if c.LastRegistry != "" {
		registry, err := c.GetRegistry(c.LastRegistry)
		if err == nil {
			return registry, nil
		}
	}

	// Fall back to first registry
	return &c.Registries[0], nil
}

// RemoveRegistry removes a registry by URL
func (c *Config) RemoveRegistry(url string) {
	for i, r := range c.Registries {
		if r.URL == url {
			c.Registries = append(c.Registries[:i], c.Registries[i+1:]...)
			return
		}
	}
}

// HasRegistries returns true if a registry is configured or overridden
func (c *Config) HasRegistries() bool {
	return c.RegistryURL != "" || len(c.Registries) > 0
}
