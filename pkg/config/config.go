// Package config loads and saves the YAML configuration shared by the CLI
// and the server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/codeGROOVE-dev/tzmeet/pkg/constants"
	"github.com/codeGROOVE-dev/tzmeet/pkg/planner"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/codeGROOVE-dev/tzmeet/pkg/weather"
	"github.com/codeGROOVE-dev/tzmeet/pkg/zones"
	"gopkg.in/yaml.v3"
)

// ClockConfig is one extra clock on the world-clock board.
type ClockConfig struct {
	Zone  string `yaml:"zone" json:"zone"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	// Listen is the HTTP listen address of tzmeet-server.
	Listen string `yaml:"listen" json:"listen"`

	// LocalZone is the user's own zone. Empty means detect from the host.
	LocalZone string `yaml:"local_zone" json:"local_zone"`

	// BusinessHours bounds suitable meeting times in every participant's local time.
	BusinessHours planner.Window `yaml:"business_hours" json:"business_hours"`

	// DurationMinutes is the default meeting length.
	DurationMinutes int `yaml:"duration" json:"duration"`

	WeatherBaseURL string `yaml:"weather_base_url" json:"weather_base_url"`
	DisableWeather bool   `yaml:"disable_weather" json:"disable_weather"`

	// Clocks are added to the board after the default ones.
	Clocks []ClockConfig `yaml:"clocks" json:"clocks"`

	// SettingsPath holds recent zones and the last conversion.
	SettingsPath string `yaml:"settings_path" json:"settings_path"`
}

// DefaultPath is $XDG_CONFIG_HOME/tzmeet/config.yaml or the platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "tzmeet", "config.yaml")
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills in missing values with defaults.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.LocalZone == "" {
		c.LocalZone = zones.DetectLocal()
	}
	if c.BusinessHours == (planner.Window{}) {
		c.BusinessHours = planner.DefaultWindow()
	}
	if c.DurationMinutes <= 0 {
		c.DurationMinutes = constants.DefaultDurationMinutes
	}
	if c.WeatherBaseURL == "" {
		c.WeatherBaseURL = weather.DefaultBaseURL
	}
	if c.Clocks == nil {
		c.Clocks = []ClockConfig{}
	}
	if c.SettingsPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		c.SettingsPath = filepath.Join(dir, "tzmeet", "timezone-settings.json")
	}
}

// Validate reports the first invalid value.
func (c *Config) Validate() error {
	if _, err := tzconvert.LoadZone(c.LocalZone); err != nil {
		return fmt.Errorf("local_zone: %w", err)
	}
	if err := c.BusinessHours.Validate(); err != nil {
		return fmt.Errorf("business_hours: %w", err)
	}
	if c.DurationMinutes > 24*60 {
		return fmt.Errorf("duration: %w: %d minutes", planner.ErrInvalidDuration, c.DurationMinutes)
	}
	for i, clk := range c.Clocks {
		if _, err := tzconvert.LoadZone(clk.Zone); err != nil {
			return fmt.Errorf("clocks[%d]: %w", i, err)
		}
	}
	return nil
}

// Load reads the YAML file at path. On first run the file does not exist yet:
// defaults are written there with 0600 permissions and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tzmeet-config-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp config: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		return fmt.Errorf("writing temp config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		return fmt.Errorf("syncing temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp config: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod temp config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}
