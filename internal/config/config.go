package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"probeid/internal/domain"
)

// Output formats understood by the CLI
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Speed:   SpeedNormal,
		Output: OutputConfig{
			Format: FormatText,
			Color:  true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Capabilities: DefaultCapabilities(),
		Watch: WatchConfig{
			Debounce: Duration(defaultDebounce),
		},
	}
}

// applyDefaults fills in values a partial file leaves empty
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Speed == "" {
		c.Speed = SpeedNormal
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatText
	}
	c.Output.Format = strings.ToLower(c.Output.Format)
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = Duration(defaultDebounce)
	}
}

// Validate reports values no component can act on
func (c *Config) Validate() error {
	var errs []error
	if !c.Speed.Known() {
		errs = append(errs, fmt.Errorf("unknown speed %q (want safe, normal or fast)", c.Speed))
	}
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q", c.Output.Format))
	}
	if b := c.Behavior; b != nil {
		if b.ClockKHz != nil && *b.ClockKHz <= 0 {
			errs = append(errs, errors.New("behavior.clock_khz must be positive"))
		}
		if b.Retries != nil && *b.Retries < 0 {
			errs = append(errs, errors.New("behavior.retries must not be negative"))
		}
		if b.ReadTimeout != nil && *b.ReadTimeout < 0 {
			errs = append(errs, errors.New("behavior.read_timeout must not be negative"))
		}
	}
	return errors.Join(errs...)
}

// EffectiveProfile returns the speed profile with overrides applied
func (c *Config) EffectiveProfile() SpeedProfile {
	base := c.Speed.Profile()

	if c.Behavior == nil {
		return base
	}

	if c.Behavior.ClockKHz != nil {
		base.ClockKHz = *c.Behavior.ClockKHz
	}
	if c.Behavior.ReadTimeout != nil {
		base.ReadTimeout = c.Behavior.ReadTimeout.Duration()
	}
	if c.Behavior.Retries != nil {
		base.Retries = *c.Behavior.Retries
	}

	return base
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	profile := c.EffectiveProfile()
	caps := c.Capabilities.Enabled()

	var b strings.Builder
	fmt.Fprintf(&b, "Speed: %s (%d kHz, read timeout %s, retries %d)\n",
		c.Speed, profile.ClockKHz, profile.ReadTimeout, profile.Retries)
	fmt.Fprintf(&b, "Output: %s, color %t\n", c.Output.Format, c.Output.Color)
	if c.Probe.Fixture != "" {
		fmt.Fprintf(&b, "Fixture: %s\n", c.Probe.Fixture)
	}
	fmt.Fprintf(&b, "Enabled capabilities (%d):", len(caps))
	for _, name := range caps {
		fmt.Fprintf(&b, " %s", name)
	}
	return b.String()
}

// CapabilityEnabled is shorthand for c.Capabilities.IsEnabled
func (c *Config) CapabilityEnabled(name domain.CapabilityName) bool {
	return c.Capabilities.IsEnabled(name)
}
