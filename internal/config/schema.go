package config

import (
	"time"
)

const defaultDebounce = 250 * time.Millisecond

// Config is the root configuration structure
type Config struct {
	Version      int                `yaml:"version"`
	Speed        Speed              `yaml:"speed"`
	Behavior     *BehaviorOverride  `yaml:"behavior,omitempty"`
	Probe        ProbeConfig        `yaml:"probe"`
	Output       OutputConfig       `yaml:"output"`
	Log          LogConfig          `yaml:"log"`
	Capabilities CapabilitiesConfig `yaml:"capabilities"`
	Watch        WatchConfig        `yaml:"watch"`
}

// BehaviorOverride overrides individual values of the speed profile
type BehaviorOverride struct {
	ClockKHz    *int      `yaml:"clock_khz,omitempty"`
	ReadTimeout *Duration `yaml:"read_timeout,omitempty"`
	Retries     *int      `yaml:"retries,omitempty"`
}

// ProbeConfig selects the probe the CLI talks to
type ProbeConfig struct {
	Fixture string    `yaml:"fixture,omitempty"` // simulated board, used when --fixture is absent
	Latency *Duration `yaml:"latency,omitempty"` // per-read delay added by the simulator
}

// OutputConfig controls how identifications are printed
type OutputConfig struct {
	Format string `yaml:"format"` // text, json or yaml
	Color  bool   `yaml:"color"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level      string `yaml:"level"`
	Debug      bool   `yaml:"debug,omitempty"`
	TimeFormat string `yaml:"time_format,omitempty"`
}

// WatchConfig holds settings for watch mode
type WatchConfig struct {
	Debounce Duration `yaml:"debounce"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
