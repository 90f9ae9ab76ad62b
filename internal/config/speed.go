package config

import "time"

// Speed selects how hard the probe drives the debug link
type Speed string

const (
	SpeedSafe   Speed = "safe"   // Slow clock, long timeouts; long cables and marginal wiring
	SpeedNormal Speed = "normal" // Default for dev boards on a short cable
	SpeedFast   Speed = "fast"   // High clock, no retries
)

// ParseSpeed converts a string to Speed, defaulting to SpeedNormal
func ParseSpeed(s string) Speed {
	switch s {
	case "safe":
		return SpeedSafe
	case "normal":
		return SpeedNormal
	case "fast":
		return SpeedFast
	default:
		return SpeedNormal
	}
}

// Known reports whether s names a profile
func (s Speed) Known() bool {
	_, ok := SpeedProfiles[s]
	return ok
}

// SpeedProfile defines link clock and read policy
type SpeedProfile struct {
	ClockKHz    int           `yaml:"clock_khz"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	Retries     int           `yaml:"retries"` // extra attempts after a failed read
}

// Attempts returns the total number of tries per read
func (p SpeedProfile) Attempts() int {
	return p.Retries + 1
}

// SpeedProfiles maps speeds to their default profiles
var SpeedProfiles = map[Speed]SpeedProfile{
	SpeedSafe: {
		ClockKHz:    1000,
		ReadTimeout: 500 * time.Millisecond,
		Retries:     5,
	},
	SpeedNormal: {
		ClockKHz:    4000,
		ReadTimeout: 200 * time.Millisecond,
		Retries:     2,
	},
	SpeedFast: {
		ClockKHz:    24000,
		ReadTimeout: 50 * time.Millisecond,
		Retries:     0,
	},
}

// Profile returns the profile for a speed
func (s Speed) Profile() SpeedProfile {
	if profile, ok := SpeedProfiles[s]; ok {
		return profile
	}
	return SpeedProfiles[SpeedNormal]
}
