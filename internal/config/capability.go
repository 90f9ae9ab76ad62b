package config

import "probeid/internal/domain"

// CapabilityConfig toggles a single capability
type CapabilityConfig struct {
	Enabled bool `yaml:"enabled"`
}

// CapabilitiesConfig selects which declared capabilities the CLI invokes
// after an identification. A capability the target does not declare stays
// empty whatever its toggle says.
type CapabilitiesConfig struct {
	DebugView CapabilityConfig `yaml:"debug_view"`
	MemoryMap CapabilityConfig `yaml:"memory_map"`
	Core      CapabilityConfig `yaml:"core"`
}

// DefaultCapabilities enables everything
func DefaultCapabilities() CapabilitiesConfig {
	return CapabilitiesConfig{
		DebugView: CapabilityConfig{Enabled: true},
		MemoryMap: CapabilityConfig{Enabled: true},
		Core:      CapabilityConfig{Enabled: true},
	}
}

// IsEnabled checks if a capability is switched on. Unknown names are off.
func (c *CapabilitiesConfig) IsEnabled(name domain.CapabilityName) bool {
	switch name {
	case domain.CapabilityDebugView:
		return c.DebugView.Enabled
	case domain.CapabilityMemoryMap:
		return c.MemoryMap.Enabled
	case domain.CapabilityCore:
		return c.Core.Enabled
	default:
		return false
	}
}

// Enabled lists the switched-on capabilities in table order
func (c *CapabilitiesConfig) Enabled() []domain.CapabilityName {
	var out []domain.CapabilityName
	for _, name := range domain.CapabilityNames() {
		if c.IsEnabled(name) {
			out = append(out, name)
		}
	}
	return out
}

// Set switches a capability on or off. It reports false for unknown names.
func (c *CapabilitiesConfig) Set(name domain.CapabilityName, enabled bool) bool {
	switch name {
	case domain.CapabilityDebugView:
		c.DebugView.Enabled = enabled
	case domain.CapabilityMemoryMap:
		c.MemoryMap.Enabled = enabled
	case domain.CapabilityCore:
		c.Core.Enabled = enabled
	default:
		return false
	}
	return true
}
