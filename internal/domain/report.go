package domain

import "time"

// Report is a presentation of one identification: descriptor names plus the
// results of the capabilities that were invoked. It is built for display and
// export; nothing reads it back.
type Report struct {
	Session      string           `json:"session" yaml:"session"`
	Probe        string           `json:"probe,omitempty" yaml:"probe,omitempty"`
	Fingerprint  string           `json:"fingerprint" yaml:"fingerprint"`
	Architecture string           `json:"architecture" yaml:"architecture"`
	Manufacturer string           `json:"manufacturer" yaml:"manufacturer"`
	Family       string           `json:"family" yaml:"family"`
	Target       string           `json:"target" yaml:"target"`
	Capabilities []CapabilityName `json:"capabilities" yaml:"capabilities"`
	Debug        string           `json:"debug,omitempty" yaml:"debug,omitempty"`
	Core         *CoreInfo        `json:"core,omitempty" yaml:"core,omitempty"`
	Memory       MemoryMap        `json:"memory,omitempty" yaml:"memory,omitempty"`
	IdentifiedAt time.Time        `json:"identified_at" yaml:"identified_at"`
}

// NewReport fills the descriptor names of a report from a sequence
func NewReport(s *Sequence) *Report {
	names := s.Names()
	return &Report{
		Architecture: names[0],
		Manufacturer: names[1],
		Family:       names[2],
		Target:       names[3],
		Capabilities: make([]CapabilityName, 0),
		IdentifiedAt: time.Now(),
	}
}

// Path returns "arm/stm/f7x3/f743"
func (r *Report) Path() string {
	return r.Architecture + "/" + r.Manufacturer + "/" + r.Family + "/" + r.Target
}

// HasCapability reports whether the named capability produced a result
func (r *Report) HasCapability(name CapabilityName) bool {
	for _, c := range r.Capabilities {
		if c == name {
			return true
		}
	}
	return false
}
