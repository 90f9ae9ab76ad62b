package domain

import "fmt"

// CapabilityName identifies one entry of a capability table
type CapabilityName string

const (
	CapabilityDebugView CapabilityName = "debug_view" // Printable view of the four descriptors
	CapabilityMemoryMap CapabilityName = "memory_map" // Flash and RAM regions of the target
	CapabilityCore      CapabilityName = "core"       // CPU core and compiler target triple
)

// CapabilityNames returns every capability a table presents
func CapabilityNames() []CapabilityName {
	return []CapabilityName{CapabilityDebugView, CapabilityMemoryMap, CapabilityCore}
}

// ParseCapabilityName converts a string to a CapabilityName
func ParseCapabilityName(s string) (CapabilityName, bool) {
	for _, name := range CapabilityNames() {
		if string(name) == s {
			return name, true
		}
	}
	return "", false
}

// DebugViewFunc materializes a printable view of an identity sequence
type DebugViewFunc func(*Sequence) (fmt.Stringer, bool)

// MemoryMapFunc materializes the memory layout of the identified target
type MemoryMapFunc func(*Sequence) (MemoryMap, bool)

// CoreFunc materializes the core description of the identified target
type CoreFunc func(*Sequence) (CoreInfo, bool)

// Capabilities is what a leaf declares when it builds its table. Nil fields
// mean the leaf opted out of that capability.
type Capabilities struct {
	DebugView DebugViewFunc
	MemoryMap MemoryMapFunc
	Core      CoreFunc
}

// Table is the immutable capability table produced together with a
// sequence. Every method is safe on the zero Table and on a nil sequence;
// entries a leaf did not declare return empty.
type Table struct {
	debugView DebugViewFunc
	memoryMap MemoryMapFunc
	core      CoreFunc
	declared  []CapabilityName
}

// NewTable builds a table from a leaf's declared capabilities, filling the
// rest with no-op entries
func NewTable(c Capabilities) Table {
	t := Table{
		debugView: noDebugView,
		memoryMap: noMemoryMap,
		core:      noCore,
	}
	if c.DebugView != nil {
		t.debugView = c.DebugView
		t.declared = append(t.declared, CapabilityDebugView)
	}
	if c.MemoryMap != nil {
		t.memoryMap = c.MemoryMap
		t.declared = append(t.declared, CapabilityMemoryMap)
	}
	if c.Core != nil {
		t.core = c.Core
		t.declared = append(t.declared, CapabilityCore)
	}
	return t
}

// DefaultTable returns a table where every capability is a no-op
func DefaultTable() Table {
	return NewTable(Capabilities{})
}

func noDebugView(*Sequence) (fmt.Stringer, bool) { return nil, false }
func noMemoryMap(*Sequence) (MemoryMap, bool)    { return nil, false }
func noCore(*Sequence) (CoreInfo, bool)          { return CoreInfo{}, false }

// DebugView invokes the debug_view entry
func (t Table) DebugView(s *Sequence) (fmt.Stringer, bool) {
	if t.debugView == nil || s == nil {
		return nil, false
	}
	return t.debugView(s)
}

// MemoryMap invokes the memory_map entry
func (t Table) MemoryMap(s *Sequence) (MemoryMap, bool) {
	if t.memoryMap == nil || s == nil {
		return nil, false
	}
	return t.memoryMap(s)
}

// Core invokes the core entry
func (t Table) Core(s *Sequence) (CoreInfo, bool) {
	if t.core == nil || s == nil {
		return CoreInfo{}, false
	}
	return t.core(s)
}

// Invoke calls the entry for name and returns its result untyped. Unknown
// names return empty.
func (t Table) Invoke(name CapabilityName, s *Sequence) (any, bool) {
	switch name {
	case CapabilityDebugView:
		return t.DebugView(s)
	case CapabilityMemoryMap:
		return t.MemoryMap(s)
	case CapabilityCore:
		return t.Core(s)
	default:
		return nil, false
	}
}

// Declared returns the capabilities the leaf declared, in table order
func (t Table) Declared() []CapabilityName {
	out := make([]CapabilityName, len(t.declared))
	copy(out, t.declared)
	return out
}

// MemoryKind distinguishes memory region types
type MemoryKind string

const (
	MemoryFlash MemoryKind = "flash"
	MemoryRAM   MemoryKind = "ram"
)

// MemoryRegion is one contiguous region of the target's address space
type MemoryRegion struct {
	Name  string     `json:"name" yaml:"name"`
	Kind  MemoryKind `json:"kind" yaml:"kind"`
	Start uint32     `json:"start" yaml:"start"`
	Size  uint32     `json:"size" yaml:"size"`
}

// End returns the first address past the region
func (r MemoryRegion) End() uint64 {
	return uint64(r.Start) + uint64(r.Size)
}

// Contains reports whether addr falls inside the region
func (r MemoryRegion) Contains(addr uint32) bool {
	return addr >= r.Start && uint64(addr) < r.End()
}

// String renders a region as "flash 0x08000000-0x08080000 (512 KiB)"
func (r MemoryRegion) String() string {
	return fmt.Sprintf("%s 0x%08x-0x%08x (%d KiB)", r.Name, r.Start, r.End(), r.Size/1024)
}

// MemoryMap is the ordered list of regions of a target
type MemoryMap []MemoryRegion

// Find returns the region containing addr
func (m MemoryMap) Find(addr uint32) (MemoryRegion, bool) {
	for _, r := range m {
		if r.Contains(addr) {
			return r, true
		}
	}
	return MemoryRegion{}, false
}

// Total returns the combined size of all regions of the given kind
func (m MemoryMap) Total(kind MemoryKind) uint64 {
	var total uint64
	for _, r := range m {
		if r.Kind == kind {
			total += uint64(r.Size)
		}
	}
	return total
}

// CoreInfo describes the CPU core of a target
type CoreInfo struct {
	Name   string `json:"name" yaml:"name"`     // e.g. "cortex-m7", "rv32imac"
	Triple string `json:"triple" yaml:"triple"` // e.g. "thumbv7em-none-eabihf"
	FPU    bool   `json:"fpu" yaml:"fpu"`
}
