package probe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixture describes the register contents of a simulated board
type Fixture struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	IDCode      Word        `yaml:"idcode"`
	Memory      []WordEntry `yaml:"memory,omitempty"`
	DMI         []WordEntry `yaml:"dmi,omitempty"`
}

// WordEntry is one addressed register value
type WordEntry struct {
	Addr    Word   `yaml:"addr"`
	Value   Word   `yaml:"value"`
	Comment string `yaml:"comment,omitempty"`
}

// Word is a 32-bit value written in YAML as decimal, 0x-hex or 0b-binary,
// with optional underscores ("0x1ff0_f440")
type Word uint32

// UnmarshalYAML implements yaml.Unmarshaler
func (w *Word) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", value.Line)
	}
	text := strings.ReplaceAll(strings.TrimSpace(value.Value), "_", "")
	parsed, err := strconv.ParseUint(text, 0, 32)
	if err != nil {
		return fmt.Errorf("line %d: invalid word %q: %w", value.Line, value.Value, err)
	}
	*w = Word(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (w Word) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("0x%08x", uint32(w)), nil
}

// LoadFixture reads a fixture file. A fixture without a name is named after
// the file.
func LoadFixture(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer file.Close()

	fixture, err := ParseFixture(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if fixture.Name == "" {
		fixture.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return fixture, nil
}

// ParseFixture decodes and validates a fixture
func ParseFixture(r io.Reader) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.NewDecoder(r).Decode(&fixture); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("parse fixture: empty document")
		}
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := fixture.Validate(); err != nil {
		return nil, err
	}
	return &fixture, nil
}

// Validate rejects duplicate and unaligned addresses
func (f *Fixture) Validate() error {
	seen := make(map[Word]bool, len(f.Memory))
	for _, entry := range f.Memory {
		if entry.Addr&0x3 != 0 {
			return fmt.Errorf("memory address 0x%08x is not word aligned", uint32(entry.Addr))
		}
		if seen[entry.Addr] {
			return fmt.Errorf("memory address 0x%08x listed twice", uint32(entry.Addr))
		}
		seen[entry.Addr] = true
	}

	seenDMI := make(map[Word]bool, len(f.DMI))
	for _, entry := range f.DMI {
		if seenDMI[entry.Addr] {
			return fmt.Errorf("dmi register 0x%02x listed twice", uint32(entry.Addr))
		}
		seenDMI[entry.Addr] = true
	}
	return nil
}

// words flattens entries into a lookup map
func words(entries []WordEntry) map[uint32]uint32 {
	m := make(map[uint32]uint32, len(entries))
	for _, entry := range entries {
		m[uint32(entry.Addr)] = uint32(entry.Value)
	}
	return m
}
