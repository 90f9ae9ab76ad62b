package codec

import (
	"fmt"
	"io"
	"time"

	"probeid/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlReport mirrors domain.Report with addresses written in hex
type yamlReport struct {
	Session      string           `yaml:"session"`
	Probe        string           `yaml:"probe,omitempty"`
	Fingerprint  string           `yaml:"fingerprint"`
	Path         yamlPath         `yaml:"path"`
	Capabilities []string         `yaml:"capabilities"`
	Debug        string           `yaml:"debug,omitempty"`
	Core         *domain.CoreInfo `yaml:"core,omitempty"`
	Memory       []yamlRegion     `yaml:"memory,omitempty"`
	IdentifiedAt string           `yaml:"identified_at"`
}

type yamlPath struct {
	Architecture string `yaml:"architecture"`
	Manufacturer string `yaml:"manufacturer"`
	Family       string `yaml:"family"`
	Target       string `yaml:"target"`
}

type yamlRegion struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Start string `yaml:"start"`
	Size  string `yaml:"size"`
}

// Export writes the report as YAML
func (c *YAMLCodec) Export(report *domain.Report, w io.Writer) error {
	yr := yamlReport{
		Session:     report.Session,
		Probe:       report.Probe,
		Fingerprint: report.Fingerprint,
		Path: yamlPath{
			Architecture: report.Architecture,
			Manufacturer: report.Manufacturer,
			Family:       report.Family,
			Target:       report.Target,
		},
		Capabilities: make([]string, 0, len(report.Capabilities)),
		Debug:        report.Debug,
		Core:         report.Core,
		IdentifiedAt: report.IdentifiedAt.UTC().Format(time.RFC3339),
	}

	for _, name := range report.Capabilities {
		yr.Capabilities = append(yr.Capabilities, string(name))
	}

	for _, region := range report.Memory {
		yr.Memory = append(yr.Memory, yamlRegion{
			Name:  region.Name,
			Kind:  string(region.Kind),
			Start: fmt.Sprintf("0x%08x", region.Start),
			Size:  fmt.Sprintf("0x%x", region.Size),
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yr); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
