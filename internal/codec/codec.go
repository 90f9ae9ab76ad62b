package codec

import (
	"fmt"
	"io"

	"probeid/internal/domain"
)

// Exporter writes an identification report in one format
type Exporter interface {
	Export(report *domain.Report, w io.Writer) error
	Format() string
}

// Formats lists the format identifiers ForFormat accepts
func Formats() []string {
	return []string{"text", "json", "yaml"}
}

// ForFormat returns the exporter for a format identifier. color only
// affects the text exporter.
func ForFormat(format string, color bool) (Exporter, error) {
	switch format {
	case "text", "":
		return NewTextCodec(color), nil
	case "json":
		return NewJSONCodec(), nil
	case "yaml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
