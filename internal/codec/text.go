package codec

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"probeid/internal/domain"
)

// TextCodec prints a report for a terminal
type TextCodec struct {
	color bool
}

// NewTextCodec creates a text codec. With color false no escape codes are
// written, whatever the terminal.
func NewTextCodec(color bool) *TextCodec {
	return &TextCodec{color: color}
}

// Format returns the codec format identifier
func (c *TextCodec) Format() string {
	return "text"
}

func (c *TextCodec) paint(attrs ...color.Attribute) func(a ...interface{}) string {
	col := color.New(attrs...)
	if c.color {
		col.EnableColor()
	} else {
		col.DisableColor()
	}
	return col.SprintFunc()
}

// Export writes the report as aligned key/value lines
func (c *TextCodec) Export(report *domain.Report, w io.Writer) error {
	title := c.paint(color.FgGreen, color.Bold)
	key := c.paint(color.FgCyan)
	gray := c.paint(color.FgHiBlack)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", title(report.Target), gray(report.Path()))

	field := func(name, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "  %s %s\n", key(fmt.Sprintf("%-13s", name)), value)
	}

	field("probe", report.Probe)
	field("session", report.Session)
	field("fingerprint", report.Fingerprint)

	caps := make([]string, 0, len(report.Capabilities))
	for _, name := range report.Capabilities {
		caps = append(caps, string(name))
	}
	if len(caps) == 0 {
		field("capabilities", gray("none"))
	} else {
		field("capabilities", strings.Join(caps, " "))
	}

	if report.Core != nil {
		core := fmt.Sprintf("%s (%s)", report.Core.Name, report.Core.Triple)
		if report.Core.FPU {
			core += " fpu"
		}
		field("core", core)
	}

	if len(report.Memory) > 0 {
		fmt.Fprintf(&b, "  %s\n", key("memory"))
		for _, region := range report.Memory {
			fmt.Fprintf(&b, "    %s\n", region)
		}
	}

	field("debug", report.Debug)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write text: %w", err)
	}
	return nil
}
