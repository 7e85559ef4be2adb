package console

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/fluidcheck/internal/domain"
	"github.com/aalvaropc/fluidcheck/internal/ports"
)

// Format selects how a finished run is written.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatPretty, nil
	case FormatPretty, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected pretty|json|yaml)", s)
	}
}

// Collector keeps findings in memory for a structured report.
type Collector struct {
	findings []domain.Finding
}

func NewCollector() *Collector {
	return &Collector{findings: []domain.Finding{}}
}

var _ ports.Reporter = (*Collector)(nil)

func (c *Collector) Report(f domain.Finding) {
	c.findings = append(c.findings, f)
}

func (c *Collector) Blank() {}

func (c *Collector) Findings() []domain.Finding {
	return c.findings
}

// WriteReport encodes report as json or yaml.
func WriteReport(w io.Writer, report domain.Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported report format %q (expected json|yaml)", format)
	}
}
