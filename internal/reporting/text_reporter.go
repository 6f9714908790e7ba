package reporting

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/stridecanvas/stridecanvas-cli/api/schemas"
)

// severityRank orders severities from most to least urgent for display.
var severityRank = map[schemas.Severity]int{
	schemas.SeverityCritical: 0,
	schemas.SeverityHigh:     1,
	schemas.SeverityMedium:   2,
	schemas.SeverityLow:      3,
}

// TextReporter writes a human-readable report summary.
type TextReporter struct {
	writer io.WriteCloser
}

// NewTextReporter creates a text reporter. It takes ownership of the writer.
func NewTextReporter(writer io.WriteCloser) *TextReporter {
	return &TextReporter{writer: writer}
}

// Write renders the report. Threats are listed most severe first; ties keep
// their analysis order.
func (r *TextReporter) Write(report *schemas.ThreatReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Threat Model Report: %s\n", report.Metadata.ModelName)
	fmt.Fprintf(&b, "Generated: %s\n", report.Metadata.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Engine: %s\n\n", report.Metadata.AnalysisEngine)

	s := report.Summary
	fmt.Fprintf(&b, "Summary: %d threats across %d elements and %d dataflows\n",
		s.Total, s.ElementsAnalyzed, s.DataflowsAnalyzed)
	for _, sev := range []schemas.Severity{
		schemas.SeverityCritical, schemas.SeverityHigh,
		schemas.SeverityMedium, schemas.SeverityLow,
	} {
		if n := s.BySeverity[sev]; n > 0 {
			fmt.Fprintf(&b, "  %-8s %d\n", sev+":", n)
		}
	}
	b.WriteString("\n")

	threats := append([]schemas.ThreatInfo(nil), report.Threats...)
	sort.SliceStable(threats, func(i, j int) bool {
		return severityRank[threats[i].Severity] < severityRank[threats[j].Severity]
	})

	for _, t := range threats {
		fmt.Fprintf(&b, "[%s] %s  %s (%s)\n", t.Severity, t.ID, t.ElementName, t.ThreatType)
		fmt.Fprintf(&b, "    %s\n", t.Description)
		if len(t.Mitigations) > 0 {
			fmt.Fprintf(&b, "    Mitigations: %s\n", strings.Join(t.Mitigations, "; "))
		}
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}

	_, err := io.WriteString(r.writer, b.String())
	return err
}

// Close releases the writer.
func (r *TextReporter) Close() error {
	return r.writer.Close()
}
