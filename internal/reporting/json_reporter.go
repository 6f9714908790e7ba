package reporting

import (
	"fmt"
	"io"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/stridecanvas/stridecanvas-cli/api/schemas"
	"github.com/stridecanvas/stridecanvas-cli/internal/observability"
)

// JSONReporter writes the full threat report as indented JSON.
type JSONReporter struct {
	writer io.WriteCloser
	logger *zap.Logger
	report *schemas.ThreatReport
}

// NewJSONReporter creates a reporter that buffers the report until Close.
// It takes ownership of the writer.
func NewJSONReporter(writer io.WriteCloser) *JSONReporter {
	return &JSONReporter{
		writer: writer,
		logger: observability.GetLogger().Named("json_reporter"),
	}
}

// Write stores the report for finalization. A second call replaces the first.
func (r *JSONReporter) Write(report *schemas.ThreatReport) error {
	r.report = report
	return nil
}

// Close encodes the buffered report and closes the writer.
func (r *JSONReporter) Close() error {
	if r.report == nil {
		r.writer.Close()
		return fmt.Errorf("no report was written")
	}

	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")

	encodeErr := encoder.Encode(r.report)
	closeErr := r.writer.Close()

	if encodeErr != nil {
		r.logger.Error("Failed to encode threat report", zap.Error(encodeErr))
		return fmt.Errorf("failed to encode threat report: %w", encodeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close output writer: %w", closeErr)
	}

	r.logger.Info("Wrote threat report",
		zap.Int("threats", len(r.report.Threats)),
		zap.String("engine", r.report.Metadata.AnalysisEngine))
	return nil
}
