package persistence

import (
	"fmt"
	"os"
	"time"

	json "github.com/json-iterator/go"

	"github.com/stridecanvas/stridecanvas-cli/api/schemas"
	"github.com/stridecanvas/stridecanvas-cli/internal/diagram"
)

// elementEntry is one element's metadata in the export.
type elementEntry struct {
	Name        string                `json:"name"`
	ElementType string                `json:"element_type"`
	Metadata    schemas.ShapeMetadata `json:"metadata"`
}

// dataflowEntry is one connector's metadata in the export.
type dataflowEntry struct {
	From     string                    `json:"from"`
	To       string                    `json:"to"`
	Type     string                    `json:"type"`
	Metadata schemas.ConnectorMetadata `json:"metadata"`
}

// metadataReport is the export envelope for element and dataflow metadata.
type metadataReport struct {
	GeneratedAt string          `json:"generated_at"`
	Tool        string          `json:"tool"`
	Elements    []elementEntry  `json:"elements"`
	Dataflows   []dataflowEntry `json:"dataflows"`
}

// ExportMetadataReport writes every element's and dataflow's metadata record
// to path as indented JSON. Shapes without metadata still get an entry; the
// consumer decides what counts as empty.
func ExportMetadataReport(path string, doc *diagram.Document) error {
	report := metadataReport{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Tool:        "stridecanvas",
		Elements:    []elementEntry{},
		Dataflows:   []dataflowEntry{},
	}

	for _, s := range doc.Shapes() {
		report.Elements = append(report.Elements, elementEntry{
			Name:        s.DisplayName(),
			ElementType: s.ElementType(),
			Metadata:    s.Metadata,
		})
	}
	for _, c := range doc.Connectors() {
		if c.Start == nil || c.End == nil {
			continue
		}
		report.Dataflows = append(report.Dataflows, dataflowEntry{
			From:     c.Start.DisplayName(),
			To:       c.End.DisplayName(),
			Type:     string(c.Kind),
			Metadata: c.Metadata,
		})
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata report %s: %w", path, err)
	}
	return nil
}
