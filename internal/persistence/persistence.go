// Package persistence reads and writes diagram files. The on-disk format is
// JSON with shapes in creation order and connectors referencing shapes by
// index. Loading is lenient per item (a malformed shape or connector is
// skipped with a warning) but strict about the envelope: an unreadable file,
// invalid JSON, or a document without a "shapes" key fails the whole load.
package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/stridecanvas/stridecanvas-cli/api/schemas"
	"github.com/stridecanvas/stridecanvas-cli/internal/diagram"
)

// FormatVersion is written into every saved document.
const FormatVersion = "1.0"

// Defaults applied to shape records with missing fields.
const (
	defaultShapeWidth  = 100.0
	defaultShapeHeight = 60.0
)

// SaveDocument serializes the document to path. The write is atomic: the
// JSON is staged to a temp file in the target directory and renamed into
// place, so a crash mid-write never leaves a truncated diagram behind.
func SaveDocument(path string, doc *diagram.Document) error {
	wire := Snapshot(doc)

	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode diagram: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".diagram-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write diagram: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush diagram: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Snapshot converts a live document into its wire form.
func Snapshot(doc *diagram.Document) schemas.DiagramDocument {
	shapes := doc.Shapes()
	connectors := doc.Connectors()

	wire := schemas.DiagramDocument{
		Shapes:     make([]schemas.ShapeRecord, 0, len(shapes)),
		Connectors: make([]schemas.ConnectorRecord, 0, len(connectors)),
		Metadata: schemas.DocumentMetadata{
			Version:         FormatVersion,
			CreatedAt:       time.Now().Format(time.RFC3339),
			ShapeCount:      len(shapes),
			ConnectorsCount: len(connectors),
		},
	}

	for _, s := range shapes {
		wire.Shapes = append(wire.Shapes, shapeToRecord(s))
	}
	for _, c := range connectors {
		start := doc.ShapeIndex(c.Start)
		end := doc.ShapeIndex(c.End)
		if start < 0 || end < 0 {
			continue
		}
		wire.Connectors = append(wire.Connectors, schemas.ConnectorRecord{
			Start:    start,
			End:      end,
			Type:     string(c.Kind),
			Metadata: c.Metadata,
		})
	}
	return wire
}

func shapeToRecord(s *diagram.Shape) schemas.ShapeRecord {
	return schemas.ShapeRecord{
		Type:          string(s.Kind),
		X:             s.X,
		Y:             s.Y,
		Width:         s.W,
		Height:        s.H,
		Label:         s.Label,
		Color:         s.Color,
		Metadata:      s.Metadata,
		ShapeCategory: s.ShapeCategory,
		ShapeSubtype:  s.ShapeSubtype,
	}
}

// wireConnector mirrors schemas.ConnectorRecord with a pointer metadata
// field, so a record without a metadata block keeps the connector defaults.
type wireConnector struct {
	Start    int                        `json:"start"`
	End      int                        `json:"end"`
	Type     string                     `json:"type"`
	Metadata *schemas.ConnectorMetadata `json:"metadata"`
}

// LoadDocument reads a diagram file into a fresh document. Individual
// malformed entries are skipped with a warning; envelope problems (missing
// file, invalid JSON, no "shapes" key) return an error.
func LoadDocument(path string, logger *zap.Logger) (*diagram.Document, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("persistence")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid diagram file %s: %w", path, err)
	}
	shapesRaw, ok := raw["shapes"]
	if !ok {
		return nil, fmt.Errorf("invalid diagram file %s: missing shapes", path)
	}

	var shapeItems []json.RawMessage
	if err := json.Unmarshal(shapesRaw, &shapeItems); err != nil {
		return nil, fmt.Errorf("invalid diagram file %s: shapes is not an array: %w", path, err)
	}

	doc := diagram.NewDocument(logger)

	for i, item := range shapeItems {
		rec := schemas.ShapeRecord{
			Width:  defaultShapeWidth,
			Height: defaultShapeHeight,
			Color:  diagram.DefaultShapeColor,
		}
		if err := json.Unmarshal(item, &rec); err != nil {
			logger.Warn("Skipping malformed shape", zap.Int("index", i), zap.Error(err))
			continue
		}
		doc.AddShape(recordToShape(rec))
	}

	if connRaw, ok := raw["connectors"]; ok {
		loadConnectors(doc, connRaw, logger)
	}

	logger.Info("Loaded diagram",
		zap.String("path", path),
		zap.Int("shapes", len(doc.Shapes())),
		zap.Int("connectors", len(doc.Connectors())))
	return doc, nil
}

func recordToShape(rec schemas.ShapeRecord) *diagram.Shape {
	s := diagram.NewShape(diagram.ShapeKind(rec.Type), rec.X, rec.Y, rec.Width, rec.Height)
	s.Label = rec.Label
	if rec.Color != "" {
		s.Color = rec.Color
	}
	s.Metadata = rec.Metadata
	s.ShapeCategory = rec.ShapeCategory
	s.ShapeSubtype = rec.ShapeSubtype
	return s
}

// loadConnectors restores connectors, accepting both the current object form
// and the legacy two-element [start, end] array form.
func loadConnectors(doc *diagram.Document, connRaw json.RawMessage, logger *zap.Logger) {
	var items []json.RawMessage
	if err := json.Unmarshal(connRaw, &items); err != nil {
		logger.Warn("Ignoring malformed connectors section", zap.Error(err))
		return
	}

	shapes := doc.Shapes()
	for i, item := range items {
		start, end, kind, md, err := decodeConnector(item)
		if err != nil {
			logger.Warn("Skipping malformed connector", zap.Int("index", i), zap.Error(err))
			continue
		}
		if start < 0 || start >= len(shapes) || end < 0 || end >= len(shapes) {
			logger.Warn("Skipping connector with out-of-range endpoint",
				zap.Int("index", i), zap.Int("start", start), zap.Int("end", end))
			continue
		}
		conn := doc.Connect(shapes[start], shapes[end], kind)
		if md != nil {
			conn.Metadata = *md
		}
	}
}

func decodeConnector(item json.RawMessage) (start, end int, kind diagram.ConnectorKind, md *schemas.ConnectorMetadata, err error) {
	var rec wireConnector
	if objErr := json.Unmarshal(item, &rec); objErr == nil {
		kind = diagram.ConnectorKind(rec.Type)
		if rec.Type == "" {
			kind = diagram.ConnectorLine
		}
		return rec.Start, rec.End, kind, rec.Metadata, nil
	}

	// Legacy form: a bare [start, end] index pair.
	var pair []int
	if arrErr := json.Unmarshal(item, &pair); arrErr == nil && len(pair) >= 2 {
		return pair[0], pair[1], diagram.ConnectorLine, nil, nil
	}
	return 0, 0, "", nil, fmt.Errorf("connector is neither an object nor an index pair")
}
