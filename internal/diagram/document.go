package diagram

import (
	"go.uber.org/zap"

	"github.com/stridecanvas/stridecanvas-cli/internal/geometry"
)

// Document is the aggregate of shapes, connectors and the connector manager.
// All cross-cutting coordination after a mutation (re-routing incident edges,
// cascade-deleting connectors) runs through here; shapes and connectors hold
// no upward references.
type Document struct {
	shapes  []*Shape
	manager *ConnectorManager
	logger  *zap.Logger
}

// NewDocument returns an empty document.
func NewDocument(logger *zap.Logger) *Document {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Document{
		manager: NewConnectorManager(),
		logger:  logger.Named("document"),
	}
}

// Shapes returns the shapes in creation order.
func (d *Document) Shapes() []*Shape {
	return d.shapes
}

// Connectors returns all registered connectors.
func (d *Document) Connectors() []*Connector {
	return d.manager.All()
}

// Manager exposes the connector registry.
func (d *Document) Manager() *ConnectorManager {
	return d.manager
}

// AddShape registers a shape. Adding the same shape twice is a no-op.
func (d *Document) AddShape(s *Shape) {
	for _, existing := range d.shapes {
		if existing == s {
			return
		}
	}
	d.shapes = append(d.shapes, s)
	d.logger.Debug("Added shape",
		zap.String("kind", string(s.Kind)),
		zap.String("label", s.Label))
}

// RemoveShape destroys a shape, cascade-removing every incident connector
// first so no dangling endpoint reference is ever observable.
func (d *Document) RemoveShape(s *Shape) {
	d.manager.RemoveForShape(s)
	for i, existing := range d.shapes {
		if existing == s {
			d.shapes = append(d.shapes[:i], d.shapes[i+1:]...)
			break
		}
	}
	d.logger.Debug("Removed shape", zap.String("label", s.Label))
}

// Connect creates a connector between two registered shapes.
func (d *Document) Connect(start, end *Shape, kind ConnectorKind) *Connector {
	return d.manager.Create(start, end, kind)
}

// MoveShape translates a shape and re-routes its incident connectors.
func (d *Document) MoveShape(s *Shape, delta geometry.Vector2D) {
	s.MoveBy(delta)
	d.manager.UpdateForShape(s)
}

// ResizeShape applies a resize step and re-routes incident connectors.
func (d *Document) ResizeShape(s *Shape, pos geometry.Vector2D) {
	s.ResizeTo(pos)
	d.manager.UpdateForShape(s)
}

// ShapeIndex returns the position of s in the shape list, or -1. The index
// is what the document format uses for connector endpoints.
func (d *Document) ShapeIndex(s *Shape) int {
	for i, existing := range d.shapes {
		if existing == s {
			return i
		}
	}
	return -1
}

// ShapeAt returns the topmost shape whose bounds contain pos, or nil.
// Later-added shapes are considered on top.
func (d *Document) ShapeAt(pos geometry.Vector2D) *Shape {
	for i := len(d.shapes) - 1; i >= 0; i-- {
		if d.shapes[i].Bounds().Contains(pos) {
			return d.shapes[i]
		}
	}
	return nil
}

// Clear removes all shapes and connectors.
func (d *Document) Clear() {
	d.manager.Clear()
	d.shapes = nil
}
