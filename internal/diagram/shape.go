package diagram

import (
	"github.com/google/uuid"

	"github.com/stridecanvas/stridecanvas-cli/api/schemas"
	"github.com/stridecanvas/stridecanvas-cli/internal/geometry"
)

const (
	// MinShapeSize is the floor for both dimensions, enforced during resize.
	MinShapeSize = 20.0
	// HandleSize is the square hit area of a resize handle.
	HandleSize = 14.0
	// DefaultShapeColor is used when a shape record carries no color.
	DefaultShapeColor = "#ffffff"
)

// Resize handle indices. Corners come first and win hit-testing ties with
// the edge-midpoint handles.
const (
	HandleTopLeft = iota
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
	HandleTopMid
	HandleBottomMid
	HandleLeftMid
	HandleRightMid
	handleCount
)

// NoHandle is returned by HandleAt when the position misses every handle.
const NoHandle = -1

// resizeState captures the anchor recorded at pointer-down; every move during
// a resize is computed from the total delta against these values, never
// incrementally.
type resizeState struct {
	handle   int
	startPos geometry.Vector2D
	origin   geometry.Vector2D
	origW    float64
	origH    float64
}

// Shape is a positioned, resizable, typed diagram node. It holds no upward
// references; cross-cutting coordination (re-routing, cascade delete) is the
// Document's job.
type Shape struct {
	ID    string
	Kind  ShapeKind
	X, Y  float64
	W, H  float64
	Label string
	Color string

	// ShapeCategory and ShapeSubtype record the palette group and tool that
	// created the shape. The subtype drives threat classification.
	ShapeCategory string
	ShapeSubtype  string

	Metadata schemas.ShapeMetadata

	connectionPoints []geometry.ConnectionPoint

	// Transient interaction state.
	Selected          bool
	ConnectionPending bool
	resize            *resizeState
}

// NewShape creates a shape of the given kind and geometry. The connection
// point table is fixed here and never changes afterwards.
func NewShape(kind ShapeKind, x, y, w, h float64) *Shape {
	return &Shape{
		ID:               uuid.New().String(),
		Kind:             kind,
		X:                x,
		Y:                y,
		W:                w,
		H:                h,
		Color:            DefaultShapeColor,
		connectionPoints: ConnectionPointsFor(kind),
	}
}

// Bounds returns the shape's current bounding rectangle.
func (s *Shape) Bounds() geometry.Rect {
	return geometry.Rect{X: s.X, Y: s.Y, W: s.W, H: s.H}
}

// BoundaryPath returns the shape's outline within its current bounds.
func (s *Shape) BoundaryPath() geometry.Path {
	return BoundaryPathFor(s.Kind, s.Bounds())
}

// ConnectionPoints returns the shape's fixed anchor table.
func (s *Shape) ConnectionPoints() []geometry.ConnectionPoint {
	return s.connectionPoints
}

// BestConnectionPoint projects target onto the shape's bounding box boundary.
func (s *Shape) BestConnectionPoint(target geometry.Vector2D) geometry.Vector2D {
	return geometry.BestConnectionPoint(s.Bounds(), target)
}

// Center returns the midpoint of the shape's bounds.
func (s *Shape) Center() geometry.Vector2D {
	return s.Bounds().Center()
}

// LabelPosition returns the top-left corner of a centered label box of the
// given size, in diagram space. Recomputed after every geometry change.
func (s *Shape) LabelPosition(textW, textH float64) geometry.Vector2D {
	return geometry.Vector2D{
		X: s.X + (s.W-textW)/2,
		Y: s.Y + (s.H-textH)/2,
	}
}

// MoveBy translates the shape.
func (s *Shape) MoveBy(delta geometry.Vector2D) {
	s.X += delta.X
	s.Y += delta.Y
}

// MoveTo places the shape's top-left corner at pos.
func (s *Shape) MoveTo(pos geometry.Vector2D) {
	s.X = pos.X
	s.Y = pos.Y
}

// HandleRect returns the hit rectangle for a resize handle index.
func (s *Shape) HandleRect(handle int) geometry.Rect {
	half := HandleSize / 2
	b := s.Bounds()
	var cx, cy float64
	switch handle {
	case HandleTopLeft:
		cx, cy = b.Left(), b.Top()
	case HandleTopRight:
		cx, cy = b.Right(), b.Top()
	case HandleBottomLeft:
		cx, cy = b.Left(), b.Bottom()
	case HandleBottomRight:
		cx, cy = b.Right(), b.Bottom()
	case HandleTopMid:
		cx, cy = b.Center().X, b.Top()
	case HandleBottomMid:
		cx, cy = b.Center().X, b.Bottom()
	case HandleLeftMid:
		cx, cy = b.Left(), b.Center().Y
	case HandleRightMid:
		cx, cy = b.Right(), b.Center().Y
	default:
		return geometry.Rect{}
	}
	return geometry.Rect{X: cx - half, Y: cy - half, W: HandleSize, H: HandleSize}
}

// HandleAt hit-tests the eight resize handles in priority order and returns
// the first hit, or NoHandle.
func (s *Shape) HandleAt(pos geometry.Vector2D) int {
	for i := 0; i < handleCount; i++ {
		if s.HandleRect(i).Contains(pos) {
			return i
		}
	}
	return NoHandle
}

// Resizing reports whether a resize drag is in progress.
func (s *Shape) Resizing() bool {
	return s.resize != nil
}

// ActiveHandle returns the handle of the resize in progress, or NoHandle.
func (s *Shape) ActiveHandle() int {
	if s.resize == nil {
		return NoHandle
	}
	return s.resize.handle
}

// BeginResize anchors a resize drag on the given handle at the pointer-down
// position. Invalid handle indices are ignored.
func (s *Shape) BeginResize(handle int, pos geometry.Vector2D) {
	if handle < 0 || handle >= handleCount {
		return
	}
	s.resize = &resizeState{
		handle:   handle,
		startPos: pos,
		origin:   geometry.Vector2D{X: s.X, Y: s.Y},
		origW:    s.W,
		origH:    s.H,
	}
}

// ResizeTo applies the per-handle rule table for the current pointer
// position. Dimensions are floored at MinShapeSize; the position shift that
// keeps the opposite edge fixed is applied only when the floor was not hit.
func (s *Shape) ResizeTo(pos geometry.Vector2D) {
	r := s.resize
	if r == nil {
		return
	}
	dx := pos.X - r.startPos.X
	dy := pos.Y - r.startPos.Y

	newX, newY := r.origin.X, r.origin.Y
	newW, newH := r.origW, r.origH

	switch r.handle {
	case HandleTopLeft:
		newW = max(MinShapeSize, r.origW-dx)
		newH = max(MinShapeSize, r.origH-dy)
		if newW > MinShapeSize {
			newX = r.origin.X + (r.origW - newW)
		}
		if newH > MinShapeSize {
			newY = r.origin.Y + (r.origH - newH)
		}
	case HandleTopRight:
		newW = max(MinShapeSize, r.origW+dx)
		newH = max(MinShapeSize, r.origH-dy)
		if newH > MinShapeSize {
			newY = r.origin.Y + (r.origH - newH)
		}
	case HandleBottomLeft:
		newW = max(MinShapeSize, r.origW-dx)
		newH = max(MinShapeSize, r.origH+dy)
		if newW > MinShapeSize {
			newX = r.origin.X + (r.origW - newW)
		}
	case HandleBottomRight:
		newW = max(MinShapeSize, r.origW+dx)
		newH = max(MinShapeSize, r.origH+dy)
	case HandleTopMid:
		newH = max(MinShapeSize, r.origH-dy)
		if newH > MinShapeSize {
			newY = r.origin.Y + (r.origH - newH)
		}
	case HandleBottomMid:
		newH = max(MinShapeSize, r.origH+dy)
	case HandleLeftMid:
		newW = max(MinShapeSize, r.origW-dx)
		if newW > MinShapeSize {
			newX = r.origin.X + (r.origW - newW)
		}
	case HandleRightMid:
		newW = max(MinShapeSize, r.origW+dx)
	}

	s.X, s.Y = newX, newY
	s.W, s.H = newW, newH
}

// EndResize finishes the drag regardless of pointer position.
func (s *Shape) EndResize() {
	s.resize = nil
}

// ElementType returns the classification used by the threat engine: the
// palette subtype when recorded, otherwise the shape kind.
func (s *Shape) ElementType() string {
	if s.ShapeSubtype != "" {
		return s.ShapeSubtype
	}
	return string(s.Kind)
}

// DisplayName returns the label, falling back to a stable id-derived name for
// unlabeled shapes.
func (s *Shape) DisplayName() string {
	if s.Label != "" {
		return s.Label
	}
	name := s.ID
	if len(name) > 8 {
		name = name[:8]
	}
	return "Element_" + name
}
