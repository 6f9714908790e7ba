package geometry

import "math"

// Direction names the edge of a shape a connection point sits on.
type Direction string

const (
	DirTop    Direction = "top"
	DirRight  Direction = "right"
	DirBottom Direction = "bottom"
	DirLeft   Direction = "left"
	DirAuto   Direction = "auto"
)

// ConnectionPoint is an anchor on a shape's boundary, expressed as a relative
// offset within the shape's bounding box. FX and FY lie in [0,1].
type ConnectionPoint struct {
	FX, FY    float64
	Direction Direction
}

// Absolute resolves the connection point against the shape's current bounds.
func (cp ConnectionPoint) Absolute(bounds Rect) Vector2D {
	return Vector2D{
		X: bounds.X + cp.FX*bounds.W,
		Y: bounds.Y + cp.FY*bounds.H,
	}
}

// PointLayout identifies one of the fixed connection-point arrangements.
// Shape kinds map onto layouts; the layout never changes after creation.
type PointLayout int

const (
	LayoutRectangular PointLayout = iota
	LayoutCircular
	LayoutDiamond
	LayoutHexagonal
	LayoutArrow
	LayoutStar
)

// PointsFor returns the connection points for a layout. Unknown layouts fall
// back to the rectangular four-point cross.
func PointsFor(layout PointLayout) []ConnectionPoint {
	switch layout {
	case LayoutCircular:
		return []ConnectionPoint{
			{FX: 0.5, FY: 0.15, Direction: DirTop},
			{FX: 0.85, FY: 0.5, Direction: DirRight},
			{FX: 0.5, FY: 0.85, Direction: DirBottom},
			{FX: 0.15, FY: 0.5, Direction: DirLeft},
		}
	case LayoutHexagonal:
		return []ConnectionPoint{
			{FX: 0.75, FY: 0.05, Direction: DirTop},
			{FX: 0.95, FY: 0.35, Direction: DirRight},
			{FX: 0.95, FY: 0.65, Direction: DirRight},
			{FX: 0.76, FY: 0.85, Direction: DirBottom},
			{FX: 0.25, FY: 0.95, Direction: DirBottom},
			{FX: 0.05, FY: 0.35, Direction: DirLeft},
			{FX: 0.25, FY: 0.05, Direction: DirTop},
		}
	case LayoutArrow:
		return []ConnectionPoint{
			{FX: 0, FY: 0.5, Direction: DirLeft},
			{FX: 1, FY: 0.5, Direction: DirRight},
		}
	case LayoutStar:
		return starPoints()
	case LayoutRectangular, LayoutDiamond:
		fallthrough
	default:
		return []ConnectionPoint{
			{FX: 0.5, FY: 0, Direction: DirTop},
			{FX: 1, FY: 0.5, Direction: DirRight},
			{FX: 0.5, FY: 1, Direction: DirBottom},
			{FX: 0, FY: 0.5, Direction: DirLeft},
		}
	}
}

// starPoints samples the five outer tips of a regular decagon (even indices
// only), radius 0.4 around the box center, tip pointing up.
func starPoints() []ConnectionPoint {
	points := make([]ConnectionPoint, 0, 5)
	for i := 0; i < 10; i += 2 {
		angle := float64(i)*math.Pi/5 - math.Pi/2
		points = append(points, ConnectionPoint{
			FX:        0.5 + 0.4*math.Cos(angle),
			FY:        0.5 + 0.4*math.Sin(angle),
			Direction: DirAuto,
		})
	}
	return points
}
