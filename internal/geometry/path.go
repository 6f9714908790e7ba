package geometry

import "math"

// SegmentOp is the drawing operation a path segment performs.
type SegmentOp int

const (
	OpMoveTo SegmentOp = iota
	OpLineTo
	OpCubicTo
)

// Segment is one step of a routed path. C1 and C2 are only meaningful for
// OpCubicTo.
type Segment struct {
	Op     SegmentOp
	To     Vector2D
	C1, C2 Vector2D
}

// Path is a routed connector path: a sequence of segments starting with a
// MoveTo. Decorations such as arrowheads appear as extra subpaths after the
// spine.
type Path struct {
	Segments []Segment
}

// MoveTo starts a new subpath at p.
func (p *Path) MoveTo(pt Vector2D) {
	p.Segments = append(p.Segments, Segment{Op: OpMoveTo, To: pt})
}

// LineTo appends a straight segment to pt.
func (p *Path) LineTo(pt Vector2D) {
	p.Segments = append(p.Segments, Segment{Op: OpLineTo, To: pt})
}

// CubicTo appends a cubic Bezier segment to pt with control points c1, c2.
func (p *Path) CubicTo(c1, c2, pt Vector2D) {
	p.Segments = append(p.Segments, Segment{Op: OpCubicTo, To: pt, C1: c1, C2: c2})
}

// cubicSteps controls how finely Bezier segments are flattened when the path
// is measured or sampled.
const cubicSteps = 16

// spine returns the polyline of the first subpath, flattening curves. The
// spine is what distance-based sampling operates on; arrowhead strokes are
// excluded.
func (p Path) spine() []Vector2D {
	var pts []Vector2D
	for i, seg := range p.Segments {
		switch seg.Op {
		case OpMoveTo:
			if i > 0 {
				return pts
			}
			pts = append(pts, seg.To)
		case OpLineTo:
			pts = append(pts, seg.To)
		case OpCubicTo:
			if len(pts) == 0 {
				pts = append(pts, seg.To)
				continue
			}
			start := pts[len(pts)-1]
			for s := 1; s <= cubicSteps; s++ {
				t := float64(s) / cubicSteps
				pts = append(pts, cubicPoint(start, seg.C1, seg.C2, seg.To, t))
			}
		}
	}
	return pts
}

func cubicPoint(p0, c1, c2, p1 Vector2D, t float64) Vector2D {
	u := 1 - t
	return p0.Mul(u * u * u).
		Add(c1.Mul(3 * u * u * t)).
		Add(c2.Mul(3 * u * t * t)).
		Add(p1.Mul(t * t * t))
}

// Length returns the arc length of the path's spine.
func (p Path) Length() float64 {
	pts := p.spine()
	var total float64
	for i := 1; i < len(pts); i++ {
		total += pts[i].Dist(pts[i-1])
	}
	return total
}

// PointAt returns the point at fraction t in [0,1] along the spine.
func (p Path) PointAt(t float64) Vector2D {
	pts := p.spine()
	if len(pts) == 0 {
		return Vector2D{}
	}
	if len(pts) == 1 || t <= 0 {
		return pts[0]
	}
	if t >= 1 {
		return pts[len(pts)-1]
	}
	target := p.Length() * t
	var walked float64
	for i := 1; i < len(pts); i++ {
		d := pts[i].Dist(pts[i-1])
		if walked+d >= target && d > 0 {
			f := (target - walked) / d
			return pts[i-1].Add(pts[i].Sub(pts[i-1]).Mul(f))
		}
		walked += d
	}
	return pts[len(pts)-1]
}

// AngleAt returns the tangent direction in radians at fraction t along the
// spine.
func (p Path) AngleAt(t float64) float64 {
	const eps = 1e-3
	a := p.PointAt(math.Max(0, t-eps))
	b := p.PointAt(math.Min(1, t+eps))
	return b.Sub(a).Angle()
}

// Start and End return the spine's endpoints.
func (p Path) Start() Vector2D {
	pts := p.spine()
	if len(pts) == 0 {
		return Vector2D{}
	}
	return pts[0]
}

func (p Path) End() Vector2D {
	pts := p.spine()
	if len(pts) == 0 {
		return Vector2D{}
	}
	return pts[len(pts)-1]
}
