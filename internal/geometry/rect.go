package geometry

// Rect is an axis-aligned rectangle identified by its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vector2D {
	return Vector2D{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside or on the boundary of r.
func (r Rect) Contains(p Vector2D) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Left, Right, Top and Bottom return the rectangle's edge coordinates.
func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// BestConnectionPoint projects target onto the boundary of rect using an
// axis-dominance rule: the side of the crossing is picked by comparing the
// width-normalized horizontal offset against the height-normalized vertical
// offset, and the other coordinate is interpolated proportionally. The same
// rectangle projection is applied to every shape outline (diamond, hexagon,
// and so on) as a deliberate approximation. A target at the exact center
// returns the center.
func BestConnectionPoint(rect Rect, target Vector2D) Vector2D {
	center := rect.Center()
	dx := target.X - center.X
	dy := target.Y - center.Y

	if dx == 0 && dy == 0 {
		return center
	}

	if abs(dx)/rect.W > abs(dy)/rect.H {
		// Horizontal-dominant: clamp to the left or right edge.
		x := center.X + rect.W/2
		if dx < 0 {
			x = center.X - rect.W/2
		}
		y := center.Y + dy*(rect.W/2)/abs(dx)
		return Vector2D{X: x, Y: y}
	}

	// Vertical-dominant: clamp to the top or bottom edge.
	y := center.Y + rect.H/2
	if dy < 0 {
		y = center.Y - rect.H/2
	}
	x := center.X + dx*(rect.H/2)/abs(dy)
	return Vector2D{X: x, Y: y}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
