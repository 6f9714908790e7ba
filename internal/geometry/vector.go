package geometry

import "math"

// Vector2D represents a point or vector in diagram space.
type Vector2D struct {
	X, Y float64
}

// Add returns the vector sum of v and other.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the vector difference of v and other.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul returns the vector v scaled by the scalar factor.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{X: v.X * scalar, Y: v.Y * scalar}
}

// Mag calculates the magnitude (length) of the vector.
func (v Vector2D) Mag() float64 {
	// math.Hypot for numerical stability.
	return math.Hypot(v.X, v.Y)
}

// Dist calculates the Euclidean distance between v and other (treated as points).
func (v Vector2D) Dist(other Vector2D) float64 {
	return math.Hypot(v.X-other.X, v.Y-other.Y)
}

// Angle returns the angle of the vector in radians.
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Snap quantizes both coordinates to the nearest multiple of grid.
// A grid of zero or less leaves the vector unchanged.
func (v Vector2D) Snap(grid float64) Vector2D {
	if grid <= 0 {
		return v
	}
	return Vector2D{
		X: math.Round(v.X/grid) * grid,
		Y: math.Round(v.Y/grid) * grid,
	}
}
