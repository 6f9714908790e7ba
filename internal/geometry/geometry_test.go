package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorBasics(t *testing.T) {
	a := Vector2D{X: 3, Y: 4}
	b := Vector2D{X: 1, Y: 2}

	assert.Equal(t, Vector2D{X: 4, Y: 6}, a.Add(b))
	assert.Equal(t, Vector2D{X: 2, Y: 2}, a.Sub(b))
	assert.Equal(t, Vector2D{X: 6, Y: 8}, a.Mul(2))
	assert.InDelta(t, 5.0, a.Mag(), 1e-9)
	assert.InDelta(t, math.Hypot(2, 2), a.Dist(b), 1e-9)
}

func TestVectorSnap(t *testing.T) {
	v := Vector2D{X: 27, Y: 33}
	snapped := v.Snap(20)
	assert.Equal(t, Vector2D{X: 20, Y: 40}, snapped)

	// A non-positive grid leaves the vector unchanged.
	assert.Equal(t, v, v.Snap(0))
}

func TestBestConnectionPointHorizontalDominance(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 60}

	// Target far to the right: anchor lands on the right edge.
	p := BestConnectionPoint(r, Vector2D{X: 500, Y: 30})
	assert.InDelta(t, 100, p.X, 1e-9)
	assert.InDelta(t, 30, p.Y, 1e-9)

	// Target far to the left: anchor lands on the left edge.
	p = BestConnectionPoint(r, Vector2D{X: -500, Y: 30})
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 30, p.Y, 1e-9)
}

func TestBestConnectionPointVerticalDominance(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 60}

	p := BestConnectionPoint(r, Vector2D{X: 50, Y: 500})
	assert.InDelta(t, 50, p.X, 1e-9)
	assert.InDelta(t, 60, p.Y, 1e-9)

	p = BestConnectionPoint(r, Vector2D{X: 50, Y: -500})
	assert.InDelta(t, 50, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)
}

func TestBestConnectionPointDegenerate(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 60}
	// Target at the center has no dominant axis; fall back to the center.
	p := BestConnectionPoint(r, r.Center())
	assert.Equal(t, r.Center(), p)
}

func TestBestConnectionPointStaysOnBoundary(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 80, H: 40}
	targets := []Vector2D{
		{X: 300, Y: 25}, {X: -300, Y: 55}, {X: 45, Y: 400},
		{X: 45, Y: -400}, {X: 200, Y: 200}, {X: -200, Y: -200},
	}
	for _, target := range targets {
		p := BestConnectionPoint(r, target)
		assert.GreaterOrEqual(t, p.X, r.Left()-1e-9)
		assert.LessOrEqual(t, p.X, r.Right()+1e-9)
		assert.GreaterOrEqual(t, p.Y, r.Top()-1e-9)
		assert.LessOrEqual(t, p.Y, r.Bottom()+1e-9)
	}
}

func TestConnectionPointsWithinUnitSquare(t *testing.T) {
	layouts := []PointLayout{
		LayoutRectangular, LayoutCircular, LayoutDiamond,
		LayoutHexagonal, LayoutArrow, LayoutStar,
	}
	for _, layout := range layouts {
		points := PointsFor(layout)
		require.NotEmpty(t, points)
		for _, p := range points {
			assert.GreaterOrEqual(t, p.FX, 0.0)
			assert.LessOrEqual(t, p.FX, 1.0)
			assert.GreaterOrEqual(t, p.FY, 0.0)
			assert.LessOrEqual(t, p.FY, 1.0)
		}
	}
}

func TestConnectionPointAbsolute(t *testing.T) {
	cp := ConnectionPoint{FX: 0.5, FY: 1.0, Direction: DirBottom}
	abs := cp.Absolute(Rect{X: 10, Y: 20, W: 100, H: 60})
	assert.Equal(t, Vector2D{X: 60, Y: 80}, abs)
}

func TestStarLayoutUsesOuterVertices(t *testing.T) {
	points := PointsFor(LayoutStar)
	require.Len(t, points, 5)
	// Every point sits on the radius-0.4 circle around the center.
	for _, p := range points {
		dx := p.FX - 0.5
		dy := p.FY - 0.5
		assert.InDelta(t, 0.4, math.Hypot(dx, dy), 1e-9)
	}
}

func TestPathLengthAndPointAt(t *testing.T) {
	var p Path
	p.MoveTo(Vector2D{X: 0, Y: 0})
	p.LineTo(Vector2D{X: 100, Y: 0})

	assert.InDelta(t, 100, p.Length(), 1e-9)

	mid := p.PointAt(0.5)
	assert.InDelta(t, 50, mid.X, 1e-6)
	assert.InDelta(t, 0, mid.Y, 1e-6)

	assert.Equal(t, Vector2D{X: 0, Y: 0}, p.PointAt(0))
	assert.Equal(t, Vector2D{X: 100, Y: 0}, p.PointAt(1))
}

func TestPathAngleAt(t *testing.T) {
	var p Path
	p.MoveTo(Vector2D{X: 0, Y: 0})
	p.LineTo(Vector2D{X: 0, Y: 100})

	// Straight down is pi/2 in screen coordinates.
	assert.InDelta(t, math.Pi/2, p.AngleAt(0.5), 1e-3)
}

func TestPathIgnoresDecorationSubpaths(t *testing.T) {
	var p Path
	p.MoveTo(Vector2D{X: 0, Y: 0})
	p.LineTo(Vector2D{X: 100, Y: 0})
	// A second subpath, as drawn for arrowheads, must not affect sampling.
	p.MoveTo(Vector2D{X: 100, Y: 0})
	p.LineTo(Vector2D{X: 90, Y: 10})

	assert.InDelta(t, 100, p.Length(), 1e-9)
	end := p.PointAt(1)
	assert.InDelta(t, 100, end.X, 1e-6)
	assert.InDelta(t, 0, end.Y, 1e-6)
}

func TestPathCubicFlattening(t *testing.T) {
	var p Path
	p.MoveTo(Vector2D{X: 0, Y: 0})
	p.CubicTo(Vector2D{X: 0, Y: 0}, Vector2D{X: 100, Y: 0}, Vector2D{X: 100, Y: 0})

	// A degenerate cubic along a straight line keeps the line's length.
	assert.InDelta(t, 100, p.Length(), 1e-6)
}
