package diagram

import (
	"math"

	"github.com/stridecanvas/stridecanvas-cli/internal/geometry"
)

// ShapeKind identifies a shape's visual variant. The values double as the
// "type" field in the document format.
type ShapeKind string

const (
	KindRect        ShapeKind = "rect"
	KindCircle      ShapeKind = "circle"
	KindDiamond     ShapeKind = "diamond"
	KindTriangle    ShapeKind = "triangle"
	KindHexagon     ShapeKind = "hexagon"
	KindStar        ShapeKind = "star"
	KindArrow       ShapeKind = "arrow"
	KindCloud       ShapeKind = "cloud"
	KindCylinder    ShapeKind = "cylinder"
	KindServer      ShapeKind = "server"
	KindDatabase    ShapeKind = "database"
	KindNetwork     ShapeKind = "network"
	KindUser        ShapeKind = "user"
	KindProcess     ShapeKind = "process"
	KindDatastore   ShapeKind = "datastore"
	KindExternal    ShapeKind = "external"
	KindThreat      ShapeKind = "threat"
	KindBoundary    ShapeKind = "boundary"
	KindDecision    ShapeKind = "decision"
	KindStartEnd    ShapeKind = "start_end"
	KindDocument    ShapeKind = "document"
	KindData        ShapeKind = "data"
	KindManualInput ShapeKind = "manual_input"
	KindPredefined  ShapeKind = "predefined"
)

// kindCapabilities drives connection-point layout and boundary outline per
// kind, replacing per-operation string dispatch.
type kindCapabilities struct {
	layout   geometry.PointLayout
	boundary func(geometry.Rect) geometry.Path
}

var kindTable = map[ShapeKind]kindCapabilities{
	KindRect:        {geometry.LayoutRectangular, rectPath},
	KindProcess:     {geometry.LayoutRectangular, rectPath},
	KindDatastore:   {geometry.LayoutRectangular, cylinderPath},
	KindExternal:    {geometry.LayoutRectangular, rectPath},
	KindServer:      {geometry.LayoutRectangular, rectPath},
	KindDatabase:    {geometry.LayoutRectangular, cylinderPath},
	KindBoundary:    {geometry.LayoutRectangular, rectPath},
	KindDocument:    {geometry.LayoutRectangular, rectPath},
	KindData:        {geometry.LayoutRectangular, rectPath},
	KindManualInput: {geometry.LayoutRectangular, rectPath},
	KindPredefined:  {geometry.LayoutRectangular, rectPath},
	KindCircle:      {geometry.LayoutCircular, ellipsePath},
	KindUser:        {geometry.LayoutCircular, ellipsePath},
	KindStartEnd:    {geometry.LayoutRectangular, ellipsePath},
	KindDiamond:     {geometry.LayoutDiamond, diamondPath},
	KindThreat:      {geometry.LayoutDiamond, diamondPath},
	KindDecision:    {geometry.LayoutDiamond, diamondPath},
	KindTriangle:    {geometry.LayoutRectangular, trianglePath},
	KindHexagon:     {geometry.LayoutHexagonal, hexagonPath},
	KindNetwork:     {geometry.LayoutHexagonal, ellipsePath},
	KindStar:        {geometry.LayoutStar, starPath},
	KindArrow:       {geometry.LayoutArrow, arrowPath},
	KindCloud:       {geometry.LayoutRectangular, cloudPath},
	KindCylinder:    {geometry.LayoutRectangular, cylinderPath},
}

func capabilitiesFor(kind ShapeKind) kindCapabilities {
	if caps, ok := kindTable[kind]; ok {
		return caps
	}
	// Unknown kinds behave like plain rectangles.
	return kindCapabilities{geometry.LayoutRectangular, rectPath}
}

// ConnectionPointsFor returns the fixed connection-point table for a kind.
func ConnectionPointsFor(kind ShapeKind) []geometry.ConnectionPoint {
	return geometry.PointsFor(capabilitiesFor(kind).layout)
}

// BoundaryPathFor generates the outline path of a kind within bounds.
func BoundaryPathFor(kind ShapeKind, bounds geometry.Rect) geometry.Path {
	return capabilitiesFor(kind).boundary(bounds)
}

// -- Outline generators --

func polygonPath(pts []geometry.Vector2D) geometry.Path {
	var path geometry.Path
	if len(pts) == 0 {
		return path
	}
	path.MoveTo(pts[0])
	for _, pt := range pts[1:] {
		path.LineTo(pt)
	}
	path.LineTo(pts[0])
	return path
}

func rectPath(b geometry.Rect) geometry.Path {
	return polygonPath([]geometry.Vector2D{
		{X: b.X, Y: b.Y},
		{X: b.Right(), Y: b.Y},
		{X: b.Right(), Y: b.Bottom()},
		{X: b.X, Y: b.Bottom()},
	})
}

// ellipsePath approximates the inscribed ellipse with four cubic arcs.
func ellipsePath(b geometry.Rect) geometry.Path {
	// Magic constant for a cubic circle approximation.
	const k = 0.5523
	cx, cy := b.X+b.W/2, b.Y+b.H/2
	rx, ry := b.W/2, b.H/2

	var path geometry.Path
	path.MoveTo(geometry.Vector2D{X: cx + rx, Y: cy})
	path.CubicTo(
		geometry.Vector2D{X: cx + rx, Y: cy + k*ry},
		geometry.Vector2D{X: cx + k*rx, Y: cy + ry},
		geometry.Vector2D{X: cx, Y: cy + ry})
	path.CubicTo(
		geometry.Vector2D{X: cx - k*rx, Y: cy + ry},
		geometry.Vector2D{X: cx - rx, Y: cy + k*ry},
		geometry.Vector2D{X: cx - rx, Y: cy})
	path.CubicTo(
		geometry.Vector2D{X: cx - rx, Y: cy - k*ry},
		geometry.Vector2D{X: cx - k*rx, Y: cy - ry},
		geometry.Vector2D{X: cx, Y: cy - ry})
	path.CubicTo(
		geometry.Vector2D{X: cx + k*rx, Y: cy - ry},
		geometry.Vector2D{X: cx + rx, Y: cy - k*ry},
		geometry.Vector2D{X: cx + rx, Y: cy})
	return path
}

func diamondPath(b geometry.Rect) geometry.Path {
	return polygonPath([]geometry.Vector2D{
		{X: b.X + b.W/2, Y: b.Y},
		{X: b.Right(), Y: b.Y + b.H/2},
		{X: b.X + b.W/2, Y: b.Bottom()},
		{X: b.X, Y: b.Y + b.H/2},
	})
}

func trianglePath(b geometry.Rect) geometry.Path {
	return polygonPath([]geometry.Vector2D{
		{X: b.X + b.W/2, Y: b.Y},
		{X: b.Right(), Y: b.Bottom()},
		{X: b.X, Y: b.Bottom()},
	})
}

func hexagonPath(b geometry.Rect) geometry.Path {
	cx, cy := b.X+b.W/2, b.Y+b.H/2
	radius := math.Min(b.W, b.H) / 2
	pts := make([]geometry.Vector2D, 0, 6)
	for i := 0; i < 6; i++ {
		angle := float64(i) * math.Pi / 3
		pts = append(pts, geometry.Vector2D{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		})
	}
	return polygonPath(pts)
}

func starPath(b geometry.Rect) geometry.Path {
	cx, cy := b.X+b.W/2, b.Y+b.H/2
	outer := math.Min(b.W, b.H) / 2.2
	inner := outer * 0.4
	pts := make([]geometry.Vector2D, 0, 10)
	for i := 0; i < 10; i++ {
		angle := float64(i)*math.Pi/5 - math.Pi/2
		radius := outer
		if i%2 != 0 {
			radius = inner
		}
		pts = append(pts, geometry.Vector2D{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		})
	}
	return polygonPath(pts)
}

func arrowPath(b geometry.Rect) geometry.Path {
	hThird := b.H / 3
	w80 := b.X + b.W*0.8
	return polygonPath([]geometry.Vector2D{
		{X: b.X, Y: b.Y + hThird},
		{X: w80, Y: b.Y + hThird},
		{X: w80, Y: b.Y},
		{X: b.Right(), Y: b.Y + b.H/2},
		{X: w80, Y: b.Bottom()},
		{X: w80, Y: b.Y + 2*hThird},
		{X: b.X, Y: b.Y + 2*hThird},
	})
}

// cloudPath overlays four ellipses, matching the painted cloud outline.
func cloudPath(b geometry.Rect) geometry.Path {
	lobes := []geometry.Rect{
		{X: b.X + b.W*0.2, Y: b.Y + b.H*0.3, W: b.W * 0.3, H: b.H * 0.4},
		{X: b.X + b.W*0.35, Y: b.Y + b.H*0.2, W: b.W * 0.3, H: b.H * 0.5},
		{X: b.X + b.W*0.5, Y: b.Y + b.H*0.3, W: b.W * 0.3, H: b.H * 0.4},
		{X: b.X + b.W*0.25, Y: b.Y + b.H*0.45, W: b.W * 0.5, H: b.H * 0.3},
	}
	var path geometry.Path
	for _, lobe := range lobes {
		path.Segments = append(path.Segments, ellipsePath(lobe).Segments...)
	}
	return path
}

// cylinderPath is the datastore/database outline: two end ellipses plus the
// body rectangle.
func cylinderPath(b geometry.Rect) geometry.Path {
	capHeight := b.H * 0.2
	var path geometry.Path
	path.Segments = append(path.Segments,
		ellipsePath(geometry.Rect{X: b.X, Y: b.Y, W: b.W, H: capHeight}).Segments...)
	path.Segments = append(path.Segments,
		ellipsePath(geometry.Rect{X: b.X, Y: b.Bottom() - capHeight, W: b.W, H: capHeight}).Segments...)
	path.Segments = append(path.Segments,
		rectPath(geometry.Rect{X: b.X, Y: b.Y + capHeight/2, W: b.W, H: b.H - capHeight}).Segments...)
	return path
}
