package diagram

import (
	"fmt"
	"math"

	"github.com/stridecanvas/stridecanvas-cli/api/schemas"
	"github.com/stridecanvas/stridecanvas-cli/internal/geometry"
)

// ConnectorKind selects the routing algorithm for a connector.
type ConnectorKind string

const (
	ConnectorLine   ConnectorKind = "line"
	ConnectorElbow  ConnectorKind = "elbow"
	ConnectorCurved ConnectorKind = "curved"
	ConnectorArrow  ConnectorKind = "arrow"
)

const (
	arrowheadLength = 15.0
	arrowheadAngle  = math.Pi / 6
	// flowIndicatorMinLength is the spine length below which direction
	// indicators are suppressed.
	flowIndicatorMinLength = 40.0
	flowIndicatorSize      = 8.0
)

// Connector is a typed edge between two shapes. The endpoint references are
// non-owning; the ConnectorManager removes the connector when either endpoint
// is destroyed. The routed path is recomputed from current endpoint geometry
// on every update, never cached across moves.
type Connector struct {
	Start *Shape
	End   *Shape
	Kind  ConnectorKind

	Metadata schemas.ConnectorMetadata

	path geometry.Path
}

// NewConnector creates a connector and routes its initial path.
func NewConnector(start, end *Shape, kind ConnectorKind) *Connector {
	c := &Connector{
		Start: start,
		End:   end,
		Kind:  kind,
		Metadata: schemas.ConnectorMetadata{
			DataFlow:  schemas.FlowBidirectional,
			Frequency: "As needed",
		},
	}
	c.UpdatePath()
	return c
}

// Path returns the current routed path.
func (c *Connector) Path() geometry.Path {
	return c.path
}

// UpdatePath re-routes the connector from the endpoints' current geometry.
// Each end anchors at the boundary point facing the other shape's center.
func (c *Connector) UpdatePath() {
	if c.Start == nil || c.End == nil {
		return
	}
	start := c.Start.BestConnectionPoint(c.End.Center())
	end := c.End.BestConnectionPoint(c.Start.Center())

	var path geometry.Path
	switch c.Kind {
	case ConnectorElbow:
		routeElbow(&path, start, end)
	case ConnectorCurved:
		routeCurved(&path, start, end)
	case ConnectorArrow:
		routeArrow(&path, start, end)
	case ConnectorLine:
		fallthrough
	default:
		routeStraight(&path, start, end)
	}
	c.path = path
}

// SetKind changes the routing algorithm and re-routes.
func (c *Connector) SetKind(kind ConnectorKind) {
	c.Kind = kind
	c.UpdatePath()
}

// ConnectedTo reports whether the connector is incident to the shape.
func (c *Connector) ConnectedTo(s *Shape) bool {
	return c.Start == s || c.End == s
}

// OtherShape returns the endpoint opposite s, or nil if s is not an endpoint.
func (c *Connector) OtherShape(s *Shape) *Shape {
	switch s {
	case c.Start:
		return c.End
	case c.End:
		return c.Start
	}
	return nil
}

// FlowIndicator is a sampled direction marker on the routed path, used by the
// view layer to place arrowheads.
type FlowIndicator struct {
	Point geometry.Vector2D
	Angle float64
}

// FlowIndicators samples direction markers for the connector's data-flow
// setting: forward at 75% of the path, backward at 25%. Paths shorter than
// the minimum yield none.
func (c *Connector) FlowIndicators() []FlowIndicator {
	if c.path.Length() < flowIndicatorMinLength {
		return nil
	}
	var indicators []FlowIndicator
	flow := c.Metadata.DataFlow
	if flow == schemas.FlowForward || flow == schemas.FlowBidirectional {
		indicators = append(indicators, FlowIndicator{
			Point: c.path.PointAt(0.75),
			Angle: c.path.AngleAt(0.75),
		})
	}
	if flow == schemas.FlowBackward || flow == schemas.FlowBidirectional {
		indicators = append(indicators, FlowIndicator{
			Point: c.path.PointAt(0.25),
			Angle: c.path.AngleAt(0.25) + math.Pi,
		})
	}
	return indicators
}

// MetadataSummary lists the connector's notable facts for the side panel.
func (c *Connector) MetadataSummary() []string {
	var summary []string
	if c.Metadata.Label != "" {
		summary = append(summary, fmt.Sprintf("Label: %s", c.Metadata.Label))
	}
	if c.Metadata.Protocol != "" {
		summary = append(summary, fmt.Sprintf("Protocol: %s", c.Metadata.Protocol))
	}
	if c.Metadata.DataType != "" {
		summary = append(summary, fmt.Sprintf("Data: %s", c.Metadata.DataType))
	}
	if c.Metadata.Encrypted {
		summary = append(summary, "Encrypted: Yes")
	}
	if c.Metadata.Authenticated {
		summary = append(summary, "Authenticated: Yes")
	}
	return summary
}

// -- Routing algorithms --

func routeStraight(path *geometry.Path, start, end geometry.Vector2D) {
	path.MoveTo(start)
	path.LineTo(end)
}

// routeElbow bends once, through the corner on the dominant axis.
func routeElbow(path *geometry.Path, start, end geometry.Vector2D) {
	path.MoveTo(start)
	dx := math.Abs(end.X - start.X)
	dy := math.Abs(end.Y - start.Y)

	var mid geometry.Vector2D
	if dx > dy {
		mid = geometry.Vector2D{X: end.X, Y: start.Y}
	} else {
		mid = geometry.Vector2D{X: start.X, Y: end.Y}
	}
	path.LineTo(mid)
	path.LineTo(end)
}

// routeCurved bows the line perpendicular to its direction, with the bow
// capped at 50 units.
func routeCurved(path *geometry.Path, start, end geometry.Vector2D) {
	path.MoveTo(start)

	delta := end.Sub(start)
	length := delta.Mag()
	curve := math.Min(length*0.3, 50)

	var perp geometry.Vector2D
	if length > 0 {
		perp = geometry.Vector2D{X: -delta.Y / length * curve, Y: delta.X / length * curve}
	}
	mid := start.Add(end).Mul(0.5)
	control := mid.Add(perp)
	path.CubicTo(control, control, end)
}

// routeArrow is a straight line plus two arrowhead strokes at the end.
func routeArrow(path *geometry.Path, start, end geometry.Vector2D) {
	path.MoveTo(start)
	path.LineTo(end)

	angle := end.Sub(start).Angle()
	p1 := geometry.Vector2D{
		X: end.X - arrowheadLength*math.Cos(angle-arrowheadAngle),
		Y: end.Y - arrowheadLength*math.Sin(angle-arrowheadAngle),
	}
	p2 := geometry.Vector2D{
		X: end.X - arrowheadLength*math.Cos(angle+arrowheadAngle),
		Y: end.Y - arrowheadLength*math.Sin(angle+arrowheadAngle),
	}
	path.MoveTo(end)
	path.LineTo(p1)
	path.MoveTo(end)
	path.LineTo(p2)
}
