package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stridecanvas/stridecanvas-cli/api/schemas"
	"github.com/stridecanvas/stridecanvas-cli/internal/diagram"
	"github.com/stridecanvas/stridecanvas-cli/internal/geometry"
)

// recordingSink captures metadata pushes for assertions.
type recordingSink struct {
	selected []*diagram.Shape
	cleared  int
}

func (r *recordingSink) ShapeSelected(shape *diagram.Shape) {
	r.selected = append(r.selected, shape)
}

func (r *recordingSink) SelectionCleared() {
	r.cleared++
}

func newTestEditor(t *testing.T) (*Editor, *diagram.Document) {
	t.Helper()
	doc := diagram.NewDocument(zap.NewNop())
	return New(doc, zap.NewNop()), doc
}

func TestPaletteToolCreatesShapeCentered(t *testing.T) {
	e, doc := newTestEditor(t)
	e.SetTool("process")

	e.PointerDown(geometry.Vector2D{X: 200, Y: 200}, ModNone)

	require.Len(t, doc.Shapes(), 1)
	s := doc.Shapes()[0]
	assert.Equal(t, diagram.KindRect, s.Kind)
	assert.Equal(t, "process", s.ShapeSubtype)
	assert.Equal(t, "threat_modeling", s.ShapeCategory)
	assert.Equal(t, "#90ee90", s.Color)
	// The shape is centered on the click position.
	assert.Equal(t, 150.0, s.X)
	assert.Equal(t, 170.0, s.Y)
	assert.Same(t, s, e.Selected())
}

func TestBasicToolKeepsDefaultFill(t *testing.T) {
	e, doc := newTestEditor(t)
	e.SetTool("star")

	e.PointerDown(geometry.Vector2D{X: 100, Y: 100}, ModNone)

	require.Len(t, doc.Shapes(), 1)
	s := doc.Shapes()[0]
	assert.Equal(t, diagram.KindStar, s.Kind)
	assert.Equal(t, diagram.DefaultShapeColor, s.Color)
	assert.Empty(t, s.ShapeSubtype)
}

func TestTwoClickConnectionFlow(t *testing.T) {
	e, doc := newTestEditor(t)
	a := diagram.NewShape(diagram.KindRect, 0, 0, 100, 60)
	b := diagram.NewShape(diagram.KindRect, 300, 0, 100, 60)
	doc.AddShape(a)
	doc.AddShape(b)

	e.SetTool(ToolConnector)
	e.PointerDown(geometry.Vector2D{X: 50, Y: 30}, ModNone)
	assert.Same(t, a, e.PendingConnector())
	assert.True(t, a.ConnectionPending)

	e.PointerDown(geometry.Vector2D{X: 350, Y: 30}, ModNone)
	require.Len(t, doc.Connectors(), 1)
	assert.True(t, doc.Connectors()[0].ConnectedTo(a))
	assert.True(t, doc.Connectors()[0].ConnectedTo(b))
	assert.False(t, a.ConnectionPending)
	// Connecting is one-shot; the editor drops back to select mode.
	assert.Equal(t, ToolSelect, e.CurrentTool())
}

func TestConnectorClickOnEmptySpaceIsIgnored(t *testing.T) {
	e, doc := newTestEditor(t)
	a := diagram.NewShape(diagram.KindRect, 0, 0, 100, 60)
	doc.AddShape(a)

	e.SetTool(ToolConnector)
	e.PointerDown(geometry.Vector2D{X: 500, Y: 500}, ModNone)
	assert.Nil(t, e.PendingConnector())
	assert.Equal(t, ToolConnector, e.CurrentTool())
}

func TestSwitchingToolAbandonsPendingConnection(t *testing.T) {
	e, doc := newTestEditor(t)
	a := diagram.NewShape(diagram.KindRect, 0, 0, 100, 60)
	doc.AddShape(a)

	e.SetTool(ToolConnector)
	e.PointerDown(geometry.Vector2D{X: 50, Y: 30}, ModNone)
	require.Same(t, a, e.PendingConnector())

	e.SetTool(ToolSelect)
	assert.Nil(t, e.PendingConnector())
	assert.False(t, a.ConnectionPending)
}

func TestSelectAndDragMovesShape(t *testing.T) {
	e, doc := newTestEditor(t)
	s := diagram.NewShape(diagram.KindRect, 0, 0, 100, 60)
	doc.AddShape(s)

	e.PointerDown(geometry.Vector2D{X: 50, Y: 30}, ModNone)
	require.Same(t, s, e.Selected())
	assert.True(t, s.Selected)

	e.PointerMove(geometry.Vector2D{X: 70, Y: 50})
	e.PointerUp(geometry.Vector2D{X: 70, Y: 50})

	assert.Equal(t, 20.0, s.X)
	assert.Equal(t, 20.0, s.Y)
}

func TestDragWithCtrlMovesConnectedNeighbors(t *testing.T) {
	e, doc := newTestEditor(t)
	a := diagram.NewShape(diagram.KindRect, 0, 0, 100, 60)
	b := diagram.NewShape(diagram.KindRect, 300, 0, 100, 60)
	c := diagram.NewShape(diagram.KindRect, 600, 0, 100, 60)
	doc.AddShape(a)
	doc.AddShape(b)
	doc.AddShape(c)
	doc.Connect(a, b, diagram.ConnectorLine)

	e.PointerDown(geometry.Vector2D{X: 50, Y: 30}, ModCtrl)
	e.PointerMove(geometry.Vector2D{X: 60, Y: 50})
	e.PointerUp(geometry.Vector2D{X: 60, Y: 50})

	assert.Equal(t, 10.0, a.X)
	// b is connected to a and follows; c is not and stays.
	assert.Equal(t, 310.0, b.X)
	assert.Equal(t, 600.0, c.X)
}

func TestGridSnappingDuringDrag(t *testing.T) {
	e, doc := newTestEditor(t)
	s := diagram.NewShape(diagram.KindRect, 0, 0, 100, 60)
	doc.AddShape(s)
	e.SetGridSnapping(true, 20)

	e.PointerDown(geometry.Vector2D{X: 50, Y: 30}, ModNone)
	e.PointerMove(geometry.Vector2D{X: 87, Y: 52})
	e.PointerUp(geometry.Vector2D{X: 87, Y: 52})

	// The drag anchor snapped (50,30)->(60,40); the move target snapped
	// (87,52)->(80,60), so the drag delta is (20,20).
	assert.Equal(t, 20.0, s.X)
	assert.Equal(t, 20.0, s.Y)
}

func TestGridSnappingDoesNotAffectHitTests(t *testing.T) {
	e, doc := newTestEditor(t)
	// A shape smaller than the grid cell, positioned off-grid: every snapped
	// point lies outside it, so a snapped hit-test could never select it.
	s := diagram.NewShape(diagram.KindRect, 25, 25, 20, 20)
	doc.AddShape(s)
	e.SetGridSnapping(true, 20)

	e.PointerDown(geometry.Vector2D{X: 29, Y: 29}, ModNone)
	e.PointerUp(geometry.Vector2D{X: 29, Y: 29})

	assert.Same(t, s, e.Selected())
	assert.True(t, s.Selected)
}

func TestGridSnappingAlignsCreatedShapeOrigin(t *testing.T) {
	e, doc := newTestEditor(t)
	e.SetTool("process")
	e.SetGridSnapping(true, 20)

	e.PointerDown(geometry.Vector2D{X: 207, Y: 203}, ModNone)

	require.Len(t, doc.Shapes(), 1)
	s := doc.Shapes()[0]
	// The centered origin (157,173) snaps to the grid.
	assert.Equal(t, 160.0, s.X)
	assert.Equal(t, 180.0, s.Y)
}

func TestResizeViaHandleDispatch(t *testing.T) {
	e, doc := newTestEditor(t)
	s := diagram.NewShape(diagram.KindRect, 100, 100, 100, 60)
	doc.AddShape(s)

	// First click selects.
	e.PointerDown(geometry.Vector2D{X: 150, Y: 130}, ModNone)
	e.PointerUp(geometry.Vector2D{X: 150, Y: 130})
	require.Same(t, s, e.Selected())

	// Second press lands on the bottom-right handle.
	e.PointerDown(geometry.Vector2D{X: 200, Y: 160}, ModNone)
	require.True(t, s.Resizing())

	e.PointerMove(geometry.Vector2D{X: 250, Y: 200})
	e.PointerUp(geometry.Vector2D{X: 250, Y: 200})

	assert.False(t, s.Resizing())
	assert.Equal(t, 150.0, s.W)
	assert.Equal(t, 100.0, s.H)
}

func TestDeleteSelectedCascades(t *testing.T) {
	e, doc := newTestEditor(t)
	a := diagram.NewShape(diagram.KindRect, 0, 0, 100, 60)
	b := diagram.NewShape(diagram.KindRect, 300, 0, 100, 60)
	doc.AddShape(a)
	doc.AddShape(b)
	doc.Connect(a, b, diagram.ConnectorLine)

	e.PointerDown(geometry.Vector2D{X: 50, Y: 30}, ModNone)
	e.PointerUp(geometry.Vector2D{X: 50, Y: 30})
	e.DeleteSelected()

	assert.Len(t, doc.Shapes(), 1)
	assert.Empty(t, doc.Connectors())
	assert.Nil(t, e.Selected())
}

func TestMetadataSinkNotifications(t *testing.T) {
	e, doc := newTestEditor(t)
	sink := &recordingSink{}
	e.SetMetadataSink(sink)

	s := diagram.NewShape(diagram.KindRect, 0, 0, 100, 60)
	doc.AddShape(s)

	e.PointerDown(geometry.Vector2D{X: 50, Y: 30}, ModNone)
	e.PointerUp(geometry.Vector2D{X: 50, Y: 30})
	require.Len(t, sink.selected, 1)
	assert.Same(t, s, sink.selected[0])

	e.PointerDown(geometry.Vector2D{X: 500, Y: 500}, ModNone)
	assert.Equal(t, 1, sink.cleared)
}

func TestApplyMetadataMirrorsLabel(t *testing.T) {
	e, doc := newTestEditor(t)
	s := diagram.NewShape(diagram.KindRect, 0, 0, 100, 60)
	doc.AddShape(s)
	e.PointerDown(geometry.Vector2D{X: 50, Y: 30}, ModNone)
	e.PointerUp(geometry.Vector2D{X: 50, Y: 30})

	md := schemas.ShapeMetadata{}
	md.Basic.Label = "Auth Service"
	md.Security.Authentication = "OAuth2"
	e.ApplyMetadata(md)

	assert.Equal(t, "Auth Service", s.Label)
	assert.Equal(t, "OAuth2", s.Metadata.Security.Authentication)
}
