// Package editor implements the pointer-driven interaction layer over a
// diagram document: tool selection, shape creation, selection, drag-move,
// resize dispatch and the two-click connection flow. The view layer feeds it
// coordinates already mapped into diagram space; it never sees raw screen
// positions.
package editor

import (
	"go.uber.org/zap"

	"github.com/stridecanvas/stridecanvas-cli/api/schemas"
	"github.com/stridecanvas/stridecanvas-cli/internal/diagram"
	"github.com/stridecanvas/stridecanvas-cli/internal/geometry"
)

// Tool names the active editing mode. Anything not in the palette tables is
// treated as plain selection.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolConnector Tool = "connector"
)

// Modifier is a bitmask of pointer modifiers active during an event.
type Modifier int

const (
	ModNone Modifier = 0
	ModCtrl Modifier = 1 << iota
	ModShift
)

// MetadataSink receives metadata pushes when the selection changes. The
// property panel implements this; the editor never pulls from the panel.
type MetadataSink interface {
	ShapeSelected(shape *diagram.Shape)
	SelectionCleared()
}

// paletteEntry is the tool-determined geometry and fill for a new shape.
type paletteEntry struct {
	kind     diagram.ShapeKind
	w, h     float64
	color    string
	category string
}

// threatPalette holds the threat-modeling tools. The subtype recorded on the
// shape is the tool name itself, which later drives element classification.
var threatPalette = map[Tool]paletteEntry{
	"user":      {diagram.KindCircle, 80, 80, "#87cefa", "threat_modeling"},
	"process":   {diagram.KindRect, 100, 60, "#90ee90", "threat_modeling"},
	"datastore": {diagram.KindRect, 120, 40, "#ffb6c1", "threat_modeling"},
	"external":  {diagram.KindRect, 90, 70, "#ffffe0", "threat_modeling"},
	"threat":    {diagram.KindDiamond, 80, 80, "#ff6347", "threat_modeling"},
	"boundary":  {diagram.KindRect, 150, 100, "#d3d3d3", "threat_modeling"},
	"decision":  {diagram.KindDiamond, 70, 70, "#ffd700", "threat_modeling"},
	"network":   {diagram.KindHexagon, 90, 90, "#afeeee", "threat_modeling"},
	"server":    {diagram.KindRect, 90, 70, "#98fb98", "threat_modeling"},
	"database":  {diagram.KindRect, 100, 60, "#ffb6c1", "threat_modeling"},
}

// basicPalette holds the plain drawing tools; these shapes keep the default
// fill and carry no subtype.
var basicPalette = map[Tool]paletteEntry{
	"rect":         {diagram.KindRect, 100, 60, "", ""},
	"circle":       {diagram.KindCircle, 60, 60, "", ""},
	"diamond":      {diagram.KindDiamond, 80, 80, "", ""},
	"hexagon":      {diagram.KindHexagon, 90, 90, "", ""},
	"triangle":     {diagram.KindTriangle, 80, 80, "", ""},
	"star":         {diagram.KindStar, 90, 90, "", ""},
	"arrow":        {diagram.KindArrow, 100, 60, "", ""},
	"cloud":        {diagram.KindCloud, 120, 80, "", ""},
	"cylinder":     {diagram.KindCylinder, 100, 80, "", ""},
	"start_end":    {diagram.KindStartEnd, 80, 50, "", ""},
	"document":     {diagram.KindDocument, 100, 70, "", ""},
	"data":         {diagram.KindData, 90, 60, "", ""},
	"manual_input": {diagram.KindManualInput, 100, 60, "", ""},
	"predefined":   {diagram.KindPredefined, 110, 60, "", ""},
}

// Editor owns the transient interaction state for one document.
type Editor struct {
	doc    *diagram.Document
	logger *zap.Logger

	tool             Tool
	selected         *diagram.Shape
	pendingConnector *diagram.Shape
	sink             MetadataSink

	// Grid snapping, off unless enabled with a positive grid size.
	snapEnabled bool
	gridSize    float64

	// Drag state.
	dragging      *diagram.Shape
	lastDragPos   geometry.Vector2D
	moveConnected bool
	resizing      *diagram.Shape
}

// New creates an editor over the document, starting in select mode.
func New(doc *diagram.Document, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{
		doc:    doc,
		logger: logger.Named("editor"),
		tool:   ToolSelect,
	}
}

// SetMetadataSink registers the property panel.
func (e *Editor) SetMetadataSink(sink MetadataSink) {
	e.sink = sink
}

// SetGridSnapping enables position quantization during move and creation.
func (e *Editor) SetGridSnapping(enabled bool, gridSize float64) {
	e.snapEnabled = enabled && gridSize > 0
	e.gridSize = gridSize
}

// SetTool switches the active tool. Switching away from connector mode
// abandons any half-made connection.
func (e *Editor) SetTool(tool Tool) {
	if e.pendingConnector != nil && tool != ToolConnector {
		e.pendingConnector.ConnectionPending = false
		e.pendingConnector = nil
	}
	e.tool = tool
}

// CurrentTool returns the active tool.
func (e *Editor) CurrentTool() Tool {
	return e.tool
}

// Selected returns the selected shape, or nil.
func (e *Editor) Selected() *diagram.Shape {
	return e.selected
}

// PendingConnector returns the first endpoint of a half-made connection.
func (e *Editor) PendingConnector() *diagram.Shape {
	return e.pendingConnector
}

func (e *Editor) snap(pos geometry.Vector2D) geometry.Vector2D {
	if !e.snapEnabled {
		return pos
	}
	return pos.Snap(e.gridSize)
}

// PointerDown dispatches a press at pos. Shape tools create, the connector
// tool runs the two-click flow, and select mode hit-tests handles before
// shapes. Hit-testing always uses the raw pointer position; snapping applies
// only to positions being set (shape creation, drag targets).
func (e *Editor) PointerDown(pos geometry.Vector2D, mods Modifier) {
	if entry, ok := threatPalette[e.tool]; ok {
		e.createShape(entry, string(e.tool), pos)
		return
	}
	if entry, ok := basicPalette[e.tool]; ok {
		e.createShape(entry, "", pos)
		return
	}
	if e.tool == ToolConnector {
		e.connectorPress(pos)
		return
	}
	e.selectPress(pos, mods)
}

func (e *Editor) createShape(entry paletteEntry, subtype string, pos geometry.Vector2D) {
	origin := e.snap(geometry.Vector2D{X: pos.X - entry.w/2, Y: pos.Y - entry.h/2})
	shape := diagram.NewShape(entry.kind, origin.X, origin.Y, entry.w, entry.h)
	if entry.color != "" {
		shape.Color = entry.color
	}
	shape.ShapeCategory = entry.category
	shape.ShapeSubtype = subtype
	e.doc.AddShape(shape)
	e.setSelection(shape)
	e.logger.Debug("Created shape",
		zap.String("kind", string(entry.kind)),
		zap.String("subtype", subtype))
}

func (e *Editor) connectorPress(pos geometry.Vector2D) {
	shape := e.doc.ShapeAt(pos)
	if shape == nil {
		return
	}
	if e.pendingConnector == nil {
		e.pendingConnector = shape
		shape.ConnectionPending = true
		return
	}
	e.pendingConnector.ConnectionPending = false
	e.doc.Connect(e.pendingConnector, shape, diagram.ConnectorLine)
	e.pendingConnector = nil
	// Connecting is a one-shot action; drop back to selection.
	e.tool = ToolSelect
}

func (e *Editor) selectPress(pos geometry.Vector2D, mods Modifier) {
	// A selected shape's resize handles win over everything beneath them.
	if e.selected != nil {
		if handle := e.selected.HandleAt(pos); handle != diagram.NoHandle {
			e.selected.BeginResize(handle, pos)
			e.resizing = e.selected
			return
		}
	}

	shape := e.doc.ShapeAt(pos)
	if shape == nil {
		e.clearSelection()
		return
	}
	e.setSelection(shape)
	e.dragging = shape
	// Anchor the drag on the snapped position so move deltas stay
	// grid-quantized while the hit-test above saw the raw pointer.
	e.lastDragPos = e.snap(pos)
	e.moveConnected = mods&ModCtrl != 0
}

// PointerMove advances an in-progress resize or drag.
func (e *Editor) PointerMove(pos geometry.Vector2D) {
	if e.resizing != nil {
		e.doc.ResizeShape(e.resizing, pos)
		return
	}
	if e.dragging == nil {
		return
	}

	target := e.snap(pos)
	delta := target.Sub(e.lastDragPos)
	if delta == (geometry.Vector2D{}) {
		return
	}
	e.lastDragPos = target

	if e.moveConnected {
		// Translate direct neighbors by the same delta, once each.
		moved := map[*diagram.Shape]bool{e.dragging: true}
		for _, c := range e.doc.Manager().ForShape(e.dragging) {
			if other := c.OtherShape(e.dragging); other != nil && !moved[other] {
				moved[other] = true
				e.doc.MoveShape(other, delta)
			}
		}
	}
	e.doc.MoveShape(e.dragging, delta)
}

// PointerUp ends any resize or drag, regardless of position.
func (e *Editor) PointerUp(pos geometry.Vector2D) {
	if e.resizing != nil {
		e.resizing.EndResize()
		e.resizing = nil
	}
	e.dragging = nil
	e.moveConnected = false
}

// DeleteSelected removes the selected shape and, through the document,
// every connector incident to it.
func (e *Editor) DeleteSelected() {
	if e.selected == nil {
		return
	}
	shape := e.selected
	e.clearSelection()
	e.doc.RemoveShape(shape)
}

// ApplyMetadata writes an edited metadata record back onto the selected
// shape (panel push model; the label field mirrors into the shape label).
func (e *Editor) ApplyMetadata(md schemas.ShapeMetadata) {
	if e.selected == nil {
		return
	}
	e.selected.Metadata = md
	if md.Basic.Label != "" {
		e.selected.Label = md.Basic.Label
	}
}

func (e *Editor) setSelection(shape *diagram.Shape) {
	if e.selected == shape {
		return
	}
	if e.selected != nil {
		e.selected.Selected = false
	}
	e.selected = shape
	shape.Selected = true
	if e.sink != nil {
		e.sink.ShapeSelected(shape)
	}
}

func (e *Editor) clearSelection() {
	if e.selected != nil {
		e.selected.Selected = false
		e.selected = nil
	}
	if e.sink != nil {
		e.sink.SelectionCleared()
	}
}
