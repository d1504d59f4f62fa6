package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"voyager/domain/core/aggregates"
	"voyager/domain/core/entities"
	"voyager/domain/core/valueobjects"
)

// edgeSampleCount is how many segments a bezier flattens into on screen
const edgeSampleCount = 24

var (
	nodeFillColor      = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	nodeHighlightColor = color.NRGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}
	nodeStrokeColor    = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	selectedStroke     = color.NRGBA{R: 0x1e, G: 0x66, B: 0xd0, A: 0xff}
	edgeColor          = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
	handleColor        = color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
	textColor          = color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
	backgroundColor    = color.NRGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff}
)

// FlowCanvas is the interactive graph view. It forwards pointer events
// to the interaction controller first; events the controller does not
// consume fall through to node dragging, selection, and panning.
type FlowCanvas struct {
	widget.BaseWidget

	scene      *aggregates.Scene
	controller *Controller
	logger     *zap.Logger

	// OnEditNode opens the edit dialog for a node. Set by the shell.
	OnEditNode func(id valueobjects.NodeID)

	selectedNodes map[valueobjects.NodeID]bool
	selectedEdges map[valueobjects.EdgeID]bool

	dragNode   valueobjects.NodeID
	dragging   bool
	dragOffset valueobjects.Position
	panning    bool
	lastPoint  valueobjects.Position
}

// NewFlowCanvas creates the canvas over a scene
func NewFlowCanvas(scene *aggregates.Scene, controller *Controller, logger *zap.Logger) *FlowCanvas {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &FlowCanvas{
		scene:         scene,
		controller:    controller,
		logger:        logger,
		selectedNodes: make(map[valueobjects.NodeID]bool),
		selectedEdges: make(map[valueobjects.EdgeID]bool),
	}
	c.ExtendBaseWidget(c)
	return c
}

// SelectedNodes returns the ids of the currently selected nodes
func (c *FlowCanvas) SelectedNodes() []valueobjects.NodeID {
	ids := make([]valueobjects.NodeID, 0, len(c.selectedNodes))
	for id := range c.selectedNodes {
		ids = append(ids, id)
	}
	return ids
}

// SelectedEdges returns the ids of the currently selected edges
func (c *FlowCanvas) SelectedEdges() []valueobjects.EdgeID {
	ids := make([]valueobjects.EdgeID, 0, len(c.selectedEdges))
	for id := range c.selectedEdges {
		ids = append(ids, id)
	}
	return ids
}

// ClearSelection drops every selection mark
func (c *FlowCanvas) ClearSelection() {
	c.selectedNodes = make(map[valueobjects.NodeID]bool)
	c.selectedEdges = make(map[valueobjects.EdgeID]bool)
	c.Refresh()
}

// ViewCenterScene returns the scene point at the center of the widget,
// where newly added nodes land.
func (c *FlowCanvas) ViewCenterScene() valueobjects.Position {
	size := c.Size()
	center := valueobjects.NewPosition(float64(size.Width)/2, float64(size.Height)/2)
	return c.controller.Transform().ToScene(center)
}

// MouseDown implements desktop.Mouseable
func (c *FlowCanvas) MouseDown(ev *desktop.MouseEvent) {
	point := toPosition(ev.Position)

	if c.controller.Press(point) {
		c.Refresh()
		return
	}

	scenePoint := c.controller.Transform().ToScene(point)
	if id, ok := c.scene.NodeAt(scenePoint); ok {
		node, err := c.scene.Node(id)
		if err != nil {
			return
		}
		c.dragging = true
		c.dragNode = id
		c.dragOffset = scenePoint.Sub(node.Position())
		if ev.Button == desktop.MouseButtonPrimary {
			c.selectedNodes = map[valueobjects.NodeID]bool{id: true}
			c.selectedEdges = make(map[valueobjects.EdgeID]bool)
		}
		c.Refresh()
		return
	}

	if edgeID, ok := c.edgeAt(scenePoint); ok {
		c.selectedEdges = map[valueobjects.EdgeID]bool{edgeID: true}
		c.selectedNodes = make(map[valueobjects.NodeID]bool)
		c.Refresh()
		return
	}

	c.panning = true
	c.lastPoint = point
	c.selectedNodes = make(map[valueobjects.NodeID]bool)
	c.selectedEdges = make(map[valueobjects.EdgeID]bool)
	c.Refresh()
}

// MouseUp implements desktop.Mouseable
func (c *FlowCanvas) MouseUp(ev *desktop.MouseEvent) {
	point := toPosition(ev.Position)

	if c.controller.Release(point) {
		c.Refresh()
	}
	c.dragging = false
	c.panning = false
}

// MouseMoved implements desktop.Hoverable
func (c *FlowCanvas) MouseMoved(ev *desktop.MouseEvent) {
	point := toPosition(ev.Position)

	if c.controller.Move(point) {
		c.Refresh()
		return
	}

	if c.dragging {
		scenePoint := c.controller.Transform().ToScene(point)
		if err := c.scene.MoveNode(c.dragNode, scenePoint.Sub(c.dragOffset)); err != nil {
			c.dragging = false
			return
		}
		c.Refresh()
		return
	}

	if c.panning {
		c.controller.Pan(point.Sub(c.lastPoint))
		c.lastPoint = point
		c.Refresh()
	}
}

// MouseIn implements desktop.Hoverable
func (c *FlowCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable
func (c *FlowCanvas) MouseOut() {
	c.controller.CancelDrag()
	c.dragging = false
	c.panning = false
	c.Refresh()
}

// Scrolled implements fyne.Scrollable: wheel zooms about the pointer
func (c *FlowCanvas) Scrolled(ev *fyne.ScrollEvent) {
	c.controller.Wheel(toPosition(ev.Position), float64(ev.Scrolled.DY))
	c.Refresh()
}

// DoubleTapped implements fyne.DoubleTappable: opens the node editor
func (c *FlowCanvas) DoubleTapped(ev *fyne.PointEvent) {
	scenePoint := c.controller.Transform().ToScene(toPosition(ev.Position))
	if id, ok := c.scene.NodeAt(scenePoint); ok && c.OnEditNode != nil {
		c.OnEditNode(id)
	}
}

// edgeAt finds a finalized edge whose curve passes near the scene point
func (c *FlowCanvas) edgeAt(scenePoint valueobjects.Position) (valueobjects.EdgeID, bool) {
	const tolerance = 6.0
	for _, edge := range c.scene.FinalizedEdges() {
		for _, sample := range edge.Path().Sample(edgeSampleCount) {
			if sample.Sub(scenePoint).ManhattanLength() < tolerance {
				return edge.ID(), true
			}
		}
	}
	return valueobjects.EdgeID{}, false
}

// CreateRenderer implements fyne.Widget
func (c *FlowCanvas) CreateRenderer() fyne.WidgetRenderer {
	background := canvas.NewRectangle(backgroundColor)
	return &flowCanvasRenderer{canvas: c, background: background}
}

// flowCanvasRenderer rebuilds the display list from the scene on every
// refresh. The scene is small (hundreds of nodes at most), so rebuilding
// is simpler and safe compared to incremental object tracking.
type flowCanvasRenderer struct {
	canvas     *FlowCanvas
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *flowCanvasRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *flowCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

func (r *flowCanvasRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.canvas)
}

func (r *flowCanvasRenderer) Objects() []fyne.CanvasObject {
	if r.objects == nil {
		r.rebuild()
	}
	return r.objects
}

func (r *flowCanvasRenderer) Destroy() {}

func (r *flowCanvasRenderer) rebuild() {
	scene := r.canvas.scene
	transform := r.canvas.controller.Transform()
	objects := []fyne.CanvasObject{r.background}

	// Edges go under nodes, matching paint order in the scene.
	for _, edge := range scene.Edges() {
		objects = append(objects, r.edgeObjects(edge, transform)...)
	}
	for _, node := range scene.Nodes() {
		objects = append(objects, r.nodeObjects(node, transform)...)
	}

	r.objects = objects
}

func (r *flowCanvasRenderer) edgeObjects(edge *entities.Edge, transform ViewTransform) []fyne.CanvasObject {
	samples := edge.Path().Sample(edgeSampleCount)
	strokeColor := edgeColor
	if r.canvas.selectedEdges[edge.ID()] {
		strokeColor = selectedStroke
	}

	segments := make([]fyne.CanvasObject, 0, len(samples)-1)
	for i := 0; i < len(samples)-1; i++ {
		line := canvas.NewLine(strokeColor)
		line.StrokeWidth = 2
		line.Position1 = toFynePos(transform.ToView(samples[i]))
		line.Position2 = toFynePos(transform.ToView(samples[i+1]))
		segments = append(segments, line)
	}
	return segments
}

func (r *flowCanvasRenderer) nodeObjects(node *entities.Node, transform ViewTransform) []fyne.CanvasObject {
	scene := r.canvas.scene
	layout := scene.Layout()
	cfg := scene.Config()
	scale := float32(transform.Scale)

	rect := layout.BoundingRect(node.Content()).Translated(node.Position())
	topLeft := transform.ToView(valueobjects.NewPosition(rect.X, rect.Y))

	body := canvas.NewRectangle(nodeFillColor)
	if node.Highlighted() {
		body.FillColor = nodeHighlightColor
	}
	body.StrokeColor = nodeStrokeColor
	body.StrokeWidth = 1
	if r.canvas.selectedNodes[node.ID()] {
		body.StrokeColor = selectedStroke
		body.StrokeWidth = 2
	}
	body.CornerRadius = float32(cfg.CornerRadius) * scale
	body.Move(toFynePos(topLeft))
	body.Resize(fyne.NewSize(float32(rect.Width)*scale, float32(rect.Height)*scale))

	objects := []fyne.CanvasObject{body}
	objects = append(objects, r.textObjects(node, transform)...)

	for _, handle := range []entities.HandleIndex{entities.HandleInput, entities.HandleOutput} {
		center := transform.ToView(layout.HandlePosition(node.Content(), handle).Add(node.Position()))
		radius := 4 * scale
		dot := canvas.NewCircle(handleColor)
		dot.Move(fyne.NewPos(float32(center.X)-radius, float32(center.Y)-radius))
		dot.Resize(fyne.NewSize(radius*2, radius*2))
		objects = append(objects, dot)
	}

	return objects
}

func (r *flowCanvasRenderer) textObjects(node *entities.Node, transform ViewTransform) []fyne.CanvasObject {
	scene := r.canvas.scene
	layout := scene.Layout()
	cfg := scene.Config()
	scale := float32(transform.Scale)
	lineHeight := cfg.LineHeight

	var objects []fyne.CanvasObject

	titleOrigin := layout.TitleOffset().Add(node.Position())
	for i, line := range node.Content().TitleLines() {
		text := canvas.NewText(line, textColor)
		text.TextStyle = fyne.TextStyle{Bold: true}
		text.TextSize = float32(lineHeight) * 0.75 * scale
		pos := transform.ToView(titleOrigin.Add(valueobjects.NewPosition(0, float64(i)*lineHeight)))
		text.Move(toFynePos(pos))
		objects = append(objects, text)
	}

	descOrigin := layout.DescriptionOffset(node.Content()).Add(node.Position())
	for i, line := range node.Content().DescriptionLines() {
		text := canvas.NewText(line, textColor)
		text.TextSize = float32(lineHeight) * 0.7 * scale
		pos := transform.ToView(descOrigin.Add(valueobjects.NewPosition(0, float64(i)*lineHeight)))
		text.Move(toFynePos(pos))
		objects = append(objects, text)
	}

	return objects
}

func toPosition(p fyne.Position) valueobjects.Position {
	return valueobjects.NewPosition(float64(p.X), float64(p.Y))
}

func toFynePos(p valueobjects.Position) fyne.Position {
	return fyne.NewPos(float32(p.X), float32(p.Y))
}
