// Package ui adapts pointer and keyboard input to scene operations and
// renders the scene through Fyne. The interaction controller itself is
// toolkit-free so the drag state machine can be exercised directly.
package ui

import (
	"time"

	"go.uber.org/zap"

	"voyager/domain/core/aggregates"
	"voyager/domain/core/entities"
	"voyager/domain/core/valueobjects"
)

// ViewTransform maps between view (widget) coordinates and scene
// coordinates. Zoom is a uniform scale about the current anchor.
type ViewTransform struct {
	Scale  float64
	Offset valueobjects.Position
}

// NewViewTransform returns the identity transform
func NewViewTransform() ViewTransform {
	return ViewTransform{Scale: 1}
}

// ToScene converts a view point to scene coordinates
func (t ViewTransform) ToScene(view valueobjects.Position) valueobjects.Position {
	return view.Sub(t.Offset).Scale(1 / t.Scale)
}

// ToView converts a scene point to view coordinates
func (t ViewTransform) ToView(scene valueobjects.Position) valueobjects.Position {
	return scene.Scale(t.Scale).Add(t.Offset)
}

// ZoomAt scales the view by factor while keeping the scene point under
// the given view point stationary. No bounds: repeated zooming in
// either direction is allowed.
func (t *ViewTransform) ZoomAt(view valueobjects.Position, factor float64) {
	scenePoint := t.ToScene(view)
	t.Scale *= factor
	t.Offset = view.Sub(scenePoint.Scale(t.Scale))
}

// Pan shifts the view by a delta in view coordinates
func (t *ViewTransform) Pan(delta valueobjects.Position) {
	t.Offset = t.Offset.Add(delta)
}

// ControllerState is the interaction state
type ControllerState int

const (
	// StateIdle means no gesture is in progress
	StateIdle ControllerState = iota
	// StateDraggingEdge means a provisional edge follows the pointer
	StateDraggingEdge
)

// Scheduler defers a callback. The UI layer marshals the callback onto
// the event loop; tests substitute a synchronous or capturing one.
type Scheduler func(delay time.Duration, fn func())

// Controller runs the pointer-gesture state machine over a scene. All
// positions arriving at its methods are view coordinates; it applies
// the inverse view transform before touching the scene. Handlers that
// do not consume an event return false so the host widget can fall
// through to selection or panning.
type Controller struct {
	scene    *aggregates.Scene
	view     ViewTransform
	schedule Scheduler
	logger   *zap.Logger

	state      ControllerState
	dragEdgeID valueobjects.EdgeID
	dragSource valueobjects.NodeID
	dragHandle entities.HandleIndex
}

// NewController creates a controller over the given scene
func NewController(scene *aggregates.Scene, schedule Scheduler, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if schedule == nil {
		schedule = func(delay time.Duration, fn func()) {
			time.AfterFunc(delay, fn)
		}
	}
	return &Controller{
		scene:    scene,
		view:     NewViewTransform(),
		schedule: schedule,
		logger:   logger,
		state:    StateIdle,
	}
}

// State returns the current interaction state
func (c *Controller) State() ControllerState {
	return c.state
}

// Transform returns the current view transform
func (c *Controller) Transform() ViewTransform {
	return c.view
}

// Pan shifts the view, used by the host widget for background drags
func (c *Controller) Pan(delta valueobjects.Position) {
	c.view.Pan(delta)
}

// Press handles a pointer press. A press within the handle hit radius
// starts an edge drag and consumes the event; anything else is left to
// the host widget.
func (c *Controller) Press(viewPoint valueobjects.Position) (consumed bool) {
	defer c.recoverHandler("press")

	if c.state != StateIdle {
		return false
	}

	scenePoint := c.view.ToScene(viewPoint)
	hit, ok := c.scene.HitTestHandle(scenePoint, valueobjects.NodeID{})
	if !ok {
		return false
	}

	edge, err := c.scene.BeginProvisionalEdge(hit.NodeID, hit.Handle, scenePoint)
	if err != nil {
		c.logger.Warn("edge drag did not start", zap.Error(err))
		return false
	}

	c.state = StateDraggingEdge
	c.dragEdgeID = edge.ID()
	c.dragSource = hit.NodeID
	c.dragHandle = hit.Handle

	return true
}

// Move handles pointer movement. While dragging an edge it drags the
// floating endpoint along and keeps exactly one hover candidate
// highlighted. The hover preview hit-tests node bodies, including the
// origin node; only the release drop test narrows to handles.
func (c *Controller) Move(viewPoint valueobjects.Position) (consumed bool) {
	defer c.recoverHandler("move")

	if c.state != StateDraggingEdge {
		return false
	}

	scenePoint := c.view.ToScene(viewPoint)
	if err := c.scene.UpdateProvisionalEdge(c.dragEdgeID, scenePoint); err != nil {
		// The provisional edge vanished under us (scene cleared or
		// imported mid-drag). Abandon the gesture.
		c.logger.Warn("edge drag aborted", zap.Error(err))
		c.resetDrag()
		return true
	}

	if id, ok := c.scene.NodeAt(scenePoint); ok {
		_ = c.scene.SetHighlighted(id, true)
		c.scene.ClearHighlightsExcept(id)
	} else {
		c.scene.ClearHighlightsExcept(valueobjects.NodeID{})
	}

	return true
}

// Release handles pointer release. A drop on another node's handle
// finalizes the connection; anywhere else the provisional edge is
// discarded. The controller returns to idle in every case.
func (c *Controller) Release(viewPoint valueobjects.Position) (consumed bool) {
	defer c.recoverHandler("release")

	if c.state != StateDraggingEdge {
		return false
	}

	scenePoint := c.view.ToScene(viewPoint)
	c.scene.DiscardProvisionalEdge(c.dragEdgeID)

	if hit, ok := c.scene.HitTestHandle(scenePoint, c.dragSource); ok {
		if _, err := c.scene.Connect(c.dragSource, c.dragHandle, hit.NodeID, hit.Handle); err != nil {
			c.logger.Warn("connection rejected", zap.Error(err))
		} else {
			c.flashTarget(hit.NodeID)
		}
	}

	c.scene.ClearHighlightsExcept(valueobjects.NodeID{})
	c.resetDrag()

	return true
}

// CancelDrag abandons an in-progress edge drag, e.g. on focus loss
func (c *Controller) CancelDrag() {
	if c.state != StateDraggingEdge {
		return
	}
	c.scene.DiscardProvisionalEdge(c.dragEdgeID)
	c.scene.ClearHighlightsExcept(valueobjects.NodeID{})
	c.resetDrag()
}

// Wheel zooms about the pointer. deltaY > 0 zooms in by the configured
// step factor, deltaY < 0 zooms out by its reciprocal.
func (c *Controller) Wheel(viewPoint valueobjects.Position, deltaY float64) {
	defer c.recoverHandler("wheel")

	if deltaY == 0 {
		return
	}

	factor := c.scene.Config().ZoomStepFactor
	if deltaY < 0 {
		factor = 1 / factor
	}
	c.view.ZoomAt(viewPoint, factor)
}

// flashTarget highlights a freshly connected node and schedules the
// un-highlight. The callback holds the id, not the node: by the time it
// fires the node may have been deleted, so it re-checks membership.
func (c *Controller) flashTarget(id valueobjects.NodeID) {
	_ = c.scene.SetHighlighted(id, true)

	duration := c.scene.Config().HighlightDuration
	c.schedule(duration, func() {
		if c.scene.HasNode(id) {
			_ = c.scene.SetHighlighted(id, false)
		}
	})
}

func (c *Controller) resetDrag() {
	c.state = StateIdle
	c.dragEdgeID = valueobjects.EdgeID{}
	c.dragSource = valueobjects.NodeID{}
	c.dragHandle = entities.HandleInput
}

// recoverHandler keeps a panic in a pointer handler from tearing down
// the event loop. The gesture state is reset so the next press starts
// clean.
func (c *Controller) recoverHandler(handler string) {
	if r := recover(); r != nil {
		c.logger.Error("pointer handler panicked",
			zap.String("handler", handler),
			zap.Any("panic", r),
		)
		c.state = StateIdle
	}
}
