package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager/domain/core/aggregates"
	"voyager/domain/core/entities"
	"voyager/domain/core/valueobjects"
)

// capturedScheduler records deferred callbacks so tests fire them at
// will, including after the target node is gone.
type capturedScheduler struct {
	delays    []time.Duration
	callbacks []func()
}

func (s *capturedScheduler) schedule(delay time.Duration, fn func()) {
	s.delays = append(s.delays, delay)
	s.callbacks = append(s.callbacks, fn)
}

func (s *capturedScheduler) fireAll() {
	for _, fn := range s.callbacks {
		fn()
	}
	s.callbacks = nil
}

func testScene(t *testing.T) (*aggregates.Scene, *entities.Node, *entities.Node) {
	t.Helper()
	scene := aggregates.NewScene(nil)

	content, err := valueobjects.NewNodeContent("source", "step")
	require.NoError(t, err)
	source, err := scene.AddNode(content, valueobjects.NewPosition(0, 0))
	require.NoError(t, err)

	content, err = valueobjects.NewNodeContent("target", "step")
	require.NoError(t, err)
	target, err := scene.AddNode(content, valueobjects.NewPosition(400, 300))
	require.NoError(t, err)

	return scene, source, target
}

func handlePoint(t *testing.T, scene *aggregates.Scene, node *entities.Node, handle entities.HandleIndex) valueobjects.Position {
	t.Helper()
	pos, err := scene.HandleScenePosition(node.ID(), handle)
	require.NoError(t, err)
	return pos
}

func bodyCenter(t *testing.T, scene *aggregates.Scene, node *entities.Node) valueobjects.Position {
	t.Helper()
	rect, err := scene.NodeBoundingRect(node.ID())
	require.NoError(t, err)
	return valueobjects.NewPosition(rect.X+rect.Width/2, rect.Y+rect.Height/2)
}

func TestControllerDragCreatesEdge(t *testing.T) {
	scene, source, target := testScene(t)
	sched := &capturedScheduler{}
	ctrl := NewController(scene, sched.schedule, nil)

	start := handlePoint(t, scene, source, entities.HandleOutput)
	drop := handlePoint(t, scene, target, entities.HandleInput)

	require.True(t, ctrl.Press(start))
	assert.Equal(t, StateDraggingEdge, ctrl.State())
	assert.Equal(t, 1, scene.EdgeCount())

	require.True(t, ctrl.Move(start.Add(valueobjects.NewPosition(150, 100))))
	require.True(t, ctrl.Release(drop))

	assert.Equal(t, StateIdle, ctrl.State())
	edges := scene.FinalizedEdges()
	require.Len(t, edges, 1)
	assert.Equal(t, source.ID(), edges[0].SourceID())
	assert.Equal(t, entities.HandleOutput, edges[0].SourceHandle())
	assert.Equal(t, target.ID(), edges[0].TargetID())
	assert.Equal(t, entities.HandleInput, edges[0].TargetHandle())
}

func TestControllerReleaseInEmptySpaceDiscards(t *testing.T) {
	scene, source, _ := testScene(t)
	ctrl := NewController(scene, (&capturedScheduler{}).schedule, nil)

	start := handlePoint(t, scene, source, entities.HandleOutput)
	require.True(t, ctrl.Press(start))
	require.True(t, ctrl.Release(valueobjects.NewPosition(-500, -500)))

	assert.Equal(t, StateIdle, ctrl.State())
	assert.Equal(t, 0, scene.EdgeCount())
}

func TestControllerDropOnOwnHandleDiscards(t *testing.T) {
	scene, source, _ := testScene(t)
	ctrl := NewController(scene, (&capturedScheduler{}).schedule, nil)

	start := handlePoint(t, scene, source, entities.HandleOutput)
	require.True(t, ctrl.Press(start))

	// Dropping back on the origin node cannot form a self-loop: its
	// handles are excluded from the release hit-test.
	require.True(t, ctrl.Release(handlePoint(t, scene, source, entities.HandleInput)))
	assert.Equal(t, 0, scene.EdgeCount())
}

func TestControllerPressAwayFromHandlesFallsThrough(t *testing.T) {
	scene, _, _ := testScene(t)
	ctrl := NewController(scene, (&capturedScheduler{}).schedule, nil)

	assert.False(t, ctrl.Press(valueobjects.NewPosition(-300, -300)))
	assert.Equal(t, StateIdle, ctrl.State())
	assert.False(t, ctrl.Move(valueobjects.NewPosition(-290, -290)))
	assert.False(t, ctrl.Release(valueobjects.NewPosition(-290, -290)))
}

func TestControllerHoverHighlightTracksOneNode(t *testing.T) {
	scene, source, target := testScene(t)
	ctrl := NewController(scene, (&capturedScheduler{}).schedule, nil)

	require.True(t, ctrl.Press(handlePoint(t, scene, source, entities.HandleOutput)))

	require.True(t, ctrl.Move(bodyCenter(t, scene, target)))
	assert.True(t, target.Highlighted())

	require.True(t, ctrl.Move(valueobjects.NewPosition(-400, -400)))
	assert.False(t, target.Highlighted())
}

func TestControllerHoverHighlightsBodyAwayFromHandles(t *testing.T) {
	scene, source, target := testScene(t)
	ctrl := NewController(scene, (&capturedScheduler{}).schedule, nil)

	// The body center of even a small node sits outside the handle hit
	// radius, so the hover preview must hit-test the body, not handles.
	center := bodyCenter(t, scene, target)
	_, onHandle := scene.HitTestHandle(center, valueobjects.NodeID{})
	require.False(t, onHandle)

	require.True(t, ctrl.Press(handlePoint(t, scene, source, entities.HandleOutput)))
	require.True(t, ctrl.Move(center))
	assert.True(t, target.Highlighted())
}

func TestControllerHoverHighlightsOriginNode(t *testing.T) {
	scene, source, _ := testScene(t)
	ctrl := NewController(scene, (&capturedScheduler{}).schedule, nil)

	// Hovering back over the drag origin highlights it like any other
	// node; only the release drop test excludes it.
	require.True(t, ctrl.Press(handlePoint(t, scene, source, entities.HandleOutput)))
	require.True(t, ctrl.Move(bodyCenter(t, scene, source)))
	assert.True(t, source.Highlighted())
}

func TestControllerConnectionFlashExpires(t *testing.T) {
	scene, source, target := testScene(t)
	sched := &capturedScheduler{}
	ctrl := NewController(scene, sched.schedule, nil)

	require.True(t, ctrl.Press(handlePoint(t, scene, source, entities.HandleOutput)))
	require.True(t, ctrl.Release(handlePoint(t, scene, target, entities.HandleInput)))

	assert.True(t, target.Highlighted())
	require.Len(t, sched.delays, 1)
	assert.Equal(t, scene.Config().HighlightDuration, sched.delays[0])

	sched.fireAll()
	assert.False(t, target.Highlighted())
}

func TestControllerStaleFlashCallbackIsNoOp(t *testing.T) {
	scene, source, target := testScene(t)
	sched := &capturedScheduler{}
	ctrl := NewController(scene, sched.schedule, nil)

	require.True(t, ctrl.Press(handlePoint(t, scene, source, entities.HandleOutput)))
	require.True(t, ctrl.Release(handlePoint(t, scene, target, entities.HandleInput)))

	// The target is deleted before the un-highlight fires. The callback
	// holds only the id and must re-check liveness, not crash.
	require.NoError(t, scene.RemoveNode(target.ID()))
	assert.NotPanics(t, func() { sched.fireAll() })
}

func TestControllerCancelDrag(t *testing.T) {
	scene, source, _ := testScene(t)
	ctrl := NewController(scene, (&capturedScheduler{}).schedule, nil)

	require.True(t, ctrl.Press(handlePoint(t, scene, source, entities.HandleOutput)))
	ctrl.CancelDrag()

	assert.Equal(t, StateIdle, ctrl.State())
	assert.Equal(t, 0, scene.EdgeCount())
}

func TestControllerWheelZoomsAboutPointer(t *testing.T) {
	scene, _, _ := testScene(t)
	ctrl := NewController(scene, (&capturedScheduler{}).schedule, nil)

	anchor := valueobjects.NewPosition(200, 150)
	sceneBefore := ctrl.Transform().ToScene(anchor)

	ctrl.Wheel(anchor, 1)
	assert.InDelta(t, 1.2, ctrl.Transform().Scale, 1e-9)

	// The scene point under the pointer stays put.
	sceneAfter := ctrl.Transform().ToScene(anchor)
	assert.InDelta(t, sceneBefore.X, sceneAfter.X, 1e-9)
	assert.InDelta(t, sceneBefore.Y, sceneAfter.Y, 1e-9)

	ctrl.Wheel(anchor, -1)
	assert.InDelta(t, 1.0, ctrl.Transform().Scale, 1e-9)
}

func TestControllerZoomIsUnbounded(t *testing.T) {
	scene, _, _ := testScene(t)
	ctrl := NewController(scene, (&capturedScheduler{}).schedule, nil)

	for i := 0; i < 50; i++ {
		ctrl.Wheel(valueobjects.NewPosition(0, 0), 1)
	}
	assert.Greater(t, ctrl.Transform().Scale, 1000.0)

	for i := 0; i < 100; i++ {
		ctrl.Wheel(valueobjects.NewPosition(0, 0), -1)
	}
	assert.Less(t, ctrl.Transform().Scale, 0.01)
}

func TestControllerPressAppliesInverseTransform(t *testing.T) {
	scene, source, _ := testScene(t)
	ctrl := NewController(scene, (&capturedScheduler{}).schedule, nil)

	// Zoom in away from origin, then press at the transformed handle
	// position; the controller must invert back to scene coordinates.
	ctrl.Wheel(valueobjects.NewPosition(300, 300), 1)

	handleScene := handlePoint(t, scene, source, entities.HandleOutput)
	handleView := ctrl.Transform().ToView(handleScene)

	require.True(t, ctrl.Press(handleView))
	assert.Equal(t, StateDraggingEdge, ctrl.State())
}
