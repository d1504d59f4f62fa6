package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager/domain/config"
	"voyager/domain/core/entities"
	"voyager/domain/core/valueobjects"
	"voyager/domain/events"
)

func mustContent(t *testing.T, title, description string) valueobjects.NodeContent {
	t.Helper()
	content, err := valueobjects.NewNodeContent(title, description)
	require.NoError(t, err)
	return content
}

func addNode(t *testing.T, scene *Scene, title string, x, y float64) *entities.Node {
	t.Helper()
	node, err := scene.AddNode(mustContent(t, title, "Description"), valueobjects.NewPosition(x, y))
	require.NoError(t, err)
	return node
}

func TestSceneAddAndRetrieveNode(t *testing.T) {
	scene := NewScene(nil)
	node := addNode(t, scene, "Login", 10, 20)

	got, err := scene.Node(node.ID())
	require.NoError(t, err)
	assert.Equal(t, "Login", got.Content().Title())
	assert.True(t, scene.HasNode(node.ID()))
	assert.Equal(t, 1, scene.NodeCount())
}

func TestSceneNodesReturnedInCreationOrder(t *testing.T) {
	scene := NewScene(nil)
	first := addNode(t, scene, "first", 0, 0)
	second := addNode(t, scene, "second", 0, 0)
	third := addNode(t, scene, "third", 0, 0)

	nodes := scene.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, first.ID(), nodes[0].ID())
	assert.Equal(t, second.ID(), nodes[1].ID())
	assert.Equal(t, third.ID(), nodes[2].ID())
}

func TestSceneConnectRecordsIncidence(t *testing.T) {
	scene := NewScene(nil)
	source := addNode(t, scene, "a", 0, 0)
	target := addNode(t, scene, "b", 300, 0)

	edge, err := scene.Connect(source.ID(), entities.HandleOutput, target.ID(), entities.HandleInput)
	require.NoError(t, err)

	assert.True(t, edge.IsFinalized())
	assert.Contains(t, source.IncidentEdges(), edge.ID())
	assert.Contains(t, target.IncidentEdges(), edge.ID())
	assert.Equal(t, 1, scene.EdgeCount())
}

func TestSceneConnectRejectsSelfLoop(t *testing.T) {
	scene := NewScene(nil)
	node := addNode(t, scene, "a", 0, 0)

	_, err := scene.Connect(node.ID(), entities.HandleOutput, node.ID(), entities.HandleInput)
	assert.Error(t, err)
	assert.Equal(t, 0, scene.EdgeCount())
}

func TestSceneConnectRejectsMissingEndpoint(t *testing.T) {
	scene := NewScene(nil)
	node := addNode(t, scene, "a", 0, 0)

	_, err := scene.Connect(node.ID(), entities.HandleOutput, valueobjects.NewNodeID(), entities.HandleInput)
	assert.Error(t, err)
}

func TestSceneConnectRejectsInvalidHandle(t *testing.T) {
	scene := NewScene(nil)
	a := addNode(t, scene, "a", 0, 0)
	b := addNode(t, scene, "b", 300, 0)

	_, err := scene.Connect(a.ID(), entities.HandleIndex(7), b.ID(), entities.HandleInput)
	assert.Error(t, err)
}

func TestSceneRemoveNodeCascadesEdges(t *testing.T) {
	scene := NewScene(nil)
	a := addNode(t, scene, "a", 0, 0)
	b := addNode(t, scene, "b", 300, 0)
	c := addNode(t, scene, "c", 600, 0)

	ab, err := scene.Connect(a.ID(), entities.HandleOutput, b.ID(), entities.HandleInput)
	require.NoError(t, err)
	bc, err := scene.Connect(b.ID(), entities.HandleOutput, c.ID(), entities.HandleInput)
	require.NoError(t, err)

	require.NoError(t, scene.RemoveNode(b.ID()))

	assert.False(t, scene.HasNode(b.ID()))
	_, err = scene.Edge(ab.ID())
	assert.Error(t, err)
	_, err = scene.Edge(bc.ID())
	assert.Error(t, err)

	// Survivors carry no references to the destroyed edges.
	assert.Empty(t, a.IncidentEdges())
	assert.Empty(t, c.IncidentEdges())
	assert.Equal(t, 0, scene.EdgeCount())
}

func TestSceneRemoveEdgeLeavesNodes(t *testing.T) {
	scene := NewScene(nil)
	a := addNode(t, scene, "a", 0, 0)
	b := addNode(t, scene, "b", 300, 0)
	edge, err := scene.Connect(a.ID(), entities.HandleOutput, b.ID(), entities.HandleInput)
	require.NoError(t, err)

	require.NoError(t, scene.RemoveEdge(edge.ID()))

	assert.True(t, scene.HasNode(a.ID()))
	assert.True(t, scene.HasNode(b.ID()))
	assert.Empty(t, a.IncidentEdges())
	assert.Empty(t, b.IncidentEdges())
}

func TestSceneMoveNodeRecomputesEdgePaths(t *testing.T) {
	scene := NewScene(nil)
	a := addNode(t, scene, "a", 0, 0)
	b := addNode(t, scene, "b", 300, 0)
	edge, err := scene.Connect(a.ID(), entities.HandleOutput, b.ID(), entities.HandleInput)
	require.NoError(t, err)

	before := edge.Path()
	require.NoError(t, scene.MoveNode(a.ID(), valueobjects.NewPosition(50, 80)))
	after := edge.Path()

	assert.NotEqual(t, before.Start, after.Start)

	wantStart, err := scene.HandleScenePosition(a.ID(), entities.HandleOutput)
	require.NoError(t, err)
	assert.Equal(t, wantStart, after.Start)

	wantEnd, err := scene.HandleScenePosition(b.ID(), entities.HandleInput)
	require.NoError(t, err)
	assert.Equal(t, wantEnd, after.End)
}

func TestSceneProvisionalEdgeLifecycle(t *testing.T) {
	scene := NewScene(nil)
	source := addNode(t, scene, "a", 0, 0)

	edge, err := scene.BeginProvisionalEdge(source.ID(), entities.HandleOutput, valueobjects.NewPosition(100, 100))
	require.NoError(t, err)
	assert.False(t, edge.IsFinalized())

	// Provisional edges render but are not attached to the source.
	assert.Empty(t, source.IncidentEdges())
	assert.Len(t, scene.Edges(), 1)
	assert.Empty(t, scene.FinalizedEdges())

	require.NoError(t, scene.UpdateProvisionalEdge(edge.ID(), valueobjects.NewPosition(150, 120)))
	assert.Equal(t, valueobjects.NewPosition(150, 120), edge.Path().End)

	scene.DiscardProvisionalEdge(edge.ID())
	assert.Equal(t, 0, scene.EdgeCount())
}

func TestSceneClearRemovesEverything(t *testing.T) {
	scene := NewScene(nil)
	a := addNode(t, scene, "a", 0, 0)
	b := addNode(t, scene, "b", 300, 0)
	_, err := scene.Connect(a.ID(), entities.HandleOutput, b.ID(), entities.HandleInput)
	require.NoError(t, err)

	scene.Clear()

	assert.Equal(t, 0, scene.NodeCount())
	assert.Equal(t, 0, scene.EdgeCount())
	assert.False(t, scene.HasNode(a.ID()))
}

func TestSceneHitTestHandleUsesManhattanRadius(t *testing.T) {
	scene := NewScene(nil)
	node := addNode(t, scene, "a", 100, 100)

	handlePos, err := scene.HandleScenePosition(node.ID(), entities.HandleInput)
	require.NoError(t, err)

	// Just inside the radius: |dx| + |dy| = 19.
	hit, ok := scene.HitTestHandle(handlePos.Add(valueobjects.NewPosition(10, 9)), valueobjects.NodeID{})
	require.True(t, ok)
	assert.Equal(t, node.ID(), hit.NodeID)
	assert.Equal(t, entities.HandleInput, hit.Handle)

	// On the boundary the test is strict.
	_, ok = scene.HitTestHandle(handlePos.Add(valueobjects.NewPosition(10, 10)), valueobjects.NodeID{})
	assert.False(t, ok)
}

func TestSceneHitTestHandleExcludesDragOrigin(t *testing.T) {
	scene := NewScene(nil)
	node := addNode(t, scene, "a", 100, 100)

	handlePos, err := scene.HandleScenePosition(node.ID(), entities.HandleOutput)
	require.NoError(t, err)

	_, ok := scene.HitTestHandle(handlePos, node.ID())
	assert.False(t, ok)
}

func TestSceneNodeAtPrefersTopmost(t *testing.T) {
	scene := NewScene(nil)
	addNode(t, scene, "under", 100, 100)
	top := addNode(t, scene, "over", 110, 110)

	id, ok := scene.NodeAt(valueobjects.NewPosition(120, 120))
	require.True(t, ok)
	assert.Equal(t, top.ID(), id)
}

func TestSceneHighlightHelpers(t *testing.T) {
	scene := NewScene(nil)
	a := addNode(t, scene, "a", 0, 0)
	b := addNode(t, scene, "b", 300, 0)

	require.NoError(t, scene.SetHighlighted(a.ID(), true))
	require.NoError(t, scene.SetHighlighted(b.ID(), true))

	scene.ClearHighlightsExcept(b.ID())
	assert.False(t, a.Highlighted())
	assert.True(t, b.Highlighted())
}

func TestSceneObserverSeesEvents(t *testing.T) {
	scene := NewScene(nil)

	var types []string
	scene.Subscribe(func(event events.DomainEvent) {
		types = append(types, event.GetEventType())
	})

	a := addNode(t, scene, "a", 0, 0)
	b := addNode(t, scene, "b", 300, 0)
	_, err := scene.Connect(a.ID(), entities.HandleOutput, b.ID(), entities.HandleInput)
	require.NoError(t, err)
	require.NoError(t, scene.RemoveNode(a.ID()))

	assert.Contains(t, types, "node.added")
	assert.Contains(t, types, "edge.connected")
	assert.Contains(t, types, "edge.removed")
	assert.Contains(t, types, "node.removed")
}

func TestSceneNodeLimit(t *testing.T) {
	cfg := config.DefaultEditorConfig()
	cfg.MaxNodesPerScene = 2
	scene := NewScene(cfg)

	addNode(t, scene, "a", 0, 0)
	addNode(t, scene, "b", 0, 0)

	_, err := scene.AddNode(mustContent(t, "c", ""), valueobjects.NewPosition(0, 0))
	assert.Error(t, err)
}

func TestSceneDuplicateEdgesAllowedByDefault(t *testing.T) {
	scene := NewScene(nil)
	a := addNode(t, scene, "a", 0, 0)
	b := addNode(t, scene, "b", 300, 0)

	_, err := scene.Connect(a.ID(), entities.HandleOutput, b.ID(), entities.HandleInput)
	require.NoError(t, err)
	_, err = scene.Connect(a.ID(), entities.HandleOutput, b.ID(), entities.HandleInput)
	assert.NoError(t, err)
	assert.Equal(t, 2, scene.EdgeCount())
}
