package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager/domain/core/valueobjects"
)

func TestNodeMoveRaisesEvent(t *testing.T) {
	node := NewNode(content(t, "a", "b"), valueobjects.NewPosition(0, 0), 0)
	node.MarkEventsAsCommitted()

	node.MoveTo(valueobjects.NewPosition(50, 60))
	assert.Equal(t, valueobjects.NewPosition(50, 60), node.Position())

	events := node.GetUncommittedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "node.moved", events[0].GetEventType())
}

func TestNodeEditContent(t *testing.T) {
	node := NewNode(content(t, "old", "desc"), valueobjects.Position{}, 0)
	node.MarkEventsAsCommitted()

	node.EditContent(content(t, "new", "desc2"))
	assert.Equal(t, "new", node.Content().Title())
	assert.Equal(t, "desc2", node.Content().Description())
}

func TestNodeIncidentEdgeBookkeeping(t *testing.T) {
	node := NewNode(content(t, "a", ""), valueobjects.Position{}, 0)
	edgeID := valueobjects.NewEdgeID()

	require.NoError(t, node.AttachEdge(edgeID))
	assert.Contains(t, node.IncidentEdges(), edgeID)

	// Attaching the same edge twice is a conflict.
	assert.Error(t, node.AttachEdge(edgeID))

	node.DetachEdge(edgeID)
	assert.Empty(t, node.IncidentEdges())
}

func TestNodeIncidentEdgesReturnsCopy(t *testing.T) {
	node := NewNode(content(t, "a", ""), valueobjects.Position{}, 0)
	require.NoError(t, node.AttachEdge(valueobjects.NewEdgeID()))

	edges := node.IncidentEdges()
	edges[0] = valueobjects.NewEdgeID()
	assert.NotEqual(t, edges[0], node.IncidentEdges()[0])
}

func TestNodeHighlightFlag(t *testing.T) {
	node := NewNode(content(t, "a", ""), valueobjects.Position{}, 0)
	assert.False(t, node.Highlighted())

	node.SetHighlighted(true)
	assert.True(t, node.Highlighted())
}
