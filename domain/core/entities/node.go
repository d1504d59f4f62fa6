package entities

import (
	"time"

	"voyager/domain/core/valueobjects"
	"voyager/domain/events"
	pkgerrors "voyager/pkg/errors"
)

// Node is the main entity representing one step in the flow.
// This is a rich domain model with encapsulated state; all structural
// mutation (incident edges, deletion) goes through the Scene aggregate.
type Node struct {
	// Private fields ensure encapsulation
	id          valueobjects.NodeID
	content     valueobjects.NodeContent
	position    valueobjects.Position
	highlighted bool
	edges       []valueobjects.EdgeID
	createdAt   time.Time
	updatedAt   time.Time
	seq         int

	// Domain events that occurred during this entity's lifetime
	events []events.DomainEvent
}

// NewNode creates a new node at the given scene position
func NewNode(content valueobjects.NodeContent, position valueobjects.Position, seq int) *Node {
	now := time.Now()
	node := &Node{
		id:        valueobjects.NewNodeID(),
		content:   content,
		position:  position,
		edges:     []valueobjects.EdgeID{},
		createdAt: now,
		updatedAt: now,
		seq:       seq,
		events:    []events.DomainEvent{},
	}

	node.addEvent(events.NewNodeAdded(node.id, content.Title(), position, now))

	return node
}

// ID returns the node's unique identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// Content returns the node's editable text
func (n *Node) Content() valueobjects.NodeContent {
	return n.content
}

// Position returns the node's scene position
func (n *Node) Position() valueobjects.Position {
	return n.position
}

// Highlighted returns the transient hover/drop highlight state.
// Never persisted and never part of layout.
func (n *Node) Highlighted() bool {
	return n.highlighted
}

// Seq returns the node's creation sequence number, used to keep
// document output in a stable order.
func (n *Node) Seq() int {
	return n.seq
}

// CreatedAt returns when the node was created
func (n *Node) CreatedAt() time.Time {
	return n.createdAt
}

// UpdatedAt returns when the node was last modified
func (n *Node) UpdatedAt() time.Time {
	return n.updatedAt
}

// MoveTo moves the node to a new scene position. The raised NodeMoved
// event is what keeps incident edges visually attached: the scene
// recomputes their paths on every discrete move, not just at drag end.
func (n *Node) MoveTo(position valueobjects.Position) {
	if n.position.Equals(position) {
		return
	}

	oldPosition := n.position
	n.position = position
	n.updatedAt = time.Now()

	n.addEvent(events.NewNodeMoved(n.id, oldPosition, position, n.updatedAt))
}

// EditContent replaces the node's title and description
func (n *Node) EditContent(content valueobjects.NodeContent) {
	if n.content.Equals(content) {
		return
	}

	oldContent := n.content
	n.content = content
	n.updatedAt = time.Now()

	n.addEvent(events.NewNodeContentEdited(n.id, oldContent.Title(), content.Title(), n.updatedAt))
}

// SetHighlighted flips the transient highlight flag; repaint only
func (n *Node) SetHighlighted(highlighted bool) {
	if n.highlighted == highlighted {
		return
	}
	n.highlighted = highlighted
	n.addEvent(events.NewNodeHighlightChanged(n.id, highlighted, time.Now()))
}

// IncidentEdges returns a copy of the node's incident edge set: every
// edge where this node is source or destination.
func (n *Node) IncidentEdges() []valueobjects.EdgeID {
	edges := make([]valueobjects.EdgeID, len(n.edges))
	copy(edges, n.edges)
	return edges
}

// AttachEdge records an edge in the incident set. Called by the scene
// whenever an edge binds to one of this node's handles.
func (n *Node) AttachEdge(edgeID valueobjects.EdgeID) error {
	for _, existing := range n.edges {
		if existing.Equals(edgeID) {
			return pkgerrors.NewConflictError("edge already attached to node")
		}
	}
	n.edges = append(n.edges, edgeID)
	return nil
}

// DetachEdge removes an edge from the incident set
func (n *Node) DetachEdge(edgeID valueobjects.EdgeID) {
	for i, existing := range n.edges {
		if existing.Equals(edgeID) {
			n.edges = append(n.edges[:i], n.edges[i+1:]...)
			return
		}
	}
}

// GetUncommittedEvents returns all uncommitted domain events
func (n *Node) GetUncommittedEvents() []events.DomainEvent {
	evts := make([]events.DomainEvent, len(n.events))
	copy(evts, n.events)
	return evts
}

// MarkEventsAsCommitted clears all uncommitted events
func (n *Node) MarkEventsAsCommitted() {
	n.events = []events.DomainEvent{}
}

func (n *Node) addEvent(event events.DomainEvent) {
	n.events = append(n.events, event)
}
