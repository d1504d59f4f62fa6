package events

import (
	"time"

	"voyager/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// Node events

// NodeAdded is raised when a new node enters the scene
type NodeAdded struct {
	BaseEvent
	NodeID   valueobjects.NodeID   `json:"node_id"`
	Title    string                `json:"title"`
	Position valueobjects.Position `json:"position"`
}

// NewNodeAdded creates a NodeAdded event
func NewNodeAdded(nodeID valueobjects.NodeID, title string, position valueobjects.Position, timestamp time.Time) NodeAdded {
	return NodeAdded{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.added",
			Timestamp:   timestamp,
		},
		NodeID:   nodeID,
		Title:    title,
		Position: position,
	}
}

// NodeMoved is raised when a node is moved to a new position.
// Scene listeners use it to recompute incident edge paths.
type NodeMoved struct {
	BaseEvent
	NodeID      valueobjects.NodeID   `json:"node_id"`
	OldPosition valueobjects.Position `json:"old_position"`
	NewPosition valueobjects.Position `json:"new_position"`
}

// NewNodeMoved creates a NodeMoved event
func NewNodeMoved(nodeID valueobjects.NodeID, oldPos, newPos valueobjects.Position, timestamp time.Time) NodeMoved {
	return NodeMoved{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.moved",
			Timestamp:   timestamp,
		},
		NodeID:      nodeID,
		OldPosition: oldPos,
		NewPosition: newPos,
	}
}

// NodeContentEdited is raised when a node's title or description changes
type NodeContentEdited struct {
	BaseEvent
	NodeID   valueobjects.NodeID `json:"node_id"`
	OldTitle string              `json:"old_title"`
	NewTitle string              `json:"new_title"`
}

// NewNodeContentEdited creates a NodeContentEdited event
func NewNodeContentEdited(nodeID valueobjects.NodeID, oldTitle, newTitle string, timestamp time.Time) NodeContentEdited {
	return NodeContentEdited{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.content_edited",
			Timestamp:   timestamp,
		},
		NodeID:   nodeID,
		OldTitle: oldTitle,
		NewTitle: newTitle,
	}
}

// NodeHighlightChanged is raised when the transient highlight flips.
// Repaint only; never persisted.
type NodeHighlightChanged struct {
	BaseEvent
	NodeID      valueobjects.NodeID `json:"node_id"`
	Highlighted bool                `json:"highlighted"`
}

// NewNodeHighlightChanged creates a NodeHighlightChanged event
func NewNodeHighlightChanged(nodeID valueobjects.NodeID, highlighted bool, timestamp time.Time) NodeHighlightChanged {
	return NodeHighlightChanged{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.highlight_changed",
			Timestamp:   timestamp,
		},
		NodeID:      nodeID,
		Highlighted: highlighted,
	}
}

// NodeRemoved is raised after a node and its incident edges left the scene
type NodeRemoved struct {
	BaseEvent
	NodeID valueobjects.NodeID `json:"node_id"`
}

// NewNodeRemoved creates a NodeRemoved event
func NewNodeRemoved(nodeID valueobjects.NodeID, timestamp time.Time) NodeRemoved {
	return NodeRemoved{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.removed",
			Timestamp:   timestamp,
		},
		NodeID: nodeID,
	}
}

// Edge events

// NodesConnected is raised when a finalized edge binds two handles
type NodesConnected struct {
	BaseEvent
	EdgeID   valueobjects.EdgeID `json:"edge_id"`
	SourceID valueobjects.NodeID `json:"source_id"`
	TargetID valueobjects.NodeID `json:"target_id"`
}

// NewNodesConnected creates a NodesConnected event
func NewNodesConnected(edgeID valueobjects.EdgeID, sourceID, targetID valueobjects.NodeID, timestamp time.Time) NodesConnected {
	return NodesConnected{
		BaseEvent: BaseEvent{
			AggregateID: edgeID.String(),
			EventType:   "edge.connected",
			Timestamp:   timestamp,
		},
		EdgeID:   edgeID,
		SourceID: sourceID,
		TargetID: targetID,
	}
}

// EdgeRemoved is raised when an edge leaves the scene, either by
// explicit delete or by cascade from a node delete.
type EdgeRemoved struct {
	BaseEvent
	EdgeID valueobjects.EdgeID `json:"edge_id"`
}

// NewEdgeRemoved creates an EdgeRemoved event
func NewEdgeRemoved(edgeID valueobjects.EdgeID, timestamp time.Time) EdgeRemoved {
	return EdgeRemoved{
		BaseEvent: BaseEvent{
			AggregateID: edgeID.String(),
			EventType:   "edge.removed",
			Timestamp:   timestamp,
		},
		EdgeID: edgeID,
	}
}

// Scene events

// SceneCleared is raised after every node and edge was removed at once
type SceneCleared struct {
	BaseEvent
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// NewSceneCleared creates a SceneCleared event
func NewSceneCleared(nodeCount, edgeCount int, timestamp time.Time) SceneCleared {
	return SceneCleared{
		BaseEvent: BaseEvent{
			AggregateID: "scene",
			EventType:   "scene.cleared",
			Timestamp:   timestamp,
		},
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}
}

// DocumentImported is raised after a document replaced the scene contents
type DocumentImported struct {
	BaseEvent
	Path         string `json:"path"`
	NodeCount    int    `json:"node_count"`
	EdgeCount    int    `json:"edge_count"`
	SkippedEdges int    `json:"skipped_edges"`
}

// NewDocumentImported creates a DocumentImported event
func NewDocumentImported(path string, nodeCount, edgeCount, skippedEdges int, timestamp time.Time) DocumentImported {
	return DocumentImported{
		BaseEvent: BaseEvent{
			AggregateID: "scene",
			EventType:   "document.imported",
			Timestamp:   timestamp,
		},
		Path:         path,
		NodeCount:    nodeCount,
		EdgeCount:    edgeCount,
		SkippedEdges: skippedEdges,
	}
}
