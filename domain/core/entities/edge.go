package entities

import (
	"time"

	"voyager/domain/core/valueobjects"
)

// CubicBezier is the curve an edge renders as. Control points are
// offset horizontally from the endpoints so the curve reads
// left-to-right regardless of how the endpoints are arranged.
type CubicBezier struct {
	Start    valueobjects.Position
	Control1 valueobjects.Position
	Control2 valueobjects.Position
	End      valueobjects.Position
}

// At evaluates the curve at parameter t in [0,1]
func (b CubicBezier) At(t float64) valueobjects.Position {
	u := 1 - t
	p := b.Start.Scale(u * u * u)
	p = p.Add(b.Control1.Scale(3 * u * u * t))
	p = p.Add(b.Control2.Scale(3 * u * t * t))
	return p.Add(b.End.Scale(t * t * t))
}

// Sample flattens the curve into n+1 points for rendering and bounds
func (b CubicBezier) Sample(n int) []valueobjects.Position {
	if n < 1 {
		n = 1
	}
	points := make([]valueobjects.Position, 0, n+1)
	for i := 0; i <= n; i++ {
		points = append(points, b.At(float64(i)/float64(n)))
	}
	return points
}

// BoundingRect returns the bounds of the sampled curve
func (b CubicBezier) BoundingRect() valueobjects.Rect {
	points := b.Sample(16)
	rect := valueobjects.NewRect(points[0].X, points[0].Y, 0, 0)
	for _, p := range points[1:] {
		rect = rect.Union(valueobjects.NewRect(p.X, p.Y, 0, 0))
	}
	return rect
}

// Edge is a directed curve between two node handles. An edge starts
// PROVISIONAL — the destination unset, the free end tracking the
// pointer — and transitions to FINALIZED exactly once, at a successful
// drop. Provisional edges are never persisted.
type Edge struct {
	id           valueobjects.EdgeID
	sourceID     valueobjects.NodeID
	sourceHandle HandleIndex
	targetID     valueobjects.NodeID
	targetHandle HandleIndex
	floatingEnd  valueobjects.Position
	path         CubicBezier
	createdAt    time.Time
	seq          int
}

// NewProvisionalEdge creates an edge anchored at a source handle with
// its free end at the current pointer position.
func NewProvisionalEdge(sourceID valueobjects.NodeID, sourceHandle HandleIndex, cursor valueobjects.Position, seq int) *Edge {
	return &Edge{
		id:           valueobjects.NewEdgeID(),
		sourceID:     sourceID,
		sourceHandle: sourceHandle,
		floatingEnd:  cursor,
		createdAt:    time.Now(),
		seq:          seq,
	}
}

// NewFinalizedEdge creates an edge bound to handles on two nodes
func NewFinalizedEdge(sourceID valueobjects.NodeID, sourceHandle HandleIndex, targetID valueobjects.NodeID, targetHandle HandleIndex, seq int) *Edge {
	return &Edge{
		id:           valueobjects.NewEdgeID(),
		sourceID:     sourceID,
		sourceHandle: sourceHandle,
		targetID:     targetID,
		targetHandle: targetHandle,
		createdAt:    time.Now(),
		seq:          seq,
	}
}

// ID returns the edge's arena identifier
func (e *Edge) ID() valueobjects.EdgeID {
	return e.id
}

// SourceID returns the source node's identifier
func (e *Edge) SourceID() valueobjects.NodeID {
	return e.sourceID
}

// SourceHandle returns the handle index on the source node
func (e *Edge) SourceHandle() HandleIndex {
	return e.sourceHandle
}

// TargetID returns the destination node's identifier; zero while the
// edge is provisional.
func (e *Edge) TargetID() valueobjects.NodeID {
	return e.targetID
}

// TargetHandle returns the handle index on the destination node
func (e *Edge) TargetHandle() HandleIndex {
	return e.targetHandle
}

// IsFinalized reports whether both endpoints are bound to real handles
func (e *Edge) IsFinalized() bool {
	return !e.targetID.IsZero()
}

// FloatingEnd returns the free endpoint tracked while provisional
func (e *Edge) FloatingEnd() valueobjects.Position {
	return e.floatingEnd
}

// SetFloatingEnd moves the free endpoint to the pointer position
func (e *Edge) SetFloatingEnd(cursor valueobjects.Position) {
	e.floatingEnd = cursor
}

// Seq returns the edge's creation sequence number
func (e *Edge) Seq() int {
	return e.seq
}

// Path returns the last computed curve
func (e *Edge) Path() CubicBezier {
	return e.path
}

// RecomputePath rebuilds the curve for the given endpoint positions.
// Called whenever either endpoint may have moved: on node move
// notification, and on every pointer move while the edge is dragged.
// Control points sit a fixed horizontal offset from each endpoint,
// positive off the start and negative off the end.
func (e *Edge) RecomputePath(start, end valueobjects.Position, controlOffset float64) {
	e.path = CubicBezier{
		Start:    start,
		Control1: start.Add(valueobjects.NewPosition(controlOffset, 0)),
		Control2: end.Sub(valueobjects.NewPosition(controlOffset, 0)),
		End:      end,
	}
}
