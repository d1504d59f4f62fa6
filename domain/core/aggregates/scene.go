package aggregates

import (
	"sort"
	"time"

	"voyager/domain/config"
	"voyager/domain/core/entities"
	"voyager/domain/core/valueobjects"
	"voyager/domain/events"
	pkgerrors "voyager/pkg/errors"
)

// Scene is the aggregate root for the flow being edited. It is the
// arena that owns every node and edge: edges hold node ids, nodes hold
// incident edge ids, and removal from these maps is the only place
// identity is invalidated. Deferred callbacks therefore hold ids and
// check membership here instead of keeping entity pointers.
type Scene struct {
	cfg     *config.EditorConfig
	layout  entities.Layout
	nodes   map[valueobjects.NodeID]*entities.Node
	edges   map[valueobjects.EdgeID]*entities.Edge
	nextSeq int

	events    []events.DomainEvent
	observers []func(events.DomainEvent)
}

// NewScene creates an empty scene with the given editor configuration
func NewScene(cfg *config.EditorConfig) *Scene {
	if cfg == nil {
		cfg = config.DefaultEditorConfig()
	}
	return &Scene{
		cfg:    cfg,
		layout: entities.NewLayout(cfg),
		nodes:  make(map[valueobjects.NodeID]*entities.Node),
		edges:  make(map[valueobjects.EdgeID]*entities.Edge),
		events: []events.DomainEvent{},
	}
}

// Layout returns the geometry helper bound to this scene's configuration
func (s *Scene) Layout() entities.Layout {
	return s.layout
}

// SetTextMeasurer replaces the text measurer, e.g. with real font
// metrics from the UI layer. Geometry is recomputed on every query so
// no cached sizes need invalidating.
func (s *Scene) SetTextMeasurer(measure entities.TextMeasurer) {
	if measure != nil {
		s.layout.Measure = measure
	}
}

// Config returns the editor configuration
func (s *Scene) Config() *config.EditorConfig {
	return s.cfg
}

// Subscribe registers an observer for every domain event the scene
// raises. Observers run synchronously on the mutating call.
func (s *Scene) Subscribe(observer func(events.DomainEvent)) {
	if observer != nil {
		s.observers = append(s.observers, observer)
	}
}

// Node lifecycle

// AddNode creates a node at the given scene position
func (s *Scene) AddNode(content valueobjects.NodeContent, position valueobjects.Position) (*entities.Node, error) {
	if len(s.nodes) >= s.cfg.MaxNodesPerScene {
		return nil, pkgerrors.NewConflictError("maximum nodes reached")
	}

	node := entities.NewNode(content, position, s.nextSeq)
	s.nextSeq++
	s.nodes[node.ID()] = node
	s.collectFrom(node)

	return node, nil
}

// Node retrieves a node by ID
func (s *Scene) Node(id valueobjects.NodeID) (*entities.Node, error) {
	node, exists := s.nodes[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	return node, nil
}

// HasNode checks membership without error. This is the liveness check
// deferred callbacks use before touching a possibly-deleted node.
func (s *Scene) HasNode(id valueobjects.NodeID) bool {
	_, exists := s.nodes[id]
	return exists
}

// Nodes returns all nodes in creation order
func (s *Scene) Nodes() []*entities.Node {
	nodes := make([]*entities.Node, 0, len(s.nodes))
	for _, node := range s.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Seq() < nodes[j].Seq() })
	return nodes
}

// NodeCount returns the number of nodes in the scene
func (s *Scene) NodeCount() int {
	return len(s.nodes)
}

// MoveNode moves a node and recomputes the path of every incident
// edge, keeping edges visually attached during drags.
func (s *Scene) MoveNode(id valueobjects.NodeID, position valueobjects.Position) error {
	node, exists := s.nodes[id]
	if !exists {
		return pkgerrors.NewNotFoundError("node")
	}

	node.MoveTo(position)
	for _, edgeID := range node.IncidentEdges() {
		if edge, ok := s.edges[edgeID]; ok {
			s.recomputeEdgePath(edge)
		}
	}
	s.collectFrom(node)

	return nil
}

// EditNodeContent replaces a node's title and description. Incident
// edge paths are recomputed because handle positions depend on the
// bounding rectangle, which depends on the text.
func (s *Scene) EditNodeContent(id valueobjects.NodeID, content valueobjects.NodeContent) error {
	node, exists := s.nodes[id]
	if !exists {
		return pkgerrors.NewNotFoundError("node")
	}

	node.EditContent(content)
	for _, edgeID := range node.IncidentEdges() {
		if edge, ok := s.edges[edgeID]; ok {
			s.recomputeEdgePath(edge)
		}
	}
	s.collectFrom(node)

	return nil
}

// SetHighlighted flips a node's transient highlight flag
func (s *Scene) SetHighlighted(id valueobjects.NodeID, highlighted bool) error {
	node, exists := s.nodes[id]
	if !exists {
		return pkgerrors.NewNotFoundError("node")
	}
	node.SetHighlighted(highlighted)
	s.collectFrom(node)
	return nil
}

// ClearHighlightsExcept un-highlights every node other than the given
// one. Used during edge drags so at most one hover target is lit.
func (s *Scene) ClearHighlightsExcept(keep valueobjects.NodeID) {
	for id, node := range s.nodes {
		if !id.Equals(keep) && node.Highlighted() {
			node.SetHighlighted(false)
			s.collectFrom(node)
		}
	}
}

// RemoveNode deletes a node. Incident edges are detached and destroyed
// first; removing the node first would leave dangling edge references.
func (s *Scene) RemoveNode(id valueobjects.NodeID) error {
	node, exists := s.nodes[id]
	if !exists {
		return pkgerrors.NewNotFoundError("node")
	}

	for _, edgeID := range node.IncidentEdges() {
		s.removeEdgeByID(edgeID)
	}

	delete(s.nodes, id)
	s.raise(events.NewNodeRemoved(id, time.Now()))

	return nil
}

// Edge lifecycle

// BeginProvisionalEdge anchors a new edge at a source handle with its
// free end at the pointer. The edge lives in the arena so it renders,
// but is excluded from persistence until finalized.
func (s *Scene) BeginProvisionalEdge(sourceID valueobjects.NodeID, handle entities.HandleIndex, cursor valueobjects.Position) (*entities.Edge, error) {
	if !handle.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid handle index")
	}
	if _, exists := s.nodes[sourceID]; !exists {
		return nil, pkgerrors.NewNotFoundError("source node")
	}

	edge := entities.NewProvisionalEdge(sourceID, handle, cursor, s.nextSeq)
	s.nextSeq++
	s.edges[edge.ID()] = edge
	s.recomputeEdgePath(edge)

	return edge, nil
}

// UpdateProvisionalEdge moves the free endpoint and recomputes the path
func (s *Scene) UpdateProvisionalEdge(edgeID valueobjects.EdgeID, cursor valueobjects.Position) error {
	edge, exists := s.edges[edgeID]
	if !exists {
		return pkgerrors.NewNotFoundError("edge")
	}
	if edge.IsFinalized() {
		return pkgerrors.NewConflictError("edge is already finalized")
	}

	edge.SetFloatingEnd(cursor)
	s.recomputeEdgePath(edge)

	return nil
}

// DiscardProvisionalEdge drops an unfinished edge. No incident sets
// are touched: a provisional edge was never attached to either node.
func (s *Scene) DiscardProvisionalEdge(edgeID valueobjects.EdgeID) {
	if edge, exists := s.edges[edgeID]; exists && !edge.IsFinalized() {
		delete(s.edges, edgeID)
	}
}

// Connect creates a finalized edge between two handles and records it
// in both nodes' incident sets.
func (s *Scene) Connect(sourceID valueobjects.NodeID, sourceHandle entities.HandleIndex, targetID valueobjects.NodeID, targetHandle entities.HandleIndex) (*entities.Edge, error) {
	sourceNode, sourceExists := s.nodes[sourceID]
	targetNode, targetExists := s.nodes[targetID]
	if !sourceExists || !targetExists {
		return nil, pkgerrors.NewNotFoundError("edge endpoint node")
	}
	if !sourceHandle.IsValid() || !targetHandle.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid handle index")
	}
	if sourceID.Equals(targetID) && !s.cfg.AllowSelfConnections {
		return nil, pkgerrors.NewValidationError("cannot connect node to itself")
	}
	if len(s.edges) >= s.cfg.MaxEdgesPerScene {
		return nil, pkgerrors.NewConflictError("maximum edges reached")
	}
	if !s.cfg.AllowDuplicateEdges && s.hasEdgeBetween(sourceID, sourceHandle, targetID, targetHandle) {
		return nil, pkgerrors.NewConflictError("edge already exists")
	}

	edge := entities.NewFinalizedEdge(sourceID, sourceHandle, targetID, targetHandle, s.nextSeq)
	s.nextSeq++

	if err := sourceNode.AttachEdge(edge.ID()); err != nil {
		return nil, err
	}
	if err := targetNode.AttachEdge(edge.ID()); err != nil {
		sourceNode.DetachEdge(edge.ID())
		return nil, err
	}

	s.edges[edge.ID()] = edge
	s.recomputeEdgePath(edge)
	s.raise(events.NewNodesConnected(edge.ID(), sourceID, targetID, time.Now()))

	return edge, nil
}

// Edge retrieves an edge by ID
func (s *Scene) Edge(id valueobjects.EdgeID) (*entities.Edge, error) {
	edge, exists := s.edges[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("edge")
	}
	return edge, nil
}

// Edges returns all edges, provisional included, in creation order
func (s *Scene) Edges() []*entities.Edge {
	edges := make([]*entities.Edge, 0, len(s.edges))
	for _, edge := range s.edges {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Seq() < edges[j].Seq() })
	return edges
}

// FinalizedEdges returns only edges eligible for persistence
func (s *Scene) FinalizedEdges() []*entities.Edge {
	edges := make([]*entities.Edge, 0, len(s.edges))
	for _, edge := range s.Edges() {
		if edge.IsFinalized() {
			edges = append(edges, edge)
		}
	}
	return edges
}

// EdgeCount returns the number of edges in the scene
func (s *Scene) EdgeCount() int {
	return len(s.edges)
}

// RemoveEdge deletes a single edge and detaches it from both incident
// sets, leaving the endpoint nodes intact.
func (s *Scene) RemoveEdge(id valueobjects.EdgeID) error {
	if _, exists := s.edges[id]; !exists {
		return pkgerrors.NewNotFoundError("edge")
	}
	s.removeEdgeByID(id)
	return nil
}

// Clear removes every node and edge at once
func (s *Scene) Clear() {
	nodeCount := len(s.nodes)
	edgeCount := len(s.edges)
	s.nodes = make(map[valueobjects.NodeID]*entities.Node)
	s.edges = make(map[valueobjects.EdgeID]*entities.Edge)
	s.raise(events.NewSceneCleared(nodeCount, edgeCount, time.Now()))
}

// AnnounceImport records a DocumentImported event after a document has
// replaced the scene contents. The codec rebuilds the scene node by
// node; this is the single event observers see for the whole import.
func (s *Scene) AnnounceImport(path string, nodes, edges, skipped int) {
	s.raise(events.NewDocumentImported(path, nodes, edges, skipped, time.Now()))
}

// Geometry queries

// NodeBoundingRect returns a node's bounding rectangle in scene coordinates
func (s *Scene) NodeBoundingRect(id valueobjects.NodeID) (valueobjects.Rect, error) {
	node, exists := s.nodes[id]
	if !exists {
		return valueobjects.Rect{}, pkgerrors.NewNotFoundError("node")
	}
	return s.layout.BoundingRect(node.Content()).Translated(node.Position()), nil
}

// HandleScenePosition returns a handle position in scene coordinates
func (s *Scene) HandleScenePosition(id valueobjects.NodeID, handle entities.HandleIndex) (valueobjects.Position, error) {
	node, exists := s.nodes[id]
	if !exists {
		return valueobjects.Position{}, pkgerrors.NewNotFoundError("node")
	}
	return s.layout.HandlePosition(node.Content(), handle).Add(node.Position()), nil
}

// HandleHit is a successful handle hit-test result
type HandleHit struct {
	NodeID valueobjects.NodeID
	Handle entities.HandleIndex
}

// HitTestHandle finds a handle within the configured hit radius of a
// scene point, excluding one node (the drag origin, so self-loops are
// impossible by construction). The test runs in node-local space on an
// inverse-transformed point, so the radius is zoom-independent.
func (s *Scene) HitTestHandle(scenePoint valueobjects.Position, exclude valueobjects.NodeID) (HandleHit, bool) {
	for _, node := range s.Nodes() {
		if node.ID().Equals(exclude) {
			continue
		}
		local := scenePoint.Sub(node.Position())
		for _, handle := range []entities.HandleIndex{entities.HandleInput, entities.HandleOutput} {
			handlePos := s.layout.HandlePosition(node.Content(), handle)
			if local.Sub(handlePos).ManhattanLength() < s.cfg.HandleHitRadius {
				return HandleHit{NodeID: node.ID(), Handle: handle}, true
			}
		}
	}
	return HandleHit{}, false
}

// NodeAt returns the topmost node whose bounding rectangle contains
// the scene point. Later-created nodes win, matching paint order.
func (s *Scene) NodeAt(scenePoint valueobjects.Position) (valueobjects.NodeID, bool) {
	nodes := s.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		rect := s.layout.BoundingRect(nodes[i].Content()).Translated(nodes[i].Position())
		if rect.Contains(scenePoint) {
			return nodes[i].ID(), true
		}
	}
	return valueobjects.NodeID{}, false
}

// Events

// GetUncommittedEvents returns all uncommitted domain events
func (s *Scene) GetUncommittedEvents() []events.DomainEvent {
	evts := make([]events.DomainEvent, len(s.events))
	copy(evts, s.events)
	return evts
}

// MarkEventsAsCommitted clears all uncommitted events
func (s *Scene) MarkEventsAsCommitted() {
	s.events = []events.DomainEvent{}
}

// Private helpers

// recomputeEdgePath rebinds an edge's curve to its current endpoint
// positions: the source handle, and either the target handle or the
// floating pointer position while provisional.
func (s *Scene) recomputeEdgePath(edge *entities.Edge) {
	start, err := s.HandleScenePosition(edge.SourceID(), edge.SourceHandle())
	if err != nil {
		return
	}

	end := edge.FloatingEnd()
	if edge.IsFinalized() {
		if pos, err := s.HandleScenePosition(edge.TargetID(), edge.TargetHandle()); err == nil {
			end = pos
		}
	}

	edge.RecomputePath(start, end, s.cfg.CurveControlOffset)
}

func (s *Scene) hasEdgeBetween(sourceID valueobjects.NodeID, sourceHandle entities.HandleIndex, targetID valueobjects.NodeID, targetHandle entities.HandleIndex) bool {
	for _, edge := range s.edges {
		if edge.IsFinalized() &&
			edge.SourceID().Equals(sourceID) && edge.SourceHandle() == sourceHandle &&
			edge.TargetID().Equals(targetID) && edge.TargetHandle() == targetHandle {
			return true
		}
	}
	return false
}

func (s *Scene) removeEdgeByID(id valueobjects.EdgeID) {
	edge, exists := s.edges[id]
	if !exists {
		return
	}

	if source, ok := s.nodes[edge.SourceID()]; ok {
		source.DetachEdge(id)
	}
	if edge.IsFinalized() {
		if target, ok := s.nodes[edge.TargetID()]; ok {
			target.DetachEdge(id)
		}
	}

	delete(s.edges, id)
	s.raise(events.NewEdgeRemoved(id, time.Now()))
}

// collectFrom drains an entity's uncommitted events into the scene's
// stream and notifies observers.
func (s *Scene) collectFrom(node *entities.Node) {
	for _, event := range node.GetUncommittedEvents() {
		s.raise(event)
	}
	node.MarkEventsAsCommitted()
}

func (s *Scene) raise(event events.DomainEvent) {
	s.events = append(s.events, event)
	for _, observer := range s.observers {
		observer(event)
	}
}
