package services

import (
	"go.uber.org/zap"

	"voyager/application/ports"
	"voyager/domain/core/aggregates"
	"voyager/domain/core/entities"
	"voyager/domain/core/valueobjects"
	"voyager/infrastructure/persistence/jsondoc"
	pkgerrors "voyager/pkg/errors"
)

// EditorService provides the toolbar-level operations over the scene:
// add, delete, clear, export, import. Pointer-level interaction goes
// through the interaction controller instead.
type EditorService struct {
	scene  *aggregates.Scene
	codec  *jsondoc.Codec
	store  ports.DocumentStore
	logger *zap.Logger
}

// NewEditorService creates an editor service
func NewEditorService(
	scene *aggregates.Scene,
	codec *jsondoc.Codec,
	store ports.DocumentStore,
	logger *zap.Logger,
) *EditorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditorService{
		scene:  scene,
		codec:  codec,
		store:  store,
		logger: logger,
	}
}

// Scene exposes the scene for the UI and the interaction controller
func (s *EditorService) Scene() *aggregates.Scene {
	return s.scene
}

// AddNode creates a node with the default text at the given position,
// typically the center of the visible view.
func (s *EditorService) AddNode(position valueobjects.Position) (*entities.Node, error) {
	content, err := valueobjects.NewNodeContent("Node", "Description")
	if err != nil {
		return nil, err
	}

	node, err := s.scene.AddNode(content, position)
	if err != nil {
		return nil, err
	}

	s.logger.Info("added node",
		zap.String("nodeID", node.ID().String()),
		zap.Float64("x", position.X),
		zap.Float64("y", position.Y),
	)
	return node, nil
}

// DeleteNodes removes the given nodes, cascading their incident edges
func (s *EditorService) DeleteNodes(ids []valueobjects.NodeID) {
	for _, id := range ids {
		if err := s.scene.RemoveNode(id); err != nil {
			s.logger.Warn("delete skipped missing node", zap.String("nodeID", id.String()))
			continue
		}
		s.logger.Info("deleted node", zap.String("nodeID", id.String()))
	}
}

// DeleteEdges removes the given edges, leaving their endpoint nodes
// and any other incident edges intact.
func (s *EditorService) DeleteEdges(ids []valueobjects.EdgeID) {
	for _, id := range ids {
		if err := s.scene.RemoveEdge(id); err != nil {
			s.logger.Warn("delete skipped missing edge", zap.String("edgeID", id.String()))
			continue
		}
		s.logger.Info("deleted edge", zap.String("edgeID", id.String()))
	}
}

// Clear removes everything from the scene
func (s *EditorService) Clear() {
	s.logger.Info("clearing scene",
		zap.Int("nodes", s.scene.NodeCount()),
		zap.Int("edges", s.scene.EdgeCount()),
	)
	s.scene.Clear()
}

// Export serializes the scene and writes it to the given path
func (s *EditorService) Export(path string) error {
	doc := s.codec.Export(s.scene)
	if err := s.store.Write(path, doc); err != nil {
		return err
	}
	return nil
}

// Import replaces the scene with the document at path. The file is
// read and parsed before the scene is cleared, so a bad file leaves
// the current graph unchanged.
func (s *EditorService) Import(path string) (*jsondoc.ImportResult, error) {
	doc, err := s.store.Read(path)
	if err != nil {
		return nil, err
	}

	result, err := s.codec.Import(s.scene, doc)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "import document")
	}

	s.scene.AnnounceImport(path, result.NodesCreated, result.EdgesCreated, result.EdgesSkipped)
	s.logger.Info("imported document",
		zap.String("path", path),
		zap.Int("nodes", result.NodesCreated),
		zap.Int("edges", result.EdgesCreated),
		zap.Int("skipped", result.EdgesSkipped),
	)
	return result, nil
}

// ExportDocument serializes the scene without touching the filesystem
func (s *EditorService) ExportDocument() *jsondoc.Document {
	return s.codec.Export(s.scene)
}
