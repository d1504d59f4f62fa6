package jsondoc

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"voyager/domain/core/aggregates"
	"voyager/domain/core/entities"
	"voyager/domain/core/valueobjects"
	pkgerrors "voyager/pkg/errors"
)

// Codec converts between the in-memory scene and the document form
type Codec struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCodec creates a codec
func NewCodec(logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{
		validate: validator.New(),
		logger:   logger,
	}
}

// Export walks the scene into a document: every node, then every
// finalized edge. Provisional edges are excluded by construction.
func (c *Codec) Export(scene *aggregates.Scene) *Document {
	doc := &Document{
		Nodes: make([]NodeRecord, 0, scene.NodeCount()),
		Edges: make([]EdgeRecord, 0, scene.EdgeCount()),
	}

	for _, node := range scene.Nodes() {
		doc.Nodes = append(doc.Nodes, NodeRecord{
			ID:          DocumentID(node.ID().String()),
			Title:       node.Content().Title(),
			Description: node.Content().Description(),
			X:           node.Position().X,
			Y:           node.Position().Y,
		})
	}

	for _, edge := range scene.FinalizedEdges() {
		startHandle := int(edge.SourceHandle())
		endHandle := int(edge.TargetHandle())
		doc.Edges = append(doc.Edges, EdgeRecord{
			StartID:     DocumentID(edge.SourceID().String()),
			StartHandle: &startHandle,
			EndID:       DocumentID(edge.TargetID().String()),
			EndHandle:   &endHandle,
		})
	}

	return doc
}

// ImportResult summarizes what an import produced
type ImportResult struct {
	NodesCreated int
	EdgesCreated int
	EdgesSkipped int
}

// Import replaces the scene contents with the document. The scene is
// cleared only after the document has been decoded and checked, so a
// bad file leaves the current graph untouched. Edge records that fail
// validation or reference unknown node ids are logged and skipped;
// they never abort the rest of the import.
func (c *Codec) Import(scene *aggregates.Scene, doc *Document) (*ImportResult, error) {
	if doc == nil {
		return nil, pkgerrors.NewValidationError("document is nil")
	}

	scene.Clear()

	result := &ImportResult{}
	mapping := make(map[string]valueobjects.NodeID, len(doc.Nodes))

	for i, record := range doc.Nodes {
		title := record.Title
		if title == "" {
			title = "Node"
		}
		content, err := valueobjects.NewNodeContent(title, record.Description)
		if err != nil {
			c.logger.Warn("skipping node record with invalid content",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}

		node, err := scene.AddNode(content, valueobjects.NewPosition(record.X, record.Y))
		if err != nil {
			c.logger.Warn("skipping node record",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		result.NodesCreated++

		key := record.ID.String()
		if key == "" {
			key = fallbackID(i).String()
		}
		mapping[key] = node.ID()
	}

	for i, record := range doc.Edges {
		if err := c.validate.Struct(record); err != nil {
			c.logger.Warn("skipping invalid edge record",
				zap.Int("index", i),
				zap.Error(err),
			)
			result.EdgesSkipped++
			continue
		}

		startID, startOK := mapping[record.StartID.String()]
		endID, endOK := mapping[record.EndID.String()]
		if !startOK || !endOK {
			c.logger.Warn("edge not created, missing node mapping",
				zap.String("start_id", record.StartID.String()),
				zap.String("end_id", record.EndID.String()),
			)
			result.EdgesSkipped++
			continue
		}

		_, err := scene.Connect(
			startID, entities.HandleIndex(record.StartHandleOrDefault()),
			endID, entities.HandleIndex(record.EndHandleOrDefault()),
		)
		if err != nil {
			c.logger.Warn("edge not created",
				zap.String("start_id", record.StartID.String()),
				zap.String("end_id", record.EndID.String()),
				zap.Error(err),
			)
			result.EdgesSkipped++
			continue
		}
		result.EdgesCreated++
	}

	return result, nil
}
