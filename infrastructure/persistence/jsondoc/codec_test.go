package jsondoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager/domain/core/aggregates"
	"voyager/domain/core/entities"
	"voyager/domain/core/valueobjects"
)

func newScene(t *testing.T) *aggregates.Scene {
	t.Helper()
	return aggregates.NewScene(nil)
}

func addNode(t *testing.T, scene *aggregates.Scene, title string, x, y float64) *entities.Node {
	t.Helper()
	content, err := valueobjects.NewNodeContent(title, "step")
	require.NoError(t, err)
	node, err := scene.AddNode(content, valueobjects.NewPosition(x, y))
	require.NoError(t, err)
	return node
}

func TestExportThenImportPreservesStructure(t *testing.T) {
	codec := NewCodec(nil)
	scene := newScene(t)

	a := addNode(t, scene, "open transaction", 10, 20)
	b := addNode(t, scene, "set fields", 300, 20)
	c := addNode(t, scene, "press save", 600, 20)
	_, err := scene.Connect(a.ID(), entities.HandleOutput, b.ID(), entities.HandleInput)
	require.NoError(t, err)
	_, err = scene.Connect(b.ID(), entities.HandleOutput, c.ID(), entities.HandleInput)
	require.NoError(t, err)

	doc := codec.Export(scene)
	require.Len(t, doc.Nodes, 3)
	require.Len(t, doc.Edges, 2)

	restored := newScene(t)
	result, err := codec.Import(restored, doc)
	require.NoError(t, err)

	assert.Equal(t, 3, result.NodesCreated)
	assert.Equal(t, 2, result.EdgesCreated)
	assert.Equal(t, 0, result.EdgesSkipped)
	assert.Equal(t, 3, restored.NodeCount())
	assert.Len(t, restored.FinalizedEdges(), 2)

	titles := make([]string, 0, 3)
	for _, node := range restored.Nodes() {
		titles = append(titles, node.Content().Title())
	}
	assert.Equal(t, []string{"open transaction", "set fields", "press save"}, titles)
}

func TestExportSkipsProvisionalEdges(t *testing.T) {
	codec := NewCodec(nil)
	scene := newScene(t)
	a := addNode(t, scene, "a", 0, 0)

	_, err := scene.BeginProvisionalEdge(a.ID(), entities.HandleOutput, valueobjects.NewPosition(50, 50))
	require.NoError(t, err)

	doc := codec.Export(scene)
	assert.Empty(t, doc.Edges)
}

func TestImportSkipsDanglingEdges(t *testing.T) {
	codec := NewCodec(nil)
	scene := newScene(t)

	start := 0
	end := 1
	doc := &Document{
		Nodes: []NodeRecord{
			{ID: "n1", Title: "a", X: 0, Y: 0},
			{ID: "n2", Title: "b", X: 100, Y: 0},
		},
		Edges: []EdgeRecord{
			{StartID: "n1", StartHandle: &start, EndID: "n2", EndHandle: &end},
			{StartID: "n1", StartHandle: &start, EndID: "ghost", EndHandle: &end},
		},
	}

	result, err := codec.Import(scene, doc)
	require.NoError(t, err)

	assert.Equal(t, 2, result.NodesCreated)
	assert.Equal(t, 1, result.EdgesCreated)
	assert.Equal(t, 1, result.EdgesSkipped)
}

func TestImportAppliesHandleDefaults(t *testing.T) {
	codec := NewCodec(nil)
	scene := newScene(t)

	doc := &Document{
		Nodes: []NodeRecord{
			{ID: "n1", Title: "a"},
			{ID: "n2", Title: "b"},
		},
		Edges: []EdgeRecord{
			{StartID: "n1", EndID: "n2"},
		},
	}

	result, err := codec.Import(scene, doc)
	require.NoError(t, err)
	require.Equal(t, 1, result.EdgesCreated)

	edge := scene.FinalizedEdges()[0]
	assert.Equal(t, entities.HandleInput, edge.SourceHandle())
	assert.Equal(t, entities.HandleOutput, edge.TargetHandle())
}

func TestImportRejectsInvalidHandleIndex(t *testing.T) {
	codec := NewCodec(nil)
	scene := newScene(t)

	bad := 3
	doc := &Document{
		Nodes: []NodeRecord{
			{ID: "n1", Title: "a"},
			{ID: "n2", Title: "b"},
		},
		Edges: []EdgeRecord{
			{StartID: "n1", StartHandle: &bad, EndID: "n2"},
		},
	}

	result, err := codec.Import(scene, doc)
	require.NoError(t, err)
	assert.Equal(t, 0, result.EdgesCreated)
	assert.Equal(t, 1, result.EdgesSkipped)
}

func TestImportDefaultsEmptyTitle(t *testing.T) {
	codec := NewCodec(nil)
	scene := newScene(t)

	doc := &Document{Nodes: []NodeRecord{{ID: "n1"}}}
	_, err := codec.Import(scene, doc)
	require.NoError(t, err)

	assert.Equal(t, "Node", scene.Nodes()[0].Content().Title())
}

func TestImportAssignsFreshIdentities(t *testing.T) {
	codec := NewCodec(nil)
	scene := newScene(t)

	doc := &Document{Nodes: []NodeRecord{{ID: "legacy-1", Title: "a"}}}
	_, err := codec.Import(scene, doc)
	require.NoError(t, err)

	// File ids are mapping keys only; scene ids are new uuids.
	assert.NotEqual(t, "legacy-1", scene.Nodes()[0].ID().String())
}

func TestDecodeObjectForm(t *testing.T) {
	data := []byte(`{
    "nodes": [
        {"id": "n1", "title": "a", "description": "d", "x": 1.5, "y": -2}
    ],
    "edges": [
        {"start_id": "n1", "start_handle": 1, "end_id": "n1", "end_handle": 0}
    ]
}`)

	doc, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
	require.Len(t, doc.Edges, 1)
	assert.Equal(t, 1.5, doc.Nodes[0].X)
	assert.Equal(t, 1, *doc.Edges[0].StartHandle)
}

func TestDecodeBareNodeList(t *testing.T) {
	data := []byte(`[{"id": "n1", "title": "a"}, {"id": "n2", "title": "b"}]`)

	doc, err := Decode(data)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 2)
	assert.Empty(t, doc.Edges)
}

func TestDecodeNumericIDs(t *testing.T) {
	data := []byte(`{
    "nodes": [{"id": 7, "title": "a"}, {"id": 8, "title": "b"}],
    "edges": [{"start_id": 7, "end_id": 8}]
}`)

	doc, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "7", doc.Nodes[0].ID.String())
	assert.Equal(t, "7", doc.Edges[0].StartID.String())
}

func TestDecodeMalformedInput(t *testing.T) {
	_, err := Decode([]byte(`{"nodes": [`))
	assert.Error(t, err)
}

func TestEncodeUsesFourSpaceIndent(t *testing.T) {
	doc := &Document{Nodes: []NodeRecord{{ID: "n1", Title: "a"}}, Edges: []EdgeRecord{}}

	data, err := doc.Encode()
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.Contains(text, "\n    \"nodes\""), "expected 4-space indent, got:\n%s", text)
}

func TestLintFindsProblems(t *testing.T) {
	start := 0
	end := 1
	doc := &Document{
		Nodes: []NodeRecord{
			{ID: "n1", Title: "a"},
			{ID: "n1", Title: "dup"},
		},
		Edges: []EdgeRecord{
			{StartID: "n1", StartHandle: &start, EndID: "missing", EndHandle: &end},
			{StartID: "n1", StartHandle: &start, EndID: "n1", EndHandle: &end},
		},
	}

	problems := Lint(doc)
	require.NotEmpty(t, problems)

	joined := strings.Join(problems, "\n")
	assert.Contains(t, joined, "duplicate id")
	assert.Contains(t, joined, "does not match any node")
	assert.Contains(t, joined, "itself")
}

func TestLintCleanDocument(t *testing.T) {
	start := 0
	end := 1
	doc := &Document{
		Nodes: []NodeRecord{{ID: "n1", Title: "a"}, {ID: "n2", Title: "b"}},
		Edges: []EdgeRecord{{StartID: "n1", StartHandle: &start, EndID: "n2", EndHandle: &end}},
	}

	assert.Empty(t, Lint(doc))
}
