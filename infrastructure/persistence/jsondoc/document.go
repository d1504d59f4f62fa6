// Package jsondoc persists the flow as a JSON document with stable
// identifiers, and restores it. The document is the only on-disk form
// of the graph; provisional edges never reach it.
package jsondoc

import (
	"encoding/json"
	"strconv"
	"strings"

	pkgerrors "voyager/pkg/errors"
)

// DefaultPath is the fixed document path used by toolbar export
const DefaultPath = "voyager.json"

// DocumentID is a node identifier as it appears in a document file.
// Files written by other tools use bare numbers for ids; both forms
// normalize to the same string key.
type DocumentID string

// UnmarshalJSON accepts either a JSON string or a JSON number
func (id *DocumentID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}
	if len(trimmed) >= 2 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = DocumentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = DocumentID(n.String())
	return nil
}

// MarshalJSON writes the id as a string
func (id DocumentID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// String returns the normalized string form
func (id DocumentID) String() string {
	return string(id)
}

// NodeRecord is the serialized form of a node
type NodeRecord struct {
	ID          DocumentID `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
}

// EdgeRecord is the serialized form of a finalized edge. Handle
// indices: 0 = input/top, 1 = output/bottom. Absent handles default to
// start_handle 0 and end_handle 1.
type EdgeRecord struct {
	StartID     DocumentID `json:"start_id" validate:"required"`
	StartHandle *int       `json:"start_handle" validate:"omitempty,oneof=0 1"`
	EndID       DocumentID `json:"end_id" validate:"required"`
	EndHandle   *int       `json:"end_handle" validate:"omitempty,oneof=0 1"`
}

// StartHandleOrDefault returns the start handle index, defaulting to 0
func (e EdgeRecord) StartHandleOrDefault() int {
	if e.StartHandle == nil {
		return 0
	}
	return *e.StartHandle
}

// EndHandleOrDefault returns the end handle index, defaulting to 1
func (e EdgeRecord) EndHandleOrDefault() int {
	if e.EndHandle == nil {
		return 1
	}
	return *e.EndHandle
}

// Document is the serialized graph: all nodes, then all finalized edges
type Document struct {
	Nodes []NodeRecord `json:"nodes"`
	Edges []EdgeRecord `json:"edges"`
}

// Decode parses document bytes. Both the canonical {nodes, edges}
// object and a bare list of node records are accepted; the bare form
// carries no edges.
func Decode(data []byte) (*Document, error) {
	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if strings.HasPrefix(trimmed, "[") {
		var nodes []NodeRecord
		if err := json.Unmarshal(data, &nodes); err != nil {
			return nil, pkgerrors.NewIOError("parse document", err)
		}
		return &Document{Nodes: nodes}, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, pkgerrors.NewIOError("parse document", err)
	}
	return &doc, nil
}

// Encode renders the document as indented JSON
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "    ")
	if err != nil {
		return nil, pkgerrors.NewIOError("encode document", err)
	}
	return data, nil
}

// PromptText renders the document the way the plan-conversion prompt
// embeds it: a compact literal of the nodal links.
func (d *Document) PromptText() string {
	data, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	return string(data)
}

// fallbackID builds a document id for a node record that omitted one
func fallbackID(index int) DocumentID {
	return DocumentID("node-" + strconv.Itoa(index))
}
