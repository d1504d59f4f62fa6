package jsondoc

import (
	"fmt"
	"unicode/utf8"

	"voyager/domain/core/valueobjects"
	"voyager/pkg/utils"
)

// Lint checks a decoded document for problems an import would skip or
// reject: duplicate or missing node ids, over-length text, malformed
// edge records, and edges whose endpoints are not in the document.
// Returned messages are ordered nodes first, then edges.
func Lint(doc *Document) []string {
	var problems []string
	if doc == nil {
		return []string{"document is empty"}
	}

	known := make(map[string]bool, len(doc.Nodes))
	for i, node := range doc.Nodes {
		key := node.ID.String()
		if key == "" {
			key = fallbackID(i).String()
		}
		if known[key] {
			problems = append(problems, fmt.Sprintf("node %d: duplicate id %q", i, key))
		}
		known[key] = true

		if utf8.RuneCountInString(node.Title) > valueobjects.MaxTitleLength {
			problems = append(problems, fmt.Sprintf("node %d: title exceeds %d characters", i, valueobjects.MaxTitleLength))
		}
		if utf8.RuneCountInString(node.Description) > valueobjects.MaxDescriptionLength {
			problems = append(problems, fmt.Sprintf("node %d: description exceeds %d characters", i, valueobjects.MaxDescriptionLength))
		}
	}

	for i, edge := range doc.Edges {
		if err := utils.ValidateStruct(edge); err != nil {
			problems = append(problems, fmt.Sprintf("edge %d: %v", i, err))
			continue
		}
		if !known[edge.StartID.String()] {
			problems = append(problems, fmt.Sprintf("edge %d: start id %q does not match any node", i, edge.StartID.String()))
		}
		if !known[edge.EndID.String()] {
			problems = append(problems, fmt.Sprintf("edge %d: end id %q does not match any node", i, edge.EndID.String()))
		}
		if edge.StartID == edge.EndID && edge.StartID.String() != "" {
			problems = append(problems, fmt.Sprintf("edge %d: connects node %q to itself", i, edge.StartID.String()))
		}
	}

	return problems
}
