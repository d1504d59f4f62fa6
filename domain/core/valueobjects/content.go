package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Maximum lengths guard against runaway node sizes; within them,
// any text (including empty) is a valid editor state.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// NodeContent is a value object for a node's editable text:
// the title line and the description block beneath it.
type NodeContent struct {
	title       string
	description string
}

// NewNodeContent creates content with length validation. Text is stored
// verbatim so a document round-trips byte-for-byte.
func NewNodeContent(title, description string) (NodeContent, error) {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return NodeContent{}, fmt.Errorf("title exceeds maximum length of %d characters", MaxTitleLength)
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return NodeContent{}, fmt.Errorf("description exceeds maximum length of %d characters", MaxDescriptionLength)
	}
	return NodeContent{title: title, description: description}, nil
}

// Title returns the content title
func (c NodeContent) Title() string {
	return c.title
}

// Description returns the content description
func (c NodeContent) Description() string {
	return c.description
}

// IsEmpty checks if content is empty
func (c NodeContent) IsEmpty() bool {
	return c.title == "" && c.description == ""
}

// Equals checks if two contents are equal
func (c NodeContent) Equals(other NodeContent) bool {
	return c.title == other.title && c.description == other.description
}

// TitleLines returns the title split into display lines
func (c NodeContent) TitleLines() []string {
	return strings.Split(c.title, "\n")
}

// DescriptionLines returns the description split into display lines
func (c NodeContent) DescriptionLines() []string {
	return strings.Split(c.description, "\n")
}

// Summary returns a truncated single-line summary of the content
func (c NodeContent) Summary(maxLength int) string {
	if maxLength <= 0 {
		return ""
	}

	combined := c.title
	if c.description != "" {
		combined += ": " + c.description
	}
	combined = strings.ReplaceAll(combined, "\n", " ")

	if utf8.RuneCountInString(combined) <= maxLength {
		return combined
	}

	runes := []rune(combined)
	return string(runes[:maxLength-3]) + "..."
}
