package valueobjects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeContentStoresTextVerbatim(t *testing.T) {
	// Whitespace survives so documents round-trip unchanged.
	content, err := NewNodeContent("  Open VA01  ", "line one\nline two  ")
	require.NoError(t, err)
	assert.Equal(t, "  Open VA01  ", content.Title())
	assert.Equal(t, "line one\nline two  ", content.Description())
}

func TestNodeContentLengthLimits(t *testing.T) {
	_, err := NewNodeContent(strings.Repeat("x", MaxTitleLength+1), "")
	assert.Error(t, err)

	_, err = NewNodeContent("ok", strings.Repeat("x", MaxDescriptionLength+1))
	assert.Error(t, err)

	_, err = NewNodeContent(strings.Repeat("x", MaxTitleLength), strings.Repeat("y", MaxDescriptionLength))
	assert.NoError(t, err)
}

func TestNodeContentEmptyIsValid(t *testing.T) {
	content, err := NewNodeContent("", "")
	require.NoError(t, err)
	assert.True(t, content.IsEmpty())
}

func TestNodeContentLines(t *testing.T) {
	content, err := NewNodeContent("one\ntwo", "a\nb\nc")
	require.NoError(t, err)
	assert.Len(t, content.TitleLines(), 2)
	assert.Len(t, content.DescriptionLines(), 3)
}

func TestNodeContentSummary(t *testing.T) {
	content, err := NewNodeContent("Login", "enter\ncredentials")
	require.NoError(t, err)
	assert.Equal(t, "Login: enter credentials", content.Summary(100))
	assert.Equal(t, "Login: ...", content.Summary(10))
}

func TestNodeIDRoundTrip(t *testing.T) {
	id := NewNodeID()
	parsed, err := NewNodeIDFromString(id.String())
	require.NoError(t, err)
	assert.True(t, id.Equals(parsed))

	_, err = NewNodeIDFromString("not-a-uuid")
	assert.Error(t, err)

	assert.True(t, NodeID{}.IsZero())
	assert.False(t, id.IsZero())
}
