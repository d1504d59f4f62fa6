package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTypeChecks(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("bad input")))
	assert.True(t, IsNotFound(NewNotFoundError("node")))
	assert.True(t, IsConflict(NewConflictError("already connected")))
	assert.True(t, IsIO(NewIOError("read document", errors.New("permission denied"))))
	assert.False(t, IsValidation(errors.New("plain")))
}

func TestWrapKeepsAppErrorType(t *testing.T) {
	inner := NewNotFoundError("node")
	wrapped := Wrap(inner, "import document")

	require.True(t, IsNotFound(wrapped))
	assert.Contains(t, wrapped.Error(), "import document")
}

func TestWrapPlainError(t *testing.T) {
	wrapped := Wrap(errors.New("boom"), "doing work")
	require.True(t, IsType(wrapped, ErrorTypeInternal))
	assert.ErrorContains(t, wrapped, "doing work")

	assert.Nil(t, Wrap(nil, "no-op"))
}

func TestUserNotice(t *testing.T) {
	ioErr := NewIOError("write document", errors.New("disk full"))
	notice := UserNotice(ioErr)
	assert.Contains(t, notice, "write document")
	assert.Contains(t, notice, "disk full")

	// Internal errors stay in the log.
	assert.Empty(t, UserNotice(NewInternalError("bug")))
	assert.Empty(t, UserNotice(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := NewInternalError("wrapper").WithCause(cause)
	assert.ErrorIs(t, err, cause)
}
