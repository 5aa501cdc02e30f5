package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("driver said no")
	err := Wrap(CodeConflict, cause, "write rejected")

	assert.Equal(t, CodeConflict, err.Code())
	assert.ErrorIs(t, err, cause)
}

func TestHasCodeThroughWrapping(t *testing.T) {
	inner := New(CodeProtected, "row pinned")
	outer := fmt.Errorf("deleting address: %w", inner)

	assert.True(t, HasCode(outer, CodeProtected))
	assert.False(t, HasCode(outer, CodeNotFound))
	assert.False(t, HasCode(nil, CodeProtected))
}

func TestAsReturnsNilForForeignErrors(t *testing.T) {
	assert.Nil(t, As(stdErrors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestWithDetails(t *testing.T) {
	err := New(CodeStateConflict, "bad move").
		WithDetails(map[string]string{"from": "delivered", "to": "pending"})

	details, ok := err.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "delivered", details["from"])
}

func TestMetadataFor(t *testing.T) {
	assert.True(t, MetadataFor(CodeInternal).Retryable)
	assert.False(t, MetadataFor(CodeConflict).Retryable)

	// Unknown codes fall back to internal.
	assert.Equal(t, MetadataFor(CodeInternal), MetadataFor(Code("MYSTERY")))
}

func TestWrapNilCause(t *testing.T) {
	err := Wrap(CodeValidation, nil, "no cause")
	assert.Equal(t, CodeValidation, err.Code())
	assert.Nil(t, err.Unwrap())
}
