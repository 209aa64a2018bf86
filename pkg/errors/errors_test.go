package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingColumnError(t *testing.T) {
	err := NewMissingColumnError("left", []string{"id", "region"})
	assert.Equal(t, "columns missing from left table: id, region", err.Error())
	assert.True(t, Is(err, ErrColumnNotFound))
	assert.True(t, IsColumnNotFound(err))

	bare := NewMissingColumnError("", []string{"id"})
	assert.Equal(t, "columns missing: id", bare.Error())

	wrapped := fmt.Errorf("loading: %w", err)
	var target *MissingColumnError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, []string{"id", "region"}, target.Columns)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("how", "cross", "must be inner, left, right, or outer")
	assert.Contains(t, err.Error(), "how")
	assert.Contains(t, err.Error(), "cross")
	assert.True(t, IsValidationError(err))
	assert.False(t, IsColumnNotFound(err))

	bare := NewValidationError("", nil, "keys must not be empty")
	assert.Equal(t, "validation failed: keys must not be empty", bare.Error())
}

func TestCardinalityError(t *testing.T) {
	err := NewCardinalityError("one_to_one", "right", "42", 3)
	assert.Equal(t, `merge cardinality one_to_one violated: key "42" appears 3 times on right side`, err.Error())
	assert.True(t, IsCardinalityError(err))
	assert.False(t, IsValidationError(err))
}

func TestCastErrorUnwraps(t *testing.T) {
	cause := New("bad syntax")
	err := NewCastError("score", "int64", 7, cause)
	assert.Contains(t, err.Error(), "score")
	assert.Contains(t, err.Error(), "row 7")
	assert.True(t, Is(err, cause))
}

func TestIOErrorUnwraps(t *testing.T) {
	cause := New("permission denied")
	err := NewIOError("open", "/tmp/in.csv", cause)
	assert.Equal(t, "open /tmp/in.csv: permission denied", err.Error())
	assert.True(t, Is(err, cause))
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("merge", "either --job or --left/--right must be given", nil)
	assert.Equal(t, "configuration error in merge: either --job or --left/--right must be given", err.Error())

	bare := NewConfigError("", "no keys", nil)
	assert.Equal(t, "configuration error: no keys", bare.Error())
}
