package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(TypeUsage, "count must be positive")
	assert.Equal(t, "usage error: count must be positive", plain.Error())

	cause := stderrors.New("connection refused")
	wrapped := Wrap(TypeResource, "failed to start browser", cause)
	assert.Equal(t, "resource error: failed to start browser: connection refused", wrapped.Error())
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	wrapped := Wrap(TypePersistence, "failed to write post", cause)

	assert.True(t, stderrors.Is(wrapped, cause))
	assert.Nil(t, stderrors.Unwrap(New(TypeItem, "no cause")))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(TypeUsage))
	assert.True(t, IsFatal(TypeResource))
	assert.False(t, IsFatal(TypeTransient))
	assert.False(t, IsFatal(TypeItem))
	assert.False(t, IsFatal(TypePersistence))
}
