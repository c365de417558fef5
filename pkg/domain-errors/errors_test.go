package domainerrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "agrotrace/pkg/domain-errors"
)

func TestCodedErrors(t *testing.T) {
	t.Run("new carries code and reason", func(t *testing.T) {
		err := dErrors.New(dErrors.CodeValidation, "area too small")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.False(t, dErrors.HasCode(err, dErrors.CodeConflict))
		assert.Equal(t, "area too small", dErrors.ReasonOf(err))
		assert.Equal(t, "validation: area too small", err.Error())
	})

	t.Run("newf formats the reason", func(t *testing.T) {
		err := dErrors.Newf(dErrors.CodeValidation, "precision must be between %d and %d", 1, 12)
		assert.Equal(t, "precision must be between 1 and 12", dErrors.ReasonOf(err))
	})

	t.Run("wrap keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := dErrors.Wrap(cause, dErrors.CodeDependency, "persist farm")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDependency))
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("has code sees through plain wrapping", func(t *testing.T) {
		err := fmt.Errorf("register farm: %w", dErrors.New(dErrors.CodeConflict, "duplicate"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("uncoded errors default to internal", func(t *testing.T) {
		err := errors.New("boom")
		assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(err))
		assert.Equal(t, "boom", dErrors.ReasonOf(err))
		assert.False(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
