package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	conflict := Conflictf("slot taken")

	assert.Equal(t, KindConflict, KindOf(conflict))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("create session: %w", conflict)))
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.True(t, IsKind(conflict, KindConflict))
	assert.False(t, IsKind(conflict, KindPolicy))
}

func TestErrorWrapPreservesCause(t *testing.T) {
	cause := errors.New("constraint violation")
	err := Conflictf("overlap detected").Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "overlap detected")
	assert.Contains(t, err.Error(), "constraint violation")
}
