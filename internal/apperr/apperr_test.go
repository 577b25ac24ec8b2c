package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Validation, KindOf(Validationf("bad %s", "input")))
	assert.Equal(t, Forbidden, KindOf(Forbiddenf("no")))
	assert.Equal(t, NotFound, KindOf(fmt.Errorf("wrapped: %w", NotFoundf("room not found"))))
	assert.Equal(t, Conflict, KindOf(Conflictf("clash")))
	assert.Equal(t, Unauthenticated, KindOf(ErrUnauthenticated))
	assert.Equal(t, NoProfile, KindOf(ErrNoProfile))
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
	assert.Equal(t, Internal, KindOf(nil))
}

func TestError_Message(t *testing.T) {
	err := Validationf("%s is required", "email")
	assert.EqualError(t, err, "email is required")
}
