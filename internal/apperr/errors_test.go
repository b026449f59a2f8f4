package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_MessageListsFieldsSorted(t *testing.T) {
	err := &ValidationError{
		Message: "invalid request",
		Fields: map[string][]string{
			"title":   {"Title is required."},
			"message": {"Message is required."},
		},
	}
	assert.Equal(t, "invalid request (message: Message is required.; title: Title is required.)", err.Error())
	assert.Equal(t, "Invalid Figma URL.", Invalid("Invalid Figma URL.").Error())
}

func TestPersistence_WrapsAndUnwraps(t *testing.T) {
	base := errors.New("disk full")
	err := Persistence("create state", base)

	var pe *PersistenceError
	assert.True(t, errors.As(err, &pe))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "create state: disk full", err.Error())
	assert.NoError(t, Persistence("noop", nil))
}

func TestIsNotFound_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load: %w", NotFound("element", "e1"))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(errors.New("other")))
	assert.Equal(t, `element "e1" not found`, NotFound("element", "e1").Error())
}
