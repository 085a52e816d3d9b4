package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := Validation("progress %d outside [0,100]", 140)

	assert.True(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(err, KindNotFound))
	assert.Contains(t, err.Error(), "validation")
	assert.Contains(t, err.Error(), "140")
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := NotFound("task", "abc123")
	wrapped := fmt.Errorf("listing reminders: %w", inner)

	assert.True(t, IsKind(wrapped, KindNotFound))

	var e *Error
	assert.True(t, errors.As(wrapped, &e))
	assert.Equal(t, KindNotFound, e.Kind)
}

func TestDeliveryCarriesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Delivery("webhook", cause)

	assert.True(t, IsKind(err, KindDelivery))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "webhook")
}

func TestPlainErrorsHaveNoKind(t *testing.T) {
	assert.False(t, IsKind(errors.New("boring"), KindValidation))
	assert.False(t, IsKind(nil, KindValidation))
}
