package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("delete envelope: %w", NotFound("Envelope not found"))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Envelope not found", Message(err, "fallback"))
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "Internal server error", Message(errors.New("db down"), "Internal server error"))
}
