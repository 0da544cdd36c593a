package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	wrapped := fmt.Errorf("lookup: %w", NewNotFound("ticket", map[string]any{"ticket_id": "T-1"}))
	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "ticket not found", de.Message)

	plain := ToDomainError(errors.New("boom"))
	assert.Equal(t, CodeInternal, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.HTTPStatus)
	assert.EqualError(t, plain, "internal server error: boom")
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(NewValidationError("title required", nil), CodeValidation))
	assert.False(t, IsCode(NewForbidden("nope"), CodeValidation))
	assert.False(t, IsCode(errors.New("plain"), CodeValidation))
}

func TestNewFeatureDisabled(t *testing.T) {
	de := ToDomainError(NewFeatureDisabled("neural_triage"))
	assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	assert.Equal(t, "neural_triage", de.Details["feature"])
}
