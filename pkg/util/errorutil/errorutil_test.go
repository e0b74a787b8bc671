package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewValidationError("Missing fields.", map[string]any{"field": "title"})

	mapped := ToDomainError(original)
	assert.Equal(t, "VALIDATION_FAILED", mapped.Code)
	assert.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)
	assert.Equal(t, "Missing fields.", mapped.Message)
}

func TestToDomainErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewForbidden("Denied."))

	mapped := ToDomainError(wrapped)
	assert.Equal(t, http.StatusForbidden, mapped.HTTPStatus)
	assert.Equal(t, "Denied.", mapped.Message)
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
	assert.Equal(t, "Resource not found.", mapped.Message)
}

func TestToDomainErrorFiberError(t *testing.T) {
	mapped := ToDomainError(fiber.ErrMethodNotAllowed)
	assert.Equal(t, http.StatusMethodNotAllowed, mapped.HTTPStatus)
}

func TestToDomainErrorUnknown(t *testing.T) {
	cause := errors.New("connection refused")

	mapped := ToDomainError(cause)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	assert.Equal(t, "An unexpected error occurred.", mapped.Message)
	assert.ErrorIs(t, mapped, cause)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestNewNotFoundMessage(t *testing.T) {
	err := NewNotFound("Ticket", nil)
	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Ticket not found.", domainErr.Message)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
}
