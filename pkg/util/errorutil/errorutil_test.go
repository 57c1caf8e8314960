package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("existing domain error is returned as-is", func(t *testing.T) {
		original := NewValidationError("bad input", nil)
		got := ToDomainError(fmt.Errorf("wrapped: %w", original))
		require.NotNil(t, got)
		assert.Equal(t, "VALIDATION_FAILED", got.Code)
		assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
	})

	t.Run("pgx no rows becomes not found", func(t *testing.T) {
		got := ToDomainError(pgx.ErrNoRows)
		require.NotNil(t, got)
		assert.Equal(t, "NOT_FOUND", got.Code)
		assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
	})

	t.Run("known unique violation maps to a friendly conflict", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "companies_rut_key"}
		got := ToDomainError(pgErr)
		require.NotNil(t, got)
		assert.Equal(t, "CONFLICT", got.Code)
		assert.Equal(t, http.StatusConflict, got.HTTPStatus)
		assert.Equal(t, "a company with this RUT already exists", got.Message)
		assert.Equal(t, "companies_rut_key", got.Details["constraint"])
	})

	t.Run("unknown unique violation still conflicts", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "something_else_key"}
		got := ToDomainError(pgErr)
		require.NotNil(t, got)
		assert.Equal(t, http.StatusConflict, got.HTTPStatus)
		assert.Equal(t, "duplicate value violates a unique constraint", got.Message)
	})

	t.Run("anything else is an internal error", func(t *testing.T) {
		cause := errors.New("boom")
		got := ToDomainError(cause)
		require.NotNil(t, got)
		assert.Equal(t, "INTERNAL_ERROR", got.Code)
		assert.ErrorIs(t, got, cause)
	})
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "internal server error")
}
