package postgres

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeper/internal/core/apperror"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"no rows", pgx.ErrNoRows, apperror.CodeNotFound, http.StatusNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperror.CodeNotFound, http.StatusNotFound},
		{"unique", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "products_name_key"}, apperror.CodeDuplicate, http.StatusConflict},
		{"foreign key", &pgconn.PgError{Code: pgForeignKeyViolation}, apperror.CodeBusinessRule, http.StatusUnprocessableEntity},
		{"check", &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "stock_nonnegative"}, apperror.CodeValidation, http.StatusBadRequest},
		{"serialization", &pgconn.PgError{Code: pgSerialization}, apperror.CodeConflict, http.StatusConflict},
		{"deadlock", &pgconn.PgError{Code: pgDeadlock}, apperror.CodeConflict, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapError(tt.err, "get", "product", int64(7))
			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr), err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
		})
	}
}

func TestMapError_PassThrough(t *testing.T) {
	assert.NoError(t, MapError(nil, "get", "product", 1))

	app := apperror.NewInsufficientStock(1, 5, 2)
	assert.Same(t, app, MapError(app, "get", "product", 1))

	raw := errors.New("connection reset")
	err := MapError(raw, "update", "sale", 3)
	assert.ErrorIs(t, err, raw)
	assert.False(t, apperror.IsAppError(err))
	assert.Contains(t, err.Error(), "update sale")
}
