package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"bookkeeper/internal/core/apperror"
)

// PostgreSQL error codes mapped to application errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgSerialization       = "40001"
	pgDeadlock            = "40P01"
)

// MapError converts driver errors into application errors:
// no rows becomes NotFound, a unique violation becomes Duplicate and a
// foreign-key violation becomes a business rule error and a lost lock race
// becomes a Conflict the client may retry. Other errors are wrapped with op.
func MapError(err error, op, entity string, id any) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound(entity, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.NewDuplicate(entity, pgErr.ConstraintName, fmt.Sprint(id)).WithCause(err)
		case pgForeignKeyViolation:
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, entity+" references a missing or still used record").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgCheckViolation:
			return apperror.NewValidation(entity + " violates " + pgErr.ConstraintName).WithCause(err)
		case pgSerialization, pgDeadlock:
			return apperror.NewConflict("concurrent update of " + entity + ", retry the request").WithCause(err)
		}
	}
	return fmt.Errorf("%s %s: %w", op, entity, err)
}
