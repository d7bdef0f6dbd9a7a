package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Builder returns a squirrel builder with PostgreSQL placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Exists reports whether q returns at least one row.
func Exists(ctx context.Context, db Querier, q squirrel.SelectBuilder) (bool, error) {
	inner, innerArgs, err := q.PlaceholderFormat(squirrel.Question).ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}
	sql, args, err := Builder().
		Select().
		Column(squirrel.Expr("EXISTS ("+inner+")", innerArgs...)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}

	var found bool
	if err := db.QueryRow(ctx, sql, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return found, nil
}
