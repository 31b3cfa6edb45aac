package database

import (
	"errors"
	"fmt"
	"strings"

	"fotogram/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes from the integrity constraint violation class.
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// ConstraintKind names the constraint err violated: "unique", "foreign_key",
// "not_null", or "" when err is not a constraint violation. CHECK violations count
// as not_null because the only checks in the schema reject empty required text.
func ConstraintKind(err error) string {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return "unique"
		case pgForeignKeyViolation:
			return "foreign_key"
		case pgNotNullViolation, pgCheckViolation:
			return "not_null"
		}
		return ""
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"):
		return "unique"
	case strings.Contains(msg, "foreign key constraint"):
		return "foreign_key"
	case strings.Contains(msg, "not null constraint"), strings.Contains(msg, "check constraint"):
		return "not_null"
	}
	return ""
}

// ClassifyConstraintError wraps err with the matching models.Err*Violation sentinel.
// Errors that are not constraint violations are returned unchanged.
func ClassifyConstraintError(err error) error {
	var sentinel error
	switch ConstraintKind(err) {
	case "unique":
		sentinel = models.ErrUniqueViolation
	case "foreign_key":
		sentinel = models.ErrForeignKeyViolation
	case "not_null":
		sentinel = models.ErrNotNullViolation
	default:
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
