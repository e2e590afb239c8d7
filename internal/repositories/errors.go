package repositories

import (
	stderrors "errors"
	"strings"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// translateError maps a storage error onto the application error taxonomy.
// Errors that already carry an application code pass through untouched.
func translateError(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.CodeOf(err) != "" {
		return err
	}

	switch {
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(err, errors.ErrCodeNotFound, message)
	case stderrors.Is(err, gorm.ErrInvalidData), isCheckViolation(err):
		return errors.Wrap(err, errors.ErrCodeValidation, message)
	case isUniqueViolation(err):
		return errors.Wrap(err, errors.ErrCodeAlreadyExists, message)
	case isForeignKeyViolation(err):
		return errors.Wrap(err, errors.ErrCodeReference, message)
	}
	return errors.Wrap(err, errors.ErrCodeInternalError, message)
}

func isUniqueViolation(err error) bool {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if code, ok := pgCode(err); ok {
		return code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if stderrors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	if code, ok := pgCode(err); ok {
		return code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isCheckViolation(err error) bool {
	if code, ok := pgCode(err); ok {
		return code == pgCheckViolation || code == pgNotNullViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "CHECK constraint failed") || strings.Contains(msg, "NOT NULL constraint failed")
}

func pgCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code, true
	}
	return "", false
}

func notFound(entity string) error {
	return errors.New(errors.ErrCodeNotFound, entity+" not found")
}
