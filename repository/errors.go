package repository

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	TextCodeRecordNotFound = "RECORD_NOT_FOUND"
	TextCodeDuplicateField = "DUPLICATE_FIELD"
	TextCodeUnknownField   = "UNKNOWN_FIELD"
	TextCodeImmutableField = "IMMUTABLE_FIELD"
	TextCodeInvalidPayload = "INVALID_PAYLOAD"
)

// NotFoundError builds the client-visible not-found error; message is
// what a handler may show.
func NotFoundError(message string) *errors.Error {
	return errors.New(message, errors.CategoryNotFound).
		WithTextCode(TextCodeRecordNotFound).
		WithCode(errors.CodeNotFound)
}

// ConflictError wraps a backend constraint violation. Surfaced, never
// retried.
func ConflictError(err error, message string) *errors.Error {
	return errors.Wrap(err, errors.CategoryConflict, message).
		WithTextCode(TextCodeDuplicateField).
		WithCode(errors.CodeConflict)
}

// IsUniqueViolation reports whether err is a unique-constraint violation
// from either supported backend.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}

	// sqlite (via sqliteshim) reports constraint failures as plain text.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
