package store

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced alongside rich errors so clients can branch
// without string matching.
const (
	TextCodeBadCredentials = "AUTH_BAD_CREDENTIALS"
	TextCodeBadSignature   = "AUTH_BAD_SIGNATURE"
	TextCodeTokenExpired   = "AUTH_TOKEN_EXPIRED"
	TextCodeMissingSubject = "AUTH_MISSING_SUBJECT"
)

// ErrBadCredentials is returned for any failed login, whether the account
// is missing or the password is wrong. The single message prevents
// account enumeration.
var ErrBadCredentials = errors.New("Incorrect email or password", errors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrBadSignature is returned when a token signature does not verify
// against the configured signing key.
var ErrBadSignature = errors.New("Could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeBadSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token is past its expiry claim.
var ErrTokenExpired = errors.New("Could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrMissingSubject is returned when a token carries no subject claim.
var ErrMissingSubject = errors.New("Could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeMissingSubject).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty password input before hashing.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation)

// ErrMismatchedHashAndPassword is the internal mismatch signal from the
// credential verifier. Handlers translate it to ErrBadCredentials before
// it reaches a client.
var ErrMismatchedHashAndPassword = errors.New("hash and password mismatch", errors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}
