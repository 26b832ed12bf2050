// Package apierrors defines the error kinds surfaced to API callers.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Kind is a stable, machine-readable error category.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindTransaction    Kind = "transaction"
	KindInternal       Kind = "internal"
)

// APIError is an error that is safe to show to the caller. Err keeps the
// internal cause for logging and errors.Is, it is never rendered.
type APIError struct {
	Kind     Kind
	HTTPCode int
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// As returns the APIError in err's chain, if any.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Kind == kind
}

func NewErrValidation(format string, args ...any) *APIError {
	return &APIError{
		Kind:     KindValidation,
		HTTPCode: http.StatusBadRequest,
		Message:  fmt.Sprintf(format, args...),
	}
}

func NewErrInvalidRecordID(raw string) *APIError {
	return NewErrValidation("invalid record id %q", raw)
}

func NewErrEmailIsTaken(email string) *APIError {
	return &APIError{
		Kind:     KindConflict,
		HTTPCode: http.StatusConflict,
		Message:  fmt.Sprintf("an account with email %s already exists", email),
	}
}

// NewErrInvalidCredentials hides whether the account or the password was wrong.
func NewErrInvalidCredentials(cause error) *APIError {
	return &APIError{
		Kind:     KindAuthentication,
		HTTPCode: http.StatusUnauthorized,
		Message:  "invalid credentials",
		Err:      cause,
	}
}

func NewErrUnauthorized(cause error) *APIError {
	return &APIError{
		Kind:     KindAuthentication,
		HTTPCode: http.StatusUnauthorized,
		Message:  "the authentication token is missing, expired or invalid",
		Err:      cause,
	}
}

func NewErrUserNotFound(userID uuid.UUID) *APIError {
	return &APIError{
		Kind:     KindAuthentication,
		HTTPCode: http.StatusUnauthorized,
		Message:  "the account for this session no longer exists",
		Err:      fmt.Errorf("user %s not found", userID),
	}
}

func NewErrRecordNotFound(recordID uuid.UUID) *APIError {
	return &APIError{
		Kind:     KindNotFound,
		HTTPCode: http.StatusNotFound,
		Message:  fmt.Sprintf("no record with id %s", recordID),
	}
}

// NewErrImportAborted reports a rolled back bulk import. Validation causes
// map to 400, everything else to 500 with a generic message.
func NewErrImportAborted(index int, cause error) *APIError {
	if apiErr, ok := As(cause); ok && apiErr.Kind == KindValidation {
		return &APIError{
			Kind:     KindTransaction,
			HTTPCode: http.StatusBadRequest,
			Message:  fmt.Sprintf("import aborted, nothing was saved: record %d: %s", index, apiErr.Message),
			Err:      cause,
		}
	}
	return &APIError{
		Kind:     KindTransaction,
		HTTPCode: http.StatusInternalServerError,
		Message:  fmt.Sprintf("import aborted, nothing was saved: record %d could not be stored", index),
		Err:      cause,
	}
}

// NewErrImportFailed reports a rolled back bulk import whose failure is not
// tied to a single record, such as a failed commit.
func NewErrImportFailed(cause error) *APIError {
	return &APIError{
		Kind:     KindTransaction,
		HTTPCode: http.StatusInternalServerError,
		Message:  "import aborted, nothing was saved",
		Err:      cause,
	}
}

func NewErrInternalServerError(cause error) *APIError {
	return &APIError{
		Kind:     KindInternal,
		HTTPCode: http.StatusInternalServerError,
		Message:  "internal server error",
		Err:      cause,
	}
}
