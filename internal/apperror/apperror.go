// Package apperror defines the stable error kinds surfaced to API clients.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a request failure. Kinds are part of the API contract:
// clients switch on them, so values never change.
type Kind string

const (
	// Unauthenticated means no verified caller identity was present.
	Unauthenticated Kind = "unauthenticated"
	// InvalidArgument means required input was missing or malformed.
	InvalidArgument Kind = "invalid_argument"
	// NotFound means a referenced family, invite, or member does not exist.
	NotFound Kind = "not_found"
	// PermissionDenied means the caller lacks the required role.
	PermissionDenied Kind = "permission_denied"
	// FailedPrecondition means the operation cannot proceed in the current
	// state, e.g. redeeming an expired invite.
	FailedPrecondition Kind = "failed_precondition"
	// Aborted means a transactional conflict; the caller should retry.
	Aborted Kind = "aborted"
	// Internal is the catch-all for unexpected server failures.
	Internal Kind = "internal"
)

// Error pairs a kind with a human-readable message safe to return to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given kind and client-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error that carries an underlying cause for logs while
// exposing only the message to clients.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, or Internal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// HTTPStatus maps a kind to its HTTP status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case Unauthenticated:
		return http.StatusUnauthorized
	case InvalidArgument:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case PermissionDenied:
		return http.StatusForbidden
	case FailedPrecondition:
		return http.StatusPreconditionFailed
	case Aborted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
