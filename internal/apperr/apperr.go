// Package apperr carries typed failures from the engine to the single
// boundary layer that renders them. Handlers never log-and-continue a
// permission or provisioning failure; they return one of these and the
// boundary decides the response.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthentication
	KindAuthorization
	KindRoleMismatch
	KindValidation
	KindConflict
	KindNotFound
	KindProvisioning
)

// Error is a typed failure with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Authentication reports bad credentials.
func Authentication(msg string) *Error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

// Denied reports an authorization denial carrying the failing rule's reason.
func Denied(reason string) *Error {
	return &Error{Kind: KindAuthorization, Message: reason}
}

// RoleMismatch reports a login against the wrong role-gated endpoint.
func RoleMismatch(msg string) *Error {
	return &Error{Kind: KindRoleMismatch, Message: msg}
}

// Validation reports a malformed or missing field.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Conflict reports a uniqueness violation.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// NotFound reports a missing entity.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Provisioning reports a failed agent auto-create. This is fatal: it
// means a store invariant was violated, so it is never retried here.
func Provisioning(cause error) *Error {
	return &Error{Kind: KindProvisioning, Message: "agent provisioning failed", cause: cause}
}

// Status maps a failure to its HTTP status code.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization, KindRoleMismatch:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message for a failure. Internal and
// provisioning failures never leak their cause.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal error"
	}
	return e.Message
}
