// Package api implements the typed HTTP client for the portfolio backend:
// profile, project and achievement CRUD, the activity feed, settings, media
// upload authorization and sandbox provisioning.
package api

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying remote failures. Callers route on these with
// errors.Is; the full remote message travels inside *Error.
var (
	// ErrUnauthenticated means the bearer token was missing or rejected.
	// Never retried silently; the caller must surface a re-login path.
	ErrUnauthenticated = errors.New("api: unauthenticated")

	// ErrConflict means the submitted base version was stale: another edit
	// session saved the same entity first.
	ErrConflict = errors.New("api: version conflict")

	// ErrNotFound means the addressed entity does not exist (anymore).
	ErrNotFound = errors.New("api: not found")

	// ErrUnreachable means the backend could not be contacted at all. It is
	// distinct from a server-side failure and from an empty result list.
	ErrUnreachable = errors.New("api: backend unreachable")
)

// Error is a failure reported by the backend. It wraps one of the sentinel
// errors above (or none, for plain server errors) and carries the message
// extracted from the response envelope when one was present.
type Error struct {
	// Status is the HTTP status code of the response.
	Status int
	// Message is the backend-provided message, or a generic fallback.
	Message string
	// kind is the sentinel this error unwraps to, if any.
	kind error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (http %d)", e.Message, e.Status)
}

// Unwrap lets errors.Is match the sentinel classification.
func (e *Error) Unwrap() error { return e.kind }

// newError classifies a non-2xx response into an *Error.
func newError(status int, message string) *Error {
	if message == "" {
		message = "request failed"
	}
	e := &Error{Status: status, Message: message}
	switch status {
	case 401, 403:
		e.kind = ErrUnauthenticated
	case 404:
		e.kind = ErrNotFound
	case 409, 412:
		e.kind = ErrConflict
	}
	return e
}

// RemoteMessage extracts the backend-provided message from err, or returns
// fallback when err carries none. Used by the dialogs to build the failure
// notification text.
func RemoteMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.Message != "request failed" {
		return apiErr.Message
	}
	return fallback
}
