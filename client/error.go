package client

import (
	"errors"
	"fmt"
)

// rateLimitedMessage is reported for every 429 response. Rate-limit
// responses never carry a usable body.
const rateLimitedMessage = "You are being rate-limited. Please try again in a few minutes."

var (
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrUpgradeRequired    = errors.New("upgrade required")
	ErrRateLimited        = errors.New("rate limited")
	ErrServerError        = errors.New("server error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUnexpected         = errors.New("unexpected status code")
	ErrTransportFailure   = errors.New("transport failure")

	// ErrAuthFailure is joined with the kind sentinel when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")

	ErrNilRequest  = errors.New("request must not be nil")
	ErrNilURL      = errors.New("request URL must not be nil")
	ErrNilCallback = errors.New("callback must not be nil")
	ErrClosed      = errors.New("client closed")
)

// Error is the classified failure of a single request. Every failure
// delivered to a [Callback] or returned from [Client.Do] is an *Error.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%v: %s", e.Kind.Err(), e.Message)
	}

	return fmt.Sprintf("%v: %d, body: %s", e.Kind.Err(), e.StatusCode, e.Message)
}

// Unwrap exposes the kind sentinel, [ErrAuthFailure] for auth kinds,
// and the underlying cause when there is one.
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind.Err()}
	if e.Kind == Unauthorized || e.Kind == Forbidden {
		errs = append(errs, ErrAuthFailure)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// Transient reports whether a caller may reasonably retry the request.
func (e *Error) Transient() bool {
	return e.Kind.Transient()
}

// transportError classifies a fault that happened below the parser:
// dial, TLS, timeout, a throttle wait, or a broken body stream.
func transportError(err error) *Error {
	return &Error{
		Kind:    TransportFailure,
		Message: err.Error(),
		Err:     err,
	}
}
