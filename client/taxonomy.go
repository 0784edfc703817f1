package client

import (
	"net/http"
	"strconv"
)

// Kind tags a failed request with its category.
type Kind int

const (
	Unexpected Kind = iota
	BadRequest
	Unauthorized
	Forbidden
	UpgradeRequired
	RateLimited
	ServerError
	ServiceUnavailable
	TransportFailure
)

type kindInfo struct {
	name      string
	err       error
	transient bool
}

var kinds = map[Kind]kindInfo{
	Unexpected:         {name: "Unexpected", err: ErrUnexpected},
	BadRequest:         {name: "BadRequest", err: ErrBadRequest},
	Unauthorized:       {name: "Unauthorized", err: ErrUnauthorized},
	Forbidden:          {name: "Forbidden", err: ErrForbidden},
	UpgradeRequired:    {name: "UpgradeRequired", err: ErrUpgradeRequired},
	RateLimited:        {name: "RateLimited", err: ErrRateLimited, transient: true},
	ServerError:        {name: "ServerError", err: ErrServerError},
	ServiceUnavailable: {name: "ServiceUnavailable", err: ErrServiceUnavailable, transient: true},
	TransportFailure:   {name: "TransportFailure", err: ErrTransportFailure, transient: true},
}

// statusKinds maps every classified failure status to its kind.
// Codes missing from the table are Unexpected.
var statusKinds = map[int]Kind{
	http.StatusBadRequest:          BadRequest,
	http.StatusUnprocessableEntity: BadRequest,
	http.StatusUnauthorized:        Unauthorized,
	http.StatusForbidden:           Forbidden,
	http.StatusUpgradeRequired:     UpgradeRequired,
	http.StatusTooManyRequests:     RateLimited,
	http.StatusInternalServerError: ServerError,
	http.StatusServiceUnavailable:  ServiceUnavailable,
}

// KindOf returns the failure kind for a non-success status code.
func KindOf(statusCode int) Kind {
	if k, ok := statusKinds[statusCode]; ok {
		return k
	}

	return Unexpected
}

// IsSuccess reports whether statusCode is one the parser treats as success.
func IsSuccess(statusCode int) bool {
	switch statusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return true
	}

	return false
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Err returns the sentinel error matched by errors.Is for this kind.
func (k Kind) Err() error {
	if info, ok := kinds[k]; ok {
		return info.err
	}

	return ErrUnexpected
}

// Transient reports whether failures of this kind may succeed on retry.
func (k Kind) Transient() bool {
	return kinds[k].transient
}
