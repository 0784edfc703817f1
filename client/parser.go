package client

import (
	"fmt"
	"io"
	"net/http"
)

// Connection is the raw response handed over by a [Transport].
// It belongs to a single request and must not be shared.
type Connection interface {
	StatusCode() int
	// Body is the response stream for success statuses, or nil.
	Body() io.ReadCloser
	// ErrorBody is the response stream for failure statuses, or nil.
	ErrorBody() io.ReadCloser
	GzipEncoded() bool
	// Close releases the connection. It must be safe to call after
	// either stream has already been closed.
	Close() error
}

// Parse reads the stream selected by statusCode from conn and classifies
// the response. It returns the body for 200, 201 and 202, and an *Error
// for every other status. A 429 never reads a stream.
//
// A failure reading the stream is returned as is, without classification.
func Parse(statusCode int, conn Connection) (string, error) {
	if statusCode == http.StatusTooManyRequests {
		return "", &Error{
			Kind:       RateLimited,
			StatusCode: statusCode,
			Message:    rateLimitedMessage,
		}
	}

	success := IsSuccess(statusCode)

	var stream io.ReadCloser
	if success {
		stream = conn.Body()
	} else {
		stream = conn.ErrorBody()
	}

	body, _, err := ReadStream(stream, conn.GzipEncoded())
	if err != nil {
		return "", fmt.Errorf("parsing %d response: %w", statusCode, err)
	}

	if success {
		return body, nil
	}

	return "", &Error{
		Kind:       KindOf(statusCode),
		StatusCode: statusCode,
		Message:    body,
	}
}
