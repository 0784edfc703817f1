package client

import (
	"fmt"
	"net/http"
)

// Transport opens a connection for a request. Implementations own dialing,
// TLS and pooling; a returned error is reported as a [TransportFailure].
type Transport interface {
	Open(req *http.Request) (Connection, error)
}

// TransportFunc adapts an ordinary function to a [Transport].
type TransportFunc func(req *http.Request) (Connection, error)

func (f TransportFunc) Open(req *http.Request) (Connection, error) {
	return f(req)
}

// httpTransport is the default [Transport], backed by an *http.Client.
type httpTransport struct {
	c *http.Client
}

func (t httpTransport) Open(req *http.Request) (Connection, error) {
	resp, err := t.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exec http do: %w", err)
	}

	return NewConnection(resp), nil
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}
