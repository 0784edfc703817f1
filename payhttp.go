// Package payhttp exposes the client builder for the payment SDK's HTTP
// transport core.
package payhttp

import (
	"github.com/adamwoolhether/payhttp/client"
)

// NewClient instantiates a new *client.Client with the provided options.
// If not specified, a fresh http.Client over http.DefaultTransport is used
// and callbacks run on a client-owned serial loop.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}
