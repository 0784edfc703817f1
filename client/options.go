package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/payhttp/client/dispatch"
	"github.com/adamwoolhether/payhttp/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	connector         Transport
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	tracer            trace.Tracer
	executor          dispatch.Executor
	workers           int
}

// WithClient replaces the default [http.Client] used by the [Client].
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithConnector replaces the net/http based [Transport] entirely.
// The net/http options (WithClient, WithTransport, WithTimeout,
// WithUserAgent, WithThrottle, WithNoFollowRedirects) cannot be combined with it.
func WithConnector(t Transport) Option {
	return func(c *options) error {
		if t == nil {
			return errors.New("connector must not be nil")
		}
		c.connector = t
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		cfg := throttle.Config{RPS: rps, Burst: burst}
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.throttle = &cfg
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
// Redirect statuses are then classified as [Unexpected].
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithTracer records one span per request with the given tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithExecutor sets the execution context on which every [Callback] runs.
// The caller keeps ownership of the executor; [Client.Close] does not stop it.
func WithExecutor(e dispatch.Executor) Option {
	return func(c *options) error {
		if e == nil {
			return errors.New("executor must not be nil")
		}
		c.executor = e
		return nil
	}
}

// WithWorkers limits the number of requests performing I/O at once.
// Zero means unlimited.
func WithWorkers(n int) Option {
	return func(c *options) error {
		if n < 0 {
			return fmt.Errorf("workers[%d] must not be negative", n)
		}
		c.workers = n
		return nil
	}
}

func (o options) usesHTTPOptions() bool {
	return o.client != nil || o.rt != nil || o.timeout != nil || o.userAgent != "" || o.throttle != nil || o.noFollowRedirects
}
