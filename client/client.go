package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/payhttp/client/dispatch"
	"github.com/adamwoolhether/payhttp/client/throttle"
	"github.com/adamwoolhether/payhttp/client/worker"
)

// Client issues requests through a [Transport], classifies every response,
// and hands each outcome to a [Callback] on a single execution context.
type Client struct {
	transport Transport
	logger    *slog.Logger
	tracer    trace.Tracer
	pool      *worker.Pool
	executor  dispatch.Executor

	// loop is set when the Client owns its executor.
	loop      *dispatch.Loop
	closeOnce sync.Once
}

// Build creates a Client. Unless overridden via options it uses a fresh
// *http.Client over [http.DefaultTransport], [slog.Default], a no-op
// tracer, an unlimited worker pool and a Client-owned [dispatch.Loop].
func Build(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client{
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("no-op tracer"),
		pool:   worker.NewPool(opts.workers),
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	switch {
	case opts.connector != nil && opts.usesHTTPOptions():
		return nil, errors.New("connector cannot be combined with net/http options")
	case opts.connector != nil:
		client.transport = opts.connector
	default:
		hc, err := httpClient(opts, func() *slog.Logger { return client.logger })
		if err != nil {
			return nil, err
		}
		client.transport = httpTransport{c: hc}
	}

	if opts.executor != nil {
		client.executor = opts.executor
	} else {
		client.loop = dispatch.NewLoop()
		client.executor = client.loop
	}

	return client, nil
}

// httpClient assembles the net/http client, layering the round trippers
// base → user agent → throttle.
func httpClient(opts options, logFn func() *slog.Logger) (*http.Client, error) {
	hc := &http.Client{}
	if opts.client != nil {
		cpy := *opts.client
		hc = &cpy
	}

	if opts.timeout != nil {
		hc.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, logFn, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	hc.Transport = transport

	return hc, nil
}

// Execute sends req on a background worker and returns immediately.
// cb is invoked exactly once, on the Client's executor, after the response
// has been fully parsed or the transport has failed.
//
// Execute only returns an error when the request is not accepted, in
// which case cb is never invoked.
func (c *Client) Execute(req *http.Request, cb Callback) error {
	if req == nil {
		return ErrNilRequest
	}
	if cb == nil {
		return ErrNilCallback
	}
	if req.URL == nil {
		return ErrNilURL
	}

	id := uuid.NewString()

	err := c.pool.Go(req.Context(), func(context.Context) {
		c.deliver(id, c.safeExec(req, id), cb)
	})
	if errors.Is(err, worker.ErrShutdown) {
		return ErrClosed
	}

	return err
}

// Do runs the same request lifecycle as Execute, synchronously on the
// calling goroutine. Once the request is accepted any returned error is an
// *Error; a nil request or URL is rejected with [ErrNilRequest] or [ErrNilURL].
func (c *Client) Do(req *http.Request) (string, error) {
	if req == nil {
		return "", ErrNilRequest
	}
	if req.URL == nil {
		return "", ErrNilURL
	}

	return c.safeExec(req, uuid.NewString()).Result()
}

// Close stops accepting requests, waits until every accepted request has
// handed its outcome to the executor, and then stops the Client-owned
// executor after it has run the queued callbacks. An executor supplied
// through [WithExecutor] is left running.
//
// Close must not be called from within a Callback.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.pool.Shutdown()
		c.pool.Wait()

		if c.loop != nil {
			c.loop.Close()
		}
	})

	return nil
}

func (c *Client) deliver(id string, o Outcome, cb Callback) {
	body, err := o.Result()

	if postErr := c.executor.Post(func() { cb(body, err) }); postErr != nil {
		c.logger.Error("executor rejected callback", "request_id", id, "error", postErr)
	}
}

// safeExec runs exec, reporting a panic in the transport or parser as a
// TransportFailure so the request still reaches its callback.
func (c *Client) safeExec(req *http.Request, id string) (o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("request panicked", "request_id", id, "panic", r)
			o = Failure{Err: transportError(fmt.Errorf("panic: %v", r))}
		}
	}()

	return c.exec(req, id)
}

// exec runs one request to its terminal outcome and records it.
func (c *Client) exec(req *http.Request, id string) Outcome {
	ctx, span := c.tracer.Start(req.Context(), "payhttp.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("request.id", id),
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL.String()),
		),
	)
	defer span.End()

	start := time.Now()
	o, statusCode := c.roundTrip(req.WithContext(ctx))

	attrs := []any{"request_id", id, "method", req.Method, "path", req.URL.Path, "status_code", statusCode, "since", time.Since(start).String()}
	if statusCode != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	}

	switch o := o.(type) {
	case Success:
		span.SetStatus(codes.Ok, "")
		c.logger.Info("request completed", attrs...)

	case Failure:
		span.SetAttributes(
			attribute.String("error.kind", o.Err.Kind.String()),
			attribute.Bool("error.transient", o.Err.Transient()),
		)
		span.RecordError(o.Err)
		span.SetStatus(codes.Error, o.Err.Kind.String())
		c.logger.Info("request failed", append(attrs, "kind", o.Err.Kind.String(), "error", o.Err)...)
	}

	return o
}

// roundTrip opens the connection, parses it and always closes it before
// returning. The status code is zero when the transport failed.
func (c *Client) roundTrip(req *http.Request) (Outcome, int) {
	conn, err := c.transport.Open(req)
	if err != nil {
		return Failure{Err: transportError(err)}, 0
	}
	defer func() {
		if err := conn.Close(); err != nil {
			c.logger.Error("failed to close connection", "error", err)
		}
	}()

	statusCode := conn.StatusCode()

	return outcomeOf(Parse(statusCode, conn)), statusCode
}
