// Package restyconn opens payhttp connections through a resty client, for
// applications that already configure their outbound HTTP with resty.
package restyconn

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/adamwoolhether/payhttp/client"
	"github.com/adamwoolhether/payhttp/client/throttle"
)

// ClientConfig mirrors the net/http options of the payhttp client for a
// resty based setup.
type ClientConfig struct {
	Timeout           time.Duration
	UserAgent         string
	NoFollowRedirects bool
	Throttle          *throttle.Config
}

// NewClient builds a *resty.Client from cfg. logger may be nil.
func NewClient(cfg ClientConfig, logger *slog.Logger) (*resty.Client, error) {
	rc := resty.New()

	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	if cfg.UserAgent != "" {
		rc.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.NoFollowRedirects {
		rc.GetClient().CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	if cfg.Throttle != nil {
		rt, err := throttle.NewRoundTripper(*cfg.Throttle, func() *slog.Logger { return logger }, http.DefaultTransport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		rc.SetTransport(rt)
	}

	return rc, nil
}

// Transport is a [client.Transport] backed by *resty.Client.
type Transport struct {
	rc *resty.Client
}

// New wraps rc. A nil rc gets resty's defaults.
func New(rc *resty.Client) *Transport {
	if rc == nil {
		rc = resty.New()
	}
	return &Transport{rc: rc}
}

// Open executes req through resty without letting it parse or buffer the
// response, so the raw body stream reaches the parser untouched.
func (t *Transport) Open(req *http.Request) (client.Connection, error) {
	r := t.rc.R().
		SetContext(req.Context()).
		SetDoNotParseResponse(true)

	for k, vs := range req.Header {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}

	if req.Body != nil && req.Body != http.NoBody {
		body, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
		r.SetBody(body)
	}

	resp, err := r.Execute(req.Method, req.URL.String())
	if err != nil {
		return nil, fmt.Errorf("resty execute: %w", err)
	}

	raw := resp.RawResponse
	if raw == nil {
		return nil, fmt.Errorf("resty execute: no response for %s %s", req.Method, req.URL.Redacted())
	}
	raw.Body = resp.RawBody()

	return client.NewConnection(raw), nil
}
