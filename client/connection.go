package client

import (
	"io"
	"net/http"
	"strings"
	"sync"
)

// maxDrainSize caps how much of an unread body is discarded before the
// connection is closed. Anything longer is cut off with the connection.
const maxDrainSize = 4 << 10 // 4KB

// httpConnection adapts an *http.Response to a [Connection].
// net/http exposes a single body; it is offered as Body for success
// statuses and as ErrorBody otherwise.
type httpConnection struct {
	resp *http.Response
	body *onceCloser
}

// NewConnection wraps resp as a [Connection]. Custom transports built on
// net/http can use it to satisfy [Transport].
func NewConnection(resp *http.Response) Connection {
	return &httpConnection{
		resp: resp,
		body: &onceCloser{rc: resp.Body},
	}
}

func (c *httpConnection) StatusCode() int { return c.resp.StatusCode }

func (c *httpConnection) Body() io.ReadCloser {
	if !IsSuccess(c.resp.StatusCode) || c.resp.Body == nil {
		return nil
	}
	return c.body
}

func (c *httpConnection) ErrorBody() io.ReadCloser {
	if IsSuccess(c.resp.StatusCode) || c.resp.Body == nil {
		return nil
	}
	return c.body
}

func (c *httpConnection) GzipEncoded() bool {
	return strings.EqualFold(c.resp.Header.Get("Content-Encoding"), "gzip")
}

// Close drains up to maxDrainSize of anything left unread, so the
// underlying connection can be reused, and closes the body if the parser
// has not already done so.
func (c *httpConnection) Close() error {
	if c.resp.Body == nil {
		return nil
	}

	return c.body.drainAndClose()
}

// onceCloser closes the wrapped body at most once.
type onceCloser struct {
	rc   io.ReadCloser
	once sync.Once
	err  error
	done bool
}

func (o *onceCloser) Read(p []byte) (int, error) {
	return o.rc.Read(p)
}

func (o *onceCloser) Close() error {
	o.once.Do(func() {
		o.done = true
		o.err = o.rc.Close()
	})
	return o.err
}

func (o *onceCloser) drainAndClose() error {
	if !o.done {
		if _, err := io.Copy(io.Discard, io.LimitReader(o.rc, maxDrainSize)); err != nil {
			_ = o.Close()
			return err
		}
	}
	return o.Close()
}
