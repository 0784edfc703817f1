package client_test

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"sync"
	"testing"
)

// trackingStream is an io.ReadCloser that counts reads and closes and can
// be told to fail either.
type trackingStream struct {
	mu       sync.Mutex
	r        io.Reader
	reads    int
	closes   int
	readErr  error
	closeErr error
}

func newStream(s string) *trackingStream {
	return &trackingStream{r: strings.NewReader(s)}
}

func newByteStream(b []byte) *trackingStream {
	return &trackingStream{r: bytes.NewReader(b)}
}

func (s *trackingStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reads++
	if s.readErr != nil {
		return 0, s.readErr
	}
	return s.r.Read(p)
}

func (s *trackingStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closes++
	return s.closeErr
}

func (s *trackingStream) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

func (s *trackingStream) readCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// fakeConn is a client.Connection with independently configurable streams.
type fakeConn struct {
	status    int
	body      io.ReadCloser
	errBody   io.ReadCloser
	gzip      bool
	bodyCalls int
	errCalls  int
	closes    int
}

func (c *fakeConn) StatusCode() int { return c.status }

func (c *fakeConn) Body() io.ReadCloser {
	c.bodyCalls++
	return c.body
}

func (c *fakeConn) ErrorBody() io.ReadCloser {
	c.errCalls++
	return c.errBody
}

func (c *fakeConn) GzipEncoded() bool { return c.gzip }

func (c *fakeConn) Close() error {
	c.closes++
	return nil
}

func gzipBytes(t testing.TB, s string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	return buf.Bytes()
}
