package client

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
)

// readChunkSize is the size of each read from a response stream.
const readChunkSize = 1 << 10 // 1KB

// ReadStream drains rc into a UTF-8 string, decompressing it first when
// gzipEncoded is set. A nil rc yields ok == false and no error.
//
// rc is closed exactly once on every return path. Close errors are
// discarded so they never mask a read error or a successful result;
// read errors are returned wrapped and match the original via errors.Is.
func ReadStream(rc io.ReadCloser, gzipEncoded bool) (body string, ok bool, err error) {
	if rc == nil {
		return "", false, nil
	}
	defer func() {
		_ = rc.Close()
	}()

	var r io.Reader = rc
	if gzipEncoded {
		gz, err := gzip.NewReader(rc)
		if err != nil {
			return "", false, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer func() {
			_ = gz.Close()
		}()

		r = gz
	}

	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	for {
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", false, fmt.Errorf("reading stream: %w", err)
		}
	}

	decoded, err := unicode.UTF8.NewDecoder().Bytes(buf.Bytes())
	if err != nil {
		return "", false, fmt.Errorf("decoding stream: %w", err)
	}

	return string(decoded), true, nil
}
