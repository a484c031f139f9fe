// Package iox provides I/O helpers for resource cleanup.
package iox

import (
	"io"
	"strconv"
)

// DiscardClose closes c and discards the error.
// Use in defer statements where close errors are unactionable:
//
//	defer iox.DiscardClose(f)
func DiscardClose(c io.Closer) { _ = c.Close() }

// DrainClose reads rc to EOF and closes it, discarding both errors.
// Draining lets net/http reuse the connection for the next attempt:
//
//	defer iox.DrainClose(resp.Body)
func DrainClose(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, rc)
	_ = rc.Close()
}

// ReadLimited reads at most limit bytes from r.
// It returns an error wrapping io.ErrUnexpectedEOF if r holds more than limit bytes.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, &LimitError{Limit: limit}
	}
	return data, nil
}

// LimitError is returned by ReadLimited when the input exceeds the limit.
type LimitError struct {
	Limit int64
}

func (e *LimitError) Error() string {
	return "input exceeds limit of " + strconv.FormatInt(e.Limit, 10) + " bytes"
}

// Unwrap lets callers match the error with errors.Is(err, io.ErrUnexpectedEOF).
func (e *LimitError) Unwrap() error { return io.ErrUnexpectedEOF }

// CloseFunc returns a cleanup function that closes c.
// Designed for t.Cleanup registration:
//
//	t.Cleanup(iox.CloseFunc(client))
func CloseFunc(c io.Closer) func() {
	return func() { _ = c.Close() }
}
