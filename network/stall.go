package network

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

// ErrStalled is returned by a body that received no bytes within the read timeout.
var ErrStalled = errors.New("read timeout: no data received")

// ErrNoHeaders is returned when a server accepts a request but sends no response headers within the read timeout.
var ErrNoHeaders = errors.New("read timeout: no response headers")

// stallReader cancels the underlying request when Read makes no progress for longer than timeout.
type stallReader struct {
	body    io.ReadCloser
	size    int64
	timeout time.Duration
	cancel  context.CancelFunc

	mu      sync.Mutex
	timer   *time.Timer
	stalled bool
}

func newStallReader(body io.ReadCloser, size int64, timeout time.Duration, cancel context.CancelFunc) *stallReader {
	r := &stallReader{body: body, size: size, timeout: timeout, cancel: cancel}
	r.timer = time.AfterFunc(timeout, r.fire)
	return r
}

func (r *stallReader) fire() {
	r.mu.Lock()
	r.stalled = true
	r.mu.Unlock()
	r.cancel()
}

func (r *stallReader) Read(p []byte) (int, error) {
	n, err := r.body.Read(p)
	if n > 0 {
		r.timer.Reset(r.timeout)
	}

	if err != nil && err != io.EOF {
		r.mu.Lock()
		stalled := r.stalled
		r.mu.Unlock()
		if stalled {
			return n, ErrStalled
		}
	}
	return n, err
}

// Size is the announced body length, or -1 when the server did not send one.
func (r *stallReader) Size() int64 {
	return r.size
}

func (r *stallReader) Close() error {
	r.timer.Stop()
	err := r.body.Close()
	r.cancel()
	return err
}
