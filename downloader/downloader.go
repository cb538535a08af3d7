// Package downloader writes a single media file, or an ordered sequence of segments, to disk.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/clipharbor/clipharbor/filesystem"
	"github.com/clipharbor/clipharbor/network"
	"github.com/spf13/afero"
)

// PartSuffix marks an output file that is still being written.
const PartSuffix = ".part"

// ErrNoSegments is returned for a segmented source without segments.
var ErrNoSegments = errors.New("segment list is empty")

// WriteError reports a local filesystem failure.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Opener opens a remote resource for reading.
type Opener interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// Source is what a job downloads: one URL, or an ordered segment list.
type Source struct {
	URL      string
	Segments []string
}

// SingleFile returns a Source for one resource.
func SingleFile(url string) Source {
	return Source{URL: url}
}

// Segmented returns a Source whose segments are concatenated in order.
func Segmented(segments []string) Source {
	return Source{Segments: segments}
}

// IsSegmented reports whether the source is a segment list.
func (s Source) IsSegmented() bool {
	return s.URL == ""
}

// Engine downloads Sources.
type Engine struct {
	Client Opener

	// Fs defaults to the application filesystem backend.
	Fs afero.Fs

	// OnSegment is called after each segment has been appended.
	OnSegment func(done, total int, url string)

	// OnBytes is called while a single file is streamed. total is -1 when unknown.
	OnBytes func(written, total int64)
}

func (e *Engine) fs() afero.Fs {
	if e.Fs != nil {
		return e.Fs
	}
	return filesystem.API()
}

// Download writes src to dest, replacing any existing file, and returns the bytes written.
//
// Data goes to dest+PartSuffix first and is renamed over dest on success;
// on failure the partial file is removed and dest is left untouched.
func (e *Engine) Download(ctx context.Context, src Source, dest string) (written int64, err error) {
	if src.IsSegmented() && len(src.Segments) == 0 {
		return 0, ErrNoSegments
	}

	fs := e.fs()
	part := dest + PartSuffix

	f, err := fs.OpenFile(part, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, &WriteError{Path: part, Err: err}
	}

	defer func() {
		if err != nil {
			_ = f.Close()
			_ = fs.Remove(part)
		}
	}()

	if src.IsSegmented() {
		written, err = e.segments(ctx, f, src.Segments)
	} else {
		written, err = e.copy(ctx, f, src.URL, e.OnBytes)
	}
	if err != nil {
		return written, err
	}

	if err = f.Close(); err != nil {
		return written, &WriteError{Path: part, Err: err}
	}

	if err = fs.Rename(part, dest); err != nil {
		return written, &WriteError{Path: dest, Err: err}
	}

	return written, nil
}

// segments appends each segment body in list order. Each segment gets its own request.
func (e *Engine) segments(ctx context.Context, w io.Writer, segments []string) (int64, error) {
	var total int64

	for i, url := range segments {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, err := e.copy(ctx, w, url, nil)
		total += n
		if err != nil {
			return total, fmt.Errorf("segment %d/%d: %w", i+1, len(segments), err)
		}

		if e.OnSegment != nil {
			e.OnSegment(i+1, len(segments), url)
		}
	}

	return total, nil
}

func (e *Engine) copy(ctx context.Context, w io.Writer, url string, onBytes func(written, total int64)) (int64, error) {
	body, err := e.Client.Open(ctx, url)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	size := int64(-1)
	if sized, ok := body.(interface{ Size() int64 }); ok {
		size = sized.Size()
	}

	cw := &countingWriter{w: w, size: size, onBytes: onBytes}
	n, err := io.Copy(cw, body)
	if cw.err != nil {
		return n, &WriteError{Path: nameOf(w), Err: cw.err}
	}
	if err != nil {
		return n, &network.FetchError{URL: url, Err: err}
	}
	return n, nil
}

// countingWriter remembers write failures so they can be told apart from read failures.
type countingWriter struct {
	w       io.Writer
	written int64
	size    int64
	onBytes func(written, total int64)
	err     error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.written += int64(n)
	if err != nil {
		c.err = err
		return n, err
	}

	if c.onBytes != nil {
		c.onBytes(c.written, c.size)
	}
	return n, nil
}

func nameOf(w io.Writer) string {
	if named, ok := w.(interface{ Name() string }); ok {
		return named.Name()
	}
	return ""
}
