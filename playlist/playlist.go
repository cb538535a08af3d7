// Package playlist flattens HLS playlist trees into ordered segment lists.
package playlist

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/clipharbor/clipharbor/media"
)

// DirectiveMarker starts tag and comment lines.
const DirectiveMarker = "#"

// DefaultMaxDepth bounds playlist nesting when the resolver is left unconfigured.
const DefaultMaxDepth = 8

var (
	ErrCycle   = errors.New("playlist cycle detected")
	ErrTooDeep = errors.New("playlist nesting too deep")
)

// Fetcher retrieves a playlist body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Resolver expands playlists depth-first, splicing nested playlists in place.
type Resolver struct {
	Client   Fetcher
	MaxDepth int

	// OnPlaylist, when set, is called before each playlist fetch.
	OnPlaylist func(url string, depth int)
}

// Resolve returns the segment URLs reachable from playlistURL, in encounter order.
// A failed fetch anywhere in the tree aborts the whole resolution.
func (r *Resolver) Resolve(ctx context.Context, playlistURL string) ([]string, error) {
	return r.resolve(ctx, playlistURL, 0, make(map[string]struct{}))
}

func (r *Resolver) resolve(ctx context.Context, playlistURL string, depth int, path map[string]struct{}) ([]string, error) {
	maxDepth := r.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	if depth >= maxDepth {
		return nil, fmt.Errorf("%w: %s exceeds depth %d", ErrTooDeep, playlistURL, maxDepth)
	}

	if _, seen := path[playlistURL]; seen {
		return nil, fmt.Errorf("%w: %s", ErrCycle, playlistURL)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.OnPlaylist != nil {
		r.OnPlaylist(playlistURL, depth)
	}

	base, err := url.Parse(playlistURL)
	if err != nil {
		return nil, fmt.Errorf("parse playlist url: %w", err)
	}

	body, err := r.Client.Fetch(ctx, playlistURL)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist %s: %w", playlistURL, err)
	}

	entries, err := Parse(base, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("read playlist %s: %w", playlistURL, err)
	}

	path[playlistURL] = struct{}{}
	defer delete(path, playlistURL)

	var segments []string
	for _, entry := range entries {
		if media.KindOf(entry) != media.Playlist {
			segments = append(segments, entry)
			continue
		}

		nested, err := r.resolve(ctx, entry, depth+1, path)
		if err != nil {
			return nil, err
		}
		segments = append(segments, nested...)
	}

	return segments, nil
}

// Parse returns every URI line of a playlist resolved against base.
// Blank lines and directive lines are skipped.
func Parse(base *url.URL, r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var entries []string
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, DirectiveMarker) {
			continue
		}

		abs, err := base.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", line, err)
		}
		entries = append(entries, abs.String())
	}

	return entries, scanner.Err()
}
