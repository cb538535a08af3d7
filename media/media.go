// Package media classifies candidate URLs by the kind of resource they point at.
package media

import (
	"net/url"
	"path"
	"strings"
)

// Recognized extensions and markers.
const (
	ExtSingleFile = ".mp4"
	ExtPlaylist   = ".m3u8"
	ExtSegment    = ".ts"
	ExtBinary     = ".bin"

	// MasterMarker identifies a master playlist by name.
	MasterMarker = "master.m3u8"
)

// Kind is the resource type a URL is judged to be from its shape alone.
type Kind int

const (
	Unknown Kind = iota
	SingleFile
	Playlist
	Segment
)

func (k Kind) String() string {
	switch k {
	case SingleFile:
		return "file"
	case Playlist:
		return "playlist"
	case Segment:
		return "segment"
	default:
		return "unknown"
	}
}

// Ext returns the lower-cased extension of the URL path.
// Query strings and fragments do not affect the result.
func Ext(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return strings.ToLower(path.Ext(p))
}

// KindOf classifies rawURL by the extension it ends with. A URL whose query string
// names the file (get?file=clip.mp4) is judged by that suffix; otherwise the path
// extension decides, so signed URLs (a.m3u8?sig=...) keep their kind.
func KindOf(rawURL string) Kind {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	for _, ext := range []string{ExtPlaylist, ExtSingleFile, ExtSegment} {
		if strings.HasSuffix(lower, ext) {
			return kindOfExt(ext)
		}
	}

	return kindOfExt(Ext(rawURL))
}

func kindOfExt(ext string) Kind {
	switch ext {
	case ExtSingleFile:
		return SingleFile
	case ExtPlaylist:
		return Playlist
	case ExtSegment:
		return Segment
	default:
		return Unknown
	}
}

// IsMedia reports whether rawURL ends in a recognized media extension.
func IsMedia(rawURL string) bool {
	return KindOf(rawURL) != Unknown
}

// IsMaster reports whether rawURL names a master playlist.
func IsMaster(rawURL string) bool {
	return strings.Contains(strings.ToLower(rawURL), MasterMarker)
}

// OutputName returns the file name a stream of kind is saved under.
// Playlists are concatenated into a transport stream.
func OutputName(stem string, kind Kind) string {
	switch kind {
	case SingleFile:
		return stem + ExtSingleFile
	case Playlist, Segment:
		return stem + ExtSegment
	default:
		return stem + ExtBinary
	}
}
