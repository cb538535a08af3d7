package extractor

import (
	"bytes"
	"strings"

	"github.com/clipharbor/clipharbor/blocklist"
	"github.com/clipharbor/clipharbor/media"
	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"
)

// Feed collects video enclosures when the page is an RSS, Atom or JSON feed.
type Feed struct {
	Filter blocklist.Filter
}

// Name identifies the collector in logs.
func (Feed) Name() string {
	return "feed"
}

// Extract returns the media URLs of every item, newest first as the feed lists them.
// Pages that are not feeds yield nothing.
func (f Feed) Extract(page *Page) []string {
	if len(page.Raw) == 0 {
		return nil
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(page.Raw))
	if err != nil {
		return nil
	}

	var found []string
	add := func(ref string, typed bool) {
		abs, ok := page.Resolve(strings.TrimSpace(ref))
		if !ok || f.Filter.Reject(abs) {
			return
		}
		if typed || media.IsMedia(abs) {
			found = append(found, abs)
		}
	}

	for _, item := range feed.Items {
		for _, enc := range item.Enclosures {
			add(enc.URL, strings.HasPrefix(strings.ToLower(enc.Type), "video/") || isPlaylistType(enc.Type))
		}
		add(item.Link, false)
	}

	return lo.Uniq(found)
}

func isPlaylistType(mime string) bool {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "application/vnd.apple.mpegurl", "application/x-mpegurl", "audio/mpegurl":
		return true
	}
	return false
}
