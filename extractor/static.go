package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/clipharbor/clipharbor/blocklist"
	"github.com/clipharbor/clipharbor/media"
	"github.com/samber/lo"
)

// staticSelector matches direct video sources, their child sources and every anchor.
// Anchors are narrowed to media extensions after resolution.
const staticSelector = "video[src], video source[src], video source[data-src], a[href]"

// Static collects media links declared directly in the markup.
type Static struct {
	Filter blocklist.Filter
}

// Name identifies the collector in logs.
func (Static) Name() string {
	return "static"
}

// Extract returns absolute media URLs in document order.
func (s Static) Extract(page *Page) []string {
	var found []string

	page.Doc.Find(staticSelector).Each(func(_ int, sel *goquery.Selection) {
		var ref string
		isAnchor := goquery.NodeName(sel) == "a"

		if isAnchor {
			ref, _ = sel.Attr("href")
		} else {
			ref = sel.AttrOr("src", "")
			if strings.TrimSpace(ref) == "" {
				ref = sel.AttrOr("data-src", "")
			}
		}

		abs, ok := page.Resolve(strings.TrimSpace(ref))
		if !ok {
			return
		}

		if isAnchor && !media.IsMedia(abs) {
			return
		}

		if s.Filter.Reject(abs) {
			return
		}

		found = append(found, abs)
	})

	return lo.Uniq(found)
}
