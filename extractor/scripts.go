package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/clipharbor/clipharbor/blocklist"
	"github.com/samber/lo"
)

// scriptURLPattern matches absolute media URLs, including the escaped-slash form
// (https:\/\/host\/a.m3u8?sig=a\/b) found inside JSON-encoded script strings.
// The URL is the first group; the trailing group rejects look-alikes such as
// thumb.mp4.jpg or app.tsx.
var scriptURLPattern = regexp.MustCompile(`(https?:\\?/\\?/[^"'\s<>]+\.(?:mp4|m3u8|ts)(?:\?(?:[^"'\s<>\\]|\\/)*)?)(?:[^\w.]|$)`)

// Scripts scans inline script bodies for embedded media URLs.
type Scripts struct {
	Filter blocklist.Filter
}

// Name identifies the collector in logs.
func (Scripts) Name() string {
	return "script"
}

// Extract scans every script element of page.
func (s Scripts) Extract(page *Page) []string {
	var found []string

	page.Doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		found = append(found, s.ScanText(sel.Text())...)
	})

	return lo.Uniq(found)
}

// ScanText returns the unescaped, filtered, de-duplicated media URLs in text.
func (s Scripts) ScanText(text string) []string {
	matches := scriptURLPattern.FindAllStringSubmatch(text, -1)

	urls := lo.FilterMap(matches, func(m []string, _ int) (string, bool) {
		u := strings.ReplaceAll(m[1], `\/`, "/")
		return u, !s.Filter.Reject(u)
	})

	return lo.Uniq(urls)
}
