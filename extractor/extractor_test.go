package extractor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/clipharbor/clipharbor/blocklist"
	"github.com/clipharbor/clipharbor/network"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func mustParse(pageURL, markup string) *Page {
	return lo.Must(Parse(pageURL, strings.NewReader(markup)))
}

func TestStatic(t *testing.T) {
	filter := blocklist.New(blocklist.Defaults...)
	static := Static{Filter: filter}

	Convey("Given a page with a single video element", t, func() {
		page := mustParse("https://example.com/watch/42", `<html><body><video src="clip.mp4"></video></body></html>`)

		Convey("Exactly one absolute candidate is returned", func() {
			So(static.Extract(page), ShouldResemble, []string{"https://example.com/watch/clip.mp4"})
		})
	})

	Convey("Given a page with sources, anchors and noise", t, func() {
		page := mustParse("https://example.com/a/page.html", `
<html><body>
  <video><source src="/media/hls/master.m3u8"><source data-src="lazy.mp4"></video>
  <a href="https://ads.doubleclick.net/promo.mp4">ad</a>
  <a href="downloads/part1.TS">segment</a>
  <a href="/about">about</a>
  <a href="mailto:someone@example.com">mail</a>
  <video src="blob:https://example.com/1234"></video>
  <a href="/media/hls/master.m3u8">duplicate</a>
</body></html>`)

		Convey("Media links are resolved, filtered and kept in encounter order", func() {
			So(static.Extract(page), ShouldResemble, []string{
				"https://example.com/media/hls/master.m3u8",
				"https://example.com/a/lazy.mp4",
				"https://example.com/a/downloads/part1.TS",
			})
		})
	})

	Convey("A page without media yields nothing", t, func() {
		page := mustParse("https://example.com/", `<p>nothing here</p>`)
		So(static.Extract(page), ShouldBeEmpty)
	})
}

func TestScripts(t *testing.T) {
	scripts := Scripts{Filter: blocklist.New(blocklist.Defaults...)}

	Convey("ScanText", t, func() {
		Convey("finds plain and escaped-slash URLs", func() {
			text := `var cfg = {"hls":"https:\/\/cdn.example.com\/v\/index.m3u8","mp4":"https://cdn.example.com/v/low.mp4?sig=abc"};`
			So(scripts.ScanText(text), ShouldResemble, []string{
				"https://cdn.example.com/v/index.m3u8",
				"https://cdn.example.com/v/low.mp4?sig=abc",
			})
		})

		Convey("drops blocked URLs whatever their case", func() {
			text := `load("https://static.Analytics.example/beacon.mp4"); play("https://cdn.example/ok.ts")`
			So(scripts.ScanText(text), ShouldResemble, []string{"https://cdn.example/ok.ts"})
		})

		Convey("de-duplicates repeated URLs", func() {
			text := `a="https://cdn.example/x.mp4"; b="https://cdn.example/x.mp4"`
			So(scripts.ScanText(text), ShouldResemble, []string{"https://cdn.example/x.mp4"})
		})

		Convey("ignores look-alike extensions", func() {
			So(scripts.ScanText(`import("https://cdn.example/app.tsx")`), ShouldBeEmpty)
		})

		Convey("keeps escaped slashes inside the query string", func() {
			text := `{"src":"https:\/\/cdn.example.com\/v\/index.m3u8?sig=ab\/cd&e=1"}`
			So(scripts.ScanText(text), ShouldResemble, []string{
				"https://cdn.example.com/v/index.m3u8?sig=ab/cd&e=1",
			})
		})

		Convey("does not cut a media extension out of a longer file name", func() {
			text := `poster = "https://cdn.example.com/thumb.mp4.jpg"; src = "https://cdn.example.com/full.mp4"`
			So(scripts.ScanText(text), ShouldResemble, []string{"https://cdn.example.com/full.mp4"})
		})

		Convey("accepts a URL at the very end of the text", func() {
			So(scripts.ScanText(`https://cdn.example.com/last.ts`), ShouldResemble, []string{"https://cdn.example.com/last.ts"})
		})
	})

	Convey("Extract walks every inline script", t, func() {
		page := mustParse("https://example.com/", `
<script>window.player = {src: "https://cdn.example.com/one.mp4"};</script>
<script type="application/json">{"next":"https:\/\/cdn.example.com\/two.m3u8"}</script>
<script src="/bundle.js"></script>`)

		So(scripts.Extract(page), ShouldResemble, []string{
			"https://cdn.example.com/one.mp4",
			"https://cdn.example.com/two.m3u8",
		})
	})
}

func TestFetch(t *testing.T) {
	Convey("Given a server returning markup", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/broken" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = io.WriteString(w, `<video src="clip.mp4"></video>`)
		}))
		defer server.Close()

		client := network.New(network.DefaultOptions())

		Convey("Fetch parses the document", func() {
			page, err := Fetch(context.Background(), client, server.URL+"/watch", time.Second)
			So(err, ShouldBeNil)
			So(Static{}.Extract(page), ShouldResemble, []string{server.URL + "/clip.mp4"})
		})

		Convey("Fetch reports HTTP failures", func() {
			_, err := Fetch(context.Background(), client, server.URL+"/broken", time.Second)
			var fetchErr *network.FetchError
			So(errors.As(err, &fetchErr), ShouldBeTrue)
		})

		Convey("Parse rejects a malformed page address", func() {
			_, err := Parse("http://[::1", strings.NewReader(""))
			var parseErr *ParseError
			So(errors.As(err, &parseErr), ShouldBeTrue)
		})
	})
}

func TestFeed(t *testing.T) {
	feed := Feed{Filter: blocklist.New(blocklist.Defaults...)}

	Convey("Given an RSS feed with video enclosures", t, func() {
		rss := `<?xml version="1.0"?>
<rss version="2.0"><channel><title>clips</title>
  <item><title>one</title><link>https://example.com/posts/1</link>
    <enclosure url="https://cdn.example.com/one.mp4" type="video/mp4" length="10"/></item>
  <item><title>two</title><link>https://cdn.example.com/two/index.m3u8</link></item>
  <item><title>three</title>
    <enclosure url="https://cdn.example.com/stream" type="application/vnd.apple.mpegurl" length="0"/></item>
  <item><title>ad</title>
    <enclosure url="https://ads.doubleclick.net/promo.mp4" type="video/mp4" length="1"/></item>
  <item><title>podcast</title>
    <enclosure url="https://cdn.example.com/episode.mp3" type="audio/mpeg" length="1"/></item>
</channel></rss>`
		page := mustParse("https://example.com/feed.xml", rss)
		page.Raw = []byte(rss)

		Convey("Typed enclosures and media links are collected in item order", func() {
			So(feed.Extract(page), ShouldResemble, []string{
				"https://cdn.example.com/one.mp4",
				"https://cdn.example.com/two/index.m3u8",
				"https://cdn.example.com/stream",
			})
		})
	})

	Convey("An HTML page is not a feed", t, func() {
		markup := `<html><body><video src="clip.mp4"></video></body></html>`
		page := mustParse("https://example.com/", markup)
		page.Raw = []byte(markup)
		So(feed.Extract(page), ShouldBeEmpty)
	})

	Convey("A page without a raw body yields nothing", t, func() {
		So(feed.Extract(mustParse("https://example.com/", `<p/>`)), ShouldBeEmpty)
	})
}
