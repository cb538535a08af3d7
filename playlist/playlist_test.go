package playlist

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/clipharbor/clipharbor/network"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func serve(files map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
}

func TestResolve(t *testing.T) {
	client := network.New(network.DefaultOptions())

	Convey("Given a master playlist with two media playlists of three segments", t, func() {
		server := serve(map[string]string{
			"/hls/master.m3u8": "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=800000\nlow/index.m3u8\n\n#EXT-X-STREAM-INF:BANDWIDTH=1400000\n/hls/high/index.m3u8\n",
			"/hls/low/index.m3u8":  "#EXTM3U\n#EXTINF:4,\na.ts\n#EXTINF:4,\nb.ts\n#EXTINF:4,\nc.ts\n#EXT-X-ENDLIST\n",
			"/hls/high/index.m3u8": "#EXTM3U\r\n#EXTINF:4,\r\nd.ts\r\n#EXTINF:4,\r\ne.ts\r\n#EXTINF:4,\r\nf.ts\r\n",
		})
		defer server.Close()

		resolver := &Resolver{Client: client}
		segments, err := resolver.Resolve(context.Background(), server.URL+"/hls/master.m3u8")

		Convey("Exactly six segments come back in encounter order", func() {
			So(err, ShouldBeNil)
			So(segments, ShouldResemble, []string{
				server.URL + "/hls/low/a.ts",
				server.URL + "/hls/low/b.ts",
				server.URL + "/hls/low/c.ts",
				server.URL + "/hls/high/d.ts",
				server.URL + "/hls/high/e.ts",
				server.URL + "/hls/high/f.ts",
			})
		})

		Convey("No playlist URL remains", func() {
			So(lo.SomeBy(segments, func(s string) bool { return strings.HasSuffix(s, ".m3u8") }), ShouldBeFalse)
		})
	})

	Convey("Given a nested playlist that cannot be fetched", t, func() {
		server := serve(map[string]string{
			"/master.m3u8": "#EXTM3U\nok.m3u8\nmissing.m3u8\n",
			"/ok.m3u8":     "#EXTM3U\n1.ts\n",
		})
		defer server.Close()

		_, err := (&Resolver{Client: client}).Resolve(context.Background(), server.URL+"/master.m3u8")

		Convey("The whole resolution fails", func() {
			var statusErr *network.StatusError
			So(errors.As(err, &statusErr), ShouldBeTrue)
			So(statusErr.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given playlists that reference each other", t, func() {
		server := serve(map[string]string{
			"/a.m3u8": "#EXTM3U\nb.m3u8\n",
			"/b.m3u8": "#EXTM3U\n1.ts\na.m3u8\n",
		})
		defer server.Close()

		_, err := (&Resolver{Client: client}).Resolve(context.Background(), server.URL+"/a.m3u8")

		Convey("The cycle is reported instead of recursing forever", func() {
			So(errors.Is(err, ErrCycle), ShouldBeTrue)
		})
	})

	Convey("Given a chain deeper than the limit", t, func() {
		server := serve(map[string]string{
			"/0.m3u8": "1.m3u8\n",
			"/1.m3u8": "2.m3u8\n",
			"/2.m3u8": "3.m3u8\n",
			"/3.m3u8": "x.ts\n",
		})
		defer server.Close()

		Convey("Resolution stops at MaxDepth", func() {
			_, err := (&Resolver{Client: client, MaxDepth: 3}).Resolve(context.Background(), server.URL+"/0.m3u8")
			So(errors.Is(err, ErrTooDeep), ShouldBeTrue)
		})

		Convey("A sufficient limit resolves the chain", func() {
			var visited []string
			r := &Resolver{Client: client, MaxDepth: 4, OnPlaylist: func(u string, _ int) { visited = append(visited, u) }}
			segments, err := r.Resolve(context.Background(), server.URL+"/0.m3u8")
			So(err, ShouldBeNil)
			So(segments, ShouldResemble, []string{server.URL + "/x.ts"})
			So(visited, ShouldHaveLength, 4)
		})
	})

	Convey("A cancelled context stops before fetching", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := (&Resolver{Client: client}).Resolve(ctx, "http://127.0.0.1:1/master.m3u8")
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestParse(t *testing.T) {
	Convey("Parse skips directives and blanks and resolves against the playlist", t, func() {
		base := lo.Must(url.Parse("https://cdn.example/vod/x/index.m3u8?token=1"))
		entries, err := Parse(base, strings.NewReader("\ufeff#EXTM3U\n\n#EXTINF:2,\nseg0.ts\n  seg1.ts  \n../shared/seg2.ts\nhttps://other.example/seg3.ts\n"))
		So(err, ShouldBeNil)
		So(entries, ShouldResemble, []string{
			"https://cdn.example/vod/x/seg0.ts",
			"https://cdn.example/vod/x/seg1.ts",
			"https://cdn.example/vod/shared/seg2.ts",
			"https://other.example/seg3.ts",
		})
	})
}
