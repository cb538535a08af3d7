package headless

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clipharbor/clipharbor/blocklist"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeRenderer struct {
	urls []string
	err  error
	got  string
}

func (f *fakeRenderer) Render(_ context.Context, pageURL string) ([]string, error) {
	f.got = pageURL
	return f.urls, f.err
}

func TestExtractor(t *testing.T) {
	Convey("Given an extractor over a fake renderer", t, func() {
		fake := &fakeRenderer{}
		extractor := Extractor{Renderer: fake, Filter: blocklist.New(blocklist.Defaults...)}

		Convey("Rendered URLs are filtered and de-duplicated in order", func() {
			fake.urls = []string{
				"https://cdn.example.com/live/master.m3u8",
				"https://googletagmanager.example/ping.mp4",
				"https://cdn.example.com/live/master.m3u8",
				"https://cdn.example.com/low.mp4",
			}

			urls, err := extractor.Extract(context.Background(), "https://example.com/watch")
			So(err, ShouldBeNil)
			So(fake.got, ShouldEqual, "https://example.com/watch")
			So(urls, ShouldResemble, []string{
				"https://cdn.example.com/live/master.m3u8",
				"https://cdn.example.com/low.mp4",
			})
		})

		Convey("A render failure becomes a RenderError with no candidates", func() {
			fake.err = errors.New("browser not found")

			urls, err := extractor.Extract(context.Background(), "https://example.com/watch")
			So(urls, ShouldBeEmpty)

			var renderErr *RenderError
			So(errors.As(err, &renderErr), ShouldBeTrue)
			So(renderErr.URL, ShouldEqual, "https://example.com/watch")
			So(renderErr.Error(), ShouldContainSubstring, "browser not found")
		})
	})
}

func TestSettle(t *testing.T) {
	Convey("The settle wait", t, func() {
		Convey("returns after the period", func() {
			So(settle(context.Background(), 10*time.Millisecond), ShouldBeNil)
		})

		Convey("is cut short by cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			start := time.Now()
			So(errors.Is(settle(ctx, time.Minute), context.Canceled), ShouldBeTrue)
			So(time.Since(start), ShouldBeLessThan, time.Second)
		})
	})

	Convey("A zero settle falls back to the default", t, func() {
		So((&Rod{}).settle(), ShouldEqual, DefaultSettle)
		So((&Rod{Settle: time.Second}).settle(), ShouldEqual, time.Second)
	})
}
