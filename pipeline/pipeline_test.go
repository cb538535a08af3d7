package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clipharbor/clipharbor/blocklist"
	"github.com/clipharbor/clipharbor/network"
	"github.com/clipharbor/clipharbor/selector"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

type countingRenderer struct {
	calls atomic.Int32
	urls  []string
	err   error
}

func (r *countingRenderer) Render(context.Context, string) ([]string, error) {
	r.calls.Add(1)
	return r.urls, r.err
}

type countingCollector struct {
	calls atomic.Int32
	urls  []string
	err   error
}

func (c *countingCollector) Name() string { return "custom" }

func (c *countingCollector) Extract(context.Context, string) ([]string, error) {
	c.calls.Add(1)
	return c.urls, c.err
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) logs() []string {
	return lo.FilterMap(r.events, func(e Event, _ int) (string, bool) {
		return e.Message, e.Kind == EventLog
	})
}

func newSite() (*httptest.Server, *atomic.Int32) {
	var pageHits atomic.Int32
	mux := http.NewServeMux()

	body := func(path, content string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, content)
		})
	}

	mux.HandleFunc("/watch/42", func(w http.ResponseWriter, r *http.Request) {
		pageHits.Add(1)
		_, _ = io.WriteString(w, `<html><body><video src="clip.mp4"></video></body></html>`)
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		pageHits.Add(1)
		_, _ = io.WriteString(w, `<html><body><p>nothing to see</p></body></html>`)
	})
	body("/watch/clip.mp4", "0123456789-the-clip-bytes")
	body("/files/preview.mp4", "preview")
	body("/hls/master.m3u8", "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=1\nlow/index.m3u8\n#EXT-X-STREAM-INF:BANDWIDTH=2\nhigh/index.m3u8\n")
	body("/hls/low/index.m3u8", "#EXTM3U\n#EXTINF:4,\nseg0.ts\n#EXTINF:4,\nseg1.ts\n#EXT-X-ENDLIST\n")
	body("/hls/high/index.m3u8", "#EXTM3U\n#EXTINF:4,\nseg0.ts\n#EXTINF:4,\nseg1.ts\n#EXT-X-ENDLIST\n")
	body("/hls/low/seg0.ts", "L0|")
	body("/hls/low/seg1.ts", "L1|")
	body("/hls/high/seg0.ts", "H0|")
	body("/hls/high/seg1.ts", "H1|")
	body("/hls/broken.m3u8", "seg0.ts\nmissing.ts\n")
	body("/hls/seg0.ts", "ok")
	body("/hls/proxy.m3u8", "#EXTM3U\n/get?u=variant.m3u8\n")
	mux.HandleFunc("/get", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Query().Get("file") == "clip.mp4":
			_, _ = io.WriteString(w, "named-in-query")
		case r.URL.Query().Get("u") == "variant.m3u8":
			_, _ = io.WriteString(w, "#EXTM3U\n#EXTINF:4,\n/hls/low/seg0.ts\n#EXTINF:4,\n/hls/low/seg1.ts\n")
		default:
			http.NotFound(w, r)
		}
	})

	server := httptest.NewServer(mux)

	mux.HandleFunc("/hls-abs", func(w http.ResponseWriter, r *http.Request) {
		pageHits.Add(1)
		_, _ = fmt.Fprintf(w, `<html><body>
<a href="/files/preview.mp4">preview</a>
<script>player.load("%s/hls/master.m3u8")</script>
</body></html>`, server.URL)
	})

	return server, &pageHits
}

func TestRun(t *testing.T) {
	Convey("Given a site and in-memory output", t, func() {
		server, pageHits := newSite()
		defer server.Close()

		fs := afero.NewMemMapFs()
		lo.Must0(fs.MkdirAll("/out", 0o755))

		renderer := &countingRenderer{}
		collector := &countingCollector{}
		deps := Deps{
			Client:      network.New(network.DefaultOptions()),
			Filter:      blocklist.New(blocklist.Defaults...),
			PageTimeout: 5 * time.Second,
			Collectors:  []Collector{collector},
			Renderer:    renderer,
			Fs:          fs,
		}
		rec := &recorder{}

		run := func(pageURL string) (Result, error) {
			job := lo.Must(NewJob(pageURL, "/out"))
			return Run(context.Background(), job, deps, rec)
		}

		Convey("A page with a video element is downloaded to video.mp4", func() {
			res, err := run(server.URL + "/watch/42")
			So(err, ShouldBeNil)
			So(res.Status, ShouldEqual, StatusCompleted)
			So(res.Stream, ShouldEqual, server.URL+"/watch/clip.mp4")
			So(res.Candidates, ShouldResemble, []selector.Ranked{
				{URL: server.URL + "/watch/clip.mp4", Score: selector.ScoreSingleFile, Kind: "file"},
			})
			So(res.Output, ShouldEqual, filepath.Join("/out", "video.mp4"))

			got := lo.Must(afero.ReadFile(fs, res.Output))
			So(string(got), ShouldEqual, "0123456789-the-clip-bytes")
			So(res.Bytes, ShouldEqual, int64(len(got)))

			Convey("and the dynamic collector is not consulted", func() {
				So(renderer.calls.Load(), ShouldEqual, 0)
			})
		})

		Convey("A direct file link skips every collector", func() {
			res, err := run(server.URL + "/watch/clip.mp4")
			So(err, ShouldBeNil)
			So(res.Status, ShouldEqual, StatusCompleted)
			So(pageHits.Load(), ShouldEqual, 0)
			So(collector.calls.Load(), ShouldEqual, 0)
			So(renderer.calls.Load(), ShouldEqual, 0)
			So(res.Candidates, ShouldBeEmpty)
		})

		Convey("A direct link naming the file in its query skips every collector", func() {
			res, err := run(server.URL + "/get?file=clip.mp4")
			So(err, ShouldBeNil)
			So(res.Status, ShouldEqual, StatusCompleted)
			So(collector.calls.Load(), ShouldEqual, 0)
			So(renderer.calls.Load(), ShouldEqual, 0)
			So(res.Output, ShouldEqual, filepath.Join("/out", "video.mp4"))
			So(string(lo.Must(afero.ReadFile(fs, res.Output))), ShouldEqual, "named-in-query")
		})

		Convey("A nested playlist named in a query string is followed, not saved as a segment", func() {
			res, err := run(server.URL + "/hls/proxy.m3u8")
			So(err, ShouldBeNil)
			So(res.Segments, ShouldEqual, 2)
			So(string(lo.Must(afero.ReadFile(fs, res.Output))), ShouldEqual, "L0|L1|")
		})

		Convey("A master playlist is flattened and concatenated into video.ts", func() {
			res, err := run(server.URL + "/hls/master.m3u8")
			So(err, ShouldBeNil)
			So(res.Segments, ShouldEqual, 4)
			So(res.Output, ShouldEqual, filepath.Join("/out", "video.ts"))
			So(string(lo.Must(afero.ReadFile(fs, res.Output))), ShouldEqual, "L0|L1|H0|H1|")
		})

		Convey("The playlist found in a script outranks a linked file", func() {
			res, err := run(server.URL + "/hls-abs")
			So(err, ShouldBeNil)
			So(res.Stream, ShouldEqual, server.URL+"/hls/master.m3u8")
			So(res.Candidates[0].Score, ShouldEqual, selector.ScoreMaster)
			So(res.Candidates[1].URL, ShouldEqual, server.URL+"/files/preview.mp4")
			So(string(lo.Must(afero.ReadFile(fs, "/out/video.ts"))), ShouldEqual, "L0|L1|H0|H1|")
		})

		Convey("When nothing is found anywhere", func() {
			res, err := run(server.URL + "/empty")

			Convey("the job ends with no valid stream found", func() {
				So(errors.Is(err, ErrDiscoveryExhausted), ShouldBeTrue)
				So(res.Status, ShouldEqual, StatusNoStream)
				So(res.Line(), ShouldEqual, "no valid stream found")
				So(renderer.calls.Load(), ShouldEqual, 1)
			})

			Convey("and no file is written", func() {
				entries := lo.Must(afero.ReadDir(fs, "/out"))
				So(entries, ShouldBeEmpty)
			})
		})

		Convey("The dynamic collector fills in when markup has nothing", func() {
			renderer.urls = []string{server.URL + "/watch/clip.mp4", "https://tracking.example/pixel.mp4"}

			res, err := run(server.URL + "/empty")
			So(err, ShouldBeNil)
			So(res.Stream, ShouldEqual, server.URL+"/watch/clip.mp4")
			So(res.Candidates, ShouldHaveLength, 1)
		})

		Convey("Collector failures are downgraded", func() {
			collector.err = errors.New("lua exploded")
			renderer.err = errors.New("no browser")

			_, err := run(server.URL + "/empty")
			So(errors.Is(err, ErrDiscoveryExhausted), ShouldBeTrue)
			So(rec.logs(), ShouldContain, "custom collector failed: lua exploded")
		})

		Convey("An unreachable page still lets other collectors run", func() {
			collector.urls = []string{server.URL + "/watch/clip.mp4"}

			res, err := run(server.URL + "/does-not-exist")
			So(err, ShouldBeNil)
			So(res.Stream, ShouldEqual, server.URL+"/watch/clip.mp4")
		})

		Convey("A failing segment fails the job and leaves no file", func() {
			res, err := run(server.URL + "/hls/broken.m3u8")

			var fetchErr *network.FetchError
			So(errors.As(err, &fetchErr), ShouldBeTrue)
			So(res.Status, ShouldEqual, StatusFailed)
			So(res.Output, ShouldBeEmpty)
			So(lo.Must(afero.ReadDir(fs, "/out")), ShouldBeEmpty)
		})

		Convey("Events are framed by busy and idle, with monotonic progress", func() {
			_, err := run(server.URL + "/hls/master.m3u8")
			So(err, ShouldBeNil)

			So(rec.events[0].Kind, ShouldEqual, EventBusy)
			last := rec.events[len(rec.events)-1]
			So(last.Kind, ShouldEqual, EventIdle)
			So(rec.events[len(rec.events)-2].Message, ShouldStartWith, "saved ")

			var fractions []float64
			for i, e := range rec.events {
				So(e.Time.IsZero(), ShouldBeFalse)
				if i > 0 {
					So(e.Time, ShouldHappenOnOrAfter, rec.events[i-1].Time)
				}
				if e.Kind == EventProgress {
					fractions = append(fractions, e.Fraction)
				}
			}

			So(fractions, ShouldResemble, []float64{0, 0.25, 0.5, 0.75, 1})
		})

		Convey("A cancelled job stops before touching the network", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			job := lo.Must(NewJob(server.URL+"/watch/42", "/out"))
			res, err := Run(ctx, job, deps, rec)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(res.Status, ShouldEqual, StatusCancelled)
			So(collector.calls.Load(), ShouldEqual, 0)
		})
	})
}

func TestNewJob(t *testing.T) {
	Convey("NewJob validates its inputs", t, func() {
		_, err := NewJob("  ", "/out")
		So(errors.Is(err, ErrEmptyURL), ShouldBeTrue)

		_, err = NewJob("https://example.com", "")
		So(errors.Is(err, ErrEmptyDestination), ShouldBeTrue)

		_, err = NewJob("ftp://example.com/a.mp4", "/out")
		So(err, ShouldNotBeNil)

		a := lo.Must(NewJob("https://example.com", "/out"))
		b := lo.Must(NewJob("https://example.com", "/out"))
		So(a.ID, ShouldNotEqual, b.ID)
	})
}

func TestEmitter(t *testing.T) {
	Convey("Given an emitter", t, func() {
		rec := &recorder{}
		var logged []string
		em := &emitter{
			sink: rec,
			logf: func(format string, args ...any) { logged = append(logged, fmt.Sprintf(format, args...)) },
			now:  time.Now,
		}

		Convey("progress is clamped and never goes back", func() {
			em.progress(-0.5)
			em.progress(0.4)
			em.progress(0.2)
			em.progress(1.7)
			em.progress(0.9)

			fractions := lo.Map(rec.events, func(e Event, _ int) float64 { return e.Fraction })
			So(fractions, ShouldResemble, []float64{0, 0.4, 1})
		})

		Convey("busy resets progress for the next job", func() {
			em.progress(1)
			em.busy()
			em.progress(0.1)
			So(rec.events[len(rec.events)-1].Fraction, ShouldEqual, 0.1)
		})

		Convey("log lines reach both the sink and the application log", func() {
			em.log("found %d", 3)
			So(logged, ShouldResemble, []string{"found 3"})
			So(rec.logs(), ShouldResemble, []string{"found 3"})
		})
	})
}

func TestChannelSink(t *testing.T) {
	Convey("A channel sink delivers events in emission order", t, func() {
		sink := NewChannelSink(4)

		go func() {
			defer sink.Close()
			for i := 0; i < 100; i++ {
				sink.Emit(Event{Kind: EventLog, Message: fmt.Sprint(i)})
			}
		}()

		var got []string
		for e := range sink.Events() {
			got = append(got, e.Message)
		}

		So(got, ShouldHaveLength, 100)
		for i, m := range got {
			So(m, ShouldEqual, fmt.Sprint(i))
		}

		Convey("and ignores events after Close", func() {
			So(func() { sink.Emit(Event{}) }, ShouldNotPanic)
		})
	})
}
