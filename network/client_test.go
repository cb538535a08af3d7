package network

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clipharbor/clipharbor/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	Convey("Given a test server", t, func() {
		var gotAgent string
		mux := http.NewServeMux()
		mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
			gotAgent = r.Header.Get("User-Agent")
			_, _ = io.WriteString(w, "payload")
		})
		mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
		mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "first")
			w.(http.Flusher).Flush()
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client := New(Options{ReadTimeout: 200 * time.Millisecond})

		Convey("Fetch returns the body and sends the desktop user agent", func() {
			body, err := client.Fetch(context.Background(), server.URL+"/ok")
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, "payload")
			So(gotAgent, ShouldEqual, constant.UserAgent)
		})

		Convey("Non-2xx responses become a StatusError", func() {
			_, err := client.Fetch(context.Background(), server.URL+"/missing")
			var statusErr *StatusError
			So(errors.As(err, &statusErr), ShouldBeTrue)
			So(statusErr.Code, ShouldEqual, http.StatusNotFound)

			var fetchErr *FetchError
			So(errors.As(err, &fetchErr), ShouldBeTrue)
			So(fetchErr.URL, ShouldEqual, server.URL+"/missing")
		})

		Convey("Open exposes the announced body size", func() {
			body, err := client.Open(context.Background(), server.URL+"/ok")
			So(err, ShouldBeNil)
			defer body.Close()
			So(body.(interface{ Size() int64 }).Size(), ShouldEqual, int64(len("payload")))
		})

		Convey("A stalled body is aborted after the read timeout", func() {
			_, err := client.Fetch(context.Background(), server.URL+"/slow")
			So(errors.Is(err, ErrStalled), ShouldBeTrue)
		})

		Convey("A cancelled context aborts the request", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := client.Fetch(ctx, server.URL+"/ok")
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestOptions(t *testing.T) {
	Convey("Zero options fall back to the defaults", t, func() {
		c := New(Options{})
		So(c.Options().UserAgent, ShouldEqual, constant.UserAgent)
		So(c.Options().ConnectTimeout, ShouldEqual, 15*time.Second)
		So(c.Options().ReadTimeout, ShouldEqual, 30*time.Second)
	})

	Convey("A fingerprinted client still serves plain http", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "plain")
		}))
		defer server.Close()

		c := New(Options{TLSFingerprint: true})
		body, err := c.Fetch(context.Background(), server.URL)
		So(err, ShouldBeNil)
		So(string(body), ShouldEqual, "plain")
	})
}

// roundTripFunc lets a test stand in for one of the fingerprinted transports.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestFingerprintHeaderTimeout(t *testing.T) {
	Convey("Given a fingerprinted transport with a short header timeout", t, func() {
		var h1Calls atomic.Int32
		silent := roundTripFunc(func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		})

		transport := &fingerprintTransport{
			h2: silent,
			h1: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				h1Calls.Add(1)
				return silent(req)
			}),
			fallback:      http.DefaultTransport,
			headerTimeout: 100 * time.Millisecond,
		}
		client := &Client{opts: DefaultOptions(), http: &http.Client{Transport: transport}}

		Convey("a server that never answers fails with ErrNoHeaders instead of hanging", func() {
			start := time.Now()
			_, err := client.Fetch(context.Background(), "https://cdn.example.com/seg1.ts")

			So(errors.Is(err, ErrNoHeaders), ShouldBeTrue)
			So(time.Since(start), ShouldBeLessThan, 2*time.Second)
			So(h1Calls.Load(), ShouldEqual, 0)
		})

		Convey("a timely response keeps its body readable until closed", func() {
			var reqCtx context.Context
			transport.h2 = roundTripFunc(func(req *http.Request) (*http.Response, error) {
				reqCtx = req.Context()
				return &http.Response{
					StatusCode:    http.StatusOK,
					Body:          io.NopCloser(strings.NewReader("segment")),
					ContentLength: int64(len("segment")),
					Request:       req,
				}, nil
			})

			body, err := client.Fetch(context.Background(), "https://cdn.example.com/seg1.ts")
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, "segment")
			So(reqCtx.Err(), ShouldNotBeNil)
		})
	})
}
