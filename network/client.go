// Package network provides the HTTP client every pipeline stage fetches through.
//
// Requests always carry a desktop browser User-Agent, dial with a bounded connect
// timeout, and abort when the body stalls for longer than the read timeout.
package network

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/clipharbor/clipharbor/constant"
	"github.com/clipharbor/clipharbor/key"
	"github.com/spf13/viper"
)

// Options configures a Client.
type Options struct {
	UserAgent      string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	// TLSFingerprint routes https requests through a Chrome-fingerprinted TLS dialer.
	TLSFingerprint bool
}

// DefaultOptions mirrors the factory configuration defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:      constant.UserAgent,
		ConnectTimeout: 15 * time.Second,
		ReadTimeout:    30 * time.Second,
	}
}

// OptionsFromConfig builds Options from the active viper configuration.
func OptionsFromConfig() Options {
	opts := Options{
		UserAgent:      viper.GetString(key.NetworkUserAgent),
		ConnectTimeout: time.Duration(viper.GetInt(key.NetworkConnectTimeout)) * time.Second,
		ReadTimeout:    time.Duration(viper.GetInt(key.NetworkReadTimeout)) * time.Second,
		TLSFingerprint: viper.GetBool(key.NetworkTLSFingerprint),
	}

	def := DefaultOptions()
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = def.ConnectTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = def.ReadTimeout
	}
	return opts
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// FetchError reports a failed page, playlist or segment retrieval.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client issues GET requests with the configured identity and timeouts.
type Client struct {
	opts Options
	http *http.Client
}

// New creates a Client. Zero-valued fields of opts fall back to DefaultOptions.
func New(opts Options) *Client {
	def := DefaultOptions()
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = def.ConnectTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = def.ReadTimeout
	}

	var rt http.RoundTripper = newTransport(opts)
	if opts.TLSFingerprint {
		rt = newFingerprintTransport(opts, rt)
	}

	return &Client{
		opts: opts,
		http: &http.Client{Transport: rt},
	}
}

// newTransport initializes a tuned http.Transport with the connect and header timeouts applied.
func newTransport(opts Options) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DialContext = (&net.Dialer{
		Timeout:   opts.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	t.TLSHandshakeTimeout = opts.ConnectTimeout
	t.ResponseHeaderTimeout = opts.ReadTimeout
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	return t
}

// Options returns the options the client was built with.
func (c *Client) Options() Options {
	return c.opts
}

// Open performs a GET and returns the response body.
// The body is cancelled when no bytes arrive within the read timeout; callers must close it.
// The returned body reports the announced length through a Size() int64 method, -1 when unknown.
func (c *Client) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		cancel()
		return nil, &FetchError{URL: rawURL, Err: &StatusError{URL: rawURL, Code: resp.StatusCode}}
	}

	return newStallReader(resp.Body, resp.ContentLength, c.opts.ReadTimeout, cancel), nil
}

// Fetch reads the whole body of rawURL into memory.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := c.Open(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	return data, nil
}
