package network

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// fingerprintTransport sends https requests over a uTLS connection that presents
// Chrome 120's Client Hello. Hosts behind anti-bot proxies often refuse the stock
// Go handshake outright.
//
// HTTP/2 is attempted first; when that fails the request is retried over an
// HTTP/1.1-only connection. Plain http requests go through the fallback transport.
type fingerprintTransport struct {
	h2       http.RoundTripper
	h1       http.RoundTripper
	fallback http.RoundTripper

	// headerTimeout bounds the wait for response headers on both attempts.
	headerTimeout time.Duration
}

func newFingerprintTransport(opts Options, fallback http.RoundTripper) *fingerprintTransport {
	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}

	return &fingerprintTransport{
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialChrome(ctx, dialer, network, addr, nil)
			},
			ReadIdleTimeout: opts.ReadTimeout,
			PingTimeout:     opts.ConnectTimeout,
		},
		h1: &http.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialChrome(ctx, dialer, network, addr, []string{"http/1.1"})
			},
			ResponseHeaderTimeout: opts.ReadTimeout,
		},
		fallback:      fallback,
		headerTimeout: opts.ReadTimeout,
	}
}

func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.fallback.RoundTrip(req)
	}

	resp, err := t.roundTrip(t.h2, req)
	if err == nil {
		return resp, nil
	}

	if req.Context().Err() != nil || errors.Is(err, ErrNoHeaders) {
		return nil, err
	}

	// GET requests carry no body, so the request can be replayed as is.
	return t.roundTrip(t.h1, req.Clone(req.Context()))
}

// roundTrip cancels the request when no response headers arrive within headerTimeout.
// On success the cancellation is handed to the body and runs when it is closed.
func (t *fingerprintTransport) roundTrip(rt http.RoundTripper, req *http.Request) (*http.Response, error) {
	if t.headerTimeout <= 0 {
		return rt.RoundTrip(req)
	}

	ctx, cancel := context.WithCancel(req.Context())
	timer := time.AfterFunc(t.headerTimeout, cancel)

	resp, err := rt.RoundTrip(req.WithContext(ctx))
	if !timer.Stop() {
		if err == nil {
			_ = resp.Body.Close()
		}
		cancel()
		return nil, fmt.Errorf("GET %s: %w", req.URL, ErrNoHeaders)
	}

	if err != nil {
		cancel()
		return nil, err
	}

	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// dialChrome opens a TLS connection mimicking Chrome 120's fingerprint.
// A nil protos keeps Chrome's own ALPN list (h2, http/1.1).
func dialChrome(ctx context.Context, dialer *net.Dialer, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
