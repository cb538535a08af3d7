// Package extractor discovers media URLs in page markup without running any script.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/clipharbor/clipharbor/network"
)

// Page is a fetched and parsed HTML document.
type Page struct {
	URL *url.URL
	Doc *goquery.Document

	// Raw is the body as served, kept for collectors that read non-HTML documents.
	Raw []byte
}

// ParseError reports a page whose address or markup could not be parsed.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Fetch downloads pageURL within timeout and parses it.
func Fetch(ctx context.Context, client *network.Client, pageURL string, timeout time.Duration) (*Page, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	body, err := client.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	page, err := Parse(pageURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	page.Raw = body
	return page, nil
}

// Parse builds a Page from markup read from r.
func Parse(pageURL string, r io.Reader) (*Page, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}

	return &Page{URL: base, Doc: doc}, nil
}

// Resolve turns ref into an absolute http(s) URL relative to the page.
func (p *Page) Resolve(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}

	u, err := p.URL.Parse(ref)
	if err != nil {
		return "", false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return u.String(), true
}
