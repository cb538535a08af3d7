// Package headless discovers media URLs that only appear once a page has been
// rendered by a real browser.
package headless

import (
	"context"
	"fmt"

	"github.com/clipharbor/clipharbor/blocklist"
	"github.com/samber/lo"
)

// Renderer renders a page and returns the media URLs observed in its live DOM.
type Renderer interface {
	Render(ctx context.Context, pageURL string) ([]string, error)
}

// RenderError reports a browser launch, navigation or script failure.
type RenderError struct {
	URL string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.URL, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Extractor applies the blocklist and de-duplication to whatever a Renderer observed.
type Extractor struct {
	Renderer Renderer
	Filter   blocklist.Filter
}

// Name identifies the collector in logs.
func (Extractor) Name() string {
	return "dynamic"
}

// Extract renders pageURL and returns its filtered candidates in encounter order.
// Any failure is returned as a *RenderError together with an empty result.
func (e Extractor) Extract(ctx context.Context, pageURL string) ([]string, error) {
	urls, err := e.Renderer.Render(ctx, pageURL)
	if err != nil {
		if _, ok := err.(*RenderError); !ok {
			err = &RenderError{URL: pageURL, Err: err}
		}
		return nil, err
	}

	return lo.Uniq(e.Filter.Apply(urls)), nil
}
