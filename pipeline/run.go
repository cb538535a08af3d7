package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/clipharbor/clipharbor/downloader"
	"github.com/clipharbor/clipharbor/extractor"
	"github.com/clipharbor/clipharbor/headless"
	"github.com/clipharbor/clipharbor/log"
	"github.com/clipharbor/clipharbor/media"
	"github.com/clipharbor/clipharbor/selector"
	"github.com/samber/lo"
)

// DefaultFilename is the output file stem when none is configured.
const DefaultFilename = "video"

// Run executes job to completion and reports through sink.
//
// The sink sees EventBusy first and EventIdle last, with a final log line
// carrying the terminal status in between. A job whose collectors found
// nothing returns ErrDiscoveryExhausted and writes no file.
func Run(ctx context.Context, job Job, deps Deps, sink Sink) (Result, error) {
	if sink == nil {
		sink = Discard
	}

	entry := log.Job(job.ID.String(), "run")
	em := &emitter{sink: sink, logf: entry.Infof, now: time.Now}

	res := Result{
		JobID:   job.ID.String(),
		PageURL: job.PageURL,
		Started: time.Now(),
	}

	em.busy()
	em.log("job %s started for %s", job.ID, job.PageURL)

	err := run(ctx, job, deps, em, &res)

	res.Finished = time.Now()
	switch {
	case err == nil:
		res.Status = StatusCompleted
	case errors.Is(err, ErrDiscoveryExhausted):
		res.Status = StatusNoStream
	case errors.Is(err, context.Canceled):
		res.Status = StatusCancelled
		res.Error = err.Error()
	default:
		res.Status = StatusFailed
		res.Error = err.Error()
		entry.WithError(err).Error("job failed")
	}

	em.log("%s", res.Line())
	em.idle()

	return res, err
}

func run(ctx context.Context, job Job, deps Deps, em *emitter, res *Result) error {
	stream, kind := job.PageURL, media.KindOf(job.PageURL)

	switch kind {
	case media.SingleFile:
		em.log("direct file link, skipping discovery")
	case media.Playlist:
		em.log("direct playlist link, skipping discovery")
	default:
		candidates, err := discover(ctx, job.PageURL, deps, em)
		if err != nil {
			return err
		}

		res.Candidates = selector.Rank(candidates)

		best, ok := selector.Select(candidates).Get()
		if !ok {
			return ErrDiscoveryExhausted
		}

		stream, kind = best, media.KindOf(best)
		em.log("selected %s (score %d)", stream, selector.Score(stream))
	}

	res.Stream = stream
	res.Kind = kind.String()

	src := downloader.SingleFile(stream)

	if kind == media.Playlist {
		if err := ctx.Err(); err != nil {
			return err
		}

		segments, err := deps.resolver(func(url string, depth int) {
			em.log("fetching playlist %s (depth %d)", url, depth)
		}).Resolve(ctx, stream)
		if err != nil {
			return err
		}

		if len(segments) == 0 {
			return downloader.ErrNoSegments
		}

		em.log("resolved %d segments", len(segments))
		res.Segments = len(segments)
		src = downloader.Segmented(segments)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	dest := filepath.Join(job.Destination, media.OutputName(deps.filename(), kind))
	res.Output = dest

	engine := &downloader.Engine{
		Client: deps.Client,
		Fs:     deps.Fs,
		OnSegment: func(done, total int, _ string) {
			em.progress(float64(done) / float64(total))
		},
		OnBytes: func(written, total int64) {
			if total > 0 {
				em.progress(float64(written) / float64(total))
			}
		},
	}

	em.log("downloading to %s", dest)
	em.progress(0)

	written, err := engine.Download(ctx, src, dest)
	res.Bytes = written
	if err != nil {
		res.Output = ""
		return err
	}

	em.progress(1)
	return nil
}

// Discover runs the collectors against pageURL and returns the merged, de-duplicated
// candidates in discovery order. The page is fetched once and shared by the static
// and script collectors. The dynamic collector runs only when all others found nothing.
//
// Collector failures are logged and count as empty results; only cancellation is returned.
func Discover(ctx context.Context, pageURL string, deps Deps, sink Sink) ([]string, error) {
	if sink == nil {
		sink = Discard
	}

	em := &emitter{sink: sink, logf: log.Job("", "discover").Infof, now: time.Now}
	return discover(ctx, pageURL, deps, em)
}

func discover(ctx context.Context, pageURL string, deps Deps, em *emitter) ([]string, error) {
	var candidates []string

	collected := func(name string, urls []string) {
		em.log("%s collector found %d candidates", name, len(urls))
		candidates = append(candidates, urls...)
	}

	page, err := extractor.Fetch(ctx, deps.Client, pageURL, deps.PageTimeout)
	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil:
		em.log("page unavailable, static and script collectors skipped: %v", err)
	default:
		static := extractor.Static{Filter: deps.Filter}
		collected(static.Name(), static.Extract(page))

		scripts := extractor.Scripts{Filter: deps.Filter}
		collected(scripts.Name(), scripts.Extract(page))

		if feed := (extractor.Feed{Filter: deps.Filter}).Extract(page); len(feed) > 0 {
			collected("feed", feed)
		}
	}

	for _, c := range deps.Collectors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		urls, err := c.Extract(ctx, pageURL)
		if err != nil {
			em.log("%s collector failed: %v", c.Name(), err)
			continue
		}
		collected(c.Name(), urls)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(candidates) == 0 && deps.Renderer != nil {
		em.log("nothing found in markup, rendering page")

		dynamic := headless.Extractor{Renderer: deps.Renderer, Filter: deps.Filter}
		urls, err := dynamic.Extract(ctx, pageURL)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			em.log("%s collector failed: %v", dynamic.Name(), err)
		} else {
			collected(dynamic.Name(), urls)
		}
	}

	candidates = lo.Uniq(candidates)
	em.log("%d unique candidates", len(candidates))
	return candidates, nil
}
