package headless

import (
	"context"
	"time"

	"github.com/clipharbor/clipharbor/constant"
	"github.com/clipharbor/clipharbor/key"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/ysmood/gson"
)

// DefaultSettle is how long a rendered page is given to start its players.
const DefaultSettle = 5 * time.Second

// playVideos starts every video muted so lazy players attach their sources.
const playVideos = `() => {
	document.querySelectorAll('video').forEach(v => {
		try { v.muted = true; const p = v.play(); if (p && p.catch) p.catch(() => {}); } catch (e) {}
	});
}`

// collectMedia mirrors what the static collector reads, on the live DOM.
const collectMedia = `() => {
	const out = [];
	const push = u => { if (u && /^https?:/i.test(u)) out.push(u); };
	const media = /\.(mp4|m3u8|ts)(\?|#|$)/i;

	document.querySelectorAll('video').forEach(v => {
		push(v.currentSrc);
		push(v.src);
		v.querySelectorAll('source').forEach(s => { push(s.src); push(s.getAttribute('data-src')); });
	});
	document.querySelectorAll('source').forEach(s => {
		push(s.src);
		push(s.getAttribute('data-src'));
		push(s.getAttribute('data-href'));
	});
	document.querySelectorAll('a[href]').forEach(a => { if (media.test(a.href)) push(a.href); });

	return out;
}`

// Rod renders pages with a Chromium browser driven over the DevTools protocol.
type Rod struct {
	UserAgent string

	// BrowserPath selects the browser binary. When empty a system browser is
	// looked up, and downloaded as a last resort.
	BrowserPath string
	Headful     bool
	Settle      time.Duration
}

// RodFromConfig builds a Rod renderer from the active configuration.
func RodFromConfig() *Rod {
	return &Rod{
		UserAgent:   lo.Ternary(viper.GetString(key.NetworkUserAgent) != "", viper.GetString(key.NetworkUserAgent), constant.UserAgent),
		BrowserPath: viper.GetString(key.HeadlessBrowserPath),
		Headful:     viper.GetBool(key.HeadlessHeadful),
		Settle:      time.Duration(viper.GetInt(key.HeadlessSettle)) * time.Second,
	}
}

// Render launches a fresh browser, loads pageURL and collects media URLs from the DOM.
// The browser is closed on every return path.
func (r *Rod) Render(ctx context.Context, pageURL string) (urls []string, err error) {
	defer func() {
		if err != nil {
			err = &RenderError{URL: pageURL, Err: err}
		}
	}()

	l := launcher.New().
		Context(ctx).
		Headless(!r.Headful).
		Set("mute-audio").
		Set("disable-gpu").
		Set("no-first-run")

	if bin := r.binary(); bin != "" {
		l = l.Bin(bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, err
	}
	defer l.Cleanup()
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err = browser.Connect(); err != nil {
		return nil, err
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}

	ua := lo.Ternary(r.UserAgent != "", r.UserAgent, constant.UserAgent)
	if err = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
		return nil, err
	}

	if err = page.Navigate(pageURL); err != nil {
		return nil, err
	}
	if err = page.WaitLoad(); err != nil {
		return nil, err
	}

	if err = settle(ctx, r.settle()); err != nil {
		return nil, err
	}

	// Autoplay may be refused; the DOM query still runs.
	_, _ = page.Eval(playVideos)

	res, err := page.Eval(collectMedia)
	if err != nil {
		return nil, err
	}

	return lo.Uniq(lo.Map(res.Value.Arr(), func(v gson.JSON, _ int) string {
		return v.Str()
	})), nil
}

func (r *Rod) binary() string {
	path, _ := LookupBrowser(r.BrowserPath)
	return path
}

// LookupBrowser returns the configured browser, or the first system browser found.
// It reports false when neither exists and a browser would have to be downloaded.
func LookupBrowser(configured string) (string, bool) {
	if configured != "" {
		return configured, true
	}

	return launcher.LookPath()
}

func (r *Rod) settle() time.Duration {
	if r.Settle > 0 {
		return r.Settle
	}
	return DefaultSettle
}

// settle waits for d unless ctx ends first.
func settle(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
