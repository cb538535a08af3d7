// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "clipharbor"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the desktop browser User-Agent sent with every page, playlist and segment request.
	// Many media hosts refuse clients that do not identify as a browser.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// AsciiArtLogo is the banner printed above the root command help.
const AsciiArtLogo = `
     _ _       _                _
 ___| (_)_ __ | |__   __ _ _ __| |__   ___  _ __
/ __| | | '_ \| '_ \ / _' | '__| '_ \ / _ \| '__|
| (__| | | |_) | | | | (_| | |  | |_) | (_) | |
\___|_|_| .__/|_| |_|\__,_|_|  |_.__/ \___/|_|
        |_|`
