// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Download Output - these keys control where and under which name a job writes its file.
const (
	DownloadDir      = "download.dir"
	DownloadFilename = "download.filename"
)

// Network Transport - these keys tune the HTTP client shared by every pipeline stage.
const (
	NetworkUserAgent      = "network.user_agent"
	NetworkConnectTimeout = "network.connect_timeout"
	NetworkReadTimeout    = "network.read_timeout"
	NetworkPageTimeout    = "network.page_timeout"
	NetworkTLSFingerprint = "network.tls_fingerprint"
)

// Candidate Filtering - these keys configure the ad and tracker blocklist.
const (
	BlocklistSubstrings = "blocklist.substrings"
)

// Render Fallback - these keys govern the headless browser pass.
const (
	HeadlessEnabled     = "headless.enabled"
	HeadlessHeadful     = "headless.headful"
	HeadlessBrowserPath = "headless.browser_path"
	HeadlessSettle      = "headless.settle"
)

// Playlist Resolution - these keys bound the recursive playlist walk.
const (
	PlaylistMaxDepth = "playlist.max_depth"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
