package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/clipharbor/clipharbor/blocklist"
	"github.com/clipharbor/clipharbor/color"
	"github.com/clipharbor/clipharbor/constant"
	"github.com/clipharbor/clipharbor/key"
	"github.com/clipharbor/clipharbor/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is a registered setting with its default value.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty renders the field for the config info command.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env is the environment variable that overrides the field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

type fieldJSON struct {
	Key         string `json:"key"`
	Value       any    `json:"value"`
	Default     any    `json:"default"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// MarshalJSON reports the current value next to the default.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldJSON{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.TypeName(),
	})
}

// TypeName is the Go type of the default value.
func (f *Field) TypeName() string {
	return reflect.TypeOf(f.Value).String()
}

// Default is the registry of every known setting, keyed by its name.
var Default = make(map[string]Field)

// EnvExposed lists the keys that may be overridden from the environment.
var EnvExposed []string

var fields = []Field{
	{key.DownloadDir, "", "Default destination directory.\nUsed when no --output flag is given. Empty means the current directory"},
	{key.DownloadFilename, "video", "File name stem of the output file.\nThe extension is derived from the selected stream (mp4, ts or bin)"},
	{key.NetworkUserAgent, constant.UserAgent, "User-Agent header sent with every request"},
	{key.NetworkConnectTimeout, 15, "Connect timeout in seconds for media and playlist requests"},
	{key.NetworkReadTimeout, 30, "Read timeout in seconds.\nA transfer is aborted when no bytes arrive for this long"},
	{key.NetworkPageTimeout, 15, "Overall timeout in seconds for fetching the page markup"},
	{key.NetworkTLSFingerprint, false, "Fetch pages with a Chrome TLS fingerprint.\nHelps with hosts that reject the default Go handshake"},
	{key.BlocklistSubstrings, blocklist.Defaults, "Candidate URLs containing any of these substrings (any case) are discarded"},
	{key.HeadlessEnabled, true, "Fall back to a headless browser render when the page markup yields no media"},
	{key.HeadlessHeadful, false, "Show the browser window during the render fallback"},
	{key.HeadlessBrowserPath, "", "Path to a Chromium-based browser binary.\nEmpty means auto-detect"},
	{key.HeadlessSettle, 5, "Seconds to wait after page load for client-side scripts to inject media sources"},
	{key.PlaylistMaxDepth, 8, "Maximum nesting depth of HLS playlists before resolution is aborted"},
	{key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)"},
	{key.LogsWrite, false, "Write logs"},
	{key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace"},
	{key.LogsJson, false, "Use json format for logs"},
	{key.CliColored, true, "Enable colored CLI output"},
	{key.CliVersionCheck, true, "Enable automatic version check"},
}

func init() {
	for _, f := range fields {
		if _, exists := Default[f.Key]; exists {
			panic("duplicate config key: " + f.Key)
		}
		Default[f.Key] = f
		EnvExposed = append(EnvExposed, f.Key)
	}
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
		"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ .TypeName }}`))
