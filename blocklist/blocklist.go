// Package blocklist rejects candidate media URLs that point at known ad and tracker hosts.
package blocklist

import (
	"strings"

	"github.com/clipharbor/clipharbor/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Defaults are the substrings blocked when no configuration overrides them.
var Defaults = []string{"doubleclick", "googletag", "adservice", "facebook", "analytics", "tracking"}

// Filter is an immutable set of lower-cased substrings.
// A Filter is built once per job and handed to every collector by value.
type Filter struct {
	substrings []string
}

// New builds a Filter from substrings. Blank entries are ignored.
func New(substrings ...string) Filter {
	lowered := lo.FilterMap(substrings, func(s string, _ int) (string, bool) {
		s = strings.ToLower(strings.TrimSpace(s))
		return s, s != ""
	})

	return Filter{substrings: lo.Uniq(lowered)}
}

// FromConfig builds a Filter from the configured substrings.
func FromConfig() Filter {
	return New(viper.GetStringSlice(key.BlocklistSubstrings)...)
}

// Reject reports whether url contains any blocked substring, ignoring case.
func (f Filter) Reject(url string) bool {
	lowered := strings.ToLower(url)
	return lo.ContainsBy(f.substrings, func(s string) bool {
		return strings.Contains(lowered, s)
	})
}

// Apply returns the urls that are not rejected, preserving order.
func (f Filter) Apply(urls []string) []string {
	return lo.Reject(urls, func(u string, _ int) bool {
		return f.Reject(u)
	})
}

// Substrings returns a copy of the blocked substrings.
func (f Filter) Substrings() []string {
	return append([]string(nil), f.substrings...)
}
