// Package icon renders the status symbols printed by the commands and the progress view.
// The set in use is chosen by icons.variant; unknown variants fall back to plain text.
package icon

import (
	"sort"

	"github.com/clipharbor/clipharbor/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const fallbackVariant = "plain"

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var variants = map[string]func(*iconDef) string{
	"emoji":   func(d *iconDef) string { return d.emoji },
	"nerd":    func(d *iconDef) string { return d.nerd },
	"plain":   func(d *iconDef) string { return d.plain },
	"kaomoji": func(d *iconDef) string { return d.kaomoji },
	"squares": func(d *iconDef) string { return d.squares },
}

// AvailableVariants lists the accepted icons.variant values in alphabetical order.
func AvailableVariants() []string {
	names := lo.Keys(variants)
	sort.Strings(names)
	return names
}

// Get renders i in the configured variant.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}

	render, ok := variants[viper.GetString(key.IconsVariant)]
	if !ok {
		render = variants[fallbackVariant]
	}
	return render(def)
}
