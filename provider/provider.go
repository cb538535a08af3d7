// Package provider manages the custom Lua collectors installed in the sources directory.
package provider

import (
	"path/filepath"
	"sort"

	"github.com/clipharbor/clipharbor/blocklist"
	"github.com/clipharbor/clipharbor/filesystem"
	"github.com/clipharbor/clipharbor/log"
	"github.com/clipharbor/clipharbor/provider/custom"
	"github.com/clipharbor/clipharbor/util"
	"github.com/clipharbor/clipharbor/where"
)

// CustomProviderExtension is the file extension of collector scripts.
const CustomProviderExtension = ".lua"

// Provider is an installed collector script.
type Provider struct {
	Name string
	Path string
}

func (p *Provider) String() string {
	return p.Name
}

// Load compiles the script into a ready collector.
func (p *Provider) Load(fetcher custom.Fetcher, filter blocklist.Filter) (*custom.Collector, error) {
	return custom.Load(p.Path, fetcher, filter)
}

// Customs returns all installed collectors, sorted by name.
func Customs() []*Provider {
	providers, _ := CustomProviders()
	return providers
}

// Get finds an installed collector by name.
func Get(name string) (*Provider, bool) {
	for _, p := range Customs() {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

func CustomProviders() ([]*Provider, error) {
	dir := where.Sources()

	files, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var providers []*Provider
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != CustomProviderExtension {
			continue
		}

		providers = append(providers, &Provider{
			Name: util.FileStem(f.Name()),
			Path: filepath.Join(dir, f.Name()),
		})
	}

	sort.Slice(providers, func(i, j int) bool {
		return providers[i].Name < providers[j].Name
	})

	return providers, nil
}

// LoadAll loads every installed collector. Scripts that fail to load are logged and skipped.
func LoadAll(fetcher custom.Fetcher, filter blocklist.Filter) []*custom.Collector {
	var collectors []*custom.Collector

	for _, p := range Customs() {
		c, err := p.Load(fetcher, filter)
		if err != nil {
			log.Warnf("skipping collector %s: %v", p.Name, err)
			continue
		}
		collectors = append(collectors, c)
	}

	return collectors
}
