package pipeline

import (
	"context"
	"time"

	"github.com/clipharbor/clipharbor/blocklist"
	"github.com/clipharbor/clipharbor/headless"
	"github.com/clipharbor/clipharbor/key"
	"github.com/clipharbor/clipharbor/network"
	"github.com/clipharbor/clipharbor/playlist"
	"github.com/clipharbor/clipharbor/provider"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Collector is an additional source of candidates, run after the static and script collectors.
type Collector interface {
	Name() string
	Extract(ctx context.Context, pageURL string) ([]string, error)
}

// Deps are the collaborators a job runs with.
type Deps struct {
	Client *network.Client
	Filter blocklist.Filter

	// PageTimeout bounds the single page fetch shared by the static and script collectors.
	PageTimeout time.Duration

	// Collectors run on every page after the built-in ones.
	Collectors []Collector

	// Renderer is consulted only when every other collector came back empty. Nil disables it.
	Renderer headless.Renderer

	MaxDepth int

	// Filename is the output file stem.
	Filename string

	// Fs receives the output file. Defaults to the application filesystem.
	Fs afero.Fs
}

// DepsFromConfig wires the collaborators from the active configuration,
// loading every installed Lua collector.
func DepsFromConfig() Deps {
	client := network.New(network.OptionsFromConfig())
	filter := blocklist.FromConfig()

	deps := Deps{
		Client:      client,
		Filter:      filter,
		PageTimeout: time.Duration(viper.GetInt(key.NetworkPageTimeout)) * time.Second,
		MaxDepth:    viper.GetInt(key.PlaylistMaxDepth),
		Filename:    viper.GetString(key.DownloadFilename),
	}

	for _, c := range provider.LoadAll(client, filter) {
		deps.Collectors = append(deps.Collectors, c)
	}

	if viper.GetBool(key.HeadlessEnabled) {
		deps.Renderer = headless.RodFromConfig()
	}

	return deps
}

func (d Deps) resolver(onPlaylist func(string, int)) *playlist.Resolver {
	return &playlist.Resolver{
		Client:     d.Client,
		MaxDepth:   d.MaxDepth,
		OnPlaylist: onPlaylist,
	}
}

func (d Deps) filename() string {
	if d.Filename != "" {
		return d.Filename
	}
	return DefaultFilename
}
