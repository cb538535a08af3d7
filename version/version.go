// Package version checks GitHub for newer releases and compares version strings.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/clipharbor/clipharbor/filesystem"
	"github.com/clipharbor/clipharbor/network"
	"github.com/clipharbor/clipharbor/where"
	"github.com/metafates/gache"
)

// ReleasesURL is the GitHub API endpoint for the latest release.
const ReleasesURL = "https://api.github.com/repos/clipharbor/clipharbor/releases/latest"

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Fetcher retrieves a whole response body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Latest returns the newest released version without its "v" prefix.
// The answer is cached for two days unless force is set.
func Latest(ctx context.Context, force bool) (string, error) {
	if !force {
		ver, expired, err := versionCacher.Get()
		if err == nil && !expired && ver != "" {
			return ver, nil
		}
	}

	ver, err := latestFrom(ctx, network.New(network.OptionsFromConfig()), ReleasesURL)
	if err != nil {
		return "", err
	}

	_ = versionCacher.Set(ver)
	return ver, nil
}

func latestFrom(ctx context.Context, fetcher Fetcher, url string) (string, error) {
	body, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	var release struct {
		TagName string `json:"tag_name"`
	}

	if err = json.Unmarshal(body, &release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	return strings.TrimPrefix(release.TagName, "v"), nil
}
