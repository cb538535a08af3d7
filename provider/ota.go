package provider

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"

	"github.com/clipharbor/clipharbor/filesystem"
	"github.com/clipharbor/clipharbor/log"
	"github.com/clipharbor/clipharbor/provider/custom"
	"github.com/clipharbor/clipharbor/util"
	"github.com/clipharbor/clipharbor/where"
)

// Install downloads the collector script at rawURL into the sources directory.
// It reports false when an identical script is already installed.
func Install(ctx context.Context, fetcher custom.Fetcher, rawURL string) (target string, updated bool, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false, err
	}

	name := util.SanitizeFilename(util.FileStem(path.Base(u.Path)))
	if name == "" || path.Ext(u.Path) != CustomProviderExtension {
		return "", false, fmt.Errorf("%s does not point to a %s script", rawURL, CustomProviderExtension)
	}

	body, err := fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", false, err
	}

	target = filepath.Join(where.Sources(), name+CustomProviderExtension)

	local, err := filesystem.API().ReadFile(target)
	if err == nil && bytes.Equal(local, body) {
		return target, false, nil
	}

	if err = filesystem.ReplaceFile(target, body); err != nil {
		return "", false, err
	}

	log.Infof("installed collector %s from %s", name, rawURL)
	return target, true, nil
}
