// Package where resolves the directories clipharbor reads from and writes to. Every returned directory exists.
package where

import (
	"os"
	"path/filepath"

	"github.com/clipharbor/clipharbor/constant"
	"github.com/clipharbor/clipharbor/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "CLIPHARBOR_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the configuration directory, os.UserConfigDir()/clipharbor unless EnvConfigPath is set.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache holds the release check cache.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs holds one file per day when logs.write is on.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Sources holds the custom Lua collectors.
func Sources() string {
	return ensureDir(filepath.Join(Config(), "sources"))
}

// Temp is cleared on every start.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}

// Downloads resolves the directory a job writes into when the caller names none.
// The configured default wins; otherwise the current working directory is used.
func Downloads(configured string) string {
	if configured != "" {
		return ensureDir(configured)
	}

	wd, err := os.Getwd()
	if err != nil {
		return Temp()
	}
	return wd
}
