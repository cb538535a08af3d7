// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"fmt"
	"strings"

	"github.com/clipharbor/clipharbor/constant"
	"github.com/clipharbor/clipharbor/filesystem"
	"github.com/clipharbor/clipharbor/key"
	"github.com/clipharbor/clipharbor/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	// Synchronize environment variable bindings.
	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	// Initialize factory default values.
	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// positive lists the integer keys that must stay above zero.
var positive = []string{
	key.NetworkConnectTimeout,
	key.NetworkReadTimeout,
	key.NetworkPageTimeout,
	key.HeadlessSettle,
	key.PlaylistMaxDepth,
}

// Validate reports the first configured value a job could not run with.
func Validate() error {
	for _, k := range positive {
		if v := viper.GetInt(k); v <= 0 {
			return fmt.Errorf("%s must be a positive number, got %d", k, v)
		}
	}

	if strings.TrimSpace(viper.GetString(key.DownloadFilename)) == "" {
		return fmt.Errorf("%s must not be empty", key.DownloadFilename)
	}

	return nil
}
