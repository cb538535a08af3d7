package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/clipharbor/clipharbor/constant"
	"github.com/clipharbor/clipharbor/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Path is the location of the config file, whether or not it exists yet.
func Path() string {
	return filepath.Join(where.Config(), constant.App+".toml")
}

// ParseValue converts command line arguments into the type of the field registered under k.
// List fields accept several arguments as well as comma separated items.
func ParseValue(k string, raw []string) (any, error) {
	field, ok := Default[k]
	if !ok {
		return nil, fmt.Errorf("unknown key %s", k)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: no value given", k)
	}

	switch field.Value.(type) {
	case string:
		return raw[0], nil
	case int:
		n, err := strconv.Atoi(strings.TrimSpace(raw[0]))
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", k, raw[0])
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw[0]))
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q", k, raw[0])
		}
		return b, nil
	case []string:
		return lo.FlatMap(raw, func(item string, _ int) []string {
			return lo.Compact(lo.Map(strings.Split(item, ","), func(s string, _ int) string {
				return strings.TrimSpace(s)
			}))
		}), nil
	default:
		return nil, fmt.Errorf("%s: unsupported field type %s", k, field.TypeName())
	}
}

// Set assigns v to k and keeps the previous value when the result does not validate.
func Set(k string, v any) error {
	previous := viper.Get(k)
	viper.Set(k, v)

	if err := Validate(); err != nil {
		viper.Set(k, previous)
		return err
	}
	return nil
}

// Save writes the active configuration, creating the file when there is none.
func Save() error {
	err := viper.WriteConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return viper.SafeWriteConfig()
	}
	return err
}
