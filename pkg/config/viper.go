package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/sdr/pkg/dotdir"
)

// envPrefix namespaces environment overrides: client.base_url is read from
// SDR_CLIENT_BASE_URL.
const envPrefix = "SDR"

// InitViper returns a viper instance layered as
//
//	flags (after BindRegisteredFlags) > SDR_* env > config.toml > defaults
//
// A missing config.toml is not an error.
func InitViper(configDir string) (*viper.Viper, error) {
	dir, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	v := viper.New()
	setViperDefaults(v)

	v.SetConfigName(strings.TrimSuffix(configFile, ".toml"))
	v.SetConfigType("toml")
	if dir != "" {
		v.AddConfigPath(dir)
	}

	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults mirrors NewDefaultConfig into viper so defaults.go stays
// the only place defaults are written down.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)
	for _, key := range configKeyOrder {
		v.SetDefault(key, configKeys[key].get(d))
	}

	// Lists keep their slice type so GetStringSlice works on the default.
	v.SetDefault("eventstream.brokers", d.EventStream.Brokers)
}
