package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/sdr/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// CurrentV is the config.toml layout this build reads and writes.
	CurrentV = 0
)

// Configer reads and writes config.toml inside a resolved .sdr/ directory.
type Configer struct {
	path string
}

// NewConfiger resolves the .sdr/ directory (override first) and points at
// its config.toml. When no directory resolves, the Configer serves defaults
// and refuses to save.
func NewConfiger(override string) (*Configer, error) {
	dir, err := dotdir.NewManager().Target(override)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return &Configer{}, nil
	}

	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return &Configer{path: path}, nil
}

// ValidConfigKeys returns every supported key in config.toml section order.
func ValidConfigKeys() []string {
	return slices.Clone(configKeyOrder)
}

// IsValidConfigKey reports whether key is accepted by Get/SetConfigValue.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// GetTarget returns the config.toml path, or "" when none resolved.
func (c *Configer) GetTarget() string {
	return c.path
}

// LoadConfig reads config.toml. A missing file yields NewDefaultConfig, and
// fields left empty in the file take their default values.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.path == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewDefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	d := NewDefaultConfig()

	orDefault(&cfg.Client.BaseURL, d.Client.BaseURL)
	orDefault(&cfg.Client.Timeout, d.Client.Timeout)
	orDefault(&cfg.Transcript.Provider, d.Transcript.Provider)
	orDefault(&cfg.EventStream.Provider, d.EventStream.Provider)
	orDefault(&cfg.EventStream.Topic, d.EventStream.Topic)
	orDefault(&cfg.DevServer.Listen, d.DevServer.Listen)
	orDefault(&cfg.DevServer.Delay, d.DevServer.Delay)
	orDefault(&cfg.MCP.Listen, d.MCP.Listen)

	if len(cfg.EventStream.Brokers) == 0 {
		cfg.EventStream.Brokers = d.EventStream.Brokers
	}
}

func orDefault[T comparable](field *T, def T) {
	var zero T
	if *field == zero {
		*field = def
	}
}

// SaveConfig writes cfg to config.toml with owner-only permissions.
func (c *Configer) SaveConfig(cfg *Config) error {
	switch {
	case cfg == nil:
		return errors.New("cannot save nil config")
	case c.path == "":
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(c.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SetConfigValue validates value for key and persists it.
func (c *Configer) SetConfigValue(key, value string) error {
	info, err := lookupKey(key)
	if err != nil {
		return err
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}
	if err := info.set(cfg, value); err != nil {
		return err
	}
	return c.SaveConfig(cfg)
}

// GetConfigValue returns the effective value of key, defaults included.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, err := lookupKey(key)
	if err != nil {
		return "", err
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}
	return info.get(cfg), nil
}

func lookupKey(key string) (configKeyInfo, error) {
	info, ok := configKeys[key]
	if !ok {
		return configKeyInfo{}, fmt.Errorf("unknown config key: %q", key)
	}
	return info, nil
}

// ParseConfigTOML decodes config.toml contents without applying defaults.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	if cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}
	return cfg, nil
}
