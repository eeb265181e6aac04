package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath  = ".env"
	DefaultPortalURL   = "https://boundvariable.space"
	DefaultMinInterval = 3 * time.Second
	DefaultTimeout     = 10 * time.Second
	DefaultStoreDriver = "sqlite3"
	DefaultLogLevel    = "error"
)

type Configuration struct {
	Version   string `toml:"-" yaml:"-"`
	BuildDate string `toml:"-" yaml:"-"`
	Commit    string `toml:"-" yaml:"-"`

	Portal PortalConfig `toml:"portal" yaml:"portal"`
	Store  StoreConfig  `toml:"store" yaml:"store"`
	Log    LogConfig    `toml:"log" yaml:"log"`
	Eval   EvalConfig   `toml:"eval" yaml:"eval"`
}

type PortalConfig struct {
	URL         string            `toml:"url" yaml:"url"`
	Headers     map[string]string `toml:"headers" yaml:"headers"`
	MinInterval Duration          `toml:"min_interval" yaml:"min_interval"`
	Timeout     Duration          `toml:"timeout" yaml:"timeout"`
}

type StoreConfig struct {
	Driver string `toml:"driver" yaml:"driver"`
	DSN    string `toml:"dsn" yaml:"dsn"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
	JSON  bool   `toml:"json" yaml:"json"`
}

type EvalConfig struct {
	MaxSteps int `toml:"max_steps" yaml:"max_steps"`
	// SelfCheck is a pointer so that an absent key keeps the default.
	SelfCheck *bool `toml:"self_check" yaml:"self_check"`
}

// Duration reads "3s"-style values from either file format.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfiguration returns the values used when no file overrides them.
func DefaultConfiguration() Configuration {
	return Configuration{
		Portal: PortalConfig{
			URL:         DefaultPortalURL,
			MinInterval: Duration{DefaultMinInterval},
			Timeout:     Duration{DefaultTimeout},
		},
		Store: StoreConfig{Driver: DefaultStoreDriver},
		Log:   LogConfig{Level: DefaultLogLevel},
	}
}

// LoadConfig reads path on top of the defaults. Files ending in .yaml or .yml
// are YAML, anything else is TOML. A missing file at the default path is not an
// error; any other missing path is.
func LoadConfig(path string) (Configuration, error) {
	config := DefaultConfiguration()
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultConfigPath {
			return config, nil
		}
		return config, fmt.Errorf("failed to read config '%s': %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = toml.Unmarshal(data, &config)
	}
	if err != nil {
		return config, fmt.Errorf("failed to parse config '%s': %w", path, err)
	}
	return config, nil
}

// SelfCheckEnabled reports the [eval] self_check setting, defaulting to true.
func (c Configuration) SelfCheckEnabled() bool {
	if c.Eval.SelfCheck == nil {
		return true
	}
	return *c.Eval.SelfCheck
}
