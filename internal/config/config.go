// Package config loads settings for the crn command-line tool and the tool
// server from a YAML file, CRN_* environment variables and bound flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "CRN"

const (
	DefaultPrecision  = 3
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
	DefaultServerAddr = ":8080"
)

// ErrConfigValidation is wrapped by every validation failure.
var ErrConfigValidation = errors.New("config: validation failed")

// Config is the root configuration.
type Config struct {
	Format FormatConfig `mapstructure:"format"`
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
}

// FormatConfig controls how reactions are rendered.
type FormatConfig struct {
	Precision int  `mapstructure:"precision"`
	ShowRate  bool `mapstructure:"show_rate"`
}

// LogConfig selects the zap level ("debug", "info", "warn", "error") and
// encoding ("console" or "json").
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds the tool server listen address.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// newViper builds a viper instance reading YAML, with the CRN_ env prefix
// and "." mapped to "_" so "format.precision" resolves to
// CRN_FORMAT_PRECISION.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("format.precision", DefaultPrecision)
	v.SetDefault("format.show_rate", false)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("server.addr", DefaultServerAddr)
	return v
}

// Load reads the YAML file at path (skipped when empty), merges CRN_*
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	return LoadWithFlags(path, nil)
}

// LoadWithFlags is Load with flag overrides. Flags named "precision",
// "rate", "log-level" and "addr" are bound when present in fs and win over
// file and environment when set.
func LoadWithFlags(path string, fs *pflag.FlagSet) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", path, err)
		}
	}
	if fs != nil {
		for key, name := range map[string]string{
			"format.precision": "precision",
			"format.show_rate": "rate",
			"log.level":        "log-level",
			"server.addr":      "addr",
		} {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind flag %q: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Format: FormatConfig{Precision: DefaultPrecision},
		Log:    LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var issues []string
	if c.Format.Precision < 0 {
		issues = append(issues, fmt.Sprintf("format.precision must be >= 0, got %d", c.Format.Precision))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		issues = append(issues, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		issues = append(issues, fmt.Sprintf("log.format %q is not one of console, json", c.Log.Format))
	}
	if c.Server.Addr == "" {
		issues = append(issues, "server.addr must not be empty")
	}
	if len(issues) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigValidation, strings.Join(issues, "; "))
	}
	return nil
}
