// Package config loads generator settings using Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/setanarut/traitstack/utils"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TRAITSTACK_WORKERS.
const EnvPrefix = "TRAITSTACK"

type Config struct {
	// Input is the directory whose immediate sub-directories are packages.
	Input string `mapstructure:"input"`
	// Output receives one sub-directory per package.
	Output string `mapstructure:"output"`
	// Count is the number of composites generated per package.
	Count int `mapstructure:"count"`
	// Workers bounds how many packages are processed at once.
	Workers int `mapstructure:"workers"`
	// Seed fixes variant selection. 0 seeds from crypto/rand.
	Seed int64 `mapstructure:"seed"`
	// Include holds doublestar patterns matched against package names.
	Include     []string      `mapstructure:"include"`
	HaltOnError bool          `mapstructure:"halt_on_error"`
	Metadata    bool          `mapstructure:"metadata"`
	Palette     PaletteConfig `mapstructure:"palette"`
	LogLevel    string        `mapstructure:"log_level"`
}

type PaletteConfig struct {
	Size   int    `mapstructure:"size"`
	Method string `mapstructure:"method"`
}

func DefaultConfig() *Config {
	return &Config{
		Input:    "input",
		Output:   "output",
		Count:    1,
		Workers:  1,
		Include:  []string{"*"},
		Palette:  PaletteConfig{Method: utils.PaletteMethodDominantColor.String()},
		LogLevel: "info",
	}
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"input":          "input",
	"output":         "output",
	"count":          "count",
	"workers":        "workers",
	"seed":           "seed",
	"include":        "include",
	"halt-on-error":  "halt_on_error",
	"metadata":       "metadata",
	"palette-size":   "palette.size",
	"palette-method": "palette.method",
	"log-level":      "log_level",
}

type LoadOptions struct {
	// ConfigFilePath is an optional yaml, toml or json file.
	ConfigFilePath string
	// Flags overrides file and environment values for flags that were set.
	Flags *pflag.FlagSet
}

// Load resolves configuration from defaults, the optional config file,
// TRAITSTACK_* environment variables and flags, in increasing precedence.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("input", defaults.Input)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("count", defaults.Count)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("include", defaults.Include)
	v.SetDefault("halt_on_error", defaults.HaltOnError)
	v.SetDefault("metadata", defaults.Metadata)
	v.SetDefault("palette.size", defaults.Palette.Size)
	v.SetDefault("palette.method", defaults.Palette.Method)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFilePath != "" {
		if _, err := os.Stat(opts.ConfigFilePath); err != nil {
			return nil, fmt.Errorf("config file not found: %s", opts.ConfigFilePath)
		}
		v.SetConfigFile(opts.ConfigFilePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFilePath, err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("input directory must be set"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output directory must be set"))
	}
	if c.Count < 1 {
		errs = append(errs, fmt.Errorf("count must be at least 1, got %d", c.Count))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.Palette.Size < 0 {
		errs = append(errs, fmt.Errorf("palette size must be non-negative, got %d", c.Palette.Size))
	}
	if _, err := utils.ParsePaletteMethod(c.Palette.Method); err != nil {
		errs = append(errs, err)
	}
	for _, pat := range c.Include {
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("invalid include pattern %q", pat))
		}
	}
	return errors.Join(errs...)
}

// PaletteMethod returns the parsed palette method. Call after Validate.
func (c *Config) PaletteMethod() utils.PaletteMethod {
	m, _ := utils.ParsePaletteMethod(c.Palette.Method)
	return m
}
