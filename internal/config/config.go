// Package config provides configuration management for tint.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/tint-cli/internal/view"
	"github.com/open-cli-collective/tint-cli/pkg/markup"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "TINT_"

// Color profiles accepted by color_profile.
const (
	ProfileAuto      = "auto"
	ProfileASCII     = "ascii"
	ProfileANSI      = "ansi"
	ProfileANSI256   = "ansi256"
	ProfileTrueColor = "truecolor"
)

// Sources a config value can come from.
const (
	SourceDefault = "default"
	SourceFile    = "config"
)

// Config holds the tint configuration.
type Config struct {
	Strict            bool   `yaml:"strict" koanf:"strict"`
	RequireClosedTags bool   `yaml:"require_closed_tags" koanf:"require_closed_tags"`
	MaxDepth          int    `yaml:"max_depth" koanf:"max_depth"`
	OutputFormat      string `yaml:"output_format,omitempty" koanf:"output_format"`
	ColorProfile      string `yaml:"color_profile,omitempty" koanf:"color_profile"`
	PlaceholdersFile  string `yaml:"placeholders_file,omitempty" koanf:"placeholders_file"`
}

// Keys lists the config keys in display order.
func Keys() []string {
	return []string{
		"strict",
		"require_closed_tags",
		"max_depth",
		"output_format",
		"color_profile",
		"placeholders_file",
	}
}

// ColorProfiles lists the accepted color_profile values.
func ColorProfiles() []string {
	return []string{ProfileAuto, ProfileASCII, ProfileANSI, ProfileANSI256, ProfileTrueColor}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxDepth:     markup.DefaultMaxDepth,
		ColorProfile: ProfileAuto,
	}
}

func defaults() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"strict":              d.Strict,
		"require_closed_tags": d.RequireClosedTags,
		"max_depth":           d.MaxDepth,
		"output_format":       d.OutputFormat,
		"color_profile":       d.ColorProfile,
		"placeholders_file":   d.PlaceholdersFile,
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.MaxDepth < 1 {
		return errors.New("max_depth must be at least 1")
	}
	if err := view.ValidateFormat(c.OutputFormat); err != nil {
		return err
	}
	if c.ColorProfile != "" && !validProfile(c.ColorProfile) {
		return fmt.Errorf("invalid color_profile %q (valid: %s)", c.ColorProfile, strings.Join(ColorProfiles(), ", "))
	}
	return nil
}

func validProfile(p string) bool {
	for _, v := range ColorProfiles() {
		if v == p {
			return true
		}
	}
	return false
}

// Value returns the display form of a config key.
func (c *Config) Value(key string) string {
	switch key {
	case "strict":
		return fmt.Sprint(c.Strict)
	case "require_closed_tags":
		return fmt.Sprint(c.RequireClosedTags)
	case "max_depth":
		return fmt.Sprint(c.MaxDepth)
	case "output_format":
		return c.OutputFormat
	case "color_profile":
		return c.ColorProfile
	case "placeholders_file":
		return c.PlaceholdersFile
	}
	return ""
}

// ParserOptions returns the markup parser options this config selects.
func (c *Config) ParserOptions(logger zerolog.Logger) []markup.Option {
	return []markup.Option{
		markup.WithStrict(c.Strict),
		markup.WithRequireClosedTags(c.RequireClosedTags),
		markup.WithMaxDepth(c.MaxDepth),
		markup.WithLogger(logger),
	}
}

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Pick up XDG_* changes made after start-up
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, "tint", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path on top of the
// built-in defaults. The file must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(file.Provider(path), koanfyaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return unmarshal(k)
}

// LoadWithEnv loads defaults, then the config file if present, then TINT_*
// environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, _, err := LoadWithSources(path)
	return cfg, err
}

// LoadWithSources is LoadWithEnv that also reports where each key's value
// came from: SourceDefault, SourceFile or the name of an environment variable.
func LoadWithSources(path string) (*Config, map[string]string, error) {
	k := koanf.New(".")
	sources := make(map[string]string)

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	for _, key := range k.Keys() {
		sources[key] = SourceDefault
	}

	if _, err := os.Stat(path); err == nil {
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(path), koanfyaml.Parser()); err != nil {
			return nil, nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
		for _, key := range fk.Keys() {
			sources[key] = SourceFile
		}
		if err := k.Merge(fk); err != nil {
			return nil, nil, fmt.Errorf("failed to merge config file: %w", err)
		}
	}

	ek := koanf.New(".")
	err := ek.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		// Empty variables do not override
		if value == "" {
			return "", nil
		}
		return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
	}), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load env vars: %w", err)
	}
	for _, key := range ek.Keys() {
		sources[key] = EnvVar(key)
	}
	if err := k.Merge(ek); err != nil {
		return nil, nil, fmt.Errorf("failed to merge env vars: %w", err)
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, nil, err
	}
	return cfg, sources, nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, conf); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return &cfg, nil
}
