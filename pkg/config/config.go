// Package config defines the codefix configuration. The types are plain
// data; discovery, merging and environment overrides live in the loader.
package config

import (
	"maps"
	"slices"
)

// OutputFormat selects how results are printed.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// IsValid reports whether f is a known format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}

// Line terminators accepted by NewLine.
const (
	NewLineAuto = ""
	NewLineLF   = "lf"
	NewLineCRLF = "crlf"
)

// BackupsConfig controls backups when writing fixed files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Mode    string `yaml:"mode" toml:"mode"` // "sidecar" or "none"
}

// StrategyConfig holds per-strategy settings.
type StrategyConfig struct {
	Enabled *bool `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
}

// Config is the root configuration.
type Config struct {
	LogLevel string       `yaml:"log_level" toml:"log_level"`
	Format   OutputFormat `yaml:"format" toml:"format"`
	Color    string       `yaml:"color" toml:"color"` // "auto", "always", "never"

	// Jobs caps concurrency; 0 means one per CPU.
	Jobs int `yaml:"jobs" toml:"jobs"`

	// NewLine is the terminator for inserted lines. Empty keeps each
	// file's own.
	NewLine string `yaml:"newline" toml:"newline"`

	Backups BackupsConfig `yaml:"backups" toml:"backups"`

	// Groups are the fix groups fix-all applies when none are named on
	// the command line. Empty means all of them.
	Groups []string `yaml:"groups" toml:"groups"`

	// Strategies enables or disables strategies by name. Strategies not
	// listed are enabled.
	Strategies map[string]StrategyConfig `yaml:"strategies" toml:"strategies"`

	// DisableCodes are the diagnostic codes that may be silenced with an
	// ignore comment. Empty means the built-in list.
	DisableCodes []int `yaml:"disable_codes" toml:"disable_codes"`

	// TypesPackages are the packages with published type declarations
	// that the install-types fix may suggest.
	TypesPackages []string `yaml:"types_packages" toml:"types_packages"`

	// Ignore holds glob patterns of files never to fix.
	Ignore []string `yaml:"ignore" toml:"ignore"`

	// DryRun is CLI-only.
	DryRun bool `yaml:"-" toml:"-"`
}

// NewConfig returns the defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel:   "info",
		Format:     FormatText,
		Color:      "auto",
		Backups:    BackupsConfig{Enabled: false, Mode: "sidecar"},
		Strategies: make(map[string]StrategyConfig),
	}
}

// StrategyEnabled reports whether the named strategy should be registered.
func (c *Config) StrategyEnabled(name string) bool {
	sc, ok := c.Strategies[name]
	return !ok || sc.Enabled == nil || *sc.Enabled
}

// LineBreak returns the configured terminator, or "" for auto.
func (c *Config) LineBreak() string {
	switch c.NewLine {
	case NewLineLF:
		return "\n"
	case NewLineCRLF:
		return "\r\n"
	default:
		return ""
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Groups = slices.Clone(c.Groups)
	out.DisableCodes = slices.Clone(c.DisableCodes)
	out.TypesPackages = slices.Clone(c.TypesPackages)
	out.Ignore = slices.Clone(c.Ignore)
	if c.Strategies != nil {
		out.Strategies = make(map[string]StrategyConfig, len(c.Strategies))
		for name, sc := range c.Strategies {
			if sc.Enabled != nil {
				enabled := *sc.Enabled
				sc.Enabled = &enabled
			}
			out.Strategies[name] = sc
		}
	}
	return &out
}

// StrategyNames returns the names with explicit settings, sorted.
func (c *Config) StrategyNames() []string {
	return slices.Sorted(maps.Keys(c.Strategies))
}
