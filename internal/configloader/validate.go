package configloader

import (
	"fmt"
	"path"
	"strings"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/config"
)

// ValidationError describes a bad configuration value.
type ValidationError struct {
	Field    string
	Value    any
	Message  string
	FilePath string
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult collects errors, which stop loading, and warnings,
// which do not.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether there were no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) errorf(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

//nolint:gochecknoglobals // read-only lookup tables
var (
	knownLogLevels   = []string{"debug", "info", "warn", "warning", "error"}
	knownColors      = []string{"auto", "always", "never"}
	knownNewLines    = []string{config.NewLineAuto, config.NewLineLF, config.NewLineCRLF}
	knownBackupModes = []string{"sidecar", "none"}
)

func oneOf(v string, known []string) bool {
	for _, k := range known {
		if strings.EqualFold(v, k) {
			return true
		}
	}
	return false
}

// Validate checks cfg. Strategy and group names are checked against reg,
// or codefix.DefaultRegistry when reg is nil; unknown names are warnings
// because a config file may be shared by builds with other strategies.
func Validate(cfg *config.Config, reg *codefix.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}
	if reg == nil {
		reg = codefix.DefaultRegistry
	}

	if cfg.LogLevel != "" && !oneOf(cfg.LogLevel, knownLogLevels) {
		result.errorf("log_level", cfg.LogLevel, "invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.errorf("format", cfg.Format, "invalid format %q; must be one of: text, json, diff", cfg.Format)
	}
	if cfg.Color != "" && !oneOf(cfg.Color, knownColors) {
		result.errorf("color", cfg.Color, "invalid color %q; must be one of: auto, always, never", cfg.Color)
	}
	if !oneOf(cfg.NewLine, knownNewLines) {
		result.errorf("newline", cfg.NewLine, "invalid newline %q; must be lf or crlf", cfg.NewLine)
	}
	if cfg.Jobs < 0 {
		result.errorf("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.Backups.Mode != "" && !oneOf(cfg.Backups.Mode, knownBackupModes) {
		result.errorf("backups.mode", cfg.Backups.Mode, "invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
	}

	for i, code := range cfg.DisableCodes {
		if code <= 0 {
			result.errorf(fmt.Sprintf("disable_codes[%d]", i), code, "diagnostic codes are positive")
		}
	}
	for i, pattern := range cfg.Ignore {
		if _, err := path.Match(pattern, ""); err != nil {
			result.errorf(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	for _, name := range cfg.StrategyNames() {
		if _, ok := reg.Strategy(name); !ok {
			result.warnf("strategies."+name, name, "unknown strategy %q; it will be ignored", name)
		}
	}
	for i, g := range cfg.Groups {
		if _, ok := reg.GroupOwner(codefix.GroupID(g)); !ok {
			result.warnf(fmt.Sprintf("groups[%d]", i), g, "unknown fix group %q", g)
		}
	}

	return result
}

// ValidateWithFile is Validate with every problem attributed to filePath.
func ValidateWithFile(cfg *config.Config, reg *codefix.Registry, filePath string) *ValidationResult {
	result := Validate(cfg, reg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}
