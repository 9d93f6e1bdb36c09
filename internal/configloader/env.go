package configloader

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/codefix/pkg/config"
)

const envVarPrefix = "CODEFIX_"

// envVar describes one CODEFIX_* variable.
type envVar struct {
	suffix string
	help   string
	apply  func(cfg *config.Config, value string) error
}

//nolint:gochecknoglobals // read-only table of supported variables
var envVars = []envVar{
	{"LOG_LEVEL", "Log level: debug, info, warn, or error", setString(func(c *config.Config) *string { return &c.LogLevel })},
	{"FORMAT", "Output format: text, json, or diff", func(c *config.Config, v string) error {
		c.Format = config.OutputFormat(v)
		return nil
	}},
	{"COLOR", "Color output: auto, always, or never", setString(func(c *config.Config) *string { return &c.Color })},
	{"NEWLINE", "Line terminator for inserted lines: lf or crlf", setString(func(c *config.Config) *string { return &c.NewLine })},
	{"JOBS", "Number of parallel workers (0 = auto)", func(c *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		c.Jobs = n
		return nil
	}},
	{"DRY_RUN", "Dry-run mode: true or false", setBool(func(c *config.Config) *bool { return &c.DryRun })},
	{"BACKUPS_ENABLED", "Keep a copy of each file before writing: true or false", setBool(func(c *config.Config) *bool { return &c.Backups.Enabled })},
	{"BACKUPS_MODE", "Backup mode: sidecar or none", setString(func(c *config.Config) *string { return &c.Backups.Mode })},
	{"GROUPS", "Comma-separated fix groups applied by fix-all", setList(func(c *config.Config) *[]string { return &c.Groups })},
	{"TYPES_PACKAGES", "Comma-separated packages with published type declarations", setList(func(c *config.Config) *[]string { return &c.TypesPackages })},
	{"IGNORE", "Comma-separated glob patterns of files never to fix", setList(func(c *config.Config) *[]string { return &c.Ignore })},
}

// LoadFromEnv applies CODEFIX_* variables to cfg. Unset and empty
// variables are skipped.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, ev := range envVars {
		value := os.Getenv(envVarPrefix + ev.suffix)
		if value == "" {
			continue
		}
		if err := ev.apply(cfg, value); err != nil {
			return fmt.Errorf("%s%s: %w", envVarPrefix, ev.suffix, err)
		}
	}
	return nil
}

// ListEnvVars returns every supported variable with a description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for _, ev := range envVars {
		out[envVarPrefix+ev.suffix] = ev.help
	}
	return out
}

func setString(field func(*config.Config) *string) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		*field(c) = v
		return nil
	}
}

func setBool(field func(*config.Config) *bool) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", v)
		}
		*field(c) = b
		return nil
	}
}

func setList(field func(*config.Config) *[]string) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		*field(c) = parseList(v)
		return nil
	}
}

func parseList(value string) []string {
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return slices.DeleteFunc(parts, func(s string) bool { return s == "" })
}
