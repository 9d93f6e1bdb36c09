// Package report loads the diagnostics an external checker produced for a
// set of source files and serves them to the engine as a codefix.Program.
//
// A report names each diagnostic's file, code, and location. Locations are
// byte offsets, or 1-based line and column pairs that are resolved against
// the file's line index. Reports are read from JSON, YAML, or msgpack,
// chosen by file extension.
package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// CurrentVersion is the report schema version this package reads and writes.
const CurrentVersion = 1

// Sentinel errors for errors.Is.
var (
	ErrUnknownFormat      = errors.New("unknown report format")
	ErrUnsupportedVersion = errors.New("unsupported report version")
	ErrInvalidPosition    = errors.New("invalid diagnostic position")
	ErrMissingFile        = errors.New("diagnostic without file")
)

// Report is the serialized form of a checker run.
type Report struct {
	Version int `json:"version" yaml:"version" msgpack:"version"`

	// Root is the directory relative file paths are resolved against. A
	// relative Root is taken relative to the report's own directory.
	Root string `json:"root,omitempty" yaml:"root,omitempty" msgpack:"root,omitempty"`

	Diagnostics []Entry `json:"diagnostics" yaml:"diagnostics" msgpack:"diagnostics"`
}

// Entry is one diagnostic. Start wins over Line and Column when both are set.
type Entry struct {
	Code     int    `json:"code" yaml:"code" msgpack:"code"`
	File     string `json:"file" yaml:"file" msgpack:"file"`
	Start    *int   `json:"start,omitempty" yaml:"start,omitempty" msgpack:"start,omitempty"`
	Length   int    `json:"length,omitempty" yaml:"length,omitempty" msgpack:"length,omitempty"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line,omitempty"`
	Column   int    `json:"column,omitempty" yaml:"column,omitempty" msgpack:"column,omitempty"`
	Message  string `json:"message,omitempty" yaml:"message,omitempty" msgpack:"message,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty" msgpack:"category,omitempty"`
}

// Format is a report encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Offset returns a pointer to n, for filling Entry.Start.
func Offset(n int) *int {
	return &n
}

func (r *Report) validate() error {
	if r.Version != 0 && r.Version != CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, r.Version)
	}
	for i, e := range r.Diagnostics {
		if e.File == "" {
			return fmt.Errorf("diagnostic %d: %w", i, ErrMissingFile)
		}
	}
	return nil
}
