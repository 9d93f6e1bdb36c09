// Package reporter writes fix-all results and single-site fix lists as
// styled text, JSON, or unified diffs.
package reporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/codefix/pkg/runner"
)

// Reporter formats and writes results.
type Reporter interface {
	// Report writes the outcome of a fix-all run. It returns the number
	// of edits applied.
	Report(ctx context.Context, result *runner.Result) (int, error)

	// ReportFixes writes the fixes available at one position. It returns
	// the number of fixes listed.
	ReportFixes(ctx context.Context, set *runner.FixSet) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// relativePath shortens path against workDir, or the current directory
// when workDir is empty. Paths that would need more than two "../" steps
// are shown by base name.
func relativePath(workDir, path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return filepath.Base(path)
		}
		workDir = cwd
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return filepath.Base(path)
	}
	if strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
