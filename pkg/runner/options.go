// Package runner applies fix groups across every file of a program and
// writes the results back safely.
package runner

import (
	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/fsutil"
)

// Program is a codefix.Program that can list its files.
type Program interface {
	codefix.Program

	// Paths returns every file path, sorted.
	Paths() []string
}

// Snapshotter is implemented by programs read from disk. The runner uses
// the snapshot to refuse writing files that changed after loading.
type Snapshotter interface {
	Snapshot(path string) (*fsutil.Snapshot, bool)
}

// Options controls a fix-all run.
type Options struct {
	Program Program

	// Groups are applied in order; where edits of different groups overlap
	// the earlier group wins. Empty means every registered group.
	Groups []codefix.GroupID

	// Paths restricts the run to these files or directories. Empty means
	// every file of the program.
	Paths []string

	// WorkingDir resolves relative Paths and anchors glob matching.
	// Empty means the process working directory.
	WorkingDir string

	// IncludeGlobs, when set, keep only files matching one of them.
	IncludeGlobs []string

	// ExcludeGlobs drop matching files. Exclusion wins over inclusion.
	ExcludeGlobs []string

	// Jobs caps concurrent work. 0 or negative means runtime.NumCPU().
	Jobs int

	// DryRun computes diffs without writing.
	DryRun bool

	Backup fsutil.BackupConfig

	// NewLine overrides the line terminator for inserted lines.
	NewLine string

	// Host receives engine messages. Nil logs to the context's logger.
	Host codefix.Host
}
