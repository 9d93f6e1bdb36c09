package runner

import (
	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/source"
)

// FileOutcome is what a run did to one file.
type FileOutcome struct {
	Path string

	// Source is the text the edits were computed against. It is nil when
	// the program had no source for Path.
	Source *source.File

	// Edits were applied, in descending order.
	Edits []fix.TextEdit

	// Conflicts are edits dropped because an earlier group already
	// changed the same text.
	Conflicts []fix.TextEdit

	// Diff is nil when the edits leave the text unchanged.
	Diff *fix.Diff

	Written       bool
	BackupCreated bool

	// Stale is set when the file changed on disk after it was loaded, so
	// nothing was written.
	Stale bool

	Error error
}

// Stats aggregates a run.
type Stats struct {
	FilesConsidered  int
	FilesChanged     int
	FilesWritten     int
	FilesStale       int
	FilesErrored     int
	Diagnostics      int
	EditsApplied     int
	EditsConflicting int
}

// Result is the outcome of a run. Files lists only files that received
// edits or failed, sorted by path.
type Result struct {
	Files    []FileOutcome
	Commands []codefix.Command
	Stats    Stats
}

// HasChanges reports whether any file's text changed.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed or was stale.
func (r *Result) HasErrors() bool {
	return r != nil && (r.Stats.FilesErrored > 0 || r.Stats.FilesStale > 0)
}

func (r *Result) accumulate(o FileOutcome) {
	r.Files = append(r.Files, o)

	if o.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	r.Stats.EditsConflicting += len(o.Conflicts)
	if o.Stale {
		r.Stats.FilesStale++
		return
	}
	r.Stats.EditsApplied += len(o.Edits)
	if o.Diff.HasChanges() {
		r.Stats.FilesChanged++
	}
	if o.Written {
		r.Stats.FilesWritten++
	}
}
