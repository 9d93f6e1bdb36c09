package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"fortio.org/safecast"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/runner"
	"github.com/yaklabco/codefix/pkg/source"
)

// jsonVersion is bumped when the JSON layout changes incompatibly.
const jsonVersion = 1

// JSONOutput is the top-level JSON structure of a fix-all run.
type JSONOutput struct {
	Version  int               `json:"version"`
	DryRun   bool              `json:"dryRun"`
	Files    []JSONFileResult  `json:"files"`
	Commands []codefix.Command `json:"commands"`
	Summary  JSONSummary       `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path      string     `json:"path"`
	Edits     []JSONEdit `json:"edits"`
	Conflicts []JSONEdit `json:"conflicts,omitempty"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Written   bool       `json:"written"`
	Backup    bool       `json:"backup,omitempty"`
	Stale     bool       `json:"stale,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// JSONEdit is a text edit with byte offsets and, when the source is
// known, a zero-based line/character range in the style of LSP.
type JSONEdit struct {
	Start   int        `json:"start"`
	End     int        `json:"end"`
	NewText string     `json:"newText"`
	Range   *JSONRange `json:"range,omitempty"`
}

// JSONRange is a half-open range of positions.
type JSONRange struct {
	Start JSONPosition `json:"start"`
	End   JSONPosition `json:"end"`
}

// JSONPosition is zero-based. Character counts bytes.
type JSONPosition struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesConsidered  int `json:"filesConsidered"`
	FilesChanged     int `json:"filesChanged"`
	FilesWritten     int `json:"filesWritten"`
	FilesStale       int `json:"filesStale"`
	FilesErrored     int `json:"filesErrored"`
	Diagnostics      int `json:"diagnostics"`
	EditsApplied     int `json:"editsApplied"`
	EditsConflicting int `json:"editsConflicting"`
}

// JSONFixSet is the JSON structure of a single-site request.
type JSONFixSet struct {
	Version     int              `json:"version"`
	Path        string           `json:"path"`
	Offset      int              `json:"offset"`
	Position    JSONPosition     `json:"position"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
}

// JSONDiagnostic is a diagnostic and its fixes.
type JSONDiagnostic struct {
	Code     int        `json:"code"`
	Category string     `json:"category"`
	Message  string     `json:"message"`
	Start    int        `json:"start"`
	Length   int        `json:"length"`
	Range    *JSONRange `json:"range,omitempty"`
	Fixes    []JSONFix  `json:"fixes"`
}

// JSONFix represents a proposed fix.
type JSONFix struct {
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	GroupID          string            `json:"groupId,omitempty"`
	GroupDescription string            `json:"groupDescription,omitempty"`
	Changes          []JSONFileEdit    `json:"changes"`
	Commands         []codefix.Command `json:"commands,omitempty"`
}

// JSONFileEdit holds the edits of one file.
type JSONFileEdit struct {
	Path  string     `json:"path"`
	Edits []JSONEdit `json:"edits"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output, err := r.buildOutput(result)
	if err != nil {
		return 0, err
	}
	if err := r.encode(output); err != nil {
		return 0, err
	}
	return output.Summary.EditsApplied, nil
}

// ReportFixes implements Reporter.
func (r *JSONReporter) ReportFixes(_ context.Context, set *runner.FixSet) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if set == nil {
		return 0, nil
	}
	output, err := buildFixSet(set)
	if err != nil {
		return 0, err
	}
	if err := r.encode(output); err != nil {
		return 0, err
	}
	return set.Count(), nil
}

func (r *JSONReporter) encode(v any) error {
	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) (*JSONOutput, error) {
	output := &JSONOutput{
		Version:  jsonVersion,
		DryRun:   r.opts.DryRun,
		Files:    make([]JSONFileResult, 0),
		Commands: make([]codefix.Command, 0),
	}
	if result == nil {
		return output, nil
	}

	output.Commands = append(output.Commands, result.Commands...)
	output.Summary = JSONSummary(result.Stats)

	for _, file := range result.Files {
		fr := JSONFileResult{
			Path:    file.Path,
			Written: file.Written,
			Backup:  file.BackupCreated,
			Stale:   file.Stale,
		}
		if file.Error != nil {
			fr.Error = file.Error.Error()
		}
		if file.Diff != nil {
			fr.Additions = file.Diff.Additions
			fr.Deletions = file.Diff.Deletions
		}

		var err error
		if fr.Edits, err = jsonEdits(file.Source, sourceOrder(file.Edits)); err != nil {
			return nil, fmt.Errorf("%s: %w", file.Path, err)
		}
		if len(file.Conflicts) > 0 {
			if fr.Conflicts, err = jsonEdits(file.Source, file.Conflicts); err != nil {
				return nil, fmt.Errorf("%s: %w", file.Path, err)
			}
		}
		output.Files = append(output.Files, fr)
	}

	return output, nil
}

func buildFixSet(set *runner.FixSet) (*JSONFixSet, error) {
	pos, err := position(set.Source, set.Offset)
	if err != nil {
		return nil, err
	}
	out := &JSONFixSet{
		Version:     jsonVersion,
		Path:        set.Path,
		Offset:      set.Offset,
		Position:    pos,
		Diagnostics: make([]JSONDiagnostic, 0, len(set.Entries)),
	}

	for _, entry := range set.Entries {
		d := entry.Diagnostic
		rng, err := spanRange(set.Source, d.Span())
		if err != nil {
			return nil, err
		}
		jd := JSONDiagnostic{
			Code:     int(d.Code),
			Category: string(d.Category),
			Message:  d.Message,
			Start:    d.Start,
			Length:   d.Length,
			Range:    rng,
			Fixes:    make([]JSONFix, 0, len(entry.Fixes)),
		}
		for _, f := range entry.Fixes {
			jf := JSONFix{
				Name:             f.Name,
				Description:      f.Description,
				GroupID:          string(f.GroupID),
				GroupDescription: f.GroupDescription,
				Changes:          make([]JSONFileEdit, 0, len(f.Changes)),
				Commands:         f.Commands,
			}
			for _, fe := range f.Changes {
				// Ranges are only known for the requested file.
				var src *source.File
				if fe.Path == set.Path {
					src = set.Source
				}
				edits, err := jsonEdits(src, sourceOrder(fe.Edits))
				if err != nil {
					return nil, fmt.Errorf("%s: %w", fe.Path, err)
				}
				jf.Changes = append(jf.Changes, JSONFileEdit{Path: fe.Path, Edits: edits})
			}
			jd.Fixes = append(jd.Fixes, jf)
		}
		out.Diagnostics = append(out.Diagnostics, jd)
	}
	return out, nil
}

func jsonEdits(src *source.File, edits []fix.TextEdit) ([]JSONEdit, error) {
	out := make([]JSONEdit, 0, len(edits))
	for _, e := range edits {
		rng, err := spanRange(src, e.Span)
		if err != nil {
			return nil, err
		}
		out = append(out, JSONEdit{
			Start:   e.Span.Start,
			End:     e.Span.End(),
			NewText: e.NewText,
			Range:   rng,
		})
	}
	return out, nil
}

// spanRange returns nil when src is nil.
func spanRange(src *source.File, span fix.Span) (*JSONRange, error) {
	if src == nil {
		return nil, nil
	}
	start, err := position(src, span.Start)
	if err != nil {
		return nil, err
	}
	end, err := position(src, span.End())
	if err != nil {
		return nil, err
	}
	return &JSONRange{Start: start, End: end}, nil
}

func position(src *source.File, offset int) (JSONPosition, error) {
	if src == nil {
		return JSONPosition{}, nil
	}
	line, col := src.LineAt(offset)
	if line == 0 {
		return JSONPosition{}, fmt.Errorf("offset %d outside %s", offset, src.Path)
	}
	l, err := safecast.Conv[uint32](line - 1)
	if err != nil {
		return JSONPosition{}, fmt.Errorf("line of offset %d: %w", offset, err)
	}
	c, err := safecast.Conv[uint32](col - 1)
	if err != nil {
		return JSONPosition{}, fmt.Errorf("column of offset %d: %w", offset, err)
	}
	return JSONPosition{Line: l, Character: c}, nil
}
