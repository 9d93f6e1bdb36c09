package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/codefix/internal/logging"
	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/source"
)

// ErrPosition is returned when a requested position is outside the file.
var ErrPosition = errors.New("position out of range")

// Position names a location in a file, either as a byte offset or as a
// 1-based line and column. Line takes precedence when set.
type Position struct {
	Offset int
	Line   int
	Column int
}

// FixEntry pairs a diagnostic with the fixes proposed for it.
type FixEntry struct {
	Diagnostic diag.Diagnostic
	Fixes      []*codefix.Fix
}

// FixSet is the answer to a single-site request.
type FixSet struct {
	Path   string
	Source *source.File

	// Offset, Line and Column are the resolved position.
	Offset int
	Line   int
	Column int

	// Entries follow the diagnostics' source order. Diagnostics without
	// fixes are kept with an empty Fixes list.
	Entries []FixEntry
}

// Count returns the number of fixes across all entries.
func (s *FixSet) Count() int {
	n := 0
	for _, e := range s.Entries {
		n += len(e.Fixes)
	}
	return n
}

// FixesAt returns the fixes for every diagnostic of path whose span covers
// pos. A span covers the offsets from its start through its end, so a
// position just past an identifier still selects it.
func (r *Runner) FixesAt(ctx context.Context, opts Options, path string, pos Position) (*FixSet, error) {
	if opts.Program == nil {
		return nil, ErrNoProgram
	}
	src, ok := opts.Program.File(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSource, path)
	}

	offset := pos.Offset
	if pos.Line > 0 {
		col := max(pos.Column, 1)
		if offset, ok = src.Offset(pos.Line, col); !ok {
			return nil, fmt.Errorf("%w: %s:%d:%d", ErrPosition, path, pos.Line, col)
		}
	} else if offset < 0 || offset > src.Len() {
		return nil, fmt.Errorf("%w: %s: offset %d, length %d", ErrPosition, path, offset, src.Len())
	}

	line, col := src.LineAt(offset)
	set := &FixSet{Path: path, Source: src, Offset: offset, Line: line, Column: col}

	host := opts.Host
	if host == nil {
		host = codefix.NewLogHost(logging.FromContext(ctx))
	}

	for d := range diag.At(opts.Program.Diagnostics(path), offset) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fixes: %w", err)
		}
		fc := &codefix.FixContext{
			Context: codefix.Context{
				Ctx:     ctx,
				File:    src,
				Program: opts.Program,
				Host:    host,
				NewLine: opts.NewLine,
			},
			Code: d.Code,
			Span: d.Span(),
		}
		set.Entries = append(set.Entries, FixEntry{Diagnostic: d, Fixes: r.Engine.GetFixes(fc)})
	}

	logging.FromContext(ctx).Debug("fixes at position",
		logging.FieldPath, path,
		logging.FieldStart, offset,
		logging.FieldDiagnostics, len(set.Entries),
		logging.FieldFix, set.Count())
	return set, nil
}
