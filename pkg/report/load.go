package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/fsutil"
	"github.com/yaklabco/codefix/pkg/source"
)

// Program is a codefix.Program backed by files read from disk. It keeps the
// snapshot of every file so writers can detect edits made after loading.
type Program struct {
	*codefix.StaticProgram

	snapshots map[string]*fsutil.Snapshot
}

// Snapshot returns the on-disk state of path at load time.
func (p *Program) Snapshot(path string) (*fsutil.Snapshot, bool) {
	s, ok := p.snapshots[path]
	return s, ok
}

// Load reads the report at path and every source file it mentions.
func Load(ctx context.Context, path string) (*Program, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	rep, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	root := rep.Root
	if !filepath.IsAbs(root) {
		root = filepath.Join(filepath.Dir(path), root)
	}
	return Build(ctx, rep, root)
}

// Build reads the files rep refers to, resolving relative paths against
// root, and converts its entries to diagnostics. Diagnostic file names are
// the resolved paths.
func Build(ctx context.Context, rep *Report, root string) (*Program, error) {
	if err := rep.validate(); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(rep.Diagnostics))
	for _, e := range rep.Diagnostics {
		paths = append(paths, resolve(root, e.File))
	}
	slices.Sort(paths)
	paths = slices.Compact(paths)

	prog := &Program{snapshots: make(map[string]*fsutil.Snapshot, len(paths))}
	files := make(map[string]*source.File, len(paths))
	for _, p := range paths {
		content, snap, err := fsutil.ReadFile(ctx, p)
		if err != nil {
			return nil, err
		}
		files[p] = source.NewFile(p, string(content))
		prog.snapshots[p] = snap
	}

	diags := make([]diag.Diagnostic, 0, len(rep.Diagnostics))
	for i, e := range rep.Diagnostics {
		file := files[resolve(root, e.File)]
		d, err := e.diagnostic(file)
		if err != nil {
			return nil, fmt.Errorf("diagnostic %d (%s): %w", i, e.File, err)
		}
		diags = append(diags, d)
	}

	prog.StaticProgram = codefix.NewStaticProgram(slicesOf(files, paths), diags)
	return prog, nil
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

func slicesOf(files map[string]*source.File, paths []string) []*source.File {
	out := make([]*source.File, 0, len(paths))
	for _, p := range paths {
		out = append(out, files[p])
	}
	return out
}

func (e Entry) diagnostic(file *source.File) (diag.Diagnostic, error) {
	start := 0
	switch {
	case e.Start != nil:
		start = *e.Start
	case e.Line > 0:
		col := max(e.Column, 1)
		off, ok := file.Offset(e.Line, col)
		if !ok {
			return diag.Diagnostic{}, fmt.Errorf("%w: line %d column %d", ErrInvalidPosition, e.Line, col)
		}
		start = off
	default:
		return diag.Diagnostic{}, fmt.Errorf("%w: no start or line", ErrInvalidPosition)
	}

	if start < 0 || e.Length < 0 || start+e.Length > file.Len() {
		return diag.Diagnostic{}, fmt.Errorf("%w: [%d:%d] outside file of length %d",
			ErrInvalidPosition, start, start+e.Length, file.Len())
	}

	category := diag.Category(e.Category)
	if category == "" {
		category = diag.CategoryError
	}

	return diag.Diagnostic{
		Code:     diag.Code(e.Code),
		File:     file.Path,
		Start:    start,
		Length:   e.Length,
		Message:  e.Message,
		Category: category,
	}, nil
}

// FromDiagnostics builds a report from diagnostics, with file paths made
// relative to root where possible.
func FromDiagnostics(root string, diags []diag.Diagnostic) *Report {
	rep := &Report{Version: CurrentVersion, Root: root}
	for _, d := range diags {
		file := d.File
		if rel, err := filepath.Rel(root, d.File); err == nil && filepath.IsLocal(rel) {
			file = rel
		}
		rep.Diagnostics = append(rep.Diagnostics, Entry{
			Code:     int(d.Code),
			File:     file,
			Start:    Offset(d.Start),
			Length:   d.Length,
			Message:  d.Message,
			Category: string(d.Category),
		})
	}
	return rep
}
