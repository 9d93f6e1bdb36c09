package codefix

import (
	"iter"
	"maps"
	"slices"

	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/source"
)

// StaticProgram is a Program over files and diagnostics held in memory.
// It is immutable after construction and safe for concurrent use.
type StaticProgram struct {
	files  map[string]*source.File
	paths  []string
	byFile map[string][]diag.Diagnostic
}

// NewStaticProgram indexes files and their diagnostics. Diagnostics are
// sorted into source order.
func NewStaticProgram(files []*source.File, diags []diag.Diagnostic) *StaticProgram {
	p := &StaticProgram{
		files:  make(map[string]*source.File, len(files)),
		byFile: make(map[string][]diag.Diagnostic),
	}
	for _, f := range files {
		if _, ok := p.files[f.Path]; !ok {
			p.paths = append(p.paths, f.Path)
		}
		p.files[f.Path] = f
	}
	slices.Sort(p.paths)

	sorted := slices.Clone(diags)
	diag.Sort(sorted)
	for _, d := range sorted {
		p.byFile[d.File] = append(p.byFile[d.File], d)
	}
	return p
}

// Diagnostics implements Program.
func (p *StaticProgram) Diagnostics(path string) iter.Seq[diag.Diagnostic] {
	return diag.Seq(p.byFile[path])
}

// File implements Program.
func (p *StaticProgram) File(path string) (*source.File, bool) {
	f, ok := p.files[path]
	return f, ok
}

// Paths returns the paths of all files, sorted.
func (p *StaticProgram) Paths() []string {
	return slices.Clone(p.paths)
}

// AllDiagnostics returns every diagnostic, ordered by file and position.
func (p *StaticProgram) AllDiagnostics() []diag.Diagnostic {
	var all []diag.Diagnostic
	for _, path := range slices.Sorted(maps.Keys(p.byFile)) {
		all = append(all, p.byFile[path]...)
	}
	return all
}
