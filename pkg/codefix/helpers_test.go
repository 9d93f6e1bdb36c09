package codefix_test

import (
	"context"
	"iter"
	"strings"
	"sync"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/source"
)

// stubStrategy returns canned fixes and optionally handles batches.
type stubStrategy struct {
	codefix.BaseStrategy

	fixes    func(fc *codefix.FixContext) []*codefix.Fix
	occur    func(occ *codefix.Occurrence) bool
	keyFor   func(occ *codefix.Occurrence) (string, bool)
	visited  []int
	visitMux sync.Mutex
}

func newStub(name string, codes []diag.Code, groups ...codefix.GroupID) *stubStrategy {
	return &stubStrategy{BaseStrategy: codefix.NewBaseStrategy(name, codes, groups...)}
}

func (s *stubStrategy) Fixes(fc *codefix.FixContext) []*codefix.Fix {
	if s.fixes == nil {
		return nil
	}
	return s.fixes(fc)
}

func (s *stubStrategy) FixOccurrence(occ *codefix.Occurrence) bool {
	s.visitMux.Lock()
	s.visited = append(s.visited, occ.Diagnostic.Start)
	s.visitMux.Unlock()
	if s.occur == nil {
		return false
	}
	return s.occur(occ)
}

// keyedStub adds structural keys to stubStrategy.
type keyedStub struct {
	*stubStrategy
}

func (k keyedStub) StructuralKey(occ *codefix.Occurrence) (string, bool) {
	return k.keyFor(occ)
}

// plainStrategy has no batch capability.
type plainStrategy struct {
	codefix.BaseStrategy

	fixes []*codefix.Fix
}

func (p *plainStrategy) Fixes(*codefix.FixContext) []*codefix.Fix {
	return p.fixes
}

type recordingHost struct {
	mu       sync.Mutex
	messages []string
}

func (h *recordingHost) Log(msg string, _ ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
}

// unorderedProgram yields diagnostics in the order given.
type unorderedProgram struct {
	files map[string]*source.File
	diags []diag.Diagnostic
}

func (p *unorderedProgram) Diagnostics(path string) iter.Seq[diag.Diagnostic] {
	return func(yield func(diag.Diagnostic) bool) {
		for _, d := range p.diags {
			if d.File == path && !yield(d) {
				return
			}
		}
	}
}

func (p *unorderedProgram) File(path string) (*source.File, bool) {
	f, ok := p.files[path]
	return f, ok
}

func fixContext(f *source.File, prog codefix.Program, code diag.Code, span fix.Span) *codefix.FixContext {
	return &codefix.FixContext{
		Context: codefix.Context{Ctx: context.Background(), File: f, Program: prog},
		Code:    code,
		Span:    span,
	}
}

func batchContext(ctx context.Context, f *source.File, prog codefix.Program, group codefix.GroupID) *codefix.BatchContext {
	return &codefix.BatchContext{
		Context: codefix.Context{Ctx: ctx, File: f, Program: prog},
		GroupID: group,
	}
}

// declaratorLine pads a declaration to a fixed 40 byte line.
func declaratorLine(name string) string {
	line := "      let " + name + " = 1, used = 2;"
	return line + strings.Repeat(" ", 39-len(line)) + "\n"
}

// deleteDeclarator removes the declarator containing the diagnostic from
// its declaration list.
func deleteDeclarator(occ *codefix.Occurrence) bool {
	f := occ.File()
	line := f.LineOf(occ.Diagnostic.Start)
	open := f.IndexOf("let ", line.Start)
	end := f.IndexOf(";", open)
	if open < 0 || end < 0 || end > line.NewlineStart {
		return false
	}
	list := f.SplitList(open+len("let "), end)
	for i, el := range list {
		if el.Contains(occ.Diagnostic.Start) {
			occ.Tracker.DeleteInList(f, list, i)
			return true
		}
	}
	return false
}

func fixSpan(start, end int) fix.Span {
	return fix.SpanBetween(start, end)
}
