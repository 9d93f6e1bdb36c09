package fixes

import (
	"strconv"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/source"
	"github.com/yaklabco/codefix/pkg/textchanges"
)

// CodeSuperBeforeThis is "'super' must be called before accessing 'this'
// in the constructor of a derived class".
const CodeSuperBeforeThis diag.Code = 17009

// GroupSuperFirst is the fix group of SuperFirst.
const GroupSuperFirst codefix.GroupID = "classSuperMustPrecedeThisAccess"

// SuperFirst moves the super call to the top of the constructor body.
type SuperFirst struct {
	codefix.BaseStrategy
}

// NewSuperFirst creates the strategy.
func NewSuperFirst() *SuperFirst {
	return &SuperFirst{
		BaseStrategy: codefix.NewBaseStrategy("classSuperMustPrecedeThisAccess",
			[]diag.Code{CodeSuperBeforeThis}, GroupSuperFirst),
	}
}

type superCall struct {
	constructor int
	body        int
	stmt        fix.Span
}

// findSuperCall locates the constructor around pos and its top-level
// super call. There is no fix when the 'this' at pos is an argument of
// that call.
func findSuperCall(f *source.File, pos int) (superCall, bool) {
	ctor := lastWordBefore(f, pos, "constructor")
	if ctor < 0 {
		return superCall{}, false
	}
	closeParams := f.MatchingClose(f.IndexOf("(", ctor))
	if closeParams < 0 {
		return superCall{}, false
	}
	body := f.IndexOf("{", closeParams)
	if body < 0 {
		return superCall{}, false
	}
	end := f.MatchingClose(body)
	if end < 0 || pos < body || pos > end {
		return superCall{}, false
	}

	for i := findWord(f, fix.SpanBetween(body, end), "super"); i >= 0; i = findWord(f, fix.SpanBetween(i+1, end), "super") {
		open := f.SkipSpace(i + len("super"))
		if open >= end || f.Text[open] != '(' || f.EnclosingOpen(i, '{') != body {
			continue
		}
		if args := fix.SpanBetween(open, f.MatchingClose(open)); args.Contains(pos) {
			return superCall{}, false
		}
		return superCall{constructor: ctor, body: body, stmt: statementAt(f, i)}, true
	}
	return superCall{}, false
}

func (c superCall) apply(t *textchanges.Tracker, f *source.File) {
	first := f.SkipSpace(c.body + 1)
	text := f.Slice(c.stmt)
	if f.LineOf(first).Start > c.body {
		t.InsertLineBefore(f, first, text)
	} else {
		t.InsertAt(f, first, text+" ")
	}
	t.Delete(f, c.stmt)
}

// Fixes implements codefix.Strategy.
func (s *SuperFirst) Fixes(fc *codefix.FixContext) []*codefix.Fix {
	call, ok := findSuperCall(fc.File, fc.Span.Start)
	if !ok {
		return nil
	}
	return []*codefix.Fix{{
		Description: "Make 'super()' call the first statement in the constructor",
		Changes: textchanges.With(fc.LineBreak(), func(t *textchanges.Tracker) {
			call.apply(t, fc.File)
		}),
		GroupID:          GroupSuperFirst,
		GroupDescription: "Make all 'super()' calls the first statement in their constructor",
	}}
}

// StructuralKey implements codefix.Keyed: one move per constructor.
func (s *SuperFirst) StructuralKey(occ *codefix.Occurrence) (string, bool) {
	call, ok := findSuperCall(occ.File(), occ.Diagnostic.Start)
	if !ok {
		return "", false
	}
	return strconv.Itoa(call.constructor), true
}

// FixOccurrence implements codefix.BatchStrategy.
func (s *SuperFirst) FixOccurrence(occ *codefix.Occurrence) bool {
	call, ok := findSuperCall(occ.File(), occ.Diagnostic.Start)
	if !ok {
		return false
	}
	call.apply(occ.Tracker, occ.File())
	return true
}
