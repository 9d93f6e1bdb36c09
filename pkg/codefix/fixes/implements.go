package fixes

import (
	"strconv"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/source"
	"github.com/yaklabco/codefix/pkg/textchanges"
)

// CodeExtendsInterface is "Cannot extend an interface. Did you mean
// 'implements'?".
const CodeExtendsInterface diag.Code = 2689

// GroupExtendsToImplements is the fix group of ExtendsToImplements.
const GroupExtendsToImplements codefix.GroupID = "extendsInterfaceBecomesImplements"

// ExtendsToImplements rewrites "class C extends I" to "class C implements
// I". Keywords of later heritage clauses become commas.
type ExtendsToImplements struct {
	codefix.BaseStrategy
}

// NewExtendsToImplements creates the strategy.
func NewExtendsToImplements() *ExtendsToImplements {
	return &ExtendsToImplements{
		BaseStrategy: codefix.NewBaseStrategy("extendsInterfaceBecomesImplements",
			[]diag.Code{CodeExtendsInterface}, GroupExtendsToImplements),
	}
}

// classHeritage is a class header with its heritage clause keywords in
// source order.
type classHeritage struct {
	class    int
	keywords []fix.Span
}

// findHeritage returns the heritage of the class whose header contains
// pos. ok is false unless the first clause is an extends clause.
func findHeritage(f *source.File, pos int) (classHeritage, bool) {
	class := lastWordBefore(f, pos, "class")
	if class < 0 {
		return classHeritage{}, false
	}
	body := f.IndexOf("{", pos)
	if body < 0 {
		return classHeritage{}, false
	}

	start := f.SkipSpace(f.WordAt(f.SkipSpace(class + len("class"))).End())
	if start < body && f.Text[start] == '<' {
		start = skipTypeParameters(f, start)
	}

	h := classHeritage{class: class}
	for i := start; i < body; i++ {
		if f.HasWordAt(i, "extends") || f.HasWordAt(i, "implements") {
			w := f.WordAt(i)
			h.keywords = append(h.keywords, w)
			i = w.End()
		}
	}
	if len(h.keywords) == 0 || f.Slice(h.keywords[0]) != "extends" || pos < h.keywords[0].Start {
		return classHeritage{}, false
	}
	return h, true
}

// skipTypeParameters returns the offset after the '>' matching the '<' at
// open.
func skipTypeParameters(f *source.File, open int) int {
	depth := 0
	for i := open; i < f.Len(); i++ {
		switch f.Text[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return f.Len()
}

func (h classHeritage) apply(t *textchanges.Tracker, f *source.File) {
	t.Replace(f, h.keywords[0], "implements")
	for _, kw := range h.keywords[1:] {
		t.Replace(f, kw, ",")
	}
}

// Fixes implements codefix.Strategy.
func (s *ExtendsToImplements) Fixes(fc *codefix.FixContext) []*codefix.Fix {
	h, ok := findHeritage(fc.File, fc.Span.Start)
	if !ok {
		return nil
	}
	return []*codefix.Fix{{
		Description: "Change 'extends' to 'implements'",
		Changes: textchanges.With(fc.LineBreak(), func(t *textchanges.Tracker) {
			h.apply(t, fc.File)
		}),
		GroupID:          GroupExtendsToImplements,
		GroupDescription: "Change all extended interfaces to 'implements'",
	}}
}

// StructuralKey implements codefix.Keyed: one rewrite per class.
func (s *ExtendsToImplements) StructuralKey(occ *codefix.Occurrence) (string, bool) {
	h, ok := findHeritage(occ.File(), occ.Diagnostic.Start)
	if !ok {
		return "", false
	}
	return strconv.Itoa(h.class), true
}

// FixOccurrence implements codefix.BatchStrategy.
func (s *ExtendsToImplements) FixOccurrence(occ *codefix.Occurrence) bool {
	h, ok := findHeritage(occ.File(), occ.Diagnostic.Start)
	if !ok {
		return false
	}
	h.apply(occ.Tracker, occ.File())
	return true
}
