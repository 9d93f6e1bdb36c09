package fixes

import (
	"fmt"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/source"
	"github.com/yaklabco/codefix/pkg/textchanges"
)

// CodeTypeNotNamespace is "Cannot access 'A.B' because 'A' is a type, but
// not a namespace".
const CodeTypeNotNamespace diag.Code = 2713

// GroupIndexedAccess is the fix group of IndexedAccess.
const GroupIndexedAccess codefix.GroupID = "correctQualifiedNameToIndexedAccessType"

// IndexedAccess rewrites the qualified name A.B to the indexed access
// type A["B"].
type IndexedAccess struct {
	codefix.BaseStrategy
}

// NewIndexedAccess creates the strategy.
func NewIndexedAccess() *IndexedAccess {
	return &IndexedAccess{
		BaseStrategy: codefix.NewBaseStrategy("correctQualifiedNameToIndexedAccessType",
			[]diag.Code{CodeTypeNotNamespace}, GroupIndexedAccess),
	}
}

// qualifiedName returns the spans of A and B in "A.B" around pos. A must
// be a plain identifier.
func qualifiedName(f *source.File, pos int) (fix.Span, fix.Span, bool) {
	word := f.WordAt(pos)
	if word.Empty() {
		return fix.Span{}, fix.Span{}, false
	}

	if dot := word.End(); dot < f.Len() && f.Text[dot] == '.' {
		right := f.WordAt(dot + 1)
		if !right.Empty() && right.Start == dot+1 && (word.Start == 0 || f.Text[word.Start-1] != '.') {
			return word, right, true
		}
	}
	if dot := word.Start - 1; dot > 0 && f.Text[dot] == '.' {
		left := f.WordAt(dot - 1)
		if !left.Empty() && left.End() == dot && (left.Start == 0 || f.Text[left.Start-1] != '.') {
			return left, word, true
		}
	}
	return fix.Span{}, fix.Span{}, false
}

// Fixes implements codefix.Strategy.
func (s *IndexedAccess) Fixes(fc *codefix.FixContext) []*codefix.Fix {
	left, right, ok := qualifiedName(fc.File, fc.Span.Start)
	if !ok {
		return nil
	}
	replacement := fmt.Sprintf("%s[%q]", fc.File.Slice(left), fc.File.Slice(right))
	return []*codefix.Fix{{
		Description: fmt.Sprintf("Rewrite as the indexed access type '%s'", replacement),
		Changes: textchanges.With(fc.LineBreak(), func(t *textchanges.Tracker) {
			t.Replace(fc.File, fix.SpanBetween(left.Start, right.End()), replacement)
		}),
		GroupID:          GroupIndexedAccess,
		GroupDescription: "Rewrite all as indexed access types",
	}}
}

// FixOccurrence implements codefix.BatchStrategy.
func (s *IndexedAccess) FixOccurrence(occ *codefix.Occurrence) bool {
	return codefix.FixAllSimple(s, occ)
}
