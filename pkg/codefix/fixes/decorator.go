package fixes

import (
	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/source"
	"github.com/yaklabco/codefix/pkg/textchanges"
)

// CodeDecoratorNotCalled is "accepts too few arguments to be used as a
// decorator here".
const CodeDecoratorNotCalled diag.Code = 1329

// GroupCallDecorator is the fix group of CallDecorator.
const GroupCallDecorator codefix.GroupID = "addMissingInvocationForDecorator"

// CallDecorator turns "@dec" into "@dec()".
type CallDecorator struct {
	codefix.BaseStrategy
}

// NewCallDecorator creates the strategy.
func NewCallDecorator() *CallDecorator {
	return &CallDecorator{
		BaseStrategy: codefix.NewBaseStrategy("addMissingInvocationForDecorator",
			[]diag.Code{CodeDecoratorNotCalled}, GroupCallDecorator),
	}
}

// decoratorExpression returns the expression after the '@' that owns pos,
// a dotted name such as "Foo" or "ng.Input".
func decoratorExpression(f *source.File, pos int) (fix.Span, bool) {
	at := -1
	for i := min(pos, f.Len()-1); i >= 0; i-- {
		c := f.Text[i]
		if c == '@' {
			at = i
			break
		}
		if !source.IsIdentByte(c) && c != '.' {
			break
		}
	}
	if at < 0 {
		return fix.Span{}, false
	}

	end := at + 1
	for end < f.Len() && (source.IsIdentByte(f.Text[end]) || f.Text[end] == '.') {
		end++
	}
	if end == at+1 {
		return fix.Span{}, false
	}
	return fix.SpanBetween(at+1, end), true
}

// Fixes implements codefix.Strategy.
func (s *CallDecorator) Fixes(fc *codefix.FixContext) []*codefix.Fix {
	expr, ok := decoratorExpression(fc.File, fc.Span.Start)
	if !ok {
		return nil
	}
	return []*codefix.Fix{{
		Description: "Call decorator expression",
		Changes: textchanges.With(fc.LineBreak(), func(t *textchanges.Tracker) {
			t.InsertAfter(fc.File, expr, "()", textchanges.InsertOptions{})
		}),
		GroupID:          GroupCallDecorator,
		GroupDescription: "Call all decorator expressions",
	}}
}

// FixOccurrence implements codefix.BatchStrategy.
func (s *CallDecorator) FixOccurrence(occ *codefix.Occurrence) bool {
	return codefix.FixAllSimple(s, occ)
}
