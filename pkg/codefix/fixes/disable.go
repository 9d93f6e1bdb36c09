package fixes

import (
	"fmt"
	"strings"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/langdetect"
	"github.com/yaklabco/codefix/pkg/source"
	"github.com/yaklabco/codefix/pkg/textchanges"
)

// GroupDisableChecks is the fix group of DisableChecks.
const GroupDisableChecks codefix.GroupID = "disableJsDiagnostics"

// DefaultDisableCodes are the error codes DisableChecks handles when
// created without an explicit list.
//
//nolint:gochecknoglobals
var DefaultDisableCodes = []diag.Code{2304, 2322, 2339, 2345, 2531, 2532, 7006}

const (
	ignoreDirective  = "@ts-ignore"
	noCheckDirective = "@ts-nocheck"
	checkDirective   = "@ts-check"
)

// DisableChecks silences an error with an ignore comment on the line
// above it, or turns off checking for the whole file.
type DisableChecks struct {
	codefix.BaseStrategy
}

// NewDisableChecks creates the strategy for codes, or for
// DefaultDisableCodes when none are given.
func NewDisableChecks(codes ...diag.Code) *DisableChecks {
	if len(codes) == 0 {
		codes = DefaultDisableCodes
	}
	return &DisableChecks{
		BaseStrategy: codefix.NewBaseStrategy("disableJsDiagnostics", codes, GroupDisableChecks),
	}
}

// scriptComment returns the comment syntax for f, and false when f is not
// a script the directives apply to.
func scriptComment(f *source.File) (langdetect.Comment, bool) {
	switch langdetect.ForFile(f.Path, f.Text) {
	case langdetect.LangJavaScript, langdetect.LangTypeScript, langdetect.LangTSX:
		return langdetect.CommentSyntax(langdetect.LangJavaScript), true
	default:
		return langdetect.Comment{}, false
	}
}

// checkDirectiveLine returns the line holding a "// @ts-check" comment in
// the leading comment block of f.
func checkDirectiveLine(f *source.File, c langdetect.Comment) (source.Line, bool) {
	for n := 1; n <= f.LineCount(); n++ {
		content := strings.TrimSpace(f.LineContent(n))
		if content == "" {
			continue
		}
		if !strings.HasPrefix(content, c.Line) {
			break
		}
		if strings.TrimSpace(strings.TrimPrefix(content, c.Line)) == checkDirective {
			line, _ := f.Line(n)
			return line, true
		}
	}
	return source.Line{}, false
}

// Fixes implements codefix.Strategy.
func (s *DisableChecks) Fixes(fc *codefix.FixContext) []*codefix.Fix {
	f := fc.File
	c, ok := scriptComment(f)
	if !ok {
		return nil
	}

	ignore := textchanges.With(fc.LineBreak(), func(t *textchanges.Tracker) {
		t.InsertLineBefore(f, fc.Span.Start, c.Wrap(ignoreDirective))
	})

	nocheck := textchanges.With(fc.LineBreak(), func(t *textchanges.Tracker) {
		if line, ok := checkDirectiveLine(f, c); ok {
			t.Replace(f, fix.SpanBetween(line.Start, line.NewlineStart), c.Wrap(noCheckDirective))
			return
		}
		t.InsertAt(f, 0, c.Wrap(noCheckDirective)+fc.LineBreak())
	})

	return []*codefix.Fix{
		{
			Description:      "Ignore this error message",
			Changes:          ignore,
			GroupID:          GroupDisableChecks,
			GroupDescription: "Add '" + c.Wrap(ignoreDirective) + "' to all error messages",
		},
		{
			// No group: one nocheck comment already silences the file.
			Description: "Disable checking for this file",
			Changes:     nocheck,
		},
	}
}

// StructuralKey implements codefix.Keyed. Errors on the same line share
// one ignore comment.
func (s *DisableChecks) StructuralKey(occ *codefix.Occurrence) (string, bool) {
	line, _ := occ.File().LineAt(occ.Diagnostic.Start)
	return fmt.Sprintf("line %d", line), true
}

// FixOccurrence implements codefix.BatchStrategy.
func (s *DisableChecks) FixOccurrence(occ *codefix.Occurrence) bool {
	f := occ.File()
	c, ok := scriptComment(f)
	if !ok {
		return false
	}
	occ.Tracker.InsertLineBefore(f, occ.Diagnostic.Start, c.Wrap(ignoreDirective))
	return true
}
