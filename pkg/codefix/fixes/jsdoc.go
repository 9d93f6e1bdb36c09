package fixes

import (
	"fmt"
	"strings"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/textchanges"
)

// CodeJSDocTypeOutsideComment is "JSDoc types can only be used inside
// documentation comments".
const CodeJSDocTypeOutsideComment diag.Code = 8020

// Fix groups owned by JSDocTypes.
const (
	GroupJSDocPlain    codefix.GroupID = "fixJSDocTypes_plain"
	GroupJSDocNullable codefix.GroupID = "fixJSDocTypes_nullable"
)

// JSDocTypes rewrites a JSDoc-only type annotation such as "?number" or
// "string=" into its TypeScript spelling. Nullable types get a second fix
// that also admits undefined.
type JSDocTypes struct {
	codefix.BaseStrategy
}

// NewJSDocTypes creates the strategy.
func NewJSDocTypes() *JSDocTypes {
	return &JSDocTypes{
		BaseStrategy: codefix.NewBaseStrategy("fixJSDocTypes",
			[]diag.Code{CodeJSDocTypeOutsideComment}, GroupJSDocPlain, GroupJSDocNullable),
	}
}

type jsdocKind int

const (
	jsdocAll jsdocKind = iota
	jsdocNullable
	jsdocNonNullable
	jsdocOptional
	jsdocVariadic
)

// parseJSDocType splits a JSDoc type into its operator and operand.
func parseJSDocType(text string) (jsdocKind, string, bool) {
	text = strings.TrimSpace(text)
	var kind jsdocKind
	var inner string

	switch {
	case text == "*" || text == "?":
		return jsdocAll, "", true
	case strings.HasPrefix(text, "..."):
		kind, inner = jsdocVariadic, text[len("..."):]
	case strings.HasPrefix(text, "?"):
		kind, inner = jsdocNullable, text[1:]
	case strings.HasSuffix(text, "?"):
		kind, inner = jsdocNullable, text[:len(text)-1]
	case strings.HasPrefix(text, "!"):
		kind, inner = jsdocNonNullable, text[1:]
	case strings.HasSuffix(text, "!"):
		kind, inner = jsdocNonNullable, text[:len(text)-1]
	case strings.HasSuffix(text, "=") && !strings.HasSuffix(text, "=>"):
		kind, inner = jsdocOptional, text[:len(text)-1]
	default:
		return 0, "", false
	}

	inner = strings.TrimSpace(inner)
	if inner == "" {
		return 0, "", false
	}
	return kind, inner, true
}

// operand parenthesizes a type that would otherwise bind looser than the
// operator applied to it.
func operand(typ string) string {
	if wrapped(typ) {
		return typ
	}
	if strings.Contains(typ, "|") || strings.Contains(typ, "&") || strings.Contains(typ, "=>") {
		return "(" + typ + ")"
	}
	return typ
}

// wrapped reports whether typ is enclosed in one pair of parentheses.
func wrapped(typ string) bool {
	if !strings.HasPrefix(typ, "(") {
		return false
	}
	depth := 0
	for i := range len(typ) {
		switch typ[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(typ)-1
			}
		}
	}
	return false
}

// rewriteJSDocType returns the TypeScript spelling of text. withUndefined
// adds undefined to nullable types.
func rewriteJSDocType(text string, withUndefined bool) (string, bool) {
	kind, inner, ok := parseJSDocType(text)
	if !ok {
		return "", false
	}
	if nested, ok := rewriteJSDocType(inner, withUndefined); ok {
		inner = nested
	}

	switch kind {
	case jsdocAll:
		return "any", true
	case jsdocNullable:
		if withUndefined {
			return operand(inner) + " | null | undefined", true
		}
		return operand(inner) + " | null", true
	case jsdocNonNullable:
		return inner, true
	case jsdocOptional:
		return operand(inner) + " | undefined", true
	case jsdocVariadic:
		return operand(inner) + "[]", true
	}
	return "", false
}

func (s *JSDocTypes) fix(fc *codefix.FixContext, group codefix.GroupID, description string) *codefix.Fix {
	original := fc.File.Slice(fc.Span)
	replacement, ok := rewriteJSDocType(original, group == GroupJSDocNullable)
	if !ok {
		return nil
	}
	return &codefix.Fix{
		Description: fmt.Sprintf("Change '%s' to '%s'", original, replacement),
		Changes: textchanges.With(fc.LineBreak(), func(t *textchanges.Tracker) {
			t.Replace(fc.File, fc.Span, replacement)
		}),
		GroupID:          group,
		GroupDescription: description,
	}
}

// Fixes implements codefix.Strategy.
func (s *JSDocTypes) Fixes(fc *codefix.FixContext) []*codefix.Fix {
	plain := s.fix(fc, GroupJSDocPlain, "Change all JSDoc-style types to TypeScript")
	if plain == nil {
		return nil
	}
	out := []*codefix.Fix{plain}
	if kind, _, _ := parseJSDocType(fc.File.Slice(fc.Span)); kind == jsdocNullable {
		out = append(out, s.fix(fc, GroupJSDocNullable,
			"Change all JSDoc-style types to TypeScript (and add '| undefined' to nullable types)"))
	}
	return out
}

// FixOccurrence implements codefix.BatchStrategy. The nullable group
// rewrites non-nullable types the same way as the plain group.
func (s *JSDocTypes) FixOccurrence(occ *codefix.Occurrence) bool {
	f := occ.File()
	span := occ.Diagnostic.Span()
	replacement, ok := rewriteJSDocType(f.Slice(span), occ.GroupID == GroupJSDocNullable)
	if !ok {
		return false
	}
	occ.Tracker.Replace(f, span, replacement)
	return true
}
