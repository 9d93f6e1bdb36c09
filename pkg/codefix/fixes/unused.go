package fixes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/source"
	"github.com/yaklabco/codefix/pkg/textchanges"
)

// Diagnostic codes handled by UnusedIdentifier.
const (
	CodeDeclaredButNeverRead         diag.Code = 6133
	CodePropertyDeclaredButNeverRead diag.Code = 6138
)

// Fix groups owned by UnusedIdentifier.
const (
	GroupUnusedPrefix codefix.GroupID = "unusedIdentifier_prefix"
	GroupUnusedDelete codefix.GroupID = "unusedIdentifier_delete"
)

// UnusedIdentifier offers to delete an unused declaration or, where the
// name must stay (parameters, loop bindings), to prefix it with "_".
type UnusedIdentifier struct {
	codefix.BaseStrategy
}

// NewUnusedIdentifier creates the strategy.
func NewUnusedIdentifier() *UnusedIdentifier {
	return &UnusedIdentifier{
		BaseStrategy: codefix.NewBaseStrategy("unusedIdentifier",
			[]diag.Code{CodeDeclaredButNeverRead, CodePropertyDeclaredButNeverRead},
			GroupUnusedPrefix, GroupUnusedDelete),
	}
}

type declKind int

const (
	declVariable declKind = iota
	declParameter
	declForInit
	declForOf
	declForIn
	declImport
	declTypeParameter
	declMember
)

// declaration is what the identifier at a diagnostic position declares.
type declaration struct {
	kind declKind
	name fix.Span
	// stmt is the enclosing statement; for type parameters, the whole
	// <...> list including the angle brackets.
	stmt fix.Span

	// list holds the sibling declarations for kinds declared in a list;
	// for imports, the named bindings.
	list  []fix.Span
	index int

	imp importClause
}

// defaultBinding marks the default or namespace binding of an import in a
// set of unused indices.
const defaultBinding = -1

func (d declaration) prefixable() bool {
	return d.kind == declParameter || d.kind == declForOf || d.kind == declForIn
}

// listed reports whether d is deleted together with its siblings.
func (d declaration) listed() bool {
	switch d.kind {
	case declVariable, declParameter, declForInit, declImport, declTypeParameter:
		return true
	default:
		return false
	}
}

// importClause is the binding part of an import statement.
type importClause struct {
	def   fix.Span
	open  int
	close int
	named []fix.Span
}

func parseImport(f *source.File, kw fix.Span) importClause {
	c := importClause{open: -1, close: -1}
	pos := f.SkipSpace(kw.End())
	if f.HasWordAt(pos, "type") {
		pos = f.SkipSpace(pos + len("type"))
	}

	if pos < f.Len() && f.Text[pos] == '*' {
		if as := f.SkipSpace(pos + 1); f.HasWordAt(as, "as") {
			c.def = f.WordAt(f.SkipSpace(as + len("as")))
		}
		return c
	}

	if w := f.WordAt(pos); !w.Empty() && w.Start == pos && f.Slice(w) != "from" {
		c.def = w
		pos = f.SkipSpace(w.End())
		if pos < f.Len() && f.Text[pos] == ',' {
			pos = f.SkipSpace(pos + 1)
		}
	}
	if pos < f.Len() && f.Text[pos] == '{' {
		c.open = pos
		c.close = f.MatchingClose(pos)
		if c.close > pos {
			c.named = f.SplitList(pos+1, c.close)
		}
	}
	return c
}

// findDeclaration classifies the identifier at pos.
func findDeclaration(f *source.File, pos int) (declaration, bool) {
	name := f.WordAt(pos)
	if name.Empty() {
		return declaration{}, false
	}

	if open, closeAngle, ok := typeParameters(f, name.Start); ok {
		decl := declaration{kind: declTypeParameter, name: name, stmt: fix.SpanBetween(open, closeAngle+1)}
		return inList(decl, splitAngled(f, open+1, closeAngle))
	}

	if open := f.EnclosingOpen(name.Start, '('); open >= 0 {
		return parenthesized(f, name, open)
	}

	if open := f.EnclosingOpen(name.Start, '{'); open >= 0 {
		outer := statementAt(f, open)
		if kw, ok := keywordAfterModifiers(f, outer, "export"); ok {
			switch f.Slice(kw) {
			case "import":
				return importDeclaration(f, name, outer, kw)
			case "let", "const", "var":
				// Destructuring patterns are not handled.
				return declaration{}, false
			}
		}
	}

	stmt := statementAt(f, name.Start)
	kw, ok := keywordAfterModifiers(f, stmt, "export", "declare")
	if !ok {
		return declaration{}, false
	}

	switch f.Slice(kw) {
	case "import":
		return importDeclaration(f, name, stmt, kw)
	case "let", "const", "var":
		end := stmt.End()
		if strings.HasSuffix(f.Slice(stmt), ";") {
			end--
		}
		d, ok := inList(declaration{kind: declVariable, name: name, stmt: stmt}, splitAngled(f, kw.End(), end))
		return d, ok && d.list[d.index].Start == name.Start
	}

	if declaresName(f, stmt, name) {
		return declaration{kind: declMember, name: name, stmt: stmt}, true
	}
	return declaration{}, false
}

// declaringKeywords introduce a named declaration.
var declaringKeywords = []string{"function", "class", "interface", "type", "enum"}

// memberModifiers may precede a class member name.
var memberModifiers = []string{
	"export", "declare", "default", "public", "private", "protected",
	"static", "readonly", "abstract", "override", "async", "get", "set",
}

// declaresName reports whether name is the name introduced by stmt: it
// directly follows a declaring keyword, or it is the first word of a
// member after its modifiers.
func declaresName(f *source.File, stmt, name fix.Span) bool {
	if slices.Contains(declaringKeywords, f.Slice(f.PrevWord(name.Start))) {
		return true
	}
	kw, ok := keywordAfterModifiers(f, stmt, memberModifiers...)
	return ok && kw == name
}

// typeParameters returns the offsets of the angle brackets around pos when
// they enclose the type parameters of a declaration: a function, class,
// interface or type alias name precedes them, or a parameter list follows
// them as in a method or generic arrow function.
func typeParameters(f *source.File, pos int) (int, int, bool) {
	open := enclosingAngle(f, pos)
	if open < 0 {
		return -1, -1, false
	}
	closeAngle := matchingAngle(f, open)
	if closeAngle < 0 {
		return -1, -1, false
	}

	owner := f.PrevWord(open)
	if !owner.Empty() && slices.Contains(declaringKeywords, f.Slice(f.PrevWord(owner.Start))) {
		return open, closeAngle, true
	}
	if next := f.SkipSpace(closeAngle + 1); next < f.Len() && f.Text[next] == '(' {
		return open, closeAngle, true
	}
	return -1, -1, false
}

// isArrow reports whether the '>' at i belongs to "=>".
func isArrow(f *source.File, i int) bool {
	return i > 0 && f.Text[i-1] == '='
}

// enclosingAngle scans back from pos for an unmatched '<', balancing
// brackets of every kind. It gives up at a statement boundary.
func enclosingAngle(f *source.File, pos int) int {
	depth := 0
	for i := min(pos, f.Len()) - 1; i >= 0; i-- {
		switch c := f.Text[i]; c {
		case ')', ']', '}':
			depth++
		case '>':
			if !isArrow(f, i) {
				depth++
			}
		case '(', '[', '{':
			if depth == 0 {
				return -1
			}
			depth--
		case '<':
			if depth == 0 {
				return i
			}
			depth--
		case ';':
			if depth == 0 {
				return -1
			}
		}
	}
	return -1
}

// matchingAngle returns the offset of the '>' closing the '<' at open, or
// -1.
func matchingAngle(f *source.File, open int) int {
	depth := 0
	for i := open; i < f.Len(); i++ {
		switch c := f.Text[i]; {
		case isQuote(c):
			i = skipQuoted(f.Text, i)
		case c == '<' || c == '(' || c == '[' || c == '{':
			depth++
		case c == '>' && isArrow(f, i):
		case c == '>' || c == ')' || c == ']' || c == '}':
			depth--
			if depth == 0 {
				if c != '>' {
					return -1
				}
				return i
			}
		case c == ';':
			return -1
		}
	}
	return -1
}

// splitAngled is SplitList that keeps commas nested in angle brackets, as
// in "K extends Map<A, B>", inside their element.
func splitAngled(f *source.File, start, end int) []fix.Span {
	var out []fix.Span
	pending := -1
	for _, el := range f.SplitList(start, end) {
		if pending < 0 {
			pending = el.Start
		}
		text := f.Slice(fix.SpanBetween(pending, el.End()))
		opens := strings.Count(text, "<")
		closes := strings.Count(text, ">") - strings.Count(text, "=>")
		if opens > closes {
			continue
		}
		out = append(out, fix.SpanBetween(pending, el.End()))
		pending = -1
	}
	if pending >= 0 {
		out = append(out, fix.SpanBetween(pending, end))
	}
	return out
}

func importDeclaration(f *source.File, name, stmt, kw fix.Span) (declaration, bool) {
	imp := parseImport(f, kw)
	d := declaration{kind: declImport, name: name, stmt: stmt, imp: imp, list: imp.named}
	d.index = elementIndex(imp.named, name.Start)
	if d.index < 0 && imp.def != name {
		return declaration{}, false
	}
	return d, true
}

func parenthesized(f *source.File, name fix.Span, open int) (declaration, bool) {
	closeParen := f.MatchingClose(open)
	if closeParen < 0 {
		return declaration{}, false
	}

	switch f.Slice(f.PrevWord(open)) {
	case "for":
		header := fix.SpanBetween(open+1, closeParen)
		kw, ok := keywordAfterModifiers(f, fix.SpanBetween(f.SkipSpace(header.Start), header.End()))
		if !ok {
			return declaration{}, false
		}
		rest := fix.SpanBetween(name.End(), header.End())
		if findWord(f, rest, "of") >= 0 {
			return declaration{kind: declForOf, name: name}, true
		}
		if findWord(f, rest, "in") >= 0 {
			return declaration{kind: declForIn, name: name}, true
		}
		semi := f.IndexOf(";", kw.End())
		if semi < 0 || semi > header.End() {
			return declaration{}, false
		}
		decl := declaration{kind: declForInit, name: name, stmt: fix.SpanBetween(kw.Start, semi)}
		return inList(decl, f.SplitList(kw.End(), semi))
	case "if", "while", "switch", "catch", "return":
		return declaration{}, false
	}
	if !opensBody(f, closeParen) {
		return declaration{}, false
	}

	return inList(declaration{kind: declParameter, name: name}, f.SplitList(open+1, closeParen))
}

// opensBody reports whether the parenthesized list closed at closeParen is
// followed by a function body, an arrow or a return type, so that it
// declares parameters rather than passing arguments.
func opensBody(f *source.File, closeParen int) bool {
	next := f.SkipSpace(closeParen + 1)
	if next >= f.Len() {
		return false
	}
	switch f.Text[next] {
	case '{', ':':
		return true
	case '=':
		return next+1 < f.Len() && f.Text[next+1] == '>'
	}
	return false
}

func inList(d declaration, list []fix.Span) (declaration, bool) {
	d.list = list
	d.index = elementIndex(list, d.name.Start)
	return d, d.index >= 0
}

// deleteDeclaration records the deletion of d. unused holds the indices of
// d.list to remove, sorted, with defaultBinding standing for the default
// import binding. A single-site fix passes just d.index.
func deleteDeclaration(t *textchanges.Tracker, f *source.File, d declaration, unused []int) bool {
	all := len(unused) == len(d.list)

	switch d.kind {
	case declParameter:
		if all {
			t.DeleteRange(f, fix.SpanBetween(d.list[0].Start, d.list[len(d.list)-1].End()))
		} else {
			deleteElements(t, f, d.list, unused)
		}
	case declVariable:
		if all {
			t.Delete(f, d.stmt)
		} else {
			deleteElements(t, f, d.list, unused)
		}
	case declForInit:
		if all {
			t.DeleteRange(f, d.stmt)
		} else {
			deleteElements(t, f, d.list, unused)
		}
	case declImport:
		deleteImport(t, f, d, unused)
	case declForOf:
		t.Replace(f, d.name, "{}")
	case declTypeParameter:
		if all {
			t.DeleteRange(f, d.stmt)
		} else {
			deleteElements(t, f, d.list, unused)
		}
	case declMember:
		t.Delete(f, d.stmt)
	case declForIn:
		return false
	}
	return true
}

func deleteImport(t *textchanges.Tracker, f *source.File, d declaration, unused []int) {
	imp := d.imp
	defGone := len(unused) > 0 && unused[0] == defaultBinding
	if defGone {
		unused = unused[1:]
	}
	hasDef := !imp.def.Empty()
	namedGone := len(unused) == len(imp.named)

	switch {
	case (!hasDef || defGone) && namedGone:
		t.Delete(f, d.stmt)
	case namedGone:
		// import d, { a } from "m": keep "import d from".
		comma := f.SkipSpaceBack(imp.open) - 1
		t.DeleteRange(f, fix.SpanBetween(comma, imp.close+1))
	default:
		if len(unused) > 0 {
			deleteElements(t, f, imp.named, unused)
		}
		if defGone {
			t.DeleteRange(f, fix.SpanBetween(imp.def.Start, imp.open))
		}
	}
}

// deleteElements removes the elements of list at the sorted indices,
// which must leave at least one element. Each run of adjacent elements is
// removed with the separator after it, or the one before it when the run
// ends the list, so runs never touch.
func deleteElements(t *textchanges.Tracker, f *source.File, list []fix.Span, indices []int) {
	if len(indices) == 1 {
		t.DeleteInList(f, list, indices[0])
		return
	}
	for i := 0; i < len(indices); {
		j := i
		for j+1 < len(indices) && indices[j+1] == indices[j]+1 {
			j++
		}
		first, last := indices[i], indices[j]
		if last < len(list)-1 {
			t.DeleteRange(f, fix.SpanBetween(list[first].Start, list[last+1].Start))
		} else {
			t.DeleteRange(f, fix.SpanBetween(list[first-1].End(), list[last].End()))
		}
		i = j + 1
	}
}

func prefixDeclaration(t *textchanges.Tracker, f *source.File, d declaration) bool {
	if !d.prefixable() || strings.HasPrefix(f.Slice(d.name), "_") {
		return false
	}
	t.InsertAt(f, d.name.Start, "_")
	return true
}

// Fixes implements codefix.Strategy.
func (s *UnusedIdentifier) Fixes(fc *codefix.FixContext) []*codefix.Fix {
	f := fc.File
	d, ok := findDeclaration(f, fc.Span.Start)
	if !ok {
		return nil
	}
	name := f.Slice(d.name)

	var out []*codefix.Fix
	deleted := false
	deletion := textchanges.With(fc.LineBreak(), func(t *textchanges.Tracker) {
		deleted = deleteDeclaration(t, f, d, []int{d.index})
	})
	if deleted {
		out = append(out, &codefix.Fix{
			Description:      fmt.Sprintf("Remove declaration for: '%s'", name),
			Changes:          deletion,
			GroupID:          GroupUnusedDelete,
			GroupDescription: "Delete all unused declarations",
		})
	}

	prefixed := false
	prefix := textchanges.With(fc.LineBreak(), func(t *textchanges.Tracker) {
		prefixed = prefixDeclaration(t, f, d)
	})
	if prefixed {
		out = append(out, &codefix.Fix{
			Description:      fmt.Sprintf("Prefix '%s' with an underscore", name),
			Changes:          prefix,
			GroupID:          GroupUnusedPrefix,
			GroupDescription: "Prefix all unused declarations with '_' where possible",
		})
	}
	return out
}

// StructuralKey implements codefix.Keyed. Deleting from a list is done
// once per list, for every unused element at the same time.
func (s *UnusedIdentifier) StructuralKey(occ *codefix.Occurrence) (string, bool) {
	if occ.GroupID != GroupUnusedDelete {
		return "", false
	}
	d, ok := findDeclaration(occ.File(), occ.Diagnostic.Start)
	if !ok || !d.listed() {
		return "", false
	}
	if d.kind == declImport {
		return fmt.Sprintf("import@%d", d.stmt.Start), true
	}
	return fmt.Sprintf("list@%d", d.list[0].Start), true
}

// unusedIn returns the sorted indices of the elements of d reported as
// unused anywhere in the file.
func (s *UnusedIdentifier) unusedIn(occ *codefix.Occurrence, d declaration) []int {
	f := occ.File()
	var out []int
	for dg := range diag.Filter(occ.FixContext().Program.Diagnostics(f.Path), f.Path, s.Codes()...) {
		i := elementIndex(d.list, dg.Start)
		switch {
		case i >= 0 && bindsAt(f, d.list[i], dg.Start):
		case d.kind == declImport && d.imp.def.Contains(dg.Start):
			i = defaultBinding
		default:
			continue
		}
		if !slices.Contains(out, i) {
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return out
}

// bindsAt reports whether the identifier at pos is the name bound by the
// list element el, as in "x = 1", "x: T" or "a as x", rather than one
// inside its initializer.
func bindsAt(f *source.File, el fix.Span, pos int) bool {
	w := f.WordAt(pos)
	return w.Start == el.Start || w.End() == el.End()
}

// FixOccurrence implements codefix.BatchStrategy.
func (s *UnusedIdentifier) FixOccurrence(occ *codefix.Occurrence) bool {
	f := occ.File()
	d, ok := findDeclaration(f, occ.Diagnostic.Start)
	if !ok {
		return false
	}
	switch occ.GroupID {
	case GroupUnusedPrefix:
		return prefixDeclaration(occ.Tracker, f, d)
	case GroupUnusedDelete:
		unused := []int{d.index}
		if d.listed() {
			unused = s.unusedIn(occ, d)
			if !slices.Contains(unused, d.index) {
				unused = append(unused, d.index)
				slices.Sort(unused)
			}
		}
		return deleteDeclaration(occ.Tracker, f, d, unused)
	default:
		return false
	}
}
