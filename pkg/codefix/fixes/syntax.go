package fixes

import (
	"slices"

	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/source"
)

// Strategies work on text, not syntax trees. These helpers recover just
// enough structure (statement bounds, bracketed lists, keywords) from the
// diagnostic position.

func isQuote(c byte) bool {
	return c == '"' || c == '\'' || c == '`'
}

// statementAt returns the simple statement containing pos. It starts after
// the previous ';', '{' or '}' outside brackets and ends after the next ';'
// outside brackets, or at the end of the line when there is none.
func statementAt(f *source.File, pos int) fix.Span {
	text := f.Text

	start := 0
	depth := 0
back:
	for i := pos - 1; i >= 0; i-- {
		switch text[i] {
		case ')', ']':
			depth++
		case '(', '[':
			if depth == 0 {
				start = i + 1
				break back
			}
			depth--
		case ';', '{', '}':
			if depth == 0 {
				start = i + 1
				break back
			}
		}
	}
	start = f.SkipSpace(start)

	end := len(text)
	depth = 0
forward:
	for i := pos; i < len(text); i++ {
		c := text[i]
		switch {
		case isQuote(c):
			i = skipQuoted(text, i)
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			if depth == 0 {
				end = f.SkipSpaceBack(i)
				break forward
			}
			depth--
		case c == ';' && depth == 0:
			end = i + 1
			break forward
		case c == '\n' && depth == 0:
			end = f.SkipSpaceBack(i)
			break forward
		}
	}
	return fix.SpanBetween(start, max(end, start))
}

// skipQuoted returns the offset of the closing quote of the literal opened
// at i, or the last offset of text.
func skipQuoted(text string, i int) int {
	quote := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(text) - 1
}

// leadingWords returns the identifiers at the start of span, in order, up
// to the first non-identifier token.
func leadingWords(f *source.File, span fix.Span, limit int) []fix.Span {
	var words []fix.Span
	pos := span.Start
	for len(words) < limit && pos < span.End() {
		w := f.WordAt(pos)
		if w.Empty() || w.Start != pos {
			break
		}
		words = append(words, w)
		pos = f.SkipSpace(w.End())
	}
	return words
}

// keywordAfterModifiers returns the first word of stmt that is not one of
// modifiers.
func keywordAfterModifiers(f *source.File, stmt fix.Span, modifiers ...string) (fix.Span, bool) {
	for _, w := range leadingWords(f, stmt, len(modifiers)+1) {
		if !slices.Contains(modifiers, f.Slice(w)) {
			return w, true
		}
	}
	return fix.Span{}, false
}

// elementIndex returns the index of the list element containing pos.
func elementIndex(list []fix.Span, pos int) int {
	for i, el := range list {
		if el.Contains(pos) {
			return i
		}
	}
	return -1
}

// findWord returns the first whole-word occurrence of word in span.
func findWord(f *source.File, span fix.Span, word string) int {
	for pos := span.Start; pos < span.End(); {
		i := f.IndexOf(word, pos)
		if i < 0 || i >= span.End() {
			return -1
		}
		if f.HasWordAt(i, word) {
			return i
		}
		pos = i + 1
	}
	return -1
}

// lastWordBefore returns the last whole-word occurrence of word that
// starts before pos, or -1.
func lastWordBefore(f *source.File, pos int, word string) int {
	found := -1
	for i := f.IndexOf(word, 0); i >= 0 && i < pos; i = f.IndexOf(word, i+1) {
		if f.HasWordAt(i, word) {
			found = i
		}
	}
	return found
}
