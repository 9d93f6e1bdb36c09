package source

import (
	"strings"

	"github.com/yaklabco/codefix/pkg/fix"
)

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func isSpace(c byte) bool {
	return isBlank(c) || c == '\n' || c == '\r'
}

// IsIdentByte reports whether c can appear in an identifier.
func IsIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c >= 0x80
}

// WordAt returns the identifier containing or starting at pos. The span is
// empty when pos is not on an identifier.
func (f *File) WordAt(pos int) fix.Span {
	if pos < 0 || pos > len(f.Text) {
		return fix.Span{Start: pos}
	}
	start, end := pos, pos
	for start > 0 && IsIdentByte(f.Text[start-1]) {
		start--
	}
	for end < len(f.Text) && IsIdentByte(f.Text[end]) {
		end++
	}
	return fix.SpanBetween(start, end)
}

// SkipBlanks returns the first offset at or after pos that is not a space
// or tab. Line breaks stop the scan.
func (f *File) SkipBlanks(pos int) int {
	for pos < len(f.Text) && isBlank(f.Text[pos]) {
		pos++
	}
	return pos
}

// SkipBlanksBack returns the smallest offset p <= pos such that
// f.Text[p:pos] is only spaces and tabs.
func (f *File) SkipBlanksBack(pos int) int {
	for pos > 0 && isBlank(f.Text[pos-1]) {
		pos--
	}
	return pos
}

// SkipSpace is SkipBlanks that also crosses line breaks.
func (f *File) SkipSpace(pos int) int {
	for pos < len(f.Text) && isSpace(f.Text[pos]) {
		pos++
	}
	return pos
}

// SkipSpaceBack is SkipBlanksBack that also crosses line breaks.
func (f *File) SkipSpaceBack(pos int) int {
	for pos > 0 && isSpace(f.Text[pos-1]) {
		pos--
	}
	return pos
}

// AloneOnLine reports whether span is the only non-blank text on its line
// (or lines, when it spans several).
func (f *File) AloneOnLine(span fix.Span) bool {
	first := f.LineOf(span.Start)
	last := f.LineOf(span.End())
	return f.SkipBlanksBack(span.Start) == first.Start && f.SkipBlanks(span.End()) == last.NewlineStart
}

// FullLines widens span to the whole lines it touches, terminators
// included.
func (f *File) FullLines(span fix.Span) fix.Span {
	return fix.SpanBetween(f.LineOf(span.Start).Start, f.LineOf(span.End()).End)
}

var closers = map[byte]byte{'(': ')', '[': ']', '{': '}'} //nolint:gochecknoglobals

// skipString returns the offset after the string literal that starts at
// pos with the quote f.Text[pos].
func (f *File) skipString(pos int) int {
	quote := f.Text[pos]
	for i := pos + 1; i < len(f.Text); i++ {
		switch f.Text[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(f.Text)
}

func isQuote(c byte) bool {
	return c == '"' || c == '\'' || c == '`'
}

// MatchingClose returns the offset of the bracket closing the one at open,
// or -1. Brackets inside string literals are ignored.
func (f *File) MatchingClose(open int) int {
	if open < 0 || open >= len(f.Text) {
		return -1
	}
	want, ok := closers[f.Text[open]]
	if !ok {
		return -1
	}
	var stack []byte
	stack = append(stack, want)
	for i := open + 1; i < len(f.Text); i++ {
		c := f.Text[i]
		switch {
		case isQuote(c):
			i = f.skipString(i) - 1
		case c == stack[len(stack)-1]:
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		case c == '(' || c == '[' || c == '{':
			stack = append(stack, closers[c])
		}
	}
	return -1
}

// EnclosingOpen scans backwards from pos for an unmatched opening bracket
// of the given kind and returns its offset, or -1. Brackets of all kinds
// are balanced on the way.
func (f *File) EnclosingOpen(pos int, open byte) int {
	depth := 0
	for i := min(pos, len(f.Text)) - 1; i >= 0; i-- {
		switch c := f.Text[i]; c {
		case ')', ']', '}':
			depth++
		case '(', '[', '{':
			if depth == 0 {
				if c == open {
					return i
				}
				return -1
			}
			depth--
		}
	}
	return -1
}

// SplitList splits [start, end) at commas that are not nested in brackets
// or string literals, returning each element trimmed of surrounding
// whitespace. A trailing comma does not produce an empty element.
func (f *File) SplitList(start, end int) []fix.Span {
	var elems []fix.Span
	depth := 0
	elemStart := start

	flush := func(elemEnd int) {
		s := f.SkipSpace(elemStart)
		e := f.SkipSpaceBack(elemEnd)
		if e > s {
			elems = append(elems, fix.SpanBetween(s, e))
		}
	}

	for i := start; i < end; i++ {
		switch c := f.Text[i]; {
		case isQuote(c):
			i = min(f.skipString(i), end) - 1
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == ',' && depth == 0:
			flush(i)
			elemStart = i + 1
		}
	}
	flush(end)
	return elems
}

// IndexOf returns the first offset >= from where text occurs, or -1.
func (f *File) IndexOf(text string, from int) int {
	if from < 0 || from > len(f.Text) {
		return -1
	}
	i := strings.Index(f.Text[from:], text)
	if i < 0 {
		return -1
	}
	return from + i
}

// HasWordAt reports whether word occurs at pos as a whole identifier.
func (f *File) HasWordAt(pos int, word string) bool {
	end := pos + len(word)
	if pos < 0 || end > len(f.Text) || f.Text[pos:end] != word {
		return false
	}
	if pos > 0 && IsIdentByte(f.Text[pos-1]) {
		return false
	}
	return end == len(f.Text) || !IsIdentByte(f.Text[end])
}

// PrevWord returns the identifier that ends at the last non-space offset
// before pos.
func (f *File) PrevWord(pos int) fix.Span {
	end := f.SkipSpaceBack(pos)
	start := end
	for start > 0 && IsIdentByte(f.Text[start-1]) {
		start--
	}
	return fix.SpanBetween(start, end)
}
