// Package fix provides the text edit model shared by every code fix:
// half-open spans, edits against a single file, and the normalization
// and application rules that keep a set of edits position stable.
package fix

import "fmt"

// Span is a half-open byte range [Start, Start+Length) in a source file.
type Span struct {
	Start  int
	Length int
}

// SpanBetween returns the span covering [start, end).
func SpanBetween(start, end int) Span {
	return Span{Start: start, Length: end - start}
}

// End returns the exclusive end offset.
func (s Span) End() int {
	return s.Start + s.Length
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.Length == 0
}

// Contains reports whether pos lies inside the span. An empty span
// contains its own start position.
func (s Span) Contains(pos int) bool {
	if s.Length == 0 {
		return pos == s.Start
	}
	return pos >= s.Start && pos < s.End()
}

// Overlaps reports whether two spans share at least one position.
// Spans that only touch at a boundary do not overlap, and neither do two
// empty spans at the same offset.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End() && other.Start < s.End()
}

func (s Span) String() string {
	return fmt.Sprintf("[%d:%d]", s.Start, s.End())
}

// TextEdit replaces the bytes covered by Span with NewText.
type TextEdit struct {
	Span    Span
	NewText string
}

// Insert returns an edit that inserts text at pos.
func Insert(pos int, text string) TextEdit {
	return TextEdit{Span: Span{Start: pos}, NewText: text}
}

// Delete returns an edit that removes the span.
func Delete(span Span) TextEdit {
	return TextEdit{Span: span}
}

// Replace returns an edit that replaces the span with text.
func Replace(span Span, text string) TextEdit {
	return TextEdit{Span: span, NewText: text}
}

// IsInsert reports whether the edit only adds text.
func (e TextEdit) IsInsert() bool {
	return e.Span.Length == 0
}

// IsDeletion reports whether the edit only removes text.
func (e TextEdit) IsDeletion() bool {
	return e.NewText == ""
}

// FileEdit is the set of edits that apply to one file.
type FileEdit struct {
	Path  string
	Edits []TextEdit
}

// EditBuilder accumulates text edits for a single file in the order they
// were requested. Edits returns them normalized.
type EditBuilder struct {
	path  string
	edits []TextEdit
}

// NewEditBuilder creates a builder for the file at path.
func NewEditBuilder(path string) *EditBuilder {
	return &EditBuilder{path: path}
}

// Path returns the file the builder collects edits for.
func (b *EditBuilder) Path() string {
	return b.path
}

// Add appends an already constructed edit.
func (b *EditBuilder) Add(edit TextEdit) {
	b.edits = append(b.edits, edit)
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	b.Add(Replace(SpanBetween(start, end), newText))
}

// Insert adds an edit that inserts text at the given offset.
func (b *EditBuilder) Insert(offset int, text string) {
	b.Add(Insert(offset, text))
}

// Delete adds an edit that deletes bytes [start, end).
func (b *EditBuilder) Delete(start, end int) {
	b.ReplaceRange(start, end, "")
}

// Len returns the number of edits requested so far.
func (b *EditBuilder) Len() int {
	return len(b.edits)
}

// FileEdit returns the normalized edits as a FileEdit.
func (b *EditBuilder) FileEdit() (FileEdit, error) {
	edits, err := Normalize(b.edits)
	if err != nil {
		return FileEdit{}, fmt.Errorf("%s: %w", b.path, err)
	}
	return FileEdit{Path: b.path, Edits: edits}, nil
}
