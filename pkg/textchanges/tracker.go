// Package textchanges records structural edit intents ("insert after this
// node", "delete this list element") and renders them into text edits.
//
// A Tracker belongs to a single request. Strategies add intents to it, then
// the owner calls Changes once to obtain normalized per-file edits.
package textchanges

import (
	"fmt"

	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/source"
)

// InsertOptions wrap inserted text.
type InsertOptions struct {
	Prefix string
	Suffix string
}

func (o InsertOptions) wrap(text string) string {
	return o.Prefix + text + o.Suffix
}

// Tracker accumulates edit intents across one or more files.
type Tracker struct {
	newLine string
	order   []string
	files   map[string]*fix.EditBuilder
	done    bool
}

// New creates a Tracker that uses newLine for inserted line breaks.
// An empty newLine defaults to "\n".
func New(newLine string) *Tracker {
	if newLine == "" {
		newLine = "\n"
	}
	return &Tracker{newLine: newLine, files: make(map[string]*fix.EditBuilder)}
}

// With runs fn against a fresh Tracker and returns its changes.
func With(newLine string, fn func(t *Tracker)) []fix.FileEdit {
	t := New(newLine)
	fn(t)
	return t.Changes()
}

// NewLine returns the line terminator used for inserted lines.
func (t *Tracker) NewLine() string {
	return t.newLine
}

func (t *Tracker) builder(f *source.File) *fix.EditBuilder {
	if t.done {
		panic("textchanges: tracker used after Changes")
	}
	b, ok := t.files[f.Path]
	if !ok {
		b = fix.NewEditBuilder(f.Path)
		t.files[f.Path] = b
		t.order = append(t.order, f.Path)
	}
	return b
}

// InsertAt inserts text at pos.
func (t *Tracker) InsertAt(f *source.File, pos int, text string) {
	t.builder(f).Insert(pos, text)
}

// InsertBefore inserts text immediately before anchor.
func (t *Tracker) InsertBefore(f *source.File, anchor fix.Span, text string, opts InsertOptions) {
	t.builder(f).Insert(anchor.Start, opts.wrap(text))
}

// InsertAfter inserts text immediately after anchor.
func (t *Tracker) InsertAfter(f *source.File, anchor fix.Span, text string, opts InsertOptions) {
	t.builder(f).Insert(anchor.End(), opts.wrap(text))
}

// InsertLineBefore inserts text as a new line above the line containing
// pos, indented like that line.
func (t *Tracker) InsertLineBefore(f *source.File, pos int, text string) {
	line := f.LineOf(pos)
	t.builder(f).Insert(line.Start, f.Indentation(pos)+text+t.newLine)
}

// Replace replaces the text of node.
func (t *Tracker) Replace(f *source.File, node fix.Span, text string) {
	t.builder(f).Add(fix.Replace(node, text))
}

// DeleteRange removes exactly the bytes of span.
func (t *Tracker) DeleteRange(f *source.File, span fix.Span) {
	t.builder(f).Add(fix.Delete(span))
}

// Delete removes node. A node that is alone on its line takes the whole
// line with it; otherwise trailing blanks are removed too.
func (t *Tracker) Delete(f *source.File, node fix.Span) {
	if f.AloneOnLine(node) {
		t.DeleteRange(f, f.FullLines(node))
		return
	}
	t.DeleteRange(f, fix.SpanBetween(node.Start, f.SkipBlanks(node.End())))
}

// DeleteInList removes list[index] together with one adjacent separator:
// the one after it, or the one before it for the last element. Deleting
// the only element removes just that element.
func (t *Tracker) DeleteInList(f *source.File, list []fix.Span, index int) {
	if index < 0 || index >= len(list) {
		panic(fmt.Sprintf("textchanges: list index %d out of range [0,%d)", index, len(list)))
	}

	elem := list[index]
	switch {
	case len(list) == 1:
		t.DeleteRange(f, elem)
	case index < len(list)-1:
		t.DeleteRange(f, fix.SpanBetween(elem.Start, list[index+1].Start))
	default:
		t.DeleteRange(f, fix.SpanBetween(list[index-1].End(), elem.End()))
	}
}

// HasChanges reports whether any intent has been recorded.
func (t *Tracker) HasChanges() bool {
	for _, b := range t.files {
		if b.Len() > 0 {
			return true
		}
	}
	return false
}

// Changes renders all intents into per-file edits, files in the order they
// were first touched, each normalized for descending application.
// Overlapping intents are a programming error and panic with a
// *fix.ConflictError. The tracker cannot be used afterwards.
func (t *Tracker) Changes() []fix.FileEdit {
	t.done = true

	out := make([]fix.FileEdit, 0, len(t.order))
	for _, path := range t.order {
		fe, err := t.files[path].FileEdit()
		if err != nil {
			panic(err)
		}
		if len(fe.Edits) > 0 {
			out = append(out, fe)
		}
	}
	return out
}
