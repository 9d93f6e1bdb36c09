// Package source holds the read-only text of a source file together with a
// line index and the small lexical helpers that fix strategies need to find
// statement and list boundaries without a parser.
package source

import (
	"sort"
	"strings"

	"github.com/yaklabco/codefix/pkg/fix"
)

// Line describes one line of a file. NewlineStart is the offset of the line
// terminator ("\n" or "\r\n"); End is the offset just past it.
type Line struct {
	Start        int
	NewlineStart int
	End          int
}

// File is an immutable snapshot of a source file.
type File struct {
	Path string
	Text string

	lines []Line
}

// NewFile creates a snapshot and indexes its lines.
func NewFile(path, text string) *File {
	return &File{Path: path, Text: text, lines: buildLines(text)}
}

// buildLines handles both LF and CRLF line endings. A file always has at
// least one line, possibly empty.
func buildLines(text string) []Line {
	lines := make([]Line, 0, strings.Count(text, "\n")+1)
	lineStart := 0

	for idx := 0; idx < len(text); idx++ {
		if text[idx] != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && text[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, Line{Start: lineStart, NewlineStart: newlineStart, End: idx + 1})
		lineStart = idx + 1
	}

	return append(lines, Line{Start: lineStart, NewlineStart: len(text), End: len(text)})
}

// Len returns the size of the file in bytes.
func (f *File) Len() int {
	return len(f.Text)
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.lines)
}

// NewLine returns the line terminator used by the first terminated line,
// defaulting to "\n".
func (f *File) NewLine() string {
	for _, l := range f.lines {
		if l.End > l.NewlineStart {
			return f.Text[l.NewlineStart:l.End]
		}
	}
	return "\n"
}

// lineIndex returns the 0-based index of the line containing offset.
// Offsets past the end map to the last line.
func (f *File) lineIndex(offset int) int {
	idx := sort.Search(len(f.lines), func(i int) bool {
		return f.lines[i].End > offset
	})
	return min(idx, len(f.lines)-1)
}

// LineOf returns the line containing offset.
func (f *File) LineOf(offset int) Line {
	return f.lines[f.lineIndex(max(offset, 0))]
}

// Line returns the 1-based line. ok is false when out of range.
func (f *File) Line(line int) (Line, bool) {
	if line < 1 || line > len(f.lines) {
		return Line{}, false
	}
	return f.lines[line-1], true
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
// Returns (0, 0) if the offset is out of range.
func (f *File) LineAt(offset int) (int, int) {
	if offset < 0 || offset > len(f.Text) {
		return 0, 0
	}
	idx := f.lineIndex(offset)
	return idx + 1, offset - f.lines[idx].Start + 1
}

// Offset converts 1-based line and column numbers to a byte offset.
// A column may point just past the line content, at its terminator.
func (f *File) Offset(line, col int) (int, bool) {
	l, ok := f.Line(line)
	if !ok || col < 1 {
		return 0, false
	}
	offset := l.Start + col - 1
	if offset > l.NewlineStart {
		return 0, false
	}
	return offset, true
}

// LineContent returns a 1-based line without its terminator.
func (f *File) LineContent(line int) string {
	l, ok := f.Line(line)
	if !ok {
		return ""
	}
	return f.Text[l.Start:l.NewlineStart]
}

// Slice returns the text covered by span, clamped to the file.
func (f *File) Slice(span fix.Span) string {
	start := min(max(span.Start, 0), len(f.Text))
	end := min(max(span.End(), start), len(f.Text))
	return f.Text[start:end]
}

// Indentation returns the leading blanks of the line containing offset.
func (f *File) Indentation(offset int) string {
	l := f.LineOf(offset)
	end := l.Start
	for end < l.NewlineStart && isBlank(f.Text[end]) {
		end++
	}
	return f.Text[l.Start:end]
}
