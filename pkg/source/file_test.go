package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/source"
)

func TestLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []source.Line
	}{
		{
			name:     "empty content",
			content:  "",
			expected: []source.Line{{Start: 0, NewlineStart: 0, End: 0}},
		},
		{
			name:     "single line no newline",
			content:  "hello",
			expected: []source.Line{{Start: 0, NewlineStart: 5, End: 5}},
		},
		{
			name:    "single line with LF",
			content: "hello\n",
			expected: []source.Line{
				{Start: 0, NewlineStart: 5, End: 6},
				{Start: 6, NewlineStart: 6, End: 6},
			},
		},
		{
			name:    "multiple lines CRLF",
			content: "line1\r\nline2\r\n",
			expected: []source.Line{
				{Start: 0, NewlineStart: 5, End: 7},
				{Start: 7, NewlineStart: 12, End: 14},
				{Start: 14, NewlineStart: 14, End: 14},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := source.NewFile("a.ts", tt.content)
			require.Equal(t, len(tt.expected), f.LineCount())
			for i, want := range tt.expected {
				got, ok := f.Line(i + 1)
				require.True(t, ok)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestLineAtAndOffset(t *testing.T) {
	t.Parallel()

	f := source.NewFile("a.ts", "ab\ncde\n\nf")

	tests := []struct {
		offset, line, col int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{6, 2, 4},
		{7, 3, 1},
		{8, 4, 1},
		{9, 4, 2},
	}
	for _, tt := range tests {
		line, col := f.LineAt(tt.offset)
		assert.Equal(t, tt.line, line, "line of %d", tt.offset)
		assert.Equal(t, tt.col, col, "col of %d", tt.offset)

		off, ok := f.Offset(tt.line, tt.col)
		require.True(t, ok)
		assert.Equal(t, tt.offset, off)
	}

	line, col := f.LineAt(-1)
	assert.Zero(t, line)
	assert.Zero(t, col)

	_, ok := f.Offset(2, 5)
	assert.False(t, ok)
	_, ok = f.Offset(9, 1)
	assert.False(t, ok)
}

func TestLineContentAndNewLine(t *testing.T) {
	t.Parallel()

	f := source.NewFile("a.ts", "  let x;\r\nfoo()\r\n")
	assert.Equal(t, "  let x;", f.LineContent(1))
	assert.Equal(t, "foo()", f.LineContent(2))
	assert.Empty(t, f.LineContent(7))
	assert.Equal(t, "\r\n", f.NewLine())
	assert.Equal(t, "  ", f.Indentation(4))

	assert.Equal(t, "\n", source.NewFile("b.ts", "x").NewLine())
}

func TestSlice(t *testing.T) {
	t.Parallel()

	f := source.NewFile("a.ts", "abcdef")
	assert.Equal(t, "cd", f.Slice(fix.SpanBetween(2, 4)))
	assert.Equal(t, "ef", f.Slice(fix.SpanBetween(4, 40)))
	assert.Empty(t, f.Slice(fix.Span{Start: 10, Length: 2}))
}
