package textchanges_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/source"
	"github.com/yaklabco/codefix/pkg/textchanges"
)

func apply(t *testing.T, f *source.File, changes []fix.FileEdit) string {
	t.Helper()
	require.Len(t, changes, 1)
	require.Equal(t, f.Path, changes[0].Path)
	return fix.Apply(f.Text, changes[0].Edits)
}

func TestInsertions(t *testing.T) {
	t.Parallel()

	f := source.NewFile("a.ts", "  foo(x);\n")
	changes := textchanges.With("\n", func(tr *textchanges.Tracker) {
		tr.InsertLineBefore(f, 4, "// @ts-ignore")
		tr.InsertAfter(f, fix.SpanBetween(2, 5), "Bar", textchanges.InsertOptions{})
		tr.InsertBefore(f, fix.SpanBetween(6, 7), "y", textchanges.InsertOptions{Suffix: ", "})
	})

	assert.Equal(t, "  // @ts-ignore\n  fooBar(y, x);\n", apply(t, f, changes))
}

func TestInsertsAtSameOffsetKeepIntentOrder(t *testing.T) {
	t.Parallel()

	f := source.NewFile("a.ts", "x")
	changes := textchanges.With("", func(tr *textchanges.Tracker) {
		tr.InsertAt(f, 0, "a")
		tr.InsertAt(f, 0, "b")
	})

	assert.Equal(t, "abx", apply(t, f, changes))
}

func TestDelete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		node fix.Span
		want string
	}{
		{
			name: "alone on line removes the line",
			text: "a();\n  let x = 1;\nb();\n",
			node: fix.SpanBetween(7, 17),
			want: "a();\nb();\n",
		},
		{
			name: "shared line removes trailing blanks",
			text: "let x = 1;  b();\n",
			node: fix.SpanBetween(0, 10),
			want: "b();\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := source.NewFile("a.ts", tt.text)
			changes := textchanges.With("\n", func(tr *textchanges.Tracker) {
				tr.Delete(f, tt.node)
			})
			assert.Equal(t, tt.want, apply(t, f, changes))
		})
	}
}

func TestDeleteInList(t *testing.T) {
	t.Parallel()

	text := "f(a, bb, c);"
	tests := []struct {
		index int
		want  string
	}{
		{0, "f(bb, c);"},
		{1, "f(a, c);"},
		{2, "f(a, bb);"},
	}

	for _, tt := range tests {
		f := source.NewFile("a.ts", text)
		list := f.SplitList(2, 10)
		require.Len(t, list, 3)

		changes := textchanges.With("\n", func(tr *textchanges.Tracker) {
			tr.DeleteInList(f, list, tt.index)
		})
		assert.Equal(t, tt.want, apply(t, f, changes))
	}

	single := source.NewFile("a.ts", "f(a);")
	changes := textchanges.With("\n", func(tr *textchanges.Tracker) {
		tr.DeleteInList(single, single.SplitList(2, 3), 0)
	})
	assert.Equal(t, "f();", apply(t, single, changes))
}

func TestReplaceAcrossFiles(t *testing.T) {
	t.Parallel()

	a := source.NewFile("a.ts", "class A extends I {}")
	b := source.NewFile("b.ts", "x")

	tr := textchanges.New("\n")
	assert.False(t, tr.HasChanges())
	tr.Replace(b, fix.SpanBetween(0, 1), "y")
	tr.Replace(a, fix.SpanBetween(8, 15), "implements")
	assert.True(t, tr.HasChanges())

	changes := tr.Changes()
	require.Len(t, changes, 2)
	assert.Equal(t, "b.ts", changes[0].Path)
	assert.Equal(t, "class A implements I {}", fix.Apply(a.Text, changes[1].Edits))
}

func TestOverlapPanics(t *testing.T) {
	t.Parallel()

	f := source.NewFile("a.ts", "abcdef")
	tr := textchanges.New("\n")
	tr.DeleteRange(f, fix.SpanBetween(0, 4))
	tr.Replace(f, fix.SpanBetween(2, 5), "x")

	assert.Panics(t, func() { tr.Changes() })
}

func TestUseAfterChangesPanics(t *testing.T) {
	t.Parallel()

	f := source.NewFile("a.ts", "abc")
	tr := textchanges.New("\n")
	tr.InsertAt(f, 0, "x")
	_ = tr.Changes()

	assert.Panics(t, func() { tr.InsertAt(f, 1, "y") })
}

func TestDeleteInListIndexOutOfRange(t *testing.T) {
	t.Parallel()

	f := source.NewFile("a.ts", "a, b")
	tr := textchanges.New("\n")
	assert.Panics(t, func() { tr.DeleteInList(f, f.SplitList(0, 4), 2) })
}
