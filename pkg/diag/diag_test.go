package diag_test

import (
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/fix"
)

func sample() []diag.Diagnostic {
	return []diag.Diagnostic{
		{Code: 6133, File: "b.ts", Start: 30, Length: 5},
		{Code: 2304, File: "a.ts", Start: 10, Length: 3},
		{Code: 6133, File: "a.ts", Start: 40, Length: 2},
		{Code: 6133, File: "a.ts", Start: 4, Length: 2},
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	got := slices.Collect(diag.Filter(diag.Seq(sample()), "a.ts", 6133))
	assert.Equal(t, []diag.Diagnostic{
		{Code: 6133, File: "a.ts", Start: 40, Length: 2},
		{Code: 6133, File: "a.ts", Start: 4, Length: 2},
	}, got)

	all := slices.Collect(diag.Filter(diag.Seq(sample()), "a.ts"))
	assert.Len(t, all, 3)
}

func TestFilterIsLazyAndRestartable(t *testing.T) {
	t.Parallel()

	pulled := 0
	var source iter.Seq[diag.Diagnostic] = func(yield func(diag.Diagnostic) bool) {
		for _, d := range sample() {
			pulled++
			if !yield(d) {
				return
			}
		}
	}

	seq := diag.Filter(source, "a.ts")
	assert.Zero(t, pulled)

	for range seq {
		break
	}
	assert.Equal(t, 2, pulled, "stops pulling once the consumer stops")

	assert.Len(t, slices.Collect(seq), 3)
	assert.Len(t, slices.Collect(seq), 3)
}

func TestSortAndAt(t *testing.T) {
	t.Parallel()

	diags := sample()
	diag.Sort(diags)
	assert.Equal(t, []int{4, 10, 40, 30}, []int{diags[0].Start, diags[1].Start, diags[2].Start, diags[3].Start})

	at := slices.Collect(diag.At(diag.Seq(diags), 12))
	assert.Len(t, at, 1)
	assert.Equal(t, diag.Code(2304), at[0].Code)
	assert.Equal(t, fix.Span{Start: 10, Length: 3}, at[0].Span())
	assert.Equal(t, "TS2304", at[0].Code.String())
}

func TestAtIncludesSpanEnd(t *testing.T) {
	t.Parallel()

	diags := []diag.Diagnostic{
		{Code: 6133, File: "a.ts", Start: 10, Length: 3},
		{Code: 2304, File: "a.ts", Start: 13, Length: 2},
		{Code: 1329, File: "a.ts", Start: 20},
	}

	tests := []struct {
		name string
		pos  int
		want []diag.Code
	}{
		{name: "before start", pos: 9},
		{name: "start", pos: 10, want: []diag.Code{6133}},
		{name: "end of one and start of the next", pos: 13, want: []diag.Code{6133, 2304}},
		{name: "end", pos: 15, want: []diag.Code{2304}},
		{name: "past end", pos: 16},
		{name: "empty span", pos: 20, want: []diag.Code{1329}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []diag.Code
			for d := range diag.At(diag.Seq(diags), tt.pos) {
				got = append(got, d.Code)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
