package fix_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codefix/pkg/fix"
)

func TestValidateEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		edits      []fix.TextEdit
		contentLen int
		errMsg     string
	}{
		{name: "empty edits", contentLen: 10},
		{
			name:       "valid edits",
			edits:      []fix.TextEdit{fix.Replace(fix.SpanBetween(0, 5), "hello"), fix.Replace(fix.SpanBetween(5, 10), "world")},
			contentLen: 10,
		},
		{
			name:       "negative start offset",
			edits:      []fix.TextEdit{fix.Replace(fix.Span{Start: -1, Length: 3}, "x")},
			contentLen: 10,
			errMsg:     "start offset is negative",
		},
		{
			name:       "negative length",
			edits:      []fix.TextEdit{fix.Replace(fix.Span{Start: 5, Length: -2}, "x")},
			contentLen: 10,
			errMsg:     "length is negative",
		},
		{
			name:       "end exceeds content length",
			edits:      []fix.TextEdit{fix.Replace(fix.SpanBetween(5, 15), "x")},
			contentLen: 10,
			errMsg:     "exceeds content length",
		},
		{
			name:       "insertion at end of content",
			edits:      []fix.TextEdit{fix.Insert(10, "tail")},
			contentLen: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fix.ValidateEdits(tt.edits, tt.contentLen)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)

			var verr *fix.ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestSortEditsDescending(t *testing.T) {
	t.Parallel()

	edits := []fix.TextEdit{
		fix.Insert(10, "a"),
		fix.Delete(fix.SpanBetween(50, 55)),
		fix.Replace(fix.SpanBetween(30, 32), "b"),
		fix.Insert(90, "c"),
	}
	fix.SortEdits(edits)

	starts := make([]int, 0, len(edits))
	for _, e := range edits {
		starts = append(starts, e.Span.Start)
	}
	assert.Equal(t, []int{90, 50, 30, 10}, starts)
	assert.True(t, fix.IsSorted(edits))
}

func TestNormalizeJoinsInsertsAtSameOffset(t *testing.T) {
	t.Parallel()

	edits, err := fix.Normalize([]fix.TextEdit{
		fix.Insert(3, "first"),
		fix.Delete(fix.SpanBetween(4, 5)),
		fix.Insert(3, "second"),
	})
	require.NoError(t, err)

	assert.Equal(t, []fix.TextEdit{fix.Delete(fix.SpanBetween(4, 5)), fix.Insert(3, "firstsecond")}, edits)
	assert.Equal(t, "abcfirstseconddf", fix.Apply("abcdef", edits))
}

func TestSortEditsRangeBeforeInsertAtSameStart(t *testing.T) {
	t.Parallel()

	edits := []fix.TextEdit{fix.Insert(2, "X"), fix.Delete(fix.SpanBetween(2, 4))}
	fix.SortEdits(edits)

	assert.Equal(t, 4, edits[0].Span.End())
	assert.Equal(t, "abXef", fix.Apply("abcdef", edits))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("collapses exact duplicates", func(t *testing.T) {
		t.Parallel()

		edits := []fix.TextEdit{fix.Insert(4, "_"), fix.Insert(4, "_"), fix.Delete(fix.SpanBetween(0, 2))}
		got, err := fix.Normalize(edits)
		require.NoError(t, err)
		assert.Equal(t, []fix.TextEdit{fix.Insert(4, "_"), fix.Delete(fix.SpanBetween(0, 2))}, got)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		edits := []fix.TextEdit{
			fix.Insert(1, "a"), fix.Replace(fix.SpanBetween(5, 9), "b"),
			fix.Insert(1, "a"), fix.Insert(1, "c"),
		}
		once, err := fix.Normalize(edits)
		require.NoError(t, err)
		twice, err := fix.Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("does not modify input", func(t *testing.T) {
		t.Parallel()

		edits := []fix.TextEdit{fix.Insert(1, "a"), fix.Insert(5, "b")}
		_, err := fix.Normalize(edits)
		require.NoError(t, err)
		assert.Equal(t, 1, edits[0].Span.Start)
	})

	t.Run("rejects overlap", func(t *testing.T) {
		t.Parallel()

		_, err := fix.Normalize([]fix.TextEdit{
			fix.Delete(fix.SpanBetween(0, 10)),
			fix.Replace(fix.SpanBetween(8, 12), "x"),
		})
		var conflict *fix.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Contains(t, err.Error(), "overlapping edits")
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		got, err := fix.Normalize(nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMergeFileEdits(t *testing.T) {
	t.Parallel()

	got, err := fix.MergeFileEdits([]fix.FileEdit{
		{Path: "b.ts", Edits: []fix.TextEdit{fix.Insert(1, "x")}},
		{Path: "a.ts", Edits: []fix.TextEdit{fix.Insert(3, "y")}},
		{Path: "b.ts", Edits: []fix.TextEdit{fix.Insert(9, "z"), fix.Insert(1, "x")}},
		{Path: "c.ts"},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "b.ts", got[0].Path)
	assert.Equal(t, []fix.TextEdit{fix.Insert(9, "z"), fix.Insert(1, "x")}, got[0].Edits)
	assert.Equal(t, "a.ts", got[1].Path)
}

func TestMergeFileEditsConflictNamesPath(t *testing.T) {
	t.Parallel()

	_, err := fix.MergeFileEdits([]fix.FileEdit{
		{Path: "a.ts", Edits: []fix.TextEdit{fix.Delete(fix.SpanBetween(0, 4))}},
		{Path: "a.ts", Edits: []fix.TextEdit{fix.Insert(2, "x")}},
	})

	var conflict *fix.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "a.ts", conflict.Path)
}

func TestFilterConflicts(t *testing.T) {
	t.Parallel()

	accepted, skipped := fix.FilterConflicts([]fix.TextEdit{
		fix.Replace(fix.SpanBetween(0, 5), "a"),
		fix.Replace(fix.SpanBetween(3, 8), "b"),
		fix.Replace(fix.SpanBetween(10, 12), "c"),
	})

	assert.Equal(t, []fix.TextEdit{
		fix.Replace(fix.SpanBetween(10, 12), "c"),
		fix.Replace(fix.SpanBetween(0, 5), "a"),
	}, accepted)
	assert.Equal(t, []fix.TextEdit{fix.Replace(fix.SpanBetween(3, 8), "b")}, skipped)
}

func TestPrepareEditsFiltered(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		edits       []fix.TextEdit
		want        string
		wantSkipped []fix.TextEdit
		wantErr     bool
	}{
		{
			name:  "disjoint edits",
			edits: []fix.TextEdit{fix.Delete(fix.SpanBetween(0, 2)), fix.Insert(6, "!")},
			want:  "cdef!",
		},
		{
			name: "overlapping deletions keep the first",
			edits: []fix.TextEdit{
				fix.Delete(fix.SpanBetween(0, 2)),
				fix.Delete(fix.SpanBetween(1, 4)),
				fix.Insert(6, "!"),
			},
			want:        "cdef!",
			wantSkipped: []fix.TextEdit{fix.Delete(fix.SpanBetween(1, 4))},
		},
		{
			name:  "repeated edit applies once",
			edits: []fix.TextEdit{fix.Replace(fix.SpanBetween(2, 3), "C"), fix.Replace(fix.SpanBetween(2, 3), "C")},
			want:  "abCdef",
		},
		{
			name:    "out of range is an error",
			edits:   []fix.TextEdit{fix.Insert(7, "!")},
			wantErr: true,
		},
		{
			name: "out of range is an error even when it conflicts",
			edits: []fix.TextEdit{
				fix.Delete(fix.SpanBetween(4, 6)),
				fix.Delete(fix.SpanBetween(5, 9)),
			},
			wantErr: true,
		},
		{
			name: "empty",
			want: "abcdef",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			accepted, skipped, err := fix.PrepareEditsFiltered(tt.edits, len("abcdef"))
			if tt.wantErr {
				require.Error(t, err)
				var verr *fix.ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSkipped, skipped)
			assert.True(t, fix.IsSorted(accepted))
			assert.Equal(t, tt.want, fix.Apply("abcdef", accepted))
		})
	}
}
