package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/codefix/internal/ui/pretty"
	"github.com/yaklabco/codefix/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name   string
		stats  runner.Stats
		dryRun bool
		want   string
	}{
		{
			name:  "nothing to fix",
			stats: runner.Stats{FilesConsidered: 1, Diagnostics: 2},
			want:  "Nothing to fix (1 file checked)\n",
		},
		{
			name:  "changes",
			stats: runner.Stats{FilesConsidered: 4, FilesChanged: 2, Diagnostics: 9, EditsApplied: 7, EditsConflicting: 1},
			want:  "2 files changed, 7 edits, 1 conflict skipped (9 diagnostics checked)\n",
		},
		{
			name:   "dry run",
			stats:  runner.Stats{FilesConsidered: 1, FilesChanged: 1, Diagnostics: 1, EditsApplied: 1},
			dryRun: true,
			want:   "1 file would change, 1 edit (1 diagnostic checked)\n",
		},
		{
			name:  "failures",
			stats: runner.Stats{FilesConsidered: 3, FilesStale: 1, FilesErrored: 1, Diagnostics: 3},
			want:  "0 files changed, 0 edits, 1 stale, 1 failed (3 diagnostics checked)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats, tt.dryRun))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	styles := pretty.NewStyles(false)

	t.Run("changes", func(t *testing.T) {
		result := styles.FormatSummary(runner.Stats{
			FilesConsidered: 10,
			Diagnostics:     15,
			FilesChanged:    3,
			FilesWritten:    3,
			EditsApplied:    12,
		})

		assert.Contains(t, result, "Summary")
		assert.Contains(t, result, "Files checked:     10")
		assert.Contains(t, result, "Files written:     3")
		assert.Contains(t, result, "Edits applied:     12")
		assert.NotContains(t, result, "Edits skipped")
		assert.Contains(t, result, "Fixes applied")
	})

	t.Run("nothing", func(t *testing.T) {
		result := styles.FormatSummary(runner.Stats{FilesConsidered: 2})

		assert.Contains(t, result, "Nothing to fix")
		assert.NotContains(t, result, "Files written")
	})

	t.Run("failures", func(t *testing.T) {
		result := styles.FormatSummary(runner.Stats{FilesConsidered: 2, FilesErrored: 1, EditsConflicting: 2})

		assert.Contains(t, result, "Files failed:      1")
		assert.Contains(t, result, "Edits skipped:     2")
		assert.Contains(t, result, "Some files could not be fixed")
	})
}
