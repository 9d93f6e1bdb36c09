package pretty

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/codefix/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files changed, 7 edits, 1 conflict skipped (2 diagnostics checked)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, dryRun bool) string {
	if stats.FilesChanged == 0 && stats.FilesErrored == 0 && stats.FilesStale == 0 {
		return s.Success.Render("Nothing to fix") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesConsidered, plural(stats.FilesConsidered, wordFile, wordFiles))) + "\n"
	}

	verb := "changed"
	if dryRun {
		verb = "would change"
	}

	var parts []string
	parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s %s",
		stats.FilesChanged, plural(stats.FilesChanged, wordFile, wordFiles), verb)))
	parts = append(parts, fmt.Sprintf("%d %s", stats.EditsApplied, plural(stats.EditsApplied, "edit", "edits")))

	if stats.EditsConflicting > 0 {
		parts = append(parts, s.Conflict.Render(fmt.Sprintf("%d %s skipped",
			stats.EditsConflicting, plural(stats.EditsConflicting, "conflict", "conflicts"))))
	}
	if stats.FilesStale > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d stale", stats.FilesStale)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") +
		s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.Diagnostics, plural(stats.Diagnostics, "diagnostic", "diagnostics"))) + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, style func(...string) string, n int) {
		fmt.Fprintf(&builder, "  %-19s%s\n", label+":", style(strconv.Itoa(n)))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files checked", s.SummaryValue.Render, stats.FilesConsidered)
	row("Diagnostics", s.SummaryValue.Render, stats.Diagnostics)
	row("Files changed", s.Success.Render, stats.FilesChanged)
	if stats.FilesWritten > 0 {
		row("Files written", s.Success.Render, stats.FilesWritten)
	}
	row("Edits applied", s.SummaryValue.Render, stats.EditsApplied)
	if stats.EditsConflicting > 0 {
		row("Edits skipped", s.Conflict.Render, stats.EditsConflicting)
	}
	if stats.FilesStale > 0 {
		row("Files stale", s.Warning.Render, stats.FilesStale)
	}
	if stats.FilesErrored > 0 {
		row("Files failed", s.Failure.Render, stats.FilesErrored)
	}

	builder.WriteString("\n")
	switch {
	case stats.FilesErrored > 0 || stats.FilesStale > 0:
		builder.WriteString(s.Failure.Render("Some files could not be fixed"))
	case stats.FilesChanged == 0:
		builder.WriteString(s.Success.Render("Nothing to fix"))
	default:
		builder.WriteString(s.Success.Render("Fixes applied"))
	}
	builder.WriteString("\n")

	return builder.String()
}
