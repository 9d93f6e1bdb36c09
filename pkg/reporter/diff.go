package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/codefix/internal/ui/pretty"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/runner"
)

// DiffReporter formats results as unified diffs in git style.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var filesWithDiffs int
	var totalAdditions, totalDeletions int

	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(relativePath(r.opts.WorkingDir, file.Path)),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}
		if !file.Diff.HasChanges() {
			continue
		}

		filesWithDiffs++
		totalAdditions += file.Diff.Additions
		totalDeletions += file.Diff.Deletions
		r.writeDiff(file.Diff)
	}

	if filesWithDiffs > 0 && r.opts.ShowSummary {
		r.writeSummary(filesWithDiffs, totalAdditions, totalDeletions)
	}

	return result.Stats.EditsApplied, nil
}

// ReportFixes implements Reporter. Each fix is shown as the diff it would
// produce on the requested file; edits to other files are only counted.
func (r *DiffReporter) ReportFixes(_ context.Context, set *runner.FixSet) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if set == nil {
		return 0, nil
	}

	original := []byte(set.Source.Text)
	for _, entry := range set.Entries {
		for _, f := range entry.Fixes {
			fmt.Fprintln(r.bw, r.styles.Dim.Render(fmt.Sprintf("# %s %s: %s", entry.Diagnostic.Code, f.Name, f.Description)))
			for _, fe := range f.Changes {
				if fe.Path != set.Path {
					fmt.Fprintln(r.bw, r.styles.Dim.Render(fmt.Sprintf("# %d edits to %s not shown",
						len(fe.Edits), relativePath(r.opts.WorkingDir, fe.Path))))
					continue
				}
				r.writeDiff(fix.GenerateDiff(set.Path, original, fix.ApplyEdits(original, fe.Edits)))
			}
			for _, cmd := range f.Commands {
				fmt.Fprintln(r.bw, r.styles.Dim.Render("# command: ")+r.styles.FormatCommand(cmd))
			}
		}
	}

	return set.Count(), nil
}

// writeDiff outputs a single file's diff with formatting.
func (r *DiffReporter) writeDiff(diff *fix.Diff) {
	if !diff.HasChanges() {
		return
	}
	displayPath := relativePath(r.opts.WorkingDir, diff.Path)

	header := fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)
	fmt.Fprintln(r.bw, r.styles.DiffHeader.Render(header))
	fmt.Fprintln(r.bw, r.styles.DiffRemove.Render("--- a/"+displayPath))
	fmt.Fprintln(r.bw, r.styles.DiffAdd.Render("+++ b/"+displayPath))

	for _, h := range diff.Hunks {
		fmt.Fprintln(r.bw, r.styles.DiffHunk.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)))
		for _, l := range h.Lines {
			r.writeDiffLine(l)
		}
	}

	fmt.Fprintln(r.bw)
}

// writeDiffLine formats a single diff line with color.
func (r *DiffReporter) writeDiffLine(line fix.DiffLine) {
	text := line.Kind.Prefix() + line.Content

	var styled string
	switch line.Kind {
	case fix.DiffLineAdd:
		styled = r.styles.DiffAdd.Render(text)
	case fix.DiffLineRemove:
		styled = r.styles.DiffRemove.Render(text)
	default:
		styled = r.styles.DiffContext.Render(text)
	}

	fmt.Fprintln(r.bw, styled)
}

// writeSummary writes a summary line at the end.
func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	var parts []string

	fileWord := "files"
	if files == 1 {
		fileWord = "file"
	}
	parts = append(parts, fmt.Sprintf("%d %s changed", files, fileWord))

	if additions > 0 {
		insertionWord := "insertions"
		if additions == 1 {
			insertionWord = "insertion"
		}
		parts = append(parts, r.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)", additions, insertionWord)))
	}

	if deletions > 0 {
		deletionWord := "deletions"
		if deletions == 1 {
			deletionWord = "deletion"
		}
		parts = append(parts, r.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)", deletions, deletionWord)))
	}

	fmt.Fprintln(r.bw, strings.Join(parts, ", "))
}
