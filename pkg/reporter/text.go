package reporter

import (
	"bufio"
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/codefix/internal/ui/pretty"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/runner"
	"github.com/yaklabco/codefix/pkg/source"
)

// maxQuoted caps how much edited text is echoed per edit.
const maxQuoted = 40

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	for _, file := range result.Files {
		path := relativePath(r.opts.WorkingDir, file.Path)
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Edits))+r.status(file))
		for _, e := range sourceOrder(file.Edits) {
			fmt.Fprintln(r.bw, "  "+r.describeEdit(file.Source, e, r.styles.Location.Render))
		}
		for _, e := range file.Conflicts {
			fmt.Fprintln(r.bw, "  "+r.styles.Conflict.Render("skipped ")+r.describeEdit(file.Source, e, r.styles.Conflict.Render))
		}
		fmt.Fprintln(r.bw)
	}

	if len(result.Commands) > 0 {
		fmt.Fprintln(r.bw, r.styles.Bold.Render("Commands"))
		for _, cmd := range result.Commands {
			fmt.Fprintln(r.bw, "  "+r.styles.FormatCommand(cmd))
		}
		fmt.Fprintln(r.bw)
	}

	switch {
	case r.opts.ShowStats:
		fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
	case r.opts.ShowSummary:
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, r.opts.DryRun))
	}

	return result.Stats.EditsApplied, nil
}

func (r *TextReporter) status(file runner.FileOutcome) string {
	switch {
	case file.Stale:
		return " " + r.styles.Warning.Render("stale, not written")
	case file.Written && file.BackupCreated:
		return " " + r.styles.Success.Render("written") + r.styles.Dim.Render(", backup kept")
	case file.Written:
		return " " + r.styles.Success.Render("written")
	case !file.Diff.HasChanges():
		return " " + r.styles.Dim.Render("unchanged")
	default:
		return ""
	}
}

// ReportFixes implements Reporter.
func (r *TextReporter) ReportFixes(_ context.Context, set *runner.FixSet) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if set == nil {
		return 0, nil
	}
	path := relativePath(r.opts.WorkingDir, set.Path)

	if len(set.Entries) == 0 {
		fmt.Fprintf(r.bw, "%s %s\n",
			r.styles.Dim.Render("No diagnostics at"),
			r.styles.FilePath.Render(fmt.Sprintf("%s:%d:%d", path, set.Line, set.Column)))
		return 0, nil
	}

	for _, entry := range set.Entries {
		d := entry.Diagnostic
		d.File = path
		line, col := set.Source.LineAt(d.Start)
		var sourceLine string
		if r.opts.ShowContext {
			sourceLine = set.Source.LineContent(line)
		}
		fmt.Fprint(r.bw, r.styles.FormatDiagnostic(d, line, col, sourceLine))

		if len(entry.Fixes) == 0 {
			fmt.Fprintln(r.bw, "  "+r.styles.Dim.Render("no fixes available"))
		}
		for i, f := range entry.Fixes {
			fmt.Fprint(r.bw, r.styles.FormatFix(i+1, f))
		}
		fmt.Fprintln(r.bw)
	}

	return set.Count(), nil
}

// describeEdit renders an edit as "line:col action".
func (r *TextReporter) describeEdit(src *source.File, e fix.TextEdit, loc func(...string) string) string {
	var at string
	if src != nil {
		line, col := src.LineAt(e.Span.Start)
		at = loc(fmt.Sprintf("%d:%d", line, col)) + "  "
	}

	var old string
	if src != nil {
		old = src.Slice(e.Span)
	}
	switch {
	case e.IsInsert():
		return at + "insert " + quote(e.NewText)
	case e.IsDeletion():
		return at + "delete " + quote(old)
	default:
		return at + "replace " + quote(old) + " with " + quote(e.NewText)
	}
}

func quote(s string) string {
	if len(s) > maxQuoted {
		s = s[:maxQuoted] + "..."
	}
	return fmt.Sprintf("%q", s)
}

// sourceOrder returns edits front to back; runner outcomes hold them in
// descending application order.
func sourceOrder(edits []fix.TextEdit) []fix.TextEdit {
	out := slices.Clone(edits)
	slices.Reverse(out)
	return out
}
