package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/diag"
)

// FormatDiagnostic formats a diagnostic at a 1-based line and column.
func (s *Styles) FormatDiagnostic(d diag.Diagnostic, line, col int, sourceLine string) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(d.File), line, col)
	fmt.Fprintf(&builder, "%s  %s  %s  %s\n",
		location,
		s.FormatCategory(d.Category),
		s.Message.Render(d.Message),
		s.Code.Render("("+d.Code.String()+")"),
	)

	if sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, col))
	}
	return builder.String()
}

// FormatCategory returns a styled category.
func (s *Styles) FormatCategory(c diag.Category) string {
	switch c {
	case diag.CategoryError:
		return s.Error.Render("error")
	case diag.CategoryWarning:
		return s.Warning.Render("warning")
	case diag.CategorySuggestion:
		return s.Suggestion.Render("suggestion")
	default:
		return string(c)
	}
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	const indent = "    "

	var builder strings.Builder
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")
	if column > 0 {
		builder.WriteString(indent + strings.Repeat(" ", column-1) + s.Caret.Render("^") + "\n")
	}
	return builder.String()
}

// FormatFix formats one proposed fix as a numbered entry.
func (s *Styles) FormatFix(index int, f *codefix.Fix) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "  %d. %s  %s\n", index, f.Description, s.FixName.Render("["+f.Name+"]"))
	if f.GroupID != "" {
		desc := f.GroupDescription
		if desc == "" {
			desc = string(f.GroupID)
		}
		fmt.Fprintf(&builder, "     %s %s %s\n",
			s.Dim.Render("fix all:"), desc, s.Group.Render("("+string(f.GroupID)+")"))
	}
	for _, cmd := range f.Commands {
		builder.WriteString("     " + s.FormatCommand(cmd) + "\n")
	}
	return builder.String()
}

// FormatCommand formats a host command with its arguments sorted by name.
func (s *Styles) FormatCommand(cmd codefix.Command) string {
	parts := []string{s.Command.Render(cmd.Type)}
	for _, k := range sortedKeys(cmd.Args) {
		parts = append(parts, k+"="+cmd.Args[k])
	}
	if cmd.File != "" {
		parts = append(parts, s.Dim.Render("("+cmd.File+")"))
	}
	return strings.Join(parts, " ")
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, editCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case editCount == 1:
		header += s.Dim.Render(" (1 edit)")
	case editCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d edits)", editCount))
	}
	return header
}
