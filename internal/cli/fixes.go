package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/codefix/pkg/config"
	"github.com/yaklabco/codefix/pkg/reporter"
	"github.com/yaklabco/codefix/pkg/runner"
)

type fixesFlags struct {
	report    string
	file      string
	pos       int
	line      int
	col       int
	format    string
	noContext bool
}

func newFixesCommand(globals *globalFlags) *cobra.Command {
	flags := &fixesFlags{}

	cmd := &cobra.Command{
		Use:   "fixes --report FILE --file PATH (--pos N | --line N --col N)",
		Short: "List the fixes available at a position",
		Long: `List every fix offered for the diagnostics covering a position.

The position is either a byte offset (--pos) or a 1-based line and column.
A diagnostic covers a position from its first character through the
character just after its end, so the cursor after an identifier still
selects it. Nothing is written.`,
		Example: `  codefix fixes --report tsc.json --file src/app.ts --line 12 --col 7
  codefix fixes --report tsc.json --file src/app.ts --pos 340 --format diff`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFixes(cmd, globals, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.report, "report", "r", "", "diagnostic report (.json, .yaml, .msgpack)")
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "file to look in")
	cmd.Flags().IntVar(&flags.pos, "pos", -1, "0-based byte offset")
	cmd.Flags().IntVar(&flags.line, "line", 0, "1-based line")
	cmd.Flags().IntVar(&flags.col, "col", 1, "1-based column")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, diff")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "omit source lines under diagnostics")

	return cmd
}

func (f *fixesFlags) position() (runner.Position, error) {
	switch {
	case f.file == "":
		return runner.Position{}, fmt.Errorf("%w: --file is required", ErrUsage)
	case f.pos >= 0 && f.line > 0:
		return runner.Position{}, fmt.Errorf("%w: --pos and --line are mutually exclusive", ErrUsage)
	case f.pos >= 0:
		return runner.Position{Offset: f.pos}, nil
	case f.line > 0:
		if f.col < 1 {
			return runner.Position{}, fmt.Errorf("%w: --col must be at least 1", ErrUsage)
		}
		return runner.Position{Line: f.line, Column: f.col}, nil
	default:
		return runner.Position{}, fmt.Errorf("%w: one of --pos or --line is required", ErrUsage)
	}
}

func runFixes(cmd *cobra.Command, globals *globalFlags, flags *fixesFlags) error {
	pos, err := flags.position()
	if err != nil {
		return err
	}

	cliCfg := &config.Config{Format: config.OutputFormat(flags.format)}
	s, err := newSession(cmd, globals, cliCfg)
	if err != nil {
		return err
	}

	prog, err := s.loadReport(flags.report)
	if err != nil {
		return err
	}
	path, err := filepath.Abs(flags.file)
	if err != nil {
		return fmt.Errorf("resolve file path: %w", err)
	}

	r := runner.New(s.engine())
	set, err := r.FixesAt(s.ctx, runner.Options{Program: prog, Host: s.host}, path, pos)
	if err != nil {
		return err
	}

	rep, err := s.reporter(cmd, reporter.Options{ShowContext: !flags.noContext})
	if err != nil {
		return err
	}
	_, err = rep.ReportFixes(s.ctx, set)
	return err
}
