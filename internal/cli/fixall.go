package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/codefix/internal/logging"
	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/config"
	"github.com/yaklabco/codefix/pkg/fsutil"
	"github.com/yaklabco/codefix/pkg/reporter"
	"github.com/yaklabco/codefix/pkg/runner"
)

type fixAllFlags struct {
	report  string
	groups  []string
	dryRun  bool
	backup  bool
	format  string
	jobs    int
	include []string
	ignore  []string
	newline string
	compact bool
	stats   bool
}

func newFixAllCommand(globals *globalFlags) *cobra.Command {
	flags := &fixAllFlags{}

	cmd := &cobra.Command{
		Use:   "fix-all --report FILE [flags] [paths...]",
		Short: "Apply fix groups to every reported file",
		Long: `Apply one or more fix groups to every file in a diagnostic report.

Groups run in the order given. Where two groups want to change the same
text the earlier group wins and the later edit is reported as skipped.
Each file is written atomically; files modified since the report was
produced are left untouched and reported as stale.

With no --group flag the groups from configuration are used, or every
group when none are configured. Run "codefix codes" to list them.`,
		Example: `  codefix fix-all --report tsc.json
  codefix fix-all --report tsc.json --group unusedIdentifier_delete --dry-run
  codefix fix-all --report tsc.json --format diff src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixAll(cmd, globals, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.report, "report", "r", "", "diagnostic report (.json, .yaml, .msgpack)")
	cmd.Flags().StringSliceVarP(&flags.groups, "group", "g", nil, "fix group to apply, repeatable")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "show what would change without writing")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep the original of every written file")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, diff")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "concurrent workers (0 = number of CPUs)")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only fix files matching these globs")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "skip files matching these globs")
	cmd.Flags().StringVar(&flags.newline, "newline", "", "line terminator for inserted lines: lf, crlf")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minified JSON output")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "print a table of run statistics instead of the summary line")

	return cmd
}

func (f *fixAllFlags) config() *config.Config {
	cfg := &config.Config{
		Format:  config.OutputFormat(f.format),
		Jobs:    f.jobs,
		NewLine: f.newline,
		DryRun:  f.dryRun,
		Groups:  f.groups,
		Ignore:  f.ignore,
	}
	cfg.Backups.Enabled = f.backup
	return cfg
}

func runFixAll(cmd *cobra.Command, globals *globalFlags, flags *fixAllFlags, args []string) error {
	s, err := newSession(cmd, globals, flags.config())
	if err != nil {
		return err
	}

	prog, err := s.loadReport(flags.report)
	if err != nil {
		return err
	}

	groups := make([]codefix.GroupID, 0, len(s.cfg.Groups))
	for _, g := range s.cfg.Groups {
		groups = append(groups, codefix.GroupID(g))
	}

	opts := runner.Options{
		Program:      prog,
		Groups:       groups,
		Paths:        args,
		WorkingDir:   s.workDir,
		IncludeGlobs: flags.include,
		ExcludeGlobs: s.cfg.Ignore,
		Jobs:         s.cfg.Jobs,
		DryRun:       s.cfg.DryRun,
		Backup: fsutil.BackupConfig{
			Enabled: s.cfg.Backups.Enabled,
			Mode:    fsutil.BackupMode(s.cfg.Backups.Mode),
		},
		NewLine: s.cfg.LineBreak(),
		Host:    s.host,
	}

	s.logger.Debug("fixing",
		logging.FieldFiles, len(prog.Paths()),
		logging.FieldGroup, s.cfg.Groups,
		logging.FieldDryRun, opts.DryRun,
		logging.FieldBackup, opts.Backup.Enabled,
		logging.FieldJobs, opts.Jobs)

	result, err := runner.New(s.engine()).Run(s.ctx, opts)
	if err != nil {
		return err
	}

	rep, err := s.reporter(cmd, reporter.Options{
		ShowContext: true,
		ShowStats:   flags.stats,
		Compact:     flags.compact,
		DryRun:      opts.DryRun,
	})
	if err != nil {
		return err
	}
	if _, err := rep.Report(s.ctx, result); err != nil {
		return err
	}

	s.logger.Debug("done",
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldEdits, result.Stats.EditsApplied,
		logging.FieldSkipped, result.Stats.EditsConflicting)

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrFixFailures
	}
	return nil
}
