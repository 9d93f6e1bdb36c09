package runner

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"runtime"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/codefix/internal/logging"
	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/fsutil"
)

// Sentinel errors for errors.Is.
var (
	ErrNoProgram    = errors.New("no program")
	ErrUnknownGroup = errors.New("unknown fix group")
	ErrNoSource     = errors.New("no source for file")
)

// Runner applies fix groups across many files.
type Runner struct {
	Engine *codefix.Engine
}

// New creates a Runner. A nil engine uses the default registry.
func New(engine *codefix.Engine) *Runner {
	if engine == nil {
		engine = codefix.NewEngine(nil)
	}
	return &Runner{Engine: engine}
}

type task struct {
	path  string
	group codefix.GroupID
}

// Run fixes every selected file with every requested group, then applies
// the combined edits file by file. Work is spread over opts.Jobs
// goroutines; each FixAll gets its own tracker and the program is only
// read. Edits of different groups that overlap are resolved in favor of
// the group listed first.
//
// Per-file failures are reported in the result. The returned error is
// reserved for bad options and cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Program == nil {
		return nil, ErrNoProgram
	}
	logger := logging.FromContext(ctx)

	groups, err := r.groups(opts.Groups)
	if err != nil {
		return nil, err
	}
	files, err := Select(opts.Program.Paths(), opts)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	result.Stats.FilesConsidered = len(files)
	for _, p := range files {
		for range opts.Program.Diagnostics(p) {
			result.Stats.Diagnostics++
		}
	}
	if len(files) == 0 {
		return result, nil
	}

	host := opts.Host
	if host == nil {
		host = codefix.NewLogHost(logger)
	}

	tasks := make([]task, 0, len(files)*len(groups))
	for _, p := range files {
		for _, g := range groups {
			tasks = append(tasks, task{path: p, group: g})
		}
	}

	combined := make([]*codefix.CombinedChanges, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs(opts.Jobs, len(tasks)))
	for i, t := range tasks {
		g.Go(func() error {
			src, ok := opts.Program.File(t.path)
			if !ok {
				return nil
			}
			bc := &codefix.BatchContext{
				Context: codefix.Context{
					Ctx:     gctx,
					File:    src,
					Program: opts.Program,
					Host:    host,
					NewLine: opts.NewLine,
				},
				GroupID: t.group,
			}
			cc, err := r.Engine.FixAll(bc)
			if err != nil {
				return err
			}
			if !cc.Empty() {
				logger.Debug("fixed group",
					logging.FieldPath, t.path,
					logging.FieldGroup, t.group,
					logging.FieldEdits, len(cc.Edits(t.path)),
					logging.FieldCommands, len(cc.Commands))
			}
			combined[i] = cc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fix all: %w", err)
	}

	pending, commands := merge(combined)
	result.Commands = commands

	paths := slices.Sorted(maps.Keys(pending))
	outcomes := make([]FileOutcome, len(paths))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(jobs(opts.Jobs, len(paths)))
	for i, p := range paths {
		g.Go(func() error {
			outcomes[i] = r.applyFile(gctx, logger, p, pending[p], opts)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}

	for _, o := range outcomes {
		result.accumulate(o)
	}
	return result, nil
}

func (r *Runner) groups(requested []codefix.GroupID) ([]codefix.GroupID, error) {
	if len(requested) == 0 {
		return r.Engine.Registry.GroupIDs(), nil
	}
	out := make([]codefix.GroupID, 0, len(requested))
	for _, id := range requested {
		if _, ok := r.Engine.Registry.GroupOwner(id); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, id)
		}
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

func jobs(n, work int) int {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return max(1, min(n, work))
}

// merge concatenates edits per path in task order and dedupes commands.
func merge(combined []*codefix.CombinedChanges) (map[string][]fix.TextEdit, []codefix.Command) {
	pending := make(map[string][]fix.TextEdit)
	var commands []codefix.Command
	for _, cc := range combined {
		if cc == nil {
			continue
		}
		for _, fe := range cc.Files {
			pending[fe.Path] = append(pending[fe.Path], fe.Edits...)
		}
		commands = append(commands, cc.Commands...)
	}
	return pending, codefix.DedupeCommands(commands)
}

func (r *Runner) applyFile(ctx context.Context, logger *log.Logger, path string, edits []fix.TextEdit, opts Options) FileOutcome {
	out := FileOutcome{Path: path}

	src, ok := opts.Program.File(path)
	if !ok {
		out.Error = fmt.Errorf("%w: %s", ErrNoSource, path)
		return out
	}
	out.Source = src

	var err error
	out.Edits, out.Conflicts, err = fix.PrepareEditsFiltered(edits, src.Len())
	if err != nil {
		out.Error = fmt.Errorf("%s: %w", path, err)
		return out
	}
	if len(out.Conflicts) > 0 {
		logger.Warn("dropped conflicting edits", logging.FieldPath, path, logging.FieldSkipped, len(out.Conflicts))
	}

	original := []byte(src.Text)
	content := fix.ApplyEdits(original, out.Edits)
	out.Diff = fix.GenerateDiff(path, original, content)
	if opts.DryRun || !out.Diff.HasChanges() {
		return out
	}

	snap, err := snapshot(ctx, opts.Program, path, original)
	if err == nil {
		out.BackupCreated, err = fsutil.Replace(ctx, snap, content, opts.Backup)
	}
	switch {
	case errors.Is(err, fsutil.ErrModified):
		out.Stale = true
		logger.Warn("file changed since diagnostics were loaded, not writing", logging.FieldPath, path)
	case err != nil:
		out.Error = err
	default:
		out.Written = true
		logger.Debug("wrote file", logging.FieldPath, path, logging.FieldBackup, out.BackupCreated)
	}
	return out
}

// snapshot returns the program's load-time snapshot, or takes one now and
// checks it against the text the edits were computed on.
func snapshot(ctx context.Context, prog Program, path string, original []byte) (*fsutil.Snapshot, error) {
	if s, ok := prog.(Snapshotter); ok {
		if snap, ok := s.Snapshot(path); ok {
			return snap, nil
		}
	}
	_, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if !snap.Matches(original) {
		return nil, fmt.Errorf("%w: %s", fsutil.ErrModified, path)
	}
	return snap, nil
}
