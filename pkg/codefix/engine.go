package codefix

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/textchanges"
)

// Engine answers fix requests against a Registry.
type Engine struct {
	Registry *Registry
}

// NewEngine creates an Engine backed by registry. A nil registry means
// DefaultRegistry.
func NewEngine(registry *Registry) *Engine {
	if registry == nil {
		registry = DefaultRegistry
	}
	return &Engine{Registry: registry}
}

// GetFixes returns the fixes of every strategy registered for fc.Code, in
// registration order, each strategy's fixes in the order it returned them.
// A code without strategies yields no fixes. Nil fixes and fixes that
// change nothing are dropped and reported to the host.
//
// GetFixes panics with a *FaultError when a fix contains overlapping edits.
func (e *Engine) GetFixes(fc *FixContext) []*Fix {
	e.Registry.Freeze()

	var out []*Fix
	for _, s := range e.Registry.StrategiesFor(fc.Code) {
		for i, f := range s.Fixes(fc) {
			if f == nil {
				fc.host().Log("strategy returned a nil fix",
					"strategy", s.Name(), "code", fc.Code, "index", i)
				continue
			}
			changes, err := fix.MergeFileEdits(f.Changes)
			if err != nil {
				fault("get fixes", fmt.Errorf("strategy %q: %w", s.Name(), err))
			}
			f.Changes = changes
			if f.Empty() {
				fc.host().Log("strategy returned a fix without edits or commands",
					"strategy", s.Name(), "code", fc.Code, "description", f.Description)
				continue
			}
			if f.Name == "" {
				f.Name = s.Name()
			}
			out = append(out, f)
		}
	}
	return out
}

// batch holds the accumulators shared by all occurrences of a FixAll.
type batch struct {
	ctx      *BatchContext
	changes  []fix.FileEdit
	commands []Command
}

// FixAll applies the fix group bc.GroupID to every diagnostic in bc.File
// whose code its owner handles, visiting them in ascending source position. All
// occurrences share one change tracker; owners implementing Keyed fix only
// the first occurrence per key. The result merges edits per file.
//
// When bc.Ctx is done FixAll stops and returns an error wrapping
// ErrCancelled and the context error, with no partial result.
//
// FixAll panics with a *FaultError for an unknown group or overlapping
// edits.
func (e *Engine) FixAll(bc *BatchContext) (*CombinedChanges, error) {
	owner, ok := e.Registry.GroupOwner(bc.GroupID)
	if !ok {
		faultf("fix all", "no strategy owns group %q", bc.GroupID)
	}
	e.Registry.Freeze()

	ctx := bc.ctx()
	path := bc.File.Path

	codes := owner.Codes()
	if len(codes) == 0 {
		// An owner that handles no codes has no occurrences.
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		return &CombinedChanges{}, nil
	}

	occurrences := diag.Filter(bc.Program.Diagnostics(path), path, codes...)
	if !inSourceOrder(occurrences) {
		occurrences = slices.Values(slices.SortedStableFunc(occurrences, byStart))
	}

	b := &batch{ctx: bc}
	tracker := textchanges.New(bc.LineBreak())
	keyed, _ := owner.(Keyed)
	seen := make(map[string]struct{})

	for d := range occurrences {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		occ := &Occurrence{Diagnostic: d, GroupID: bc.GroupID, Tracker: tracker, batch: b}
		if keyed != nil {
			if key, ok := keyed.StructuralKey(occ); ok {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
		}
		owner.FixOccurrence(occ)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	files, err := fix.MergeFileEdits(append(trackerChanges(tracker), b.changes...))
	if err != nil {
		fault("fix all", fmt.Errorf("group %q: %w", bc.GroupID, err))
	}
	slices.SortFunc(files, func(x, y fix.FileEdit) int {
		return cmp.Compare(x.Path, y.Path)
	})

	return &CombinedChanges{Files: files, Commands: DedupeCommands(b.commands)}, nil
}

// DedupeCommands drops repeats of an earlier identical command, keeping
// the first.
func DedupeCommands(cmds []Command) []Command {
	if len(cmds) < 2 {
		return cmds
	}
	seen := make(map[string]struct{}, len(cmds))
	out := cmds[:0:0]
	for _, c := range cmds {
		key := c.key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func byStart(a, b diag.Diagnostic) int {
	return cmp.Compare(a.Start, b.Start)
}

// inSourceOrder makes one pass over the restartable sequence so that
// well-behaved programs are visited without buffering their diagnostics.
func inSourceOrder(seq iter.Seq[diag.Diagnostic]) bool {
	last := -1
	for d := range seq {
		if d.Start < last {
			return false
		}
		last = d.Start
	}
	return true
}

// trackerChanges renders the tracker, converting its overlap panic into a
// fault.
func trackerChanges(t *textchanges.Tracker) (changes []fix.FileEdit) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				fault("fix all", err)
			}
			panic(r)
		}
	}()
	return t.Changes()
}
