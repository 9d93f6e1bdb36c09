// Package codefix routes diagnostics to registered fix strategies and
// combines their edits.
//
// A Registry maps diagnostic codes to strategies. The Engine answers two
// kinds of request: GetFixes lists every fix on offer for one diagnostic
// occurrence, and FixAll applies a single fix group to every matching
// occurrence in a file, merging the results into one conflict-free edit
// set ordered for right-to-left application.
package codefix

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/codefix/pkg/fix"
)

// GroupID names a batch-capable fix kind, such as "unusedIdentifier_delete".
// Each GroupID is owned by exactly one strategy.
type GroupID string

// Command is a non-textual action a host performs alongside or instead of
// edits, for example installing a package.
type Command struct {
	Type string            `json:"type" yaml:"type" msgpack:"type"`
	File string            `json:"file,omitempty" yaml:"file,omitempty" msgpack:"file,omitempty"`
	Args map[string]string `json:"args,omitempty" yaml:"args,omitempty" msgpack:"args,omitempty"`
}

func (c Command) key() string {
	var b strings.Builder
	b.WriteString(c.Type)
	b.WriteByte(0)
	b.WriteString(c.File)
	for _, k := range slices.Sorted(maps.Keys(c.Args)) {
		b.WriteByte(0)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(c.Args[k])
	}
	return b.String()
}

// Fix is one proposed change for a diagnostic occurrence.
type Fix struct {
	// Name identifies the strategy that produced the fix.
	Name string

	// Description is a human readable summary of the change.
	Description string

	// Changes holds the edits, at most one FileEdit per path, each sorted
	// for descending application.
	Changes []fix.FileEdit

	// GroupID is set when the same fix can be applied to every occurrence
	// in a file through Engine.FixAll.
	GroupID GroupID

	// GroupDescription describes the fix-all form, if any.
	GroupDescription string

	Commands []Command
}

// Empty reports whether the fix neither edits text nor runs commands.
func (f *Fix) Empty() bool {
	for _, fe := range f.Changes {
		if len(fe.Edits) > 0 {
			return false
		}
	}
	return len(f.Commands) == 0
}

// CombinedChanges is the aggregated result of a fix-all request.
type CombinedChanges struct {
	// Files is sorted by path. Files without edits never appear.
	Files    []fix.FileEdit
	Commands []Command
}

// Edits returns the edits for path, or nil.
func (c *CombinedChanges) Edits(path string) []fix.TextEdit {
	if c == nil {
		return nil
	}
	i, ok := slices.BinarySearchFunc(c.Files, path, func(fe fix.FileEdit, p string) int {
		return cmp.Compare(fe.Path, p)
	})
	if !ok {
		return nil
	}
	return c.Files[i].Edits
}

// Paths returns the paths with edits.
func (c *CombinedChanges) Paths() []string {
	if c == nil {
		return nil
	}
	paths := make([]string, 0, len(c.Files))
	for _, fe := range c.Files {
		paths = append(paths, fe.Path)
	}
	return paths
}

// Empty reports whether nothing would change.
func (c *CombinedChanges) Empty() bool {
	return c == nil || (len(c.Files) == 0 && len(c.Commands) == 0)
}

// ErrCancelled is returned by FixAll when its context is done. The
// returned error also wraps the context's error.
var ErrCancelled = errors.New("fix-all cancelled")

// FaultError reports a programming error in the registry or a strategy:
// duplicate group ownership, registration after serving started, an
// unknown group, or overlapping edits. Faults are raised with panic.
type FaultError struct {
	Op  string
	Err error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("codefix: %s: %v", e.Op, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

func fault(op string, err error) {
	panic(&FaultError{Op: op, Err: err})
}

func faultf(op, format string, args ...any) {
	fault(op, fmt.Errorf(format, args...))
}
