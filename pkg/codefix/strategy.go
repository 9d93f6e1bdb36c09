package codefix

import "github.com/yaklabco/codefix/pkg/diag"

// Strategy proposes fixes for one or more diagnostic codes.
type Strategy interface {
	// Name returns the unique name of the strategy.
	Name() string

	// Codes returns the diagnostic codes the strategy can fix.
	Codes() []diag.Code

	// Fixes returns zero or more mutually exclusive fixes for the
	// occurrence described by fc. Strategies describe edits only and never
	// touch files.
	Fixes(fc *FixContext) []*Fix
}

// BatchStrategy is a Strategy that can also apply its fixes to every
// occurrence in a file.
type BatchStrategy interface {
	Strategy

	// GroupIDs returns the fix groups this strategy owns.
	GroupIDs() []GroupID

	// FixOccurrence records the edits for one occurrence of occ.GroupID.
	// It returns false when this occurrence contributes nothing.
	FixOccurrence(occ *Occurrence) bool
}

// Keyed is implemented by batch strategies that deduplicate occurrences
// affecting the same construct. During FixAll only the first occurrence
// with a given key is fixed; ok is false when the occurrence has no key.
type Keyed interface {
	StructuralKey(occ *Occurrence) (key string, ok bool)
}

// BaseStrategy implements the descriptive part of Strategy and
// BatchStrategy. Embed it and add Fixes (and FixOccurrence).
//
// Fields are unexported to avoid name collisions with interface methods.
type BaseStrategy struct {
	name   string
	codes  []diag.Code
	groups []GroupID
}

// NewBaseStrategy creates a BaseStrategy.
func NewBaseStrategy(name string, codes []diag.Code, groups ...GroupID) BaseStrategy {
	return BaseStrategy{name: name, codes: codes, groups: groups}
}

// Name returns the strategy name.
func (s *BaseStrategy) Name() string {
	return s.name
}

// Codes returns the fixable diagnostic codes.
func (s *BaseStrategy) Codes() []diag.Code {
	return s.codes
}

// GroupIDs returns the owned fix groups.
func (s *BaseStrategy) GroupIDs() []GroupID {
	return s.groups
}

// FixAllSimple contributes, for one occurrence, the changes of the
// single-site fix from s that belongs to occ.GroupID. Strategies whose
// batch form is just the single-site fix repeated use it as their
// FixOccurrence.
func FixAllSimple(s Strategy, occ *Occurrence) bool {
	for _, f := range s.Fixes(occ.FixContext()) {
		if f == nil || f.GroupID != occ.GroupID {
			continue
		}
		occ.AddChanges(f.Changes...)
		occ.AddCommands(f.Commands...)
		return !f.Empty()
	}
	return false
}
