package fix

import (
	"errors"
	"fmt"
	"slices"
)

// ValidationError describes an invalid edit.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit %s: %s", e.Edit.Span, e.Message)
}

// ConflictError describes overlapping edits.
type ConflictError struct {
	Path  string
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: overlapping edits: %s and %s", e.Path, e.Edit1.Span, e.Edit2.Span)
	}
	return fmt.Sprintf("overlapping edits: %s and %s", e.Edit1.Span, e.Edit2.Span)
}

// ValidateEdits checks that all edits have valid ranges for the given content length.
// Returns nil if all edits are valid, or the first validation error encountered.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		if edit.Span.Start < 0 {
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		}
		if edit.Span.Length < 0 {
			return &ValidationError{Edit: edit, Message: "length is negative"}
		}
		if edit.Span.End() > contentLen {
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.Span.End(), contentLen),
			}
		}
	}
	return nil
}

// SortEdits orders edits by descending start, then descending end, so they
// can be applied one after another without shifting offsets. The sort is
// stable: edits with the same span keep their relative order.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, compareDescending)
}

func compareDescending(a, b TextEdit) int {
	if a.Span.Start != b.Span.Start {
		return b.Span.Start - a.Span.Start
	}
	return b.Span.End() - a.Span.End()
}

// IsSorted reports whether edits are in the order produced by SortEdits.
func IsSorted(edits []TextEdit) bool {
	return slices.IsSortedFunc(edits, compareDescending)
}

// DetectConflicts checks for overlapping edits in a sorted slice.
// Returns nil if no conflicts, or the first conflict found.
// Edits must be sorted by SortEdits before calling.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		prev := edits[i-1]
		curr := edits[i]
		if curr.Span.Overlaps(prev.Span) {
			return &ConflictError{Edit1: curr, Edit2: prev}
		}
	}
	return nil
}

// Dedupe removes edits that repeat an earlier edit exactly, keeping the
// first occurrence.
func Dedupe(edits []TextEdit) []TextEdit {
	if len(edits) < 2 {
		return edits
	}
	seen := make(map[TextEdit]struct{}, len(edits))
	out := make([]TextEdit, 0, len(edits))
	for _, e := range edits {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// CoalesceInserts joins insertions that share an offset into one edit
// whose text is the insertions in request order. The joined edit takes the
// place of the first of them.
func CoalesceInserts(edits []TextEdit) []TextEdit {
	at := make(map[int]int)
	out := make([]TextEdit, 0, len(edits))
	for _, e := range edits {
		if !e.IsInsert() {
			out = append(out, e)
			continue
		}
		if i, ok := at[e.Span.Start]; ok {
			out[i].NewText += e.NewText
			continue
		}
		at[e.Span.Start] = len(out)
		out = append(out, e)
	}
	return out
}

// Normalize returns a copy of edits with exact duplicates collapsed,
// insertions at the same offset joined, in descending application order.
// Overlapping edits are reported as a *ConflictError. Normalizing an
// already normalized slice is a no-op.
func Normalize(edits []TextEdit) ([]TextEdit, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	result := CoalesceInserts(Dedupe(slices.Clone(edits)))
	SortEdits(result)

	if err := DetectConflicts(result); err != nil {
		return nil, err
	}
	return result, nil
}

// MergeFileEdits combines file edits that target the same path, keeping
// the paths in first-seen order, and normalizes each file's edits. Files
// left without edits are dropped.
func MergeFileEdits(changes []FileEdit) ([]FileEdit, error) {
	if len(changes) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(changes))
	merged := make([]FileEdit, 0, len(changes))
	for _, fe := range changes {
		i, ok := index[fe.Path]
		if !ok {
			i = len(merged)
			index[fe.Path] = i
			merged = append(merged, FileEdit{Path: fe.Path})
		}
		merged[i].Edits = append(merged[i].Edits, fe.Edits...)
	}

	out := merged[:0]
	for _, fe := range merged {
		edits, err := Normalize(fe.Edits)
		if err != nil {
			return nil, withPath(err, fe.Path)
		}
		if len(edits) == 0 {
			continue
		}
		out = append(out, FileEdit{Path: fe.Path, Edits: edits})
	}
	return out, nil
}

func withPath(err error, path string) error {
	var ce *ConflictError
	if errors.As(err, &ce) && ce.Path == "" {
		ce.Path = path
	}
	return err
}

// FilterConflicts keeps edits in input order, skipping any edit that
// overlaps one already accepted. Accepted edits are returned normalized.
func FilterConflicts(edits []TextEdit) ([]TextEdit, []TextEdit) {
	if len(edits) == 0 {
		return nil, nil
	}

	accepted := make([]TextEdit, 0, len(edits))
	var skipped []TextEdit
	for _, edit := range Dedupe(edits) {
		if slices.ContainsFunc(accepted, func(prev TextEdit) bool {
			return edit.Span.Overlaps(prev.Span)
		}) {
			skipped = append(skipped, edit)
			continue
		}
		accepted = append(accepted, edit)
	}

	accepted = CoalesceInserts(accepted)
	SortEdits(accepted)
	return accepted, skipped
}

// PrepareEditsFiltered validates edits against content of the given
// length, then filters conflicts with FilterConflicts instead of failing on
// them. The error is only ever a validation failure.
func PrepareEditsFiltered(edits []TextEdit, contentLen int) ([]TextEdit, []TextEdit, error) {
	if len(edits) == 0 {
		return nil, nil, nil
	}

	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, nil, err
	}

	accepted, skipped := FilterConflicts(edits)
	return accepted, skipped, nil
}
