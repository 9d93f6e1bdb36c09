// Package diag defines the diagnostics reported by an external checker and
// lazy, restartable sequences over them.
package diag

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/yaklabco/codefix/pkg/fix"
)

// Code is the numeric identity of a diagnostic message.
type Code int

func (c Code) String() string {
	return fmt.Sprintf("TS%d", int(c))
}

// Category classifies a diagnostic.
type Category string

const (
	CategoryError      Category = "error"
	CategoryWarning    Category = "warning"
	CategorySuggestion Category = "suggestion"
	CategoryMessage    Category = "message"
)

// Diagnostic is a problem reported at a location in a file.
type Diagnostic struct {
	Code     Code
	File     string
	Start    int
	Length   int
	Message  string
	Category Category
}

// Span returns the location of the diagnostic.
func (d Diagnostic) Span() fix.Span {
	return fix.Span{Start: d.Start, Length: d.Length}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s %s", d.File, d.Start, d.Code, d.Message)
}

// Compare orders diagnostics by file, start, length, then code.
func Compare(a, b Diagnostic) int {
	return cmp.Or(
		cmp.Compare(a.File, b.File),
		cmp.Compare(a.Start, b.Start),
		cmp.Compare(a.Length, b.Length),
		cmp.Compare(a.Code, b.Code),
	)
}

// Sort orders diagnostics in place with Compare, keeping equal diagnostics
// in their original order.
func Sort(diags []Diagnostic) {
	slices.SortStableFunc(diags, Compare)
}

// Seq returns a sequence over a slice. The sequence can be ranged over any
// number of times.
func Seq(diags []Diagnostic) iter.Seq[Diagnostic] {
	return slices.Values(diags)
}

// Filter yields the diagnostics of seq that belong to file and carry one of
// codes. No filtering by code happens when codes is empty. The returned
// sequence is lazy and restarts seq each time it is ranged over.
func Filter(seq iter.Seq[Diagnostic], file string, codes ...Code) iter.Seq[Diagnostic] {
	return func(yield func(Diagnostic) bool) {
		for d := range seq {
			if d.File != file {
				continue
			}
			if len(codes) > 0 && !slices.Contains(codes, d.Code) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// At yields the diagnostics of seq whose span covers pos: the offsets from
// its start through its end, inclusive, so that a cursor just past a name
// still selects it.
func At(seq iter.Seq[Diagnostic], pos int) iter.Seq[Diagnostic] {
	return func(yield func(Diagnostic) bool) {
		for d := range seq {
			if d.Start <= pos && pos <= d.Start+d.Length {
				if !yield(d) {
					return
				}
			}
		}
	}
}
