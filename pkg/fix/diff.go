package fix

import (
	"fmt"
	"strings"
)

// Diff is a unified diff between the original and fixed content of a file.
type Diff struct {
	Path     string
	Original []byte
	Modified []byte
	Hunks    []DiffHunk

	Additions int
	Deletions int
}

// DiffHunk is one "@@" section. Start lines are 1-based.
type DiffHunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []DiffLine
}

// DiffLine is a single line of a hunk, without its prefix character.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	DiffLineContext DiffLineKind = iota
	DiffLineAdd
	DiffLineRemove
)

// Prefix returns the unified diff marker for the kind.
func (k DiffLineKind) Prefix() string {
	switch k {
	case DiffLineAdd:
		return "+"
	case DiffLineRemove:
		return "-"
	default:
		return " "
	}
}

const contextLines = 3

// GenerateDiff creates a unified diff between original and modified content.
// Returns nil if there are no changes.
func GenerateDiff(path string, original, modified []byte) *Diff {
	origLines := splitLines(original)
	modLines := splitLines(modified)

	ops := diffLines(origLines, modLines)
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	d := &Diff{Path: path, Original: original, Modified: modified, Hunks: hunks}
	for _, h := range hunks {
		for _, l := range h.Lines {
			switch l.Kind {
			case DiffLineAdd:
				d.Additions++
			case DiffLineRemove:
				d.Deletions++
			case DiffLineContext:
			}
		}
	}
	return d
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the diff in unified diff format (without the git header).
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
		for _, l := range h.Lines {
			b.WriteString(l.Kind.Prefix())
			b.WriteString(l.Content)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// FullString returns the complete diff including the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// splitLines splits content into lines, dropping the empty tail after a
// final newline.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	lines := strings.Split(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

type diffOp struct {
	kind    DiffLineKind
	text    string
	origIdx int // 0-based line in original, valid for context and remove
	modIdx  int // 0-based line in modified, valid for context and add
}

// diffLines computes an edit script with a longest-common-subsequence table.
// Fix output changes few lines, so the quadratic table stays small after
// the common prefix and suffix are trimmed.
func diffLines(orig, mod []string) []diffOp {
	prefix := 0
	for prefix < len(orig) && prefix < len(mod) && orig[prefix] == mod[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(orig)-prefix && suffix < len(mod)-prefix &&
		orig[len(orig)-1-suffix] == mod[len(mod)-1-suffix] {
		suffix++
	}

	a := orig[prefix : len(orig)-suffix]
	b := mod[prefix : len(mod)-suffix]

	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]diffOp, 0, len(orig)+len(b))
	for k := range prefix {
		ops = append(ops, diffOp{kind: DiffLineContext, text: orig[k], origIdx: k, modIdx: k})
	}
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			ops = append(ops, diffOp{kind: DiffLineContext, text: a[i], origIdx: prefix + i, modIdx: prefix + j})
			i++
			j++
		case i < len(a) && (j == len(b) || lcs[i+1][j] >= lcs[i][j+1]):
			// Removals go first, as in unified diffs.
			ops = append(ops, diffOp{kind: DiffLineRemove, text: a[i], origIdx: prefix + i, modIdx: prefix + j})
			i++
		default:
			ops = append(ops, diffOp{kind: DiffLineAdd, text: b[j], origIdx: prefix + i, modIdx: prefix + j})
			j++
		}
	}
	for k := range suffix {
		oi := len(orig) - suffix + k
		mi := len(mod) - suffix + k
		ops = append(ops, diffOp{kind: DiffLineContext, text: orig[oi], origIdx: oi, modIdx: mi})
	}
	return ops
}

// groupHunks splits the edit script into hunks with contextLines of
// unchanged lines around each run of changes. Runs separated by at most
// twice that many unchanged lines share a hunk.
func groupHunks(ops []diffOp) []DiffHunk {
	var hunks []DiffHunk

	i := 0
	for i < len(ops) {
		for i < len(ops) && ops[i].kind == DiffLineContext {
			i++
		}
		if i == len(ops) {
			break
		}

		start := max(0, i-contextLines)
		end := i
		for end < len(ops) {
			if ops[end].kind != DiffLineContext {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].kind == DiffLineContext {
				run++
			}
			if run == len(ops) || run-end > 2*contextLines {
				end = min(end+contextLines, run)
				break
			}
			end = run
		}

		hunks = append(hunks, buildHunk(ops[start:end]))
		i = end
	}
	return hunks
}

func buildHunk(ops []diffOp) DiffHunk {
	h := DiffHunk{
		OriginalStart: ops[0].origIdx + 1,
		ModifiedStart: ops[0].modIdx + 1,
		Lines:         make([]DiffLine, 0, len(ops)),
	}
	for _, op := range ops {
		switch op.kind {
		case DiffLineContext:
			h.OriginalCount++
			h.ModifiedCount++
		case DiffLineRemove:
			h.OriginalCount++
		case DiffLineAdd:
			h.ModifiedCount++
		}
		h.Lines = append(h.Lines, DiffLine{Kind: op.kind, Content: op.text})
	}
	// Unified diff convention: an empty side starts at the line before.
	if h.OriginalCount == 0 {
		h.OriginalStart--
	}
	if h.ModifiedCount == 0 {
		h.ModifiedStart--
	}
	return h
}
