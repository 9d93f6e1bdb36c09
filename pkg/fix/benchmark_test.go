package fix_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/codefix/pkg/fix"
)

// scattered returns n disjoint edits in ascending order, with every third
// one repeated, over content of 8n bytes.
func scattered(n int) ([]fix.TextEdit, []byte) {
	edits := make([]fix.TextEdit, 0, n+n/3)
	for i := range n {
		switch i % 3 {
		case 0:
			e := fix.Insert(i*8, "x")
			edits = append(edits, e, e)
		case 1:
			edits = append(edits, fix.Delete(fix.SpanBetween(i*8, i*8+3)))
		default:
			edits = append(edits, fix.Replace(fix.SpanBetween(i*8+1, i*8+4), "yz"))
		}
	}
	return edits, []byte(strings.Repeat("abcdefg\n", n))
}

func BenchmarkNormalize(b *testing.B) {
	edits, _ := scattered(2000)
	b.ResetTimer()
	for range b.N {
		if _, err := fix.Normalize(edits); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPrepareAndApply(b *testing.B) {
	edits, content := scattered(2000)
	b.ResetTimer()
	for range b.N {
		accepted, _, err := fix.PrepareEditsFiltered(edits, len(content))
		if err != nil {
			b.Fatal(err)
		}
		fix.ApplyEdits(content, accepted)
	}
}
