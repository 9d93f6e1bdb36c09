package codefix_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/source"
)

// declarations builds n unused declarators, one per 40 byte line.
func declarations(n int) (*source.File, *codefix.StaticProgram) {
	var text strings.Builder
	diags := make([]diag.Diagnostic, 0, n)
	for i := range n {
		text.WriteString(declaratorLine(fmt.Sprintf("v%04d", i)))
		diags = append(diags, diag.Diagnostic{Code: 6133, File: "a.ts", Start: i*40 + 10, Length: 5})
	}
	f := source.NewFile("a.ts", text.String())
	return f, codefix.NewStaticProgram([]*source.File{f}, diags)
}

func benchmarkFixAll(b *testing.B, n int) {
	b.Helper()

	s := newStub("unused", []diag.Code{6133}, "unused_delete")
	s.occur = deleteDeclarator
	reg := codefix.NewRegistry()
	reg.Register(s)
	engine := codefix.NewEngine(reg)
	f, prog := declarations(n)

	b.ResetTimer()
	for range b.N {
		s.visited = s.visited[:0]
		if _, err := engine.FixAll(batchContext(context.Background(), f, prog, "unused_delete")); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFixAll100(b *testing.B) {
	benchmarkFixAll(b, 100)
}

func BenchmarkFixAll5000(b *testing.B) {
	benchmarkFixAll(b, 5000)
}
