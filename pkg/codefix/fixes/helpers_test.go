package fixes_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/codefix/fixes"
	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/source"
)

// harness runs the built-in strategies against one in-memory file.
type harness struct {
	t       *testing.T
	engine  *codefix.Engine
	file    *source.File
	program *codefix.StaticProgram
	host    codefix.Host
}

func newHarness(t *testing.T, path, text string, diags ...diag.Diagnostic) *harness {
	t.Helper()

	reg := codefix.NewRegistry()
	fixes.RegisterAll(reg)
	f := source.NewFile(path, text)
	return &harness{
		t:       t,
		engine:  codefix.NewEngine(reg),
		file:    f,
		program: codefix.NewStaticProgram([]*source.File{f}, diags),
	}
}

// at returns a diagnostic covering the nth (0-based) occurrence of needle.
func at(path, text, needle string, n int, code diag.Code) diag.Diagnostic {
	start := -1
	for range n + 1 {
		i := strings.Index(text[start+1:], needle)
		if i < 0 {
			panic("needle not found: " + needle)
		}
		start += i + 1
	}
	return diag.Diagnostic{Code: code, File: path, Start: start, Length: len(needle)}
}

func (h *harness) context() codefix.Context {
	return codefix.Context{Ctx: context.Background(), File: h.file, Program: h.program, Host: h.host}
}

func (h *harness) fixes(d diag.Diagnostic) []*codefix.Fix {
	return h.engine.GetFixes(&codefix.FixContext{Context: h.context(), Code: d.Code, Span: d.Span()})
}

func (h *harness) fixAll(group codefix.GroupID) *codefix.CombinedChanges {
	h.t.Helper()

	combined, err := h.engine.FixAll(&codefix.BatchContext{Context: h.context(), GroupID: group})
	require.NoError(h.t, err)
	return combined
}

// apply returns the file text after changes.
func (h *harness) apply(changes []fix.FileEdit) string {
	h.t.Helper()

	text := h.file.Text
	for _, fe := range changes {
		require.Equal(h.t, h.file.Path, fe.Path)
		text = fix.Apply(text, fe.Edits)
	}
	return text
}

// resolverHost knows a fixed set of types packages.
type resolverHost struct {
	known map[string]bool
}

func (resolverHost) Log(string, ...any) {}

func (r resolverHost) IsKnownTypesPackage(name string) bool {
	return r.known[name]
}
