package report_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/report"
)

const sample = "function f(a, b) {\n  let unused = 1;\n  return a;\n}\n"

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "a.ts"), []byte(sample), 0o600))
	return dir
}

func writeReport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want report.Format
	}{
		{"diags.json", report.FormatJSON},
		{"diags.YAML", report.FormatYAML},
		{"diags.yml", report.FormatYAML},
		{"diags.msgpack", report.FormatMsgpack},
		{"diags.mp", report.FormatMsgpack},
	}
	for _, tt := range tests {
		got, err := report.FormatOf(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := report.FormatOf("diags.txt")
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	want := []diag.Diagnostic{
		{Code: 6133, Start: 14, Length: 1, Message: "'b' is declared but its value is never read.", Category: diag.CategoryError},
		{Code: 6133, Start: 25, Length: 6, Message: "'unused' is declared but its value is never read.", Category: diag.CategoryWarning},
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json offsets",
			file: "diags.json",
			content: `{"version": 1, "diagnostics": [
  {"code": 6133, "file": "src/a.ts", "start": 25, "length": 6, "message": "'unused' is declared but its value is never read.", "category": "warning"},
  {"code": 6133, "file": "src/a.ts", "start": 14, "length": 1, "message": "'b' is declared but its value is never read."}
]}`,
		},
		{
			name: "yaml lines and columns",
			file: "diags.yaml",
			content: `version: 1
diagnostics:
  - code: 6133
    file: src/a.ts
    line: 1
    column: 15
    length: 1
    message: "'b' is declared but its value is never read."
  - code: 6133
    file: src/a.ts
    line: 2
    column: 7
    length: 6
    message: "'unused' is declared but its value is never read."
    category: warning
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := setup(t)
			path := writeReport(t, dir, tt.file, tt.content)

			prog, err := report.Load(ctx, path)
			require.NoError(t, err)

			file := filepath.Join(dir, "src", "a.ts")
			require.Equal(t, []string{file}, prog.Paths())
			src, ok := prog.File(file)
			require.True(t, ok)
			assert.Equal(t, sample, src.Text)

			got := slices.Collect(prog.Diagnostics(file))
			expected := slices.Clone(want)
			for i := range expected {
				expected[i].File = file
			}
			assert.Equal(t, expected, got)

			snap, ok := prog.Snapshot(file)
			require.True(t, ok)
			assert.True(t, snap.Matches([]byte(sample)))
		})
	}
}

func TestLoadMsgpack(t *testing.T) {
	t.Parallel()
	dir := setup(t)
	file := filepath.Join(dir, "src", "a.ts")

	rep := report.FromDiagnostics(dir, []diag.Diagnostic{
		{Code: 6133, File: file, Start: 25, Length: 6, Category: diag.CategoryError},
	})
	assert.Equal(t, "src/a.ts", rep.Diagnostics[0].File)

	var buf bytes.Buffer
	require.NoError(t, report.Encode(&buf, rep, report.FormatMsgpack))
	path := writeReport(t, t.TempDir(), "diags.msgpack", buf.String())

	prog, err := report.Load(context.Background(), path)
	require.NoError(t, err)

	got := prog.AllDiagnostics()
	require.Len(t, got, 1)
	assert.Equal(t, file, got[0].File)
	assert.Equal(t, 25, got[0].Start)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		wantErr error
		wantMsg string
	}{
		{
			name:    "future version",
			content: `{"version": 9, "diagnostics": []}`,
			wantErr: report.ErrUnsupportedVersion,
		},
		{
			name:    "missing file name",
			content: `{"diagnostics": [{"code": 1, "start": 0}]}`,
			wantErr: report.ErrMissingFile,
		},
		{
			name:    "no position",
			content: `{"diagnostics": [{"code": 1, "file": "src/a.ts"}]}`,
			wantErr: report.ErrInvalidPosition,
		},
		{
			name:    "line out of range",
			content: `{"diagnostics": [{"code": 1, "file": "src/a.ts", "line": 40, "column": 1}]}`,
			wantErr: report.ErrInvalidPosition,
		},
		{
			name:    "span past end",
			content: `{"diagnostics": [{"code": 1, "file": "src/a.ts", "start": 50, "length": 10}]}`,
			wantErr: report.ErrInvalidPosition,
		},
		{
			name:    "unknown field",
			content: `{"diagnostics": [], "extra": true}`,
			wantMsg: "unknown field",
		},
		{
			name:    "missing source",
			content: `{"diagnostics": [{"code": 1, "file": "src/gone.ts", "start": 0}]}`,
			wantMsg: "file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := setup(t)
			path := writeReport(t, dir, "diags.json", tt.content)

			_, err := report.Load(ctx, path)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestEncodeYAML(t *testing.T) {
	t.Parallel()

	rep := &report.Report{Diagnostics: []report.Entry{{Code: 1329, File: "a.ts", Start: report.Offset(3), Length: 4}}}

	var buf bytes.Buffer
	require.NoError(t, report.Encode(&buf, rep, report.FormatYAML))
	assert.True(t, strings.HasPrefix(buf.String(), "version: 1\n"))

	back, err := report.Decode(&buf, report.FormatYAML)
	require.NoError(t, err)
	require.Len(t, back.Diagnostics, 1)
	assert.Equal(t, 3, *back.Diagnostics[0].Start)
}
