package fixes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/codefix/fixes"
	"github.com/yaklabco/codefix/pkg/diag"
)

func coded(d diag.Diagnostic, code diag.Code) diag.Diagnostic {
	d.Code = code
	return d
}

func TestDisableChecksFixes(t *testing.T) {
	t.Parallel()

	text := "function f() {\n  foo.bar();\n}\n"
	d := at("f.js", text, "bar", 0, 2339)
	h := newHarness(t, "f.js", text, d)
	got := h.fixes(d)

	require.Len(t, got, 2)
	assert.Equal(t, "Ignore this error message", got[0].Description)
	assert.Equal(t, fixes.GroupDisableChecks, got[0].GroupID)
	assert.Equal(t, "function f() {\n  // @ts-ignore\n  foo.bar();\n}\n", h.apply(got[0].Changes))

	assert.Equal(t, "Disable checking for this file", got[1].Description)
	assert.Empty(t, got[1].GroupID)
	assert.Equal(t, "// @ts-nocheck\n"+text, h.apply(got[1].Changes))
}

func TestDisableChecksReplacesCheckDirective(t *testing.T) {
	t.Parallel()

	text := "// @ts-check\nfoo();\n"
	d := at("f.js", text, "foo", 0, 2304)
	h := newHarness(t, "f.js", text, d)
	got := h.fixes(d)

	require.Len(t, got, 2)
	assert.Equal(t, "// @ts-check\n// @ts-ignore\nfoo();\n", h.apply(got[0].Changes))
	assert.Equal(t, "// @ts-nocheck\nfoo();\n", h.apply(got[1].Changes))
}

func TestDisableChecksIgnoresNonScripts(t *testing.T) {
	t.Parallel()

	text := "just some notes\n"
	d := at("notes.txt", text, "notes", 0, 2304)

	assert.Empty(t, newHarness(t, "notes.txt", text, d).fixes(d))
}

func TestDisableChecksFixAllOneCommentPerLine(t *testing.T) {
	t.Parallel()

	text := "a();\nb(); c();\n"
	h := newHarness(t, "x.js", text,
		at("x.js", text, "a", 0, 2304),
		at("x.js", text, "b", 0, 2304),
		at("x.js", text, "c", 0, 2304),
	)

	got := h.apply(h.fixAll(fixes.GroupDisableChecks).Files)
	assert.Equal(t, "// @ts-ignore\na();\n// @ts-ignore\nb(); c();\n", got)
}

func TestInstallTypes(t *testing.T) {
	t.Parallel()

	text := "import x from \"@babel/core/lib\";\n"
	d := at("i.ts", text, `"@babel/core/lib"`, 0, fixes.CodeMissingTypes)

	t.Run("known package", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t, "i.ts", text, d)
		h.host = resolverHost{known: map[string]bool{"@babel/core": true}}
		got := h.fixes(d)

		require.Len(t, got, 1)
		assert.Equal(t, "Install '@types/babel__core'", got[0].Description)
		assert.Empty(t, got[0].Changes)
		assert.Equal(t, []codefix.Command{{
			Type: fixes.CommandInstallPackage,
			File: "i.ts",
			Args: map[string]string{"packageName": "@types/babel__core"},
		}}, got[0].Commands)
	})

	t.Run("unknown package", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t, "i.ts", text, d)
		h.host = resolverHost{}
		assert.Empty(t, h.fixes(d))
	})

	t.Run("host without resolver", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, newHarness(t, "i.ts", text, d).fixes(d))
	})
}

func TestInstallTypesFixAllDedupesCommands(t *testing.T) {
	t.Parallel()

	text := "import a from \"lodash\";\nimport b from \"lodash/fp\";\n"
	h := newHarness(t, "i.ts", text,
		at("i.ts", text, `"lodash"`, 0, fixes.CodeMissingTypes),
		at("i.ts", text, `"lodash/fp"`, 0, fixes.CodeMissingTypes),
	)
	h.host = resolverHost{known: map[string]bool{"lodash": true}}

	combined := h.fixAll(fixes.GroupInstallTypes)

	assert.Empty(t, combined.Files)
	require.Len(t, combined.Commands, 1)
	assert.Equal(t, "@types/lodash", combined.Commands[0].Args["packageName"])
}

func TestPackageNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		module string
		pkg    string
		types  string
	}{
		{"lodash", "lodash", "@types/lodash"},
		{"lodash/fp", "lodash", "@types/lodash"},
		{"@babel/core", "@babel/core", "@types/babel__core"},
		{"@babel/core/lib/x", "@babel/core", "@types/babel__core"},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.pkg, fixes.PackageName(tt.module))
			assert.Equal(t, tt.types, fixes.TypesPackageName(tt.pkg))
		})
	}
}

func TestCallDecorator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		needle string
		want   string
	}{
		{
			name:   "at sign",
			text:   "class C {\n  @Input\n  name: string;\n}\n",
			needle: "@Input",
			want:   "class C {\n  @Input()\n  name: string;\n}\n",
		},
		{
			name:   "dotted name",
			text:   "class C {\n  @ng.Input\n  name: string;\n}\n",
			needle: "Input",
			want:   "class C {\n  @ng.Input()\n  name: string;\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := at("c.ts", tt.text, tt.needle, 0, fixes.CodeDecoratorNotCalled)
			h := newHarness(t, "c.ts", tt.text, d)
			got := h.fixes(d)

			require.Len(t, got, 1)
			assert.Equal(t, "Call decorator expression", got[0].Description)
			assert.Equal(t, tt.want, h.apply(got[0].Changes))
		})
	}
}

func TestCallDecoratorFixAll(t *testing.T) {
	t.Parallel()

	text := "class C {\n  @A\n  a: string;\n  @B\n  b: string;\n}\n"
	h := newHarness(t, "c.ts", text,
		at("c.ts", text, "@A", 0, fixes.CodeDecoratorNotCalled),
		at("c.ts", text, "@B", 0, fixes.CodeDecoratorNotCalled),
	)

	got := h.apply(h.fixAll(fixes.GroupCallDecorator).Files)
	assert.Equal(t, "class C {\n  @A()\n  a: string;\n  @B()\n  b: string;\n}\n", got)
}

func TestExtendsToImplements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "later clauses become commas",
			text: "class C extends I, J implements K {}\n",
			want: "class C implements I, J , K {}\n",
		},
		{
			name: "type parameters are skipped",
			text: "class C<T extends X> extends I {}\n",
			want: "class C<T extends X> implements I {}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := coded(wordDiag("c.ts", tt.text, "I"), fixes.CodeExtendsInterface)
			h := newHarness(t, "c.ts", tt.text, d)
			got := h.fixes(d)

			require.Len(t, got, 1)
			assert.Equal(t, tt.want, h.apply(got[0].Changes))
		})
	}
}

func TestExtendsToImplementsFixAllOncePerClass(t *testing.T) {
	t.Parallel()

	text := "class C extends I, J {}\n"
	h := newHarness(t, "c.ts", text,
		coded(wordDiag("c.ts", text, "I"), fixes.CodeExtendsInterface),
		coded(wordDiag("c.ts", text, "J"), fixes.CodeExtendsInterface),
	)

	assert.Equal(t, "class C implements I, J {}\n", h.apply(h.fixAll(fixes.GroupExtendsToImplements).Files))
}

const derivedClass = `class B extends A {
  constructor() {
    this.x = 1;
    this.y = 2;
    super();
  }
}
`

const derivedClassFixed = `class B extends A {
  constructor() {
    super();
    this.x = 1;
    this.y = 2;
  }
}
`

func TestSuperFirst(t *testing.T) {
	t.Parallel()

	d := at("b.ts", derivedClass, "this", 1, fixes.CodeSuperBeforeThis)
	h := newHarness(t, "b.ts", derivedClass, d)
	got := h.fixes(d)

	require.Len(t, got, 1)
	assert.Equal(t, "Make 'super()' call the first statement in the constructor", got[0].Description)
	assert.Equal(t, derivedClassFixed, h.apply(got[0].Changes))
}

func TestSuperFirstFixAllOncePerConstructor(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "b.ts", derivedClass,
		at("b.ts", derivedClass, "this", 0, fixes.CodeSuperBeforeThis),
		at("b.ts", derivedClass, "this", 1, fixes.CodeSuperBeforeThis),
	)

	assert.Equal(t, derivedClassFixed, h.apply(h.fixAll(fixes.GroupSuperFirst).Files))
}

func TestSuperFirstSkipsThisInSuperArguments(t *testing.T) {
	t.Parallel()

	text := "class B extends A {\n  constructor() {\n    super(this.x);\n  }\n}\n"
	d := at("b.ts", text, "this", 0, fixes.CodeSuperBeforeThis)

	assert.Empty(t, newHarness(t, "b.ts", text, d).fixes(d))
}

func TestIndexedAccess(t *testing.T) {
	t.Parallel()

	text := "let v: Foo.bar;\n"
	for _, needle := range []string{"Foo.bar", "bar"} {
		d := at("q.ts", text, needle, 0, fixes.CodeTypeNotNamespace)
		h := newHarness(t, "q.ts", text, d)
		got := h.fixes(d)

		require.Len(t, got, 1, needle)
		assert.Equal(t, `Rewrite as the indexed access type 'Foo["bar"]'`, got[0].Description)
		assert.Equal(t, "let v: Foo[\"bar\"];\n", h.apply(got[0].Changes))
	}
}
