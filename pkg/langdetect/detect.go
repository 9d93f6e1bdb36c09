// Package langdetect identifies the language of a source file so that fix
// strategies can emit comments in the right syntax.
package langdetect

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names returned by Detect.
const (
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
	LangJavaScript = "javascript"
	LangVue        = "vue"
	LangSvelte     = "svelte"
	LangPython     = "python"
	LangShell      = "shell"
	LangGo         = "go"
	LangText       = "text"
)

// Detect returns the language of the file at path with the given content.
// go-enry weighs the file name, extension, shebang and content heuristics;
// ambiguous extensions such as ".ts" are settled by content. Returns
// "text" when nothing matches.
func Detect(path string, content []byte) string {
	if lang := enry.GetLanguage(filepath.Base(path), content); lang != "" {
		return normalize(lang)
	}
	return LangText
}

// ForFile is Detect for a file's text.
func ForFile(path, text string) string {
	return Detect(path, []byte(text))
}

// normalize converts go-enry language names to the constants above.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return LangShell
	case "JavaScript", "JSX":
		return LangJavaScript
	default:
		return strings.ToLower(lang)
	}
}

// Comment describes how to write a line comment in a language.
type Comment struct {
	// Line starts a comment that runs to the end of the line. Empty when
	// the language has no line comments.
	Line string

	// BlockStart and BlockEnd delimit a block comment.
	BlockStart string
	BlockEnd   string
}

// CommentSyntax returns the comment syntax of lang. Unknown languages get
// C-style comments.
func CommentSyntax(lang string) Comment {
	switch lang {
	case LangPython, LangShell:
		return Comment{Line: "#"}
	case "html", "xml":
		return Comment{BlockStart: "<!--", BlockEnd: "-->"}
	case "css":
		return Comment{BlockStart: "/*", BlockEnd: "*/"}
	default:
		return Comment{Line: "//", BlockStart: "/*", BlockEnd: "*/"}
	}
}

// Wrap renders text as a comment, preferring a line comment.
func (c Comment) Wrap(text string) string {
	if c.Line != "" {
		return c.Line + " " + text
	}
	return c.BlockStart + " " + text + " " + c.BlockEnd
}
