package fixes

import (
	"strings"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/source"
)

// CodeMissingTypes is "Could not find a declaration file for module".
const CodeMissingTypes diag.Code = 7016

// GroupInstallTypes is the fix group of InstallTypes.
const GroupInstallTypes codefix.GroupID = "fixCannotFindModule"

// CommandInstallPackage is the command type InstallTypes emits. Its
// "packageName" argument names the package to install.
const CommandInstallPackage = "install package"

// InstallTypes suggests installing the types package for an untyped
// module. Its fix carries only a command; the host decides whether and how
// to run it.
type InstallTypes struct {
	codefix.BaseStrategy
}

// NewInstallTypes creates the strategy.
func NewInstallTypes() *InstallTypes {
	return &InstallTypes{
		BaseStrategy: codefix.NewBaseStrategy("fixCannotFindModule", []diag.Code{CodeMissingTypes}, GroupInstallTypes),
	}
}

// Fixes implements codefix.Strategy.
func (s *InstallTypes) Fixes(fc *codefix.FixContext) []*codefix.Fix {
	resolver, ok := fc.Resolver()
	if !ok {
		return nil
	}
	module, ok := moduleSpecifier(fc.File, fc.Span)
	if !ok {
		return nil
	}
	pkg := PackageName(module)
	if !resolver.IsKnownTypesPackage(pkg) {
		return nil
	}

	types := TypesPackageName(pkg)
	return []*codefix.Fix{{
		Description: "Install '" + types + "'",
		GroupID:     GroupInstallTypes,
		Commands: []codefix.Command{{
			Type: CommandInstallPackage,
			File: fc.File.Path,
			Args: map[string]string{"packageName": types},
		}},
	}}
}

// FixOccurrence implements codefix.BatchStrategy.
func (s *InstallTypes) FixOccurrence(occ *codefix.Occurrence) bool {
	return codefix.FixAllSimple(s, occ)
}

// moduleSpecifier returns the unquoted string literal at span.
func moduleSpecifier(f *source.File, span fix.Span) (string, bool) {
	start := span.Start
	if start < 0 || start >= f.Len() || !isQuote(f.Text[start]) {
		return "", false
	}
	end := skipQuoted(f.Text, start)
	if end <= start+1 || f.Text[end] != f.Text[start] {
		return "", false
	}
	return f.Text[start+1 : end], true
}

// PackageName returns the package part of a module path: "lodash" for
// "lodash/fp" and "@babel/core" for "@babel/core/lib/x".
func PackageName(module string) string {
	parts := strings.Split(module, "/")
	if strings.HasPrefix(module, "@") && len(parts) > 1 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// TypesPackageName returns the DefinitelyTyped package for pkg:
// "@types/lodash", or "@types/babel__core" for "@babel/core".
func TypesPackageName(pkg string) string {
	if scope, name, ok := strings.Cut(strings.TrimPrefix(pkg, "@"), "/"); ok && strings.HasPrefix(pkg, "@") {
		return "@types/" + scope + "__" + name
	}
	return "@types/" + pkg
}
