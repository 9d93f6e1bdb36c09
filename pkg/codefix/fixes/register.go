// Package fixes holds the built-in fix strategies. Importing it registers
// them with codefix.DefaultRegistry.
package fixes

import "github.com/yaklabco/codefix/pkg/codefix"

// All returns a new instance of every built-in strategy, in registration
// order.
func All() []codefix.Strategy {
	return []codefix.Strategy{
		NewUnusedIdentifier(),
		NewDisableChecks(),
		NewInstallTypes(),
		NewCallDecorator(),
		NewExtendsToImplements(),
		NewSuperFirst(),
		NewIndexedAccess(),
		NewJSDocTypes(),
	}
}

// RegisterAll registers strategies with reg, or All when none are given.
func RegisterAll(reg *codefix.Registry, strategies ...codefix.Strategy) {
	if len(strategies) == 0 {
		strategies = All()
	}
	for _, s := range strategies {
		reg.Register(s)
	}
}

//nolint:gochecknoinits
func init() {
	RegisterAll(codefix.DefaultRegistry)
}
