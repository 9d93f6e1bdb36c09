package codefix

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/yaklabco/codefix/pkg/diag"
)

// Registry maps diagnostic codes to strategies and fix groups to their
// owners.
//
// A registry has two phases. Strategies are registered first, typically
// from init functions. The first request (or an explicit Freeze) switches
// it to serving, after which it is read-only and Register panics.
type Registry struct {
	mu         sync.RWMutex
	strategies []Strategy
	byCode     map[diag.Code][]Strategy
	owners     map[GroupID]BatchStrategy
	serving    atomic.Bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byCode: make(map[diag.Code][]Strategy),
		owners: make(map[GroupID]BatchStrategy),
	}
}

// Register adds s for each of its codes, after any strategies already
// registered for them. If s is a BatchStrategy it claims its groups.
//
// Register panics with a *FaultError when the registry is serving or when
// a group is already claimed. A failed registration leaves the registry
// unchanged.
func (r *Registry) Register(s Strategy) {
	if s == nil {
		faultf("register", "nil strategy")
	}
	if r.serving.Load() {
		faultf("register", "strategy %q registered after the registry started serving", s.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var groups []GroupID
	if bs, ok := s.(BatchStrategy); ok {
		groups = bs.GroupIDs()
		for i, id := range groups {
			if owner, taken := r.owners[id]; taken {
				faultf("register", "group %q of %q already owned by %q", id, s.Name(), owner.Name())
			}
			if slices.Contains(groups[:i], id) {
				faultf("register", "group %q listed twice by %q", id, s.Name())
			}
		}
		for _, id := range groups {
			r.owners[id] = bs
		}
	}

	r.strategies = append(r.strategies, s)
	for _, code := range s.Codes() {
		if !slices.Contains(r.byCode[code], s) {
			r.byCode[code] = append(r.byCode[code], s)
		}
	}
}

// Freeze switches the registry to serving. It is idempotent.
func (r *Registry) Freeze() {
	r.serving.Store(true)
}

// Serving reports whether the registry has been frozen.
func (r *Registry) Serving() bool {
	return r.serving.Load()
}

// SupportedCodes returns every code with at least one strategy, ascending.
func (r *Registry) SupportedCodes() []diag.Code {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]diag.Code, 0, len(r.byCode))
	for code, list := range r.byCode {
		if len(list) > 0 {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	return codes
}

// StrategiesFor returns the strategies registered for code, in
// registration order.
func (r *Registry) StrategiesFor(code diag.Code) []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.byCode[code])
}

// Strategies returns all strategies in registration order.
func (r *Registry) Strategies() []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.strategies)
}

// Strategy looks a strategy up by name.
func (r *Registry) Strategy(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.strategies {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// GroupIDs returns all claimed groups in sorted order.
func (r *Registry) GroupIDs() []GroupID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]GroupID, 0, len(r.owners))
	for id := range r.owners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// GroupOwner returns the strategy that owns id.
func (r *Registry) GroupOwner(id GroupID) (BatchStrategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[id]
	return owner, ok
}

// SupportsGroup reports whether s owns id.
func (r *Registry) SupportsGroup(s Strategy, id GroupID) bool {
	owner, ok := r.GroupOwner(id)
	return ok && Strategy(owner) == s
}

// DefaultRegistry is the global registry for built-in strategies.
// Strategies register themselves during init().
//
//nolint:gochecknoglobals // Global registry is intentional for strategy registration
var DefaultRegistry = NewRegistry()
