package codefix_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/diag"
)

func faultOf(t *testing.T, fn func()) *codefix.FaultError {
	t.Helper()

	var got *codefix.FaultError
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected a panic")
			err, ok := r.(error)
			require.True(t, ok, "panic value %v is not an error", r)
			require.True(t, errors.As(err, &got), "panic value %v is not a fault", r)
		}()
		fn()
	}()
	return got
}

func TestRegistryRegisterOrder(t *testing.T) {
	t.Parallel()

	reg := codefix.NewRegistry()
	first := newStub("first", []diag.Code{6133, 6138}, "first_group")
	second := &plainStrategy{BaseStrategy: codefix.NewBaseStrategy("second", []diag.Code{6133})}
	reg.Register(first)
	reg.Register(second)

	assert.Equal(t, []codefix.Strategy{first, second}, reg.StrategiesFor(6133))
	assert.Equal(t, []codefix.Strategy{first}, reg.StrategiesFor(6138))
	assert.Empty(t, reg.StrategiesFor(1))
	assert.Equal(t, []diag.Code{6133, 6138}, reg.SupportedCodes())
	assert.Equal(t, []codefix.Strategy{first, second}, reg.Strategies())

	s, ok := reg.Strategy("second")
	require.True(t, ok)
	assert.Same(t, second, s)
	_, ok = reg.Strategy("missing")
	assert.False(t, ok)
}

func TestRegistryGroups(t *testing.T) {
	t.Parallel()

	reg := codefix.NewRegistry()
	a := newStub("a", []diag.Code{1}, "z_group", "a_group")
	b := newStub("b", []diag.Code{2}, "m_group")
	reg.Register(a)
	reg.Register(b)

	assert.Equal(t, []codefix.GroupID{"a_group", "m_group", "z_group"}, reg.GroupIDs())

	owner, ok := reg.GroupOwner("m_group")
	require.True(t, ok)
	assert.Same(t, b, owner)

	_, ok = reg.GroupOwner("nope")
	assert.False(t, ok)

	assert.True(t, reg.SupportsGroup(a, "z_group"))
	assert.False(t, reg.SupportsGroup(b, "z_group"))
}

func TestRegistryDuplicateGroupIsFatal(t *testing.T) {
	t.Parallel()

	reg := codefix.NewRegistry()
	reg.Register(newStub("owner", []diag.Code{1}, "shared"))

	f := faultOf(t, func() {
		reg.Register(newStub("intruder", []diag.Code{2}, "fresh", "shared"))
	})
	assert.Equal(t, "register", f.Op)
	assert.Contains(t, f.Error(), `group "shared"`)

	// The failed registration left nothing behind.
	assert.Equal(t, []diag.Code{1}, reg.SupportedCodes())
	_, ok := reg.GroupOwner("fresh")
	assert.False(t, ok)
}

func TestRegistryGroupListedTwiceIsFatal(t *testing.T) {
	t.Parallel()

	reg := codefix.NewRegistry()
	faultOf(t, func() {
		reg.Register(newStub("twice", []diag.Code{1}, "g", "g"))
	})
}

func TestRegistryRegisterAfterServingIsFatal(t *testing.T) {
	t.Parallel()

	t.Run("explicit freeze", func(t *testing.T) {
		t.Parallel()

		reg := codefix.NewRegistry()
		assert.False(t, reg.Serving())
		reg.Freeze()
		reg.Freeze()
		assert.True(t, reg.Serving())

		faultOf(t, func() { reg.Register(newStub("late", []diag.Code{1})) })
	})

	t.Run("first request freezes", func(t *testing.T) {
		t.Parallel()

		reg := codefix.NewRegistry()
		reg.Register(newStub("early", []diag.Code{1}))
		eng := codefix.NewEngine(reg)

		_ = eng.GetFixes(fixContext(nil, nil, 99, fixSpan(0, 0)))
		faultOf(t, func() { reg.Register(newStub("late", []diag.Code{2})) })
	})
}

func TestRegistryNilStrategyIsFatal(t *testing.T) {
	t.Parallel()

	faultOf(t, func() { codefix.NewRegistry().Register(nil) })
}
