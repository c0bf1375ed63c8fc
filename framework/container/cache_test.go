package container

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceCache_ReserveOnce(t *testing.T) {
	ic := newInstanceCache()
	svc := NewClass("svc", noop)

	e, owner := ic.reserve(svc)
	require.True(t, owner)

	again, owner := ic.reserve(svc)
	assert.False(t, owner)
	assert.Same(t, e, again)

	_, ok := ic.get(svc)
	assert.False(t, ok, "pending entries are not visible to get")

	ic.complete(e, 42)
	v, ok := ic.get(svc)
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestInstanceCache_FailRemovesEntry(t *testing.T) {
	ic := newInstanceCache()
	boom := errors.New("boom")
	svc := NewClass("svc", noop)

	e, _ := ic.reserve(svc)
	ic.fail(svc, e, boom)

	_, err := e.wait()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, ic.len())
}

func TestInstanceCache_ResetDetachesPending(t *testing.T) {
	ic := newInstanceCache()
	svc := NewClass("svc", noop)

	e, _ := ic.reserve(svc)
	ic.reset()
	ic.complete(e, "late")

	_, ok := ic.get(svc)
	assert.False(t, ok)
}

func TestInstanceCache_SameNameSeparateSlots(t *testing.T) {
	ic := newInstanceCache()
	first := NewClass("Greeter", noop)
	second := NewClass("Greeter", noop)

	ic.store(first, "hello")
	ic.store(second, "bonjour")

	v, ok := ic.get(first)
	require.True(t, ok)
	assert.Equal(t, "hello", v)
	v, ok = ic.get(second)
	require.True(t, ok)
	assert.Equal(t, "bonjour", v)
	assert.Equal(t, 2, ic.len())
}

func TestRegistry_AddDedupesAndRemoves(t *testing.T) {
	r := newRegistry()
	a := NewClass("a", noop)
	b := NewClass("b", noop)

	r.add(Name("x"), a)
	r.add(Name("x"), b)
	r.add(Name("x"), a)

	list, ok := r.producers(Name("x"))
	require.True(t, ok)
	assert.Equal(t, []Producer{a, b}, list)

	r.remove(Name("x"), a)
	list, _ = r.producers(Name("x"))
	assert.Equal(t, []Producer{b}, list)

	r.remove(Name("x"), b)
	assert.False(t, r.has(Name("x")))
}
