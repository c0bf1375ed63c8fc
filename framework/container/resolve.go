package container

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ── Options ───────────────────────────────────────────────────────────────────

type resolveOptions struct {
	args   []any
	strict bool
	ctx    context.Context

	// path holds the producers under construction in this call chain.
	path []Producer
}

// ResolveOption configures a single Resolve call.
type ResolveOption func(*resolveOptions)

// WithArgs appends extra arguments after the injected constructor arguments
// (classes) or passes them to the factory. They are given to the requested
// producer only, never to its dependencies.
func WithArgs(args ...any) ResolveOption {
	return func(o *resolveOptions) { o.args = append(o.args, args...) }
}

// Strict fails with a *NotRegisteredError instead of self-resolving an
// identifier that has no binding.
func Strict() ResolveOption {
	return func(o *resolveOptions) { o.strict = true }
}

// WithContext sets the context handed to AsyncInitializer hooks. It does not
// cancel the resolution.
func WithContext(ctx context.Context) ResolveOption {
	return func(o *resolveOptions) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

func (c *Container) options(opts []ResolveOption) *resolveOptions {
	o := &resolveOptions{strict: c.strict, ctx: context.Background(), path: c.inflight()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// dependencyOptions are used for the injected dependencies of p: same
// context, container default strictness, no extra arguments.
func (c *Container) dependencyOptions(o *resolveOptions, p Producer) *resolveOptions {
	return &resolveOptions{strict: c.strict, ctx: o.ctx, path: extend(o.path, p)}
}

// extend returns a copy of path with p appended.
func extend(path []Producer, p Producer) []Producer {
	out := make([]Producer, len(path), len(path)+1)
	copy(out, path)
	return append(out, p)
}

func cycleError(path []Producer, p Producer) error {
	names := make([]string, 0, len(path)+1)
	for _, step := range path {
		names = append(names, step.ServiceName())
	}
	names = append(names, p.ServiceName())
	return &ConstructionError{Service: p.ServiceName(), Reason: "circular dependency: " + strings.Join(names, " -> ")}
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve returns the instance for id, building it and its dependencies as
// needed. The call blocks until every asynchronous hook on the path has
// completed.
//
//	svc, err := c.Resolve(UserServiceClass)
//	repo, err := c.Resolve(container.TypeOf[UserRepository](), container.Strict())
//
// When several producers are bound to id the first one wins.
func (c *Container) Resolve(id Identifier, opts ...ResolveOption) (any, error) {
	if isNil(id) {
		return nil, &ArgumentError{Argument: "identifier"}
	}
	return c.resolve(id, c.options(opts))
}

// ResolveAll returns one instance per producer bound to id, in registration
// order.
//
//	handlers, err := c.ResolveAll(container.TypeOf[EventHandler]())
func (c *Container) ResolveAll(id Identifier, opts ...ResolveOption) ([]any, error) {
	if isNil(id) {
		return nil, &ArgumentError{Argument: "identifier"}
	}
	return c.resolveAll(id, c.options(opts))
}

// ResolveAsync runs Resolve on its own goroutine and returns immediately.
func (c *Container) ResolveAsync(id Identifier, opts ...ResolveOption) *Deferred {
	d := newDeferred()
	go func() {
		d.settle(c.Resolve(id, opts...))
	}()
	return d
}

// ResolveAllAsync runs ResolveAll on its own goroutine. The deferred value is
// a []any.
func (c *Container) ResolveAllAsync(id Identifier, opts ...ResolveOption) *Deferred {
	d := newDeferred()
	go func() {
		list, err := c.ResolveAll(id, opts...)
		if err != nil {
			d.settle(nil, err)
			return
		}
		d.settle(list, nil)
	}()
	return d
}

func (c *Container) resolve(id Identifier, o *resolveOptions) (any, error) {
	producers, err := c.producersFor(id, o.strict)
	if err != nil {
		return nil, err
	}
	return c.build(producers[0], o)
}

func (c *Container) resolveAll(id Identifier, o *resolveOptions) ([]any, error) {
	producers, err := c.producersFor(id, o.strict)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(producers))
	for _, p := range producers {
		instance, err := c.build(p, o)
		if err != nil {
			return nil, err
		}
		out = append(out, instance)
	}
	return out, nil
}

// binding returns the producers bound to id in the nearest container, this
// one first, that has a binding for it.
func (c *Container) binding(id Identifier) ([]Producer, bool) {
	for cur := c.self; cur != nil; cur = cur.parent {
		if producers, ok := cur.registry.producers(id); ok {
			return producers, true
		}
	}
	return nil, false
}

func (c *Container) producersFor(id Identifier, strict bool) ([]Producer, error) {
	if producers, ok := c.binding(id); ok {
		return producers, nil
	}
	if !strict {
		if p, ok := id.(Producer); ok {
			return []Producer{p}, nil
		}
	}
	return nil, &NotRegisteredError{Service: id.ServiceName()}
}

// build applies p's lifecycle policy.
func (c *Container) build(p Producer, o *resolveOptions) (any, error) {
	for _, seen := range o.path {
		if seen == p {
			return nil, cycleError(o.path, p)
		}
	}

	desc := Extract(p)
	if !desc.Lifecycle.cached() {
		return c.construct(p, desc, o)
	}

	if e, ok := c.findShared(p, desc.Lifecycle); ok {
		c.log.Debug("cache hit", zap.String("service", p.ServiceName()), zap.Stringer("lifecycle", desc.Lifecycle))
		return e.wait()
	}

	// Reserve the slot before building so concurrent resolutions of the same
	// service wait for this one instead of constructing their own.
	e, owner := c.cache.reserve(p)
	if !owner {
		return e.wait()
	}

	instance, err := c.construct(p, desc, o)
	if err != nil {
		c.cache.fail(p, e, err)
		return nil, err
	}
	c.cache.complete(e, instance)
	return instance, nil
}

// findShared looks for a cached or in-flight instance. PerScope only looks
// at this container; Singleton walks up through the ancestors.
func (c *Container) findShared(p Producer, l Lifecycle) (*entry, bool) {
	for cur := c.self; cur != nil; cur = cur.parent {
		if e, ok := cur.cache.lookup(p); ok {
			return e, true
		}
		if l == PerScope {
			break
		}
	}
	return nil, false
}

// construct resolves p's dependencies, builds the instance, injects its
// properties and runs its hook.
func (c *Container) construct(p Producer, desc Descriptor, o *resolveOptions) (any, error) {
	name := p.ServiceName()

	deps := make([]any, len(desc.Injections))
	depOpts := c.dependencyOptions(o, p)
	for i, spec := range desc.Injections {
		var (
			dep any
			err error
		)
		if spec.Cardinality == All {
			dep, err = c.resolveAll(spec.Target, depOpts)
		} else {
			dep, err = c.resolve(spec.Target, depOpts)
		}
		if err != nil {
			return nil, err
		}
		deps[i] = dep
	}

	var (
		instance any
		err      error
	)
	switch prod := p.(type) {
	case *Factory:
		// The factory resolves through a view that remembers this chain, so
		// a cycle back to p is reported instead of waiting on p's own slot.
		view := c.view(depOpts.path)
		instance, err = prod.fn(view, o.args...)
		view.frame.done.Store(true)
	case *Class:
		ctor := prod.constructor()
		if ctor == nil {
			return nil, &ConstructionError{Service: name, Reason: "no constructor in class chain"}
		}
		args := append(desc.ctorArgs(deps), o.args...)
		instance, err = ctor(args...)
	default:
		return nil, &ConstructionError{Service: name, Reason: fmt.Sprintf("unsupported producer %T", p)}
	}
	if err != nil {
		return nil, err
	}
	if isNil(instance) {
		return nil, &ConstructionError{Service: name, Reason: "producer returned nil"}
	}

	for i, spec := range desc.Injections {
		if !spec.Slot.IsProperty() {
			continue
		}
		if err := assignProperty(name, instance, spec.Slot.Key(), deps[i]); err != nil {
			return nil, err
		}
	}

	if err := runHook(o.ctx, name, desc.Hook, instance); err != nil {
		return nil, err
	}

	c.log.Debug("constructed",
		zap.String("service", name),
		zap.Stringer("lifecycle", desc.Lifecycle),
		zap.Int("dependencies", len(deps)),
	)
	c.fireAfterResolving(name, instance)
	return instance, nil
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve calls c.Resolve and type-asserts the result.
//
//	// Instead of: v, err := c.Resolve(UserServiceClass); svc := v.(*UserService)
//	// Write:      svc, err := container.Resolve[*UserService](c, UserServiceClass)
func Resolve[T any](c *Container, id Identifier, opts ...ResolveOption) (T, error) {
	var zero T
	instance, err := c.Resolve(id, opts...)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%T]: [%s] resolved to %T", zero, id.ServiceName(), instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, id Identifier, opts ...ResolveOption) T {
	typed, err := Resolve[T](c, id, opts...)
	if err != nil {
		panic(err)
	}
	return typed
}

// ResolveAll calls c.ResolveAll and type-asserts every element.
func ResolveAll[T any](c *Container, id Identifier, opts ...ResolveOption) ([]T, error) {
	list, err := c.ResolveAll(id, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(list))
	for _, instance := range list {
		typed, ok := instance.(T)
		if !ok {
			var zero T
			return nil, fmt.Errorf("container: ResolveAll[%T]: [%s] contains %T", zero, id.ServiceName(), instance)
		}
		out = append(out, typed)
	}
	return out, nil
}
