package container

import (
	"reflect"
	"sync"
)

// Producer is something the container can build an instance from: a *Class
// or a *Factory. Every producer is also an Identifier, so an unbound producer
// can be resolved directly.
type Producer interface {
	Identifier
	producer()
}

// ── Class ─────────────────────────────────────────────────────────────────────

// Constructor builds an instance from its positional arguments: resolved
// constructor-slot dependencies in declaration order, followed by the extra
// arguments passed to Resolve.
type Constructor func(args ...any) (any, error)

// Class is a constructible producer with an attached descriptor.
//
//	var UserService = container.NewClass("UserService",
//	    func(args ...any) (any, error) {
//	        return &UserService{repo: args[0].(UserRepository)}, nil
//	    },
//	    container.Inject(container.TypeOf[UserRepository]()),
//	    container.WithLifecycle(container.Transient),
//	)
//
// A Class is immutable once created; its merged descriptor is computed on
// first use and reused afterwards.
type Class struct {
	name string
	ctor Constructor
	base *Class
	own  Descriptor

	once   sync.Once
	merged Descriptor
}

// ClassOption declares part of a class's descriptor.
type ClassOption func(*Class)

// NewClass creates a class. ctor may be nil when the class Extends a base
// whose constructor it reuses.
func NewClass(name string, ctor Constructor, opts ...ClassOption) *Class {
	c := &Class{name: name, ctor: ctor}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Define creates a class named after T from a typed constructor.
//
//	var Clock = container.Define(func(args ...any) (*SystemClock, error) {
//	    return &SystemClock{}, nil
//	})
func Define[T any](ctor func(args ...any) (T, error), opts ...ClassOption) *Class {
	name := typeName(reflect.TypeOf((*T)(nil)).Elem())
	return NewClass(name, func(args ...any) (any, error) {
		return ctor(args...)
	}, opts...)
}

func (c *Class) ServiceName() string { return c.name }
func (c *Class) producer()           {}

// Base returns the class this one extends, or nil.
func (c *Class) Base() *Class { return c.base }

func (c *Class) descriptor() Descriptor {
	c.once.Do(func() {
		c.merged = mergeChain(c)
	})
	return c.merged
}

// constructor returns the nearest constructor along the Extends chain.
func (c *Class) constructor() Constructor {
	for level := c; level != nil; level = level.base {
		if level.ctor != nil {
			return level.ctor
		}
	}
	return nil
}

// Extends makes base the parent level of the class: its injections and
// policies are inherited unless the class declares its own.
func Extends(base *Class) ClassOption {
	return func(c *Class) { c.base = base }
}

// WithLifecycle declares the lifecycle at this level.
func WithLifecycle(l Lifecycle) ClassOption {
	return func(c *Class) { c.own.Lifecycle = l }
}

// WithHook declares which post-construction hook instances implement.
func WithHook(h Hook) ClassOption {
	return func(c *Class) { c.own.Hook = h }
}

// Inject appends one constructor argument per target.
func Inject(targets ...Identifier) ClassOption {
	return func(c *Class) {
		for _, t := range targets {
			c.own.Injections = append(c.own.Injections, InjectionSpec{Target: t})
		}
	}
}

// InjectAll appends a constructor argument receiving every producer bound to
// target as a []any.
func InjectAll(target Identifier) ClassOption {
	return func(c *Class) {
		c.own.Injections = append(c.own.Injections, InjectionSpec{Target: target, Cardinality: All})
	}
}

// InjectProperty assigns target's instance to the named property after
// construction.
func InjectProperty(key string, target Identifier) ClassOption {
	return func(c *Class) {
		c.own.Injections = append(c.own.Injections, InjectionSpec{Target: target, Slot: Property(key)})
	}
}

// InjectAllProperty assigns every instance bound to target, as a []any, to
// the named property.
func InjectAllProperty(key string, target Identifier) ClassOption {
	return func(c *Class) {
		c.own.Injections = append(c.own.Injections, InjectionSpec{Target: target, Cardinality: All, Slot: Property(key)})
	}
}

// WithDescriptor attaches a descriptor built elsewhere. Its injections are
// appended to those already declared; a set lifecycle or hook overrides.
func WithDescriptor(d Descriptor) ClassOption {
	return func(c *Class) {
		c.own.Injections = append(c.own.Injections, d.Injections...)
		if d.Lifecycle != lifecycleUnset {
			c.own.Lifecycle = d.Lifecycle
		}
		if d.Hook != hookUnset {
			c.own.Hook = d.Hook
		}
	}
}

// ── Factory ───────────────────────────────────────────────────────────────────

// FactoryFunc builds an instance from the resolving container and the extra
// arguments passed to Resolve.
type FactoryFunc func(c *Container, args ...any) (any, error)

// Factory is a producer backed by a function. Factories carry no descriptor:
// they have no injections and the default Singleton lifecycle. They pull what
// they need from the container they receive.
type Factory struct {
	name string
	fn   FactoryFunc
}

// NewFactory creates a factory producer cached under name.
func NewFactory(name string, fn FactoryFunc) *Factory {
	return &Factory{name: name, fn: fn}
}

func (f *Factory) ServiceName() string { return f.name }
func (f *Factory) producer()           {}
