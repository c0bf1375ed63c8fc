package container

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is a resolution scope. It owns a registry of bindings and a cache
// of Singleton and PerScope instances, and may have a parent it falls back to
// for bindings and Singleton instances.
//
// The parent pointer is lookup-only: a container never writes to its
// parent's registry or cache, and a parent holds no reference to its
// children. Whoever calls Child owns the child.
type Container struct {
	*state

	// frame is set on the views handed to factories; nil otherwise.
	frame *frame
}

// state is shared by a container and every view of it.
type state struct {
	self     *Container
	parent   *Container
	depth    int
	registry *registry
	cache    *instanceCache

	base   *zap.Logger
	log    *zap.Logger
	strict bool

	mu             sync.RWMutex
	afterResolving []func(string, any)
}

// frame carries the producers under construction into resolutions a factory
// makes through the container it received. It expires when the factory
// returns, so a retained view resolves like the container itself.
type frame struct {
	path []Producer
	done atomic.Bool
}

// view returns c seen from inside the construction of path's last producer.
func (c *Container) view(path []Producer) *Container {
	return &Container{state: c.state, frame: &frame{path: path}}
}

// inflight returns the path of an active view, or nil.
func (c *Container) inflight() []Producer {
	if c.frame == nil || c.frame.done.Load() {
		return nil
	}
	return c.frame.path
}

// Option configures a container created with New.
type Option func(*Container)

// WithLogger sets the logger. Children inherit it. The default discards
// everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.base = l
		}
	}
}

// WithStrict makes every Resolve on the container (and its children) behave
// as if Strict() was passed: identifiers without a binding are not
// self-resolved.
func WithStrict(strict bool) Option {
	return func(c *Container) { c.strict = strict }
}

// New creates an empty root container.
func New(opts ...Option) *Container {
	c := &Container{state: &state{
		registry: newRegistry(),
		cache:    newInstanceCache(),
		base:     zap.NewNop(),
	}}
	c.self = c
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.base.With(zap.Int("depth", c.depth))
	return c
}

// Child creates an empty container whose parent is c.
//
// The child sees c's bindings and c's Singleton instances but registers and
// caches into its own registry and cache. PerScope services get a fresh
// instance in every child.
func (c *Container) Child() *Container {
	child := &Container{state: &state{
		parent:   c.self,
		depth:    c.depth + 1,
		registry: newRegistry(),
		cache:    newInstanceCache(),
		base:     c.base,
		strict:   c.strict,
	}}
	child.self = child
	child.log = child.base.With(zap.Int("depth", child.depth))
	child.log.Debug("child container created")
	return child
}

// Parent returns the parent container, or nil for a root.
func (c *Container) Parent() *Container { return c.parent }

// Clear empties this container's registry and cache. Parents and children
// already created are not touched; a child that found a Singleton through
// this container will build its own on the next resolution.
func (c *Container) Clear() {
	c.registry.reset()
	c.cache.reset()
	c.log.Debug("container cleared")
}

// ── Registration ──────────────────────────────────────────────────────────────

// Binder attaches a registered producer to identifiers.
type Binder struct {
	c *Container
	p Producer
}

// Register starts a binding for p.
//
//	c.Register(PostgresRepo).As(container.TypeOf[UserRepository]())
//	c.Register(Clock).AsSelf()
//
// Registration is optional for classes resolved by their own identity.
func (c *Container) Register(p Producer) *Binder {
	return &Binder{c: c, p: p}
}

// As appends the producer to the binding of every id, in order.
func (b *Binder) As(ids ...Identifier) error {
	if isNil(b.p) {
		return &ArgumentError{Argument: "producer"}
	}
	if len(ids) == 0 {
		return &ArgumentError{Argument: "identifier"}
	}
	for _, id := range ids {
		if isNil(id) {
			return &ArgumentError{Argument: "identifier"}
		}
	}
	for _, id := range ids {
		b.c.bind(id, b.p)
	}
	return nil
}

func (c *Container) bind(id Identifier, p Producer) {
	c.registry.add(id, p)
	c.log.Debug("registered",
		zap.String("service", id.ServiceName()),
		zap.String("producer", p.ServiceName()),
	)
}

// AsSelf binds the producer under its own identity.
func (b *Binder) AsSelf() error {
	if isNil(b.p) {
		return &ArgumentError{Argument: "producer"}
	}
	return b.As(b.p)
}

// Singleton registers a factory under Name(name) and returns it. The binding
// cannot fail: the producer and the identifier are never nil.
//
//	c.Singleton("cache", func(c *container.Container, _ ...any) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](c, container.Name("config"))
//	    if err != nil {
//	        return nil, err
//	    }
//	    return cache.NewRedis(cfg), nil
//	})
func (c *Container) Singleton(name string, fn FactoryFunc) *Factory {
	f := NewFactory(name, fn)
	c.bind(Name(name), f)
	return f
}

// Instance registers a pre-built value as the Singleton instance of id in
// this container, replacing any earlier binding of id.
//
//	c.Instance(container.Name("config"), cfg)
func (c *Container) Instance(id Identifier, value any) error {
	if isNil(id) {
		return &ArgumentError{Argument: "identifier"}
	}
	f := NewFactory(id.ServiceName(), func(*Container, ...any) (any, error) { return value, nil })
	c.registry.set(id, f)
	c.cache.store(f, value)
	c.log.Debug("instance registered", zap.String("service", id.ServiceName()))
	return nil
}

// ── Probes ────────────────────────────────────────────────────────────────────

// Get returns the cached instance for id without constructing anything. It
// looks for the instances of the producers bound to id, then of id itself
// when id is a producer. With parent set, ancestors are searched too.
func (c *Container) Get(id Identifier, parent bool) (any, bool) {
	if isNil(id) {
		return nil, false
	}
	for _, p := range c.cacheKeys(id) {
		for cur := c.self; cur != nil; cur = cur.parent {
			if v, ok := cur.cache.get(p); ok {
				return v, true
			}
			if !parent {
				break
			}
		}
	}
	return nil, false
}

// Has reports whether an instance for id is cached.
func (c *Container) Has(id Identifier, parent bool) bool {
	_, ok := c.Get(id, parent)
	return ok
}

// IsRegistered reports whether id has a binding.
func (c *Container) IsRegistered(id Identifier, parent bool) bool {
	if isNil(id) {
		return false
	}
	for cur := c.self; cur != nil; cur = cur.parent {
		if cur.registry.has(id) {
			return true
		}
		if !parent {
			break
		}
	}
	return false
}

// Bindings returns the names of the identifiers registered in this container
// (for debugging).
func (c *Container) Bindings() []string {
	return c.registry.identifiers()
}

func (c *Container) cacheKeys(id Identifier) []Producer {
	keys, _ := c.binding(id)
	if p, ok := id.(Producer); ok {
		for _, k := range keys {
			if k == p {
				return keys
			}
		}
		keys = append(keys, p)
	}
	return keys
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired whenever this container or one of
// its descendants constructs an instance. Cache hits do not fire it.
func (c *Container) AfterResolving(cb func(name string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(name string, instance any) {
	for cur := c.self; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		cbs := cur.afterResolving
		cur.mu.RUnlock()
		for _, cb := range cbs {
			cb(name, instance)
		}
	}
}

// ── Process root ──────────────────────────────────────────────────────────────

var (
	rootOnce sync.Once
	root     *Container
)

// Root returns the process-wide container, creating it on first call.
// Tear it down with Root().Clear(); the same container is returned
// afterwards, empty.
func Root() *Container {
	rootOnce.Do(func() {
		root = New()
	})
	return root
}
