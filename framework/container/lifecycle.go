package container

// Lifecycle controls how many instances of a producer a container tree creates.
type Lifecycle int

const (
	// lifecycleUnset marks a descriptor level that did not declare a lifecycle.
	lifecycleUnset Lifecycle = iota

	// Singleton is the default. The first resolution caches the instance in
	// the resolving container; that container and all of its descendants
	// reuse it.
	Singleton

	// Transient builds a new instance on every resolution. Never cached.
	Transient

	// PerScope caches one instance per container. Lookups never walk to the
	// parent, so each child that resolves the service gets its own.
	PerScope
)

// String returns the human-readable name of the lifecycle.
func (l Lifecycle) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	case PerScope:
		return "per-scope"
	default:
		return "unknown"
	}
}

// cached reports whether instances with this lifecycle enter a cache.
func (l Lifecycle) cached() bool {
	return l == Singleton || l == PerScope
}

// Hook is the post-construction capability a class declares.
type Hook int

const (
	hookUnset Hook = iota

	// NoHook runs nothing after construction.
	NoHook

	// SyncHook calls Initializer.Init before the instance is returned.
	SyncHook

	// AsyncHook calls AsyncInitializer.InitAsync and waits for it.
	AsyncHook
)

func (h Hook) String() string {
	switch h {
	case NoHook:
		return "none"
	case SyncHook:
		return "sync"
	case AsyncHook:
		return "async"
	default:
		return "unknown"
	}
}
