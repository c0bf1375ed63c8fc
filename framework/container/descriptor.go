package container

// ── Injection specs ───────────────────────────────────────────────────────────

// Cardinality says whether a dependency resolves to one instance or to every
// producer bound to the target.
type Cardinality int

const (
	// One injects the first producer bound to the target.
	One Cardinality = iota

	// All injects a []any holding every bound producer's instance, in
	// registration order.
	All
)

// Origin records where an injection spec came from.
type Origin int

const (
	// Explicit specs were declared with class options.
	Explicit Origin = iota

	// Reflected specs were produced by an external front-end that inspected
	// the type. The engine treats both origins the same way.
	Reflected
)

// Slot is where a resolved dependency is delivered.
type Slot struct {
	property string
}

// ConstructorArg delivers the dependency as a positional constructor argument.
func ConstructorArg() Slot { return Slot{} }

// Property delivers the dependency by assigning it to the named property of
// the constructed instance.
func Property(key string) Slot { return Slot{property: key} }

// IsProperty reports whether the slot is a named property.
func (s Slot) IsProperty() bool { return s.property != "" }

// Key returns the property name, or "" for constructor arguments.
func (s Slot) Key() string { return s.property }

// InjectionSpec declares one dependency edge.
type InjectionSpec struct {
	Target      Identifier
	Cardinality Cardinality
	Origin      Origin
	Slot        Slot
}

// ── Descriptor ────────────────────────────────────────────────────────────────

// Descriptor is the merged injection plan and caching policy of a producer.
type Descriptor struct {
	Injections []InjectionSpec
	Lifecycle  Lifecycle
	Hook       Hook
}

// defaultDescriptor is what producers without any declaration resolve with.
func defaultDescriptor() Descriptor {
	return Descriptor{Lifecycle: Singleton, Hook: NoHook}
}

// Extract returns the merged descriptor of p.
//
// Classes are walked from the most derived level to the root of their
// Extends chain. Injections concatenate, keeping the first spec seen for
// each target. Lifecycle and hook come from the most derived level that
// declares them. Factories never carry a descriptor.
func Extract(p Producer) Descriptor {
	if cls, ok := p.(*Class); ok && cls != nil {
		return cls.descriptor()
	}
	return defaultDescriptor()
}

func mergeChain(cls *Class) Descriptor {
	out := Descriptor{}
	seen := make(map[Identifier]bool)

	for level := cls; level != nil; level = level.base {
		for _, spec := range level.own.Injections {
			if seen[spec.Target] {
				continue
			}
			seen[spec.Target] = true
			out.Injections = append(out.Injections, spec)
		}
		if out.Lifecycle == lifecycleUnset {
			out.Lifecycle = level.own.Lifecycle
		}
		if out.Hook == hookUnset {
			out.Hook = level.own.Hook
		}
	}

	if out.Lifecycle == lifecycleUnset {
		out.Lifecycle = Singleton
	}
	if out.Hook == hookUnset {
		out.Hook = NoHook
	}
	return out
}

// ctorArgs splits resolved dependencies into positional constructor
// arguments, in declaration order.
func (d Descriptor) ctorArgs(resolved []any) []any {
	args := make([]any, 0, len(resolved))
	for i, spec := range d.Injections {
		if !spec.Slot.IsProperty() {
			args = append(args, resolved[i])
		}
	}
	return args
}
