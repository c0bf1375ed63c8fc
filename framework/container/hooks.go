package container

import (
	"context"
	"fmt"
	"reflect"
)

// Initializer is implemented by instances of classes declared WithHook(SyncHook).
// Init runs after construction and property injection, before the instance
// is cached or returned. An error aborts the resolution.
type Initializer interface {
	Init() error
}

// AsyncInitializer is implemented by instances of classes declared
// WithHook(AsyncHook). The resolution waits for the returned channel to
// deliver (or be closed) before the instance is cached or handed to anyone,
// including resolutions that depend on it. A non-nil error aborts the
// resolution.
//
//	func (w *Warmup) InitAsync(ctx context.Context) <-chan error {
//	    done := make(chan error, 1)
//	    go func() { done <- w.load(ctx) }()
//	    return done
//	}
type AsyncInitializer interface {
	InitAsync(ctx context.Context) <-chan error
}

// PropertySetter lets an instance receive property injections itself instead
// of having exported struct fields assigned by reflection.
type PropertySetter interface {
	SetProperty(key string, value any) error
}

// runHook runs the hook the descriptor declares.
func runHook(ctx context.Context, name string, hook Hook, instance any) error {
	switch hook {
	case SyncHook:
		initializer, ok := instance.(Initializer)
		if !ok {
			return &ConstructionError{Service: name, Reason: fmt.Sprintf("%T declares a sync hook but does not implement Initializer", instance)}
		}
		return initializer.Init()

	case AsyncHook:
		initializer, ok := instance.(AsyncInitializer)
		if !ok {
			return &ConstructionError{Service: name, Reason: fmt.Sprintf("%T declares an async hook but does not implement AsyncInitializer", instance)}
		}
		done := initializer.InitAsync(ctx)
		if done == nil {
			return nil
		}
		return <-done
	}
	return nil
}

// assignProperty delivers value to the key property of instance.
func assignProperty(name string, instance any, key string, value any) error {
	if setter, ok := instance.(PropertySetter); ok {
		return setter.SetProperty(key, value)
	}

	rv := reflect.ValueOf(instance)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return &ConstructionError{Service: name, Reason: fmt.Sprintf("cannot inject property %q into non-struct %T", key, instance)}
	}

	field := rv.FieldByName(key)
	if !field.IsValid() {
		return &ConstructionError{Service: name, Reason: fmt.Sprintf("%T has no property %q", instance, key)}
	}
	if !field.CanSet() {
		return &ConstructionError{Service: name, Reason: fmt.Sprintf("property %q of %T is not settable (unexported or value receiver)", key, instance)}
	}

	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}

	// []any from an All injection into a typed slice field.
	if list, ok := value.([]any); ok && field.Kind() == reflect.Slice {
		elemType := field.Type().Elem()
		out := reflect.MakeSlice(field.Type(), 0, len(list))
		for _, item := range list {
			iv := reflect.ValueOf(item)
			if !iv.IsValid() || !iv.Type().AssignableTo(elemType) {
				return &ConstructionError{Service: name, Reason: fmt.Sprintf("property %q: element %T is not assignable to %v", key, item, elemType)}
			}
			out = reflect.Append(out, iv)
		}
		field.Set(out)
		return nil
	}

	return &ConstructionError{Service: name, Reason: fmt.Sprintf("property %q: %T is not assignable to %v", key, value, field.Type())}
}
