package container

import (
	"reflect"
)

// Identifier is the key a service is registered and cached under.
//
// Identifiers are compared with ==, so two identifiers are the same service
// only if they are the same *Class / *Factory pointer, the same Name, or
// wrap the same reflect.Type. Two classes that happen to share a name are
// still distinct registry keys.
type Identifier interface {
	// ServiceName is the name instances are cached under.
	ServiceName() string
}

// Name is a plain string identifier.
//
//	c.Register(redisCache).As(container.Name("cache"))
//	v, err := c.Resolve(container.Name("cache"))
type Name string

func (n Name) ServiceName() string { return string(n) }

// typeIdentifier identifies a service by a Go type, typically an interface
// that several classes implement.
type typeIdentifier struct {
	t reflect.Type
}

func (t typeIdentifier) ServiceName() string { return typeName(t.t) }

// TypeOf returns the identifier for type T.
//
//	c.Register(consoleLogger).As(container.TypeOf[Logger]())
func TypeOf[T any]() Identifier {
	return typeIdentifier{t: reflect.TypeOf((*T)(nil)).Elem()}
}

// TypeKey returns the package-qualified type name of v, useful as a stable
// name when working with interfaces.
//
//	key := container.TypeKey((*UserRepository)(nil))  // "main.UserRepository"
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return typeName(t)
}

func typeName(t reflect.Type) string {
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// isNil reports whether id is nil or a typed nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
