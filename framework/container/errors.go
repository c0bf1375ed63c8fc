package container

import (
	"errors"
	"fmt"
)

var (
	// ErrArgument matches every *ArgumentError.
	ErrArgument = errors.New("container: invalid argument")

	// ErrNotRegistered matches every *NotRegisteredError.
	ErrNotRegistered = errors.New("container: service not registered")

	// ErrConstruction matches every *ConstructionError.
	ErrConstruction = errors.New("container: construction failed")
)

// ArgumentError is returned when a required argument is nil.
type ArgumentError struct {
	Argument string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("container: %s argument is required", e.Argument)
}

func (e *ArgumentError) Is(target error) bool { return target == ErrArgument }

// NotRegisteredError is returned when an identifier has no binding and cannot
// be resolved as its own producer.
type NotRegisteredError struct {
	Service string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("container: service [%s] is not registered", e.Service)
}

func (e *NotRegisteredError) Is(target error) bool { return target == ErrNotRegistered }

// ConstructionError reports a fault the container detected while building an
// instance. Errors returned by constructors, factories and hooks themselves
// are passed through untouched and never wrapped in a ConstructionError.
type ConstructionError struct {
	Service string
	Reason  string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("container: cannot construct [%s]: %s", e.Service, e.Reason)
}

func (e *ConstructionError) Is(target error) bool { return target == ErrConstruction }
