package container

import "fmt"

// Deferred is the pending result of an asynchronous resolution.
type Deferred struct {
	done  chan struct{}
	value any
	err   error
}

func newDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// settle records the outcome; it must be called exactly once.
func (d *Deferred) settle(value any, err error) {
	d.value, d.err = value, err
	close(d.done)
}

// Done is closed once the resolution has finished, successfully or not.
func (d *Deferred) Done() <-chan struct{} { return d.done }

// Settled reports whether Await would return without blocking.
func (d *Deferred) Settled() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// Await blocks until the resolution finishes.
func (d *Deferred) Await() (any, error) {
	<-d.done
	return d.value, d.err
}

// Await is the typed form of (*Deferred).Await.
//
//	svc, err := container.Await[*Warmup](c.ResolveAsync(WarmupClass))
func Await[T any](d *Deferred) (T, error) {
	var zero T
	v, err := d.Await()
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("container: Await[%T]: resolved to %T", zero, v)
	}
	return typed, nil
}
