package events

import (
	"sync"
)

// DispatchingValue wraps a value and dispatches a Change event every time
// it is set, including when the new value equals the old one.
//
//	count := events.NewValue(0)
//	count.AddEventListener(events.Change, func(e *events.Event) {
//	    fmt.Println("count is", count.Get())
//	})
//	count.Set(1)
//
// The zero value holds the zero T and dispatches on the default registry.
type DispatchingValue[T any] struct {
	Emitter
	mu    sync.RWMutex
	value T
}

// NewValue returns a value backed by the default registry.
func NewValue[T any](initial T) *DispatchingValue[T] {
	return NewValueWithRegistry(nil, initial)
}

func NewValueWithRegistry[T any](r *Registry, initial T) *DispatchingValue[T] {
	v := &DispatchingValue[T]{value: initial}
	v.registry = r
	return v
}

// Get returns the current value. It never dispatches.
func (v *DispatchingValue[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set stores value and then dispatches exactly one Change event.
func (v *DispatchingValue[T]) Set(value T) {
	v.mu.Lock()
	v.value = value
	v.mu.Unlock()

	v.DispatchEvent(NewEvent(Change, v))
}

// Update sets the value to fn applied to the current one.
func (v *DispatchingValue[T]) Update(fn func(T) T) {
	v.Set(fn(v.Get()))
}
