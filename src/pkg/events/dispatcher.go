//go:generate mockgen -package mock -destination mock/mock.go github.com/bililive-go/eventdispatcher/src/pkg/events Dispatcher

package events

import (
	"sync"
)

// Dispatcher is the capability of emitting events to registered handlers.
type Dispatcher interface {
	// AddEventListener registers handler for kind and returns the identity
	// to pass to RemoveEventListener.
	AddEventListener(kind EventKind, handler Handler) HandlerID
	// RemoveEventListener unregisters a handler. Unknown ids are ignored.
	RemoveEventListener(kind EventKind, id HandlerID) bool
	// DispatchEvent synchronously calls every handler registered for
	// event.Kind when the call starts.
	DispatchEvent(event *Event)
}

// Emitter implements Dispatcher on top of a Registry. Types gain the
// capability by embedding a *Emitter.
type Emitter struct {
	registry *Registry
	handle   Handle
	once     sync.Once
}

// NewEmitter returns an emitter backed by r, or by the default registry
// when r is nil.
func NewEmitter(r *Registry) *Emitter {
	if r == nil {
		r = Default()
	}
	return &Emitter{registry: r}
}

func (e *Emitter) init() {
	e.once.Do(func() {
		if e.registry == nil {
			e.registry = Default()
		}
		e.handle = e.registry.NewHandle()
	})
}

// Handle returns the identity of this emitter in its registry.
func (e *Emitter) Handle() Handle {
	e.init()
	return e.handle
}

func (e *Emitter) Registry() *Registry {
	e.init()
	return e.registry
}

func (e *Emitter) AddEventListener(kind EventKind, handler Handler) HandlerID {
	e.init()
	return e.registry.Add(e.handle, kind, handler)
}

func (e *Emitter) RemoveEventListener(kind EventKind, id HandlerID) bool {
	e.init()
	return e.registry.Remove(e.handle, kind, id)
}

func (e *Emitter) DispatchEvent(event *Event) {
	e.init()
	e.registry.Dispatch(e.handle, event)
}

// ListenerCount returns the number of handlers currently registered for kind.
func (e *Emitter) ListenerCount(kind EventKind) int {
	e.init()
	return e.registry.Len(e.handle, kind)
}

// Close drops every listener of the emitter. The emitter stays usable.
func (e *Emitter) Close() {
	e.init()
	e.registry.Drop(e.handle)
}
