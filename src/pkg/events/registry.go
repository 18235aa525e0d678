package events

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Handle identifies an emitter inside a Registry. The registry only ever
// stores handles, so it never keeps an emitter reachable.
type Handle uint64

// listeners holds the registrations of one emitter, in registration order
// per kind.
type listeners map[EventKind][]*EventListener

// Registry maps emitters to their per-kind listener sets.
//
// All mutations and the dispatch snapshot happen under a single mutex.
// Handlers are invoked with the mutex released, so a handler may add or
// remove listeners, or dispatch again, without deadlocking.
type Registry struct {
	mu         sync.Mutex
	entries    map[Handle]listeners
	dispatched map[EventKind]uint64
	lastHandle atomic.Uint64
	logger     logrus.FieldLogger
}

type RegistryOption func(*Registry)

func WithLogger(logger logrus.FieldLogger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		entries:    make(map[Handle]listeners),
		dispatched: make(map[EventKind]uint64),
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the process wide registry used by emitters that were not
// given one explicitly.
func Default() *Registry {
	return defaultRegistry
}

// NewHandle issues a fresh emitter identity. No entry is created until the
// first listener is added.
func (r *Registry) NewHandle() Handle {
	return Handle(r.lastHandle.Add(1))
}

func (r *Registry) Add(h Handle, kind EventKind, handler Handler) HandlerID {
	if handler == nil {
		return NilHandlerID
	}
	listener := NewEventListener(handler)

	r.mu.Lock()
	entry, ok := r.entries[h]
	if !ok {
		entry = make(listeners)
		r.entries[h] = entry
	}
	entry[kind] = append(entry[kind], listener)
	count := len(entry[kind])
	r.mu.Unlock()

	r.logger.WithFields(logrus.Fields{
		"emitter":   h,
		"kind":      kind,
		"handler":   listener.ID.String(),
		"listeners": count,
	}).Debug("event listener added")
	return listener.ID
}

// Remove unregisters the listener with the given id. It reports whether a
// listener was removed; unknown emitters, kinds and ids are no-ops.
func (r *Registry) Remove(h Handle, kind EventKind, id HandlerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[h]
	if !ok {
		return false
	}
	list := entry[kind]
	for i, l := range list {
		if l.ID != id {
			continue
		}
		// dispatch snapshots share the old backing array, so build a new one
		rest := make([]*EventListener, 0, len(list)-1)
		rest = append(rest, list[:i]...)
		rest = append(rest, list[i+1:]...)
		if len(rest) == 0 {
			delete(entry, kind)
		} else {
			entry[kind] = rest
		}
		if len(entry) == 0 {
			delete(r.entries, h)
		}
		r.logger.WithFields(logrus.Fields{
			"emitter": h,
			"kind":    kind,
			"handler": id.String(),
		}).Debug("event listener removed")
		return true
	}
	return false
}

// Dispatch invokes, in registration order, every listener registered for
// event.Kind on h at the time Dispatch was called.
func (r *Registry) Dispatch(h Handle, event *Event) {
	if event == nil {
		return
	}

	r.mu.Lock()
	r.dispatched[event.Kind]++
	list := r.entries[h][event.Kind]
	snapshot := make([]*EventListener, len(list))
	copy(snapshot, list)
	r.mu.Unlock()

	for _, l := range snapshot {
		l.Handler(event)
	}
}

// Len returns the number of listeners registered for kind on h.
func (r *Registry) Len(h Handle, kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries[h][kind])
}

// Emitters returns the number of emitters with at least one listener.
func (r *Registry) Emitters() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Drop forgets every listener of h. Emitters call it on teardown.
func (r *Registry) Drop(h Handle) {
	r.mu.Lock()
	_, ok := r.entries[h]
	delete(r.entries, h)
	r.mu.Unlock()
	if ok {
		r.logger.WithField("emitter", h).Debug("emitter dropped")
	}
}

// Reset forgets every emitter and clears the dispatch counters.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[Handle]listeners)
	r.dispatched = make(map[EventKind]uint64)
}

type Stats struct {
	Emitters   int                  `json:"emitters"`
	Listeners  map[EventKind]int    `json:"listeners"`
	Dispatched map[EventKind]uint64 `json:"dispatched"`
}

func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := Stats{
		Emitters:   len(r.entries),
		Listeners:  make(map[EventKind]int, len(knownKinds)),
		Dispatched: make(map[EventKind]uint64, len(r.dispatched)),
	}
	for _, entry := range r.entries {
		for kind, list := range entry {
			stats.Listeners[kind] += len(list)
		}
	}
	for kind, n := range r.dispatched {
		stats.Dispatched[kind] = n
	}
	return stats
}

func (r *Registry) Start(ctx context.Context) error {
	return nil
}

// Close forgets every emitter. Dispatch counters are kept, they only grow.
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	n := len(r.entries)
	r.entries = make(map[Handle]listeners)
	r.mu.Unlock()
	r.logger.WithField("emitters", n).Debug("registry closed")
}
