package controls

import (
	"sync"

	"github.com/bililive-go/eventdispatcher/src/pkg/events"
)

// Adaptable is a control that offers native callbacks and can dispatch.
type Adaptable interface {
	Native
	events.Dispatcher
}

// Binding forwards native callbacks of a control into DispatchEvent calls:
// "value changed" becomes events.Change and "primary action" events.Tap.
type Binding struct {
	native Native
	target events.Dispatcher

	mu       sync.Mutex
	attached bool
	change   NativeToken
	action   NativeToken
}

// Bind adapts c to itself: events are dispatched on c with c as source.
func Bind(c Adaptable) *Binding {
	return NewBinding(c, c)
}

func NewBinding(native Native, target events.Dispatcher) *Binding {
	return &Binding{native: native, target: target}
}

// Attach registers the native callbacks. It is a no-op when already attached.
func (b *Binding) Attach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.attached {
		return
	}
	b.change = b.native.OnNativeChange(func() {
		b.target.DispatchEvent(events.NewEvent(events.Change, b.target))
	})
	b.action = b.native.OnNativeAction(func() {
		b.target.DispatchEvent(events.NewEvent(events.Tap, b.target))
	})
	b.attached = true
}

// Detach deregisters the native callbacks installed by Attach.
func (b *Binding) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return
	}
	b.native.OffNativeChange(b.change)
	b.native.OffNativeAction(b.action)
	b.attached = false
}

func (b *Binding) Attached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attached
}
