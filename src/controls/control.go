// Package controls models the few toolkit controls the counter scene needs,
// without any rendering, and adapts them to events.Dispatcher.
package controls

import (
	"sync"

	"github.com/bililive-go/eventdispatcher/src/pkg/events"
)

// NativeToken identifies a native callback registration.
type NativeToken uint64

// Native is the callback surface a toolkit control offers: one callback list
// for "value changed" and one for "primary action" (touch down).
type Native interface {
	OnNativeChange(cb func()) NativeToken
	OnNativeAction(cb func()) NativeToken
	OffNativeChange(token NativeToken)
	OffNativeAction(token NativeToken)
}

type nativeEntry struct {
	token NativeToken
	cb    func()
}

type nativeList []nativeEntry

func (l nativeList) without(token NativeToken) nativeList {
	rest := make(nativeList, 0, len(l))
	for _, e := range l {
		if e.token != token {
			rest = append(rest, e)
		}
	}
	return rest
}

// Control holds what every control shares: a name, an emitter and the
// native callback lists. Concrete controls embed it and must be built with
// their New functions; the zero value has no emitter.
type Control struct {
	*events.Emitter
	name string

	mu        sync.Mutex
	lastToken NativeToken
	onChange  nativeList
	onAction  nativeList
}

func newControl(r *events.Registry, name string) *Control {
	return &Control{
		Emitter: events.NewEmitter(r),
		name:    name,
	}
}

func (c *Control) Name() string {
	return c.name
}

func (c *Control) register(list *nativeList, cb func()) NativeToken {
	if cb == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastToken++
	*list = append(*list, nativeEntry{c.lastToken, cb})
	return c.lastToken
}

func (c *Control) OnNativeChange(cb func()) NativeToken {
	return c.register(&c.onChange, cb)
}

func (c *Control) OnNativeAction(cb func()) NativeToken {
	return c.register(&c.onAction, cb)
}

func (c *Control) OffNativeChange(token NativeToken) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = c.onChange.without(token)
}

func (c *Control) OffNativeAction(token NativeToken) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAction = c.onAction.without(token)
}

func (c *Control) fire(list *nativeList) {
	c.mu.Lock()
	callbacks := *list
	c.mu.Unlock()
	for _, e := range callbacks {
		e.cb()
	}
}

func (c *Control) fireChange() {
	c.fire(&c.onChange)
}

func (c *Control) fireAction() {
	c.fire(&c.onAction)
}
