package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchWithoutListeners(t *testing.T) {
	r := NewRegistry()
	h := r.NewHandle()
	assert.NotPanics(t, func() {
		r.Dispatch(h, NewEvent(Change, nil))
		r.Dispatch(h, nil)
	})
	assert.Equal(t, 0, r.Emitters())
}

func TestAddThenDispatch(t *testing.T) {
	r := NewRegistry()
	h := r.NewHandle()
	var got []*Event
	r.Add(h, Change, func(e *Event) { got = append(got, e) })

	event := NewEvent(Change, nil)
	r.Dispatch(h, event)
	require.Len(t, got, 1)
	assert.Same(t, event, got[0])

	r.Dispatch(h, NewEvent(Tap, nil))
	assert.Len(t, got, 1, "tap must not reach a change listener")
}

func TestAddIsLazy(t *testing.T) {
	r := NewRegistry()
	h := r.NewHandle()
	assert.Equal(t, 0, r.Emitters())
	r.Add(h, Tap, func(*Event) {})
	assert.Equal(t, 1, r.Emitters())
	assert.Equal(t, 1, r.Len(h, Tap))
	assert.Equal(t, 0, r.Len(h, Change))
}

func TestAddNilHandler(t *testing.T) {
	r := NewRegistry()
	h := r.NewHandle()
	assert.Equal(t, NilHandlerID, r.Add(h, Change, nil))
	assert.Equal(t, 0, r.Emitters())
}

func TestSameHandlerRegisteredTwice(t *testing.T) {
	r := NewRegistry()
	h := r.NewHandle()
	calls := 0
	handler := func(*Event) { calls++ }

	first := r.Add(h, Change, handler)
	second := r.Add(h, Change, handler)
	require.NotEqual(t, first, second)

	r.Dispatch(h, NewEvent(Change, nil))
	assert.Equal(t, 2, calls)

	assert.True(t, r.Remove(h, Change, first))
	r.Dispatch(h, NewEvent(Change, nil))
	assert.Equal(t, 3, calls)
}

func TestRemoveThenDispatch(t *testing.T) {
	r := NewRegistry()
	h := r.NewHandle()
	called := false
	id := r.Add(h, Change, func(*Event) { called = true })

	assert.True(t, r.Remove(h, Change, id))
	r.Dispatch(h, NewEvent(Change, nil))
	assert.False(t, called)
	assert.Equal(t, 0, r.Emitters(), "empty entries are dropped")
}

func TestRemoveUnknown(t *testing.T) {
	r := NewRegistry()
	h := r.NewHandle()
	other := r.NewHandle()
	id := r.Add(h, Change, func(*Event) {})

	assert.False(t, r.Remove(other, Change, id))
	assert.False(t, r.Remove(h, Tap, id))
	assert.False(t, r.Remove(h, Change, NilHandlerID))
	assert.True(t, r.Remove(h, Change, id))
	assert.False(t, r.Remove(h, Change, id), "second removal is a no-op")
}

func TestDispatchOrder(t *testing.T) {
	r := NewRegistry()
	h := r.NewHandle()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		r.Add(h, Tap, func(*Event) { order = append(order, i) })
	}
	r.Dispatch(h, NewEvent(Tap, nil))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestDispatchUsesSnapshot(t *testing.T) {
	r := NewRegistry()
	h := r.NewHandle()

	var calls []string
	var selfID HandlerID
	selfID = r.Add(h, Change, func(*Event) {
		calls = append(calls, "self")
		r.Remove(h, Change, selfID)
		r.Add(h, Change, func(*Event) { calls = append(calls, "added") })
	})
	r.Add(h, Change, func(*Event) { calls = append(calls, "second") })

	r.Dispatch(h, NewEvent(Change, nil))
	assert.Equal(t, []string{"self", "second"}, calls)

	calls = nil
	r.Dispatch(h, NewEvent(Change, nil))
	assert.Equal(t, []string{"second", "added"}, calls)
}

func TestRemoveLaterListenerDuringDispatch(t *testing.T) {
	r := NewRegistry()
	h := r.NewHandle()
	var calls []string
	var laterID HandlerID
	r.Add(h, Change, func(*Event) {
		calls = append(calls, "first")
		r.Remove(h, Change, laterID)
	})
	laterID = r.Add(h, Change, func(*Event) { calls = append(calls, "later") })

	r.Dispatch(h, NewEvent(Change, nil))
	assert.Equal(t, []string{"first", "later"}, calls)

	calls = nil
	r.Dispatch(h, NewEvent(Change, nil))
	assert.Equal(t, []string{"first"}, calls)
}

func TestNestedDispatch(t *testing.T) {
	r := NewRegistry()
	h := r.NewHandle()
	taps := 0
	r.Add(h, Tap, func(*Event) { taps++ })
	r.Add(h, Change, func(*Event) { r.Dispatch(h, NewEvent(Tap, nil)) })

	r.Dispatch(h, NewEvent(Change, nil))
	assert.Equal(t, 1, taps)
}

func TestEmittersAreIsolated(t *testing.T) {
	r := NewRegistry()
	a, b := r.NewHandle(), r.NewHandle()
	aCalls, bCalls := 0, 0
	r.Add(a, Change, func(*Event) { aCalls++ })
	r.Add(b, Change, func(*Event) { bCalls++ })

	r.Dispatch(a, NewEvent(Change, nil))
	assert.Equal(t, 1, aCalls)
	assert.Equal(t, 0, bCalls)

	r.Drop(a)
	r.Dispatch(a, NewEvent(Change, nil))
	r.Dispatch(b, NewEvent(Change, nil))
	assert.Equal(t, 1, aCalls)
	assert.Equal(t, 1, bCalls)
	assert.Equal(t, 1, r.Emitters())
}

func TestStats(t *testing.T) {
	r := NewRegistry()
	a, b := r.NewHandle(), r.NewHandle()
	r.Add(a, Change, func(*Event) {})
	r.Add(a, Tap, func(*Event) {})
	r.Add(b, Change, func(*Event) {})
	r.Dispatch(a, NewEvent(Change, nil))
	r.Dispatch(b, NewEvent(Change, nil))
	r.Dispatch(b, NewEvent(Tap, nil))

	stats := r.Stats()
	assert.Equal(t, 2, stats.Emitters)
	assert.Equal(t, 2, stats.Listeners[Change])
	assert.Equal(t, 1, stats.Listeners[Tap])
	assert.Equal(t, uint64(2), stats.Dispatched[Change])
	assert.Equal(t, uint64(1), stats.Dispatched[Tap])

	r.Close(context.Background())
	stats = r.Stats()
	assert.Equal(t, 0, stats.Emitters)
	assert.Empty(t, stats.Listeners)
	assert.Equal(t, uint64(2), stats.Dispatched[Change], "closing keeps the counters monotonic")

	r.Reset()
	assert.Empty(t, r.Stats().Dispatched)
}

func TestConcurrentUse(t *testing.T) {
	r := NewRegistry()
	h := r.NewHandle()
	done := make(chan struct{})
	for n := 0; n < 8; n++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for n := 0; n < 100; n++ {
				id := r.Add(h, Change, func(*Event) {})
				r.Dispatch(h, NewEvent(Change, nil))
				r.Remove(h, Change, id)
			}
		}()
	}
	for n := 0; n < 8; n++ {
		<-done
	}
	assert.Equal(t, 0, r.Len(h, Change))
}

func TestParseEventKind(t *testing.T) {
	kind, err := ParseEventKind("tap")
	require.NoError(t, err)
	assert.Equal(t, Tap, kind)

	_, err = ParseEventKind("hover")
	assert.Error(t, err)
	assert.ElementsMatch(t, []EventKind{Change, Tap}, Kinds())
}
