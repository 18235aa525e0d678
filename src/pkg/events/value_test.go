package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueLogsEverySet(t *testing.T) {
	v := NewValueWithRegistry(NewRegistry(), 0)
	var log []int
	v.AddEventListener(Change, func(*Event) { log = append(log, v.Get()) })

	v.Set(1)
	v.Set(2)
	assert.Equal(t, []int{1, 2}, log)
}

func TestValueSetSameValueDispatches(t *testing.T) {
	v := NewValueWithRegistry(NewRegistry(), 25)
	calls := 0
	v.AddEventListener(Change, func(*Event) { calls++ })

	v.Set(25)
	assert.Equal(t, 1, calls)
}

func TestValueGetDoesNotDispatch(t *testing.T) {
	v := NewValueWithRegistry(NewRegistry(), "hello")
	calls := 0
	v.AddEventListener(Change, func(*Event) { calls++ })

	assert.Equal(t, "hello", v.Get())
	assert.Equal(t, 0, calls)
}

func TestValueTwoHandlersInOrder(t *testing.T) {
	v := NewValueWithRegistry(NewRegistry(), 0)
	var order []string
	v.AddEventListener(Change, func(*Event) { order = append(order, "first") })
	v.AddEventListener(Change, func(*Event) { order = append(order, "second") })

	v.Set(7)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestValueEventSource(t *testing.T) {
	v := NewValueWithRegistry(NewRegistry(), 1.5)
	var got *Event
	v.AddEventListener(Change, func(e *Event) { got = e })

	v.Update(func(f float64) float64 { return f * 2 })
	require.NotNil(t, got)
	assert.Equal(t, Change, got.Kind)
	assert.Same(t, v, got.Source.(*DispatchingValue[float64]))
	assert.Equal(t, 3.0, v.Get())
}

func TestValueRemoveListener(t *testing.T) {
	v := NewValueWithRegistry(NewRegistry(), 0)
	calls := 0
	id := v.AddEventListener(Change, func(*Event) { calls++ })
	v.Set(1)
	assert.True(t, v.RemoveEventListener(Change, id))
	v.Set(2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, v.ListenerCount(Change))
}

func TestValueSetFromHandler(t *testing.T) {
	v := NewValueWithRegistry(NewRegistry(), 0)
	var seen []int
	v.AddEventListener(Change, func(*Event) {
		seen = append(seen, v.Get())
		if v.Get() > 50 {
			v.Set(50)
		}
	})

	v.Set(60)
	assert.Equal(t, []int{60, 50}, seen)
	assert.Equal(t, 50, v.Get())
}

func TestValueUsesDefaultRegistry(t *testing.T) {
	v := NewValue(0)
	defer v.Close()
	assert.Same(t, Default(), v.Registry())

	calls := 0
	v.AddEventListener(Change, func(*Event) { calls++ })
	v.Set(3)
	assert.Equal(t, 1, calls)
}

func TestEmitterZeroValue(t *testing.T) {
	var e Emitter
	defer e.Close()
	tapped := false
	e.AddEventListener(Tap, func(*Event) { tapped = true })
	e.DispatchEvent(NewEvent(Tap, &e))
	assert.True(t, tapped)
	assert.Same(t, Default(), e.Registry())
}

func TestValueZeroValue(t *testing.T) {
	var v DispatchingValue[int]
	defer v.Close()
	var seen []int
	v.AddEventListener(Change, func(*Event) { seen = append(seen, v.Get()) })
	assert.Equal(t, 0, v.Get())
	v.Set(3)
	assert.Equal(t, []int{3}, seen)
	assert.Same(t, Default(), v.Registry())
}

func TestEmitterClose(t *testing.T) {
	r := NewRegistry()
	e := NewEmitter(r)
	calls := 0
	e.AddEventListener(Tap, func(*Event) { calls++ })
	e.AddEventListener(Change, func(*Event) { calls++ })
	require.Equal(t, 1, r.Emitters())

	e.Close()
	e.DispatchEvent(NewEvent(Tap, e))
	e.DispatchEvent(NewEvent(Change, e))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, r.Emitters())
}
