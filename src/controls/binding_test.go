package controls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/bililive-go/eventdispatcher/src/pkg/events"
	"github.com/bililive-go/eventdispatcher/src/pkg/events/mock"
)

func eventOf(kind events.EventKind, source events.Dispatcher) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		e, ok := x.(*events.Event)
		return ok && e.Kind == kind && e.Source == source
	})
}

func TestBindingForwardsNativeCallbacks(t *testing.T) {
	ctrl := gomock.NewController(t)
	target := mock.NewMockDispatcher(ctrl)
	button := NewButton(events.NewRegistry(), "reset", "Reset to Zero")

	b := NewBinding(button, target)
	b.Attach()
	assert.True(t, b.Attached())

	target.EXPECT().DispatchEvent(eventOf(events.Tap, target)).Times(1)
	button.Press()
}

func TestBindingSliderOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	target := mock.NewMockDispatcher(ctrl)
	slider := NewSlider(events.NewRegistry(), "slider", 0, 50)

	b := NewBinding(slider, target)
	b.Attach()

	gomock.InOrder(
		target.EXPECT().DispatchEvent(eventOf(events.Tap, target)),
		target.EXPECT().DispatchEvent(eventOf(events.Change, target)),
	)
	slider.Interact(12.5)
	assert.Equal(t, 12.5, slider.Value())
}

func TestBindingDetach(t *testing.T) {
	ctrl := gomock.NewController(t)
	target := mock.NewMockDispatcher(ctrl)
	stepper := NewStepper(events.NewRegistry(), "stepper", 0, 50, 1)

	b := NewBinding(stepper, target)
	b.Attach()
	b.Attach()
	b.Detach()
	b.Detach()
	assert.False(t, b.Attached())

	// no DispatchEvent expectation: any call fails the test
	stepper.Increment()
	assert.Equal(t, 1.0, stepper.Value())
}

func TestBindDispatchesOnControl(t *testing.T) {
	stepper := NewStepper(events.NewRegistry(), "stepper", 0, 50, 1)
	var got []*events.Event
	stepper.AddEventListener(events.Change, func(e *events.Event) { got = append(got, e) })
	taps := 0
	stepper.AddEventListener(events.Tap, func(*events.Event) { taps++ })

	b := Bind(stepper)
	b.Attach()
	stepper.Increment()
	stepper.Increment()

	assert.Len(t, got, 2)
	assert.Equal(t, 2, taps)
	for _, e := range got {
		assert.Same(t, stepper, e.Source.(*Stepper))
	}

	b.Detach()
	stepper.Increment()
	assert.Len(t, got, 2)
}

func TestBindingReattach(t *testing.T) {
	button := NewButton(events.NewRegistry(), "reset", "Reset")
	taps := 0
	button.AddEventListener(events.Tap, func(*events.Event) { taps++ })

	b := Bind(button)
	b.Attach()
	b.Detach()
	b.Attach()
	button.Press()
	assert.Equal(t, 1, taps, "a reattached binding forwards exactly once")
}
