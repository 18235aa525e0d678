package controls

import (
	"math"
	"sync"

	"github.com/bililive-go/eventdispatcher/src/pkg/events"
)

// Range is a bounded float value shared by steppers and sliders.
type Range struct {
	mu       sync.RWMutex
	min, max float64
	value    float64
}

func (r *Range) clamp(v float64) float64 {
	return math.Max(r.min, math.Min(r.max, v))
}

func (r *Range) Value() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

func (r *Range) Bounds() (min, max float64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.min, r.max
}

// SetValue changes the value programmatically. Like a toolkit control it
// does not fire any native callback.
func (r *Range) SetValue(v float64) {
	r.mu.Lock()
	r.value = r.clamp(v)
	r.mu.Unlock()
}

// set stores v and reports whether the stored value changed.
func (r *Range) set(v float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	v = r.clamp(v)
	changed := v != r.value
	r.value = v
	return changed
}

type Stepper struct {
	*Control
	Range
	step float64
}

func NewStepper(r *events.Registry, name string, min, max, step float64) *Stepper {
	if step <= 0 {
		step = 1
	}
	s := &Stepper{
		Control: newControl(r, name),
		step:    step,
	}
	s.min, s.max, s.value = min, max, min
	return s
}

func (s *Stepper) press(delta float64) {
	s.fireAction()
	if s.set(s.Value() + delta) {
		s.fireChange()
	}
}

// Increment behaves like a user pressing "+". Change fires only if the
// value moved.
func (s *Stepper) Increment() {
	s.press(s.step)
}

func (s *Stepper) Decrement() {
	s.press(-s.step)
}

// Interact moves the stepper to v as a user would, one step at a time.
func (s *Stepper) Interact(v float64) {
	target := s.clamp(v)
	for s.Value() < target {
		s.Increment()
	}
	for s.Value() > target {
		s.Decrement()
	}
}

type Slider struct {
	*Control
	Range
}

func NewSlider(r *events.Registry, name string, min, max float64) *Slider {
	s := &Slider{Control: newControl(r, name)}
	s.min, s.max, s.value = min, max, min
	return s
}

// Interact drags the thumb to v. A slider reports a change on every drag,
// even when the value does not move.
func (s *Slider) Interact(v float64) {
	s.fireAction()
	s.set(v)
	s.fireChange()
}

type Button struct {
	*Control
	mu    sync.RWMutex
	title string
}

func NewButton(r *events.Registry, name, title string) *Button {
	return &Button{Control: newControl(r, name), title: title}
}

func (b *Button) Title() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.title
}

// Press fires the primary action.
func (b *Button) Press() {
	b.fireAction()
}

// Label displays text. It is not an emitter.
type Label struct {
	mu   sync.RWMutex
	text string
}

func (l *Label) Text() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.text
}

func (l *Label) SetText(text string) {
	l.mu.Lock()
	l.text = text
	l.mu.Unlock()
}
