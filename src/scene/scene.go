// Package scene wires a counter value to a stepper, a slider, a reset button
// and a label, all talking through events.
package scene

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/sirupsen/logrus"

	"github.com/bililive-go/eventdispatcher/src/configs"
	"github.com/bililive-go/eventdispatcher/src/consts"
	"github.com/bililive-go/eventdispatcher/src/controls"
	"github.com/bililive-go/eventdispatcher/src/instance"
	"github.com/bililive-go/eventdispatcher/src/pkg/events"
)

var (
	ErrUnknownControl = errors.New("unknown control")
	ErrUnknownAction  = errors.New("unknown action")
	ErrOutOfRange     = errors.New("value out of range")
)

// actions accepted by Interact
const (
	ActionChange    = "change"
	ActionTap       = "tap"
	ActionIncrement = "increment"
	ActionDecrement = "decrement"
)

type subscription struct {
	target events.Dispatcher
	kind   events.EventKind
	id     events.HandlerID
}

// Scene owns the counter and its controls. Every exported method that
// touches them holds the scene lock, which plays the role of a UI main
// thread: handlers run one dispatch chain at a time.
type Scene struct {
	mu     sync.Mutex
	config configs.Scene
	logger logrus.FieldLogger
	label  *template.Template

	Value   *events.DispatchingValue[int]
	Stepper *controls.Stepper
	Slider  *controls.Slider
	Reset   *controls.Button
	Label   *controls.Label

	mounted  bool
	bindings []*controls.Binding
	subs     []subscription
}

func New(r *events.Registry, config configs.Scene, logger logrus.FieldLogger) (*Scene, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	tmpl, err := template.New("label").Funcs(sprig.TxtFuncMap()).Parse(config.LabelTmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse label template: %w", err)
	}
	min, max := float64(config.Min), float64(config.Max)
	s := &Scene{
		config:  config,
		logger:  logger.WithField("module", "scene"),
		label:   tmpl,
		Value:   events.NewValueWithRegistry(r, config.Initial),
		Stepper: controls.NewStepper(r, consts.EmitterStepper, min, max, 1),
		Slider:  controls.NewSlider(r, consts.EmitterSlider, min, max),
		Reset:   controls.NewButton(r, consts.EmitterReset, "Reset to Zero"),
		Label:   &controls.Label{},
	}
	return s, nil
}

// NewScene builds the scene from the instance found in ctx and registers it
// there.
func NewScene(ctx context.Context) (*Scene, error) {
	inst := instance.GetInstance(ctx)
	var logger logrus.FieldLogger
	if inst.Logger != nil {
		logger = inst.Logger
	}
	s, err := New(inst.Registry, inst.Config.Scene, logger)
	if err != nil {
		return nil, err
	}
	inst.Scene = s
	return s, nil
}

func (s *Scene) renderLabel(v int) string {
	var buf bytes.Buffer
	data := map[string]any{
		"Value": v,
		"Min":   s.config.Min,
		"Max":   s.config.Max,
	}
	if err := s.label.Execute(&buf, data); err != nil {
		s.logger.WithError(err).Warn("failed to render label")
		return strconv.Itoa(v)
	}
	return buf.String()
}

// SetLabelTemplate replaces the label template and renders the label again.
func (s *Scene) SetLabelTemplate(text string) error {
	tmpl, err := template.New("label").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse label template: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = tmpl
	s.config.LabelTmpl = text
	s.Label.SetText(s.renderLabel(s.Value.Get()))
	return nil
}

// sync pushes the counter into the label and the controls without making
// the controls report a change.
func (s *Scene) sync() {
	v := s.Value.Get()
	s.Label.SetText(s.renderLabel(v))
	s.Slider.SetValue(float64(v))
	s.Stepper.SetValue(float64(v))
}

func (s *Scene) listen(target events.Dispatcher, kind events.EventKind, handler events.Handler) {
	id := target.AddEventListener(kind, handler)
	s.subs = append(s.subs, subscription{target, kind, id})
}

// Mount attaches the controls and installs the wiring.
func (s *Scene) Mount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mounted {
		return
	}

	s.listen(s.Value, events.Change, func(*events.Event) {
		s.sync()
	})
	s.listen(s.Reset, events.Tap, func(*events.Event) {
		s.Value.Set(s.config.Min)
	})
	s.listen(s.Stepper, events.Change, func(*events.Event) {
		s.Value.Set(int(s.Stepper.Value()))
	})
	s.listen(s.Slider, events.Change, func(*events.Event) {
		s.Value.Set(int(s.Slider.Value()))
	})

	for _, c := range []controls.Adaptable{s.Stepper, s.Slider, s.Reset} {
		b := controls.Bind(c)
		b.Attach()
		s.bindings = append(s.bindings, b)
	}

	s.sync()
	s.mounted = true
	s.logger.WithField("value", s.Value.Get()).Debug("scene mounted")
}

// Unmount detaches the controls and removes the wiring. Listeners added by
// others stay registered.
func (s *Scene) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return
	}
	for _, b := range s.bindings {
		b.Detach()
	}
	for _, sub := range s.subs {
		sub.target.RemoveEventListener(sub.kind, sub.id)
	}
	s.bindings = nil
	s.subs = nil
	s.mounted = false
	s.logger.Debug("scene unmounted")
}

func (s *Scene) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Emitter returns the dispatcher registered under name.
func (s *Scene) Emitter(name string) (events.Dispatcher, error) {
	switch name {
	case consts.EmitterValue:
		return s.Value, nil
	case consts.EmitterStepper:
		return s.Stepper, nil
	case consts.EmitterSlider:
		return s.Slider, nil
	case consts.EmitterReset:
		return s.Reset, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownControl, name)
}

// Sample returns the current value carried by the named emitter, nil for
// emitters without one.
func (s *Scene) Sample(name string) any {
	switch name {
	case consts.EmitterValue:
		return s.Value.Get()
	case consts.EmitterStepper:
		return s.Stepper.Value()
	case consts.EmitterSlider:
		return s.Slider.Value()
	}
	return nil
}

// SetValue sets the counter directly.
func (s *Scene) SetValue(v int) error {
	if v < s.config.Min || v > s.config.Max {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfRange, v, s.config.Min, s.config.Max)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Value.Set(v)
	return nil
}

// Interact performs a user action on the named control.
func (s *Scene) Interact(name, action string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch name {
	case consts.EmitterStepper:
		switch action {
		case ActionChange:
			s.Stepper.Interact(value)
		case ActionIncrement:
			s.Stepper.Increment()
		case ActionDecrement:
			s.Stepper.Decrement()
		default:
			return fmt.Errorf("%w: %s on %s", ErrUnknownAction, action, name)
		}
	case consts.EmitterSlider:
		if action != ActionChange {
			return fmt.Errorf("%w: %s on %s", ErrUnknownAction, action, name)
		}
		s.Slider.Interact(value)
	case consts.EmitterReset:
		if action != ActionTap {
			return fmt.Errorf("%w: %s on %s", ErrUnknownAction, action, name)
		}
		s.Reset.Press()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownControl, name)
	}
	return nil
}

type ControlState struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

type State struct {
	Value    int            `json:"value"`
	Label    string         `json:"label"`
	Mounted  bool           `json:"mounted"`
	Controls []ControlState `json:"controls"`
	Reset    string         `json:"reset"`
}

func (s *Scene) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := State{
		Value:   s.Value.Get(),
		Label:   s.Label.Text(),
		Mounted: s.mounted,
		Reset:   s.Reset.Title(),
	}
	for _, c := range []struct {
		name string
		r    *controls.Range
	}{
		{s.Stepper.Name(), &s.Stepper.Range},
		{s.Slider.Name(), &s.Slider.Range},
	} {
		min, max := c.r.Bounds()
		state.Controls = append(state.Controls, ControlState{
			Name:  c.name,
			Value: c.r.Value(),
			Min:   min,
			Max:   max,
		})
	}
	return state
}

func (s *Scene) Start(ctx context.Context) error {
	s.Mount()
	return nil
}

// Close unmounts the scene and drops every emitter from the registry.
func (s *Scene) Close(ctx context.Context) {
	s.Unmount()
	s.Value.Close()
	s.Stepper.Close()
	s.Slider.Close()
	s.Reset.Close()
}
