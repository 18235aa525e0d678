// Package hooks runs user supplied JavaScript when scene events fire.
package hooks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/robertkrimen/otto"
	"github.com/sirupsen/logrus"

	"github.com/bililive-go/eventdispatcher/src/configs"
	"github.com/bililive-go/eventdispatcher/src/instance"
	"github.com/bililive-go/eventdispatcher/src/pkg/events"
)

// Source resolves emitter names. *scene.Scene implements it.
type Source interface {
	Emitter(name string) (events.Dispatcher, error)
	Sample(name string) any
}

type hook struct {
	trigger configs.Trigger
	kind    events.EventKind
	script  *otto.Script
	target  events.Dispatcher
	id      events.HandlerID
}

// Manager owns one JavaScript VM shared by every hook. Scripts see an
// `event` object ({kind, source, value}) and a `log(...)` function.
type Manager struct {
	mu     sync.Mutex
	vm     *otto.Otto
	source Source
	logger logrus.FieldLogger
	hooks  []*hook
	// last error of each hook, by index, for inspection
	errs map[int]error
}

func New(source Source, hooks []configs.Hook, logger logrus.FieldLogger) (*Manager, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	m := &Manager{
		vm:     otto.New(),
		source: source,
		logger: logger.WithField("module", "hooks"),
		errs:   make(map[int]error),
	}
	if err := m.vm.Set("log", m.jsLog); err != nil {
		return nil, err
	}
	for i, h := range hooks {
		trigger := h.Trigger()
		kind, err := events.ParseEventKind(trigger.Kind)
		if err != nil {
			return nil, fmt.Errorf("hook #%d: %w", i, err)
		}
		target, err := source.Emitter(trigger.Emitter)
		if err != nil {
			return nil, fmt.Errorf("hook #%d: %w", i, err)
		}
		script, err := m.vm.Compile(fmt.Sprintf("hook-%d.js", i), h.Script)
		if err != nil {
			return nil, fmt.Errorf("hook #%d (%s): %w", i, trigger, err)
		}
		m.hooks = append(m.hooks, &hook{
			trigger: trigger,
			kind:    kind,
			script:  script,
			target:  target,
		})
	}
	return m, nil
}

// NewManager builds the hooks of the config found in ctx against source and
// registers the manager on the instance.
func NewManager(ctx context.Context, source Source) (*Manager, error) {
	inst := instance.GetInstance(ctx)
	var logger logrus.FieldLogger
	if inst.Logger != nil {
		logger = inst.Logger
	}
	m, err := New(source, inst.Config.Hooks, logger)
	if err != nil {
		return nil, err
	}
	inst.Hooks = m
	return m, nil
}

func (m *Manager) jsLog(call otto.FunctionCall) otto.Value {
	args := make([]string, 0, len(call.ArgumentList))
	for _, arg := range call.ArgumentList {
		args = append(args, arg.String())
	}
	m.logger.Info(strings.Join(args, " "))
	return otto.UndefinedValue()
}

func (m *Manager) run(index int, h *hook, e *events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event := map[string]any{
		"kind":   string(e.Kind),
		"source": h.trigger.Emitter,
		"value":  m.source.Sample(h.trigger.Emitter),
	}
	if err := m.vm.Set("event", event); err != nil {
		m.errs[index] = err
		return
	}
	if _, err := m.vm.Run(h.script); err != nil {
		m.errs[index] = err
		m.logger.WithError(err).WithField("hook", h.trigger.String()).Warn("hook failed")
		return
	}
	delete(m.errs, index)
}

// Start registers every hook on its emitter.
func (m *Manager) Start(ctx context.Context) error {
	for i, h := range m.hooks {
		index, h := i, h
		h.id = h.target.AddEventListener(h.kind, func(e *events.Event) {
			m.run(index, h, e)
		})
	}
	m.logger.Debugf("%d hooks registered", len(m.hooks))
	return nil
}

func (m *Manager) Close(ctx context.Context) {
	for _, h := range m.hooks {
		h.target.RemoveEventListener(h.kind, h.id)
	}
}

// Get reads a global variable of the hook VM.
func (m *Manager) Get(name string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, err := m.vm.Get(name)
	if err != nil {
		return nil, err
	}
	return v.Export()
}

// Err returns the error of the last run of hook index, if it failed.
func (m *Manager) Err(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errs[index]
}
