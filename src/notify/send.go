package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bililive-go/eventdispatcher/src/configs"
	"github.com/bililive-go/eventdispatcher/src/consts"
	"github.com/bililive-go/eventdispatcher/src/instance"
	"github.com/bililive-go/eventdispatcher/src/notify/email"
	"github.com/bililive-go/eventdispatcher/src/notify/telegram"
	"github.com/bililive-go/eventdispatcher/src/notify/webhook"
	"github.com/bililive-go/eventdispatcher/src/pkg/events"
)

// Message is what every sink receives.
type Message struct {
	Emitter string
	Kind    events.EventKind
	Value   any
}

func (m Message) Subject() string {
	return fmt.Sprintf("%s - %s %s", consts.AppName, m.Emitter, m.Kind)
}

func (m Message) Body() string {
	return fmt.Sprintf("事件：%s\n来源：%s\n数值：%v", m.Kind, m.Emitter, m.Value)
}

func (m Message) Params() map[string]string {
	return map[string]string{
		"emitter": m.Emitter,
		"kind":    string(m.Kind),
		"value":   fmt.Sprint(m.Value),
	}
}

// SendNotification 发送统一通知函数
// 检测用户开启了哪些通知服务，然后分别发送；某个服务失败不影响其他服务
func SendNotification(cfg configs.Notify, msg Message) error {
	var errs []error

	if cfg.Telegram.Enable {
		err := telegram.SendMessage(
			cfg.Telegram.BotToken,
			cfg.Telegram.ChatID,
			msg.Subject()+"\n"+msg.Body(),
			cfg.Telegram.WithNotification,
		)
		if err != nil {
			errs = append(errs, fmt.Errorf("telegram: %w", err))
		}
	}

	if cfg.Email.Enable {
		if err := email.SendEmail(cfg.Email, msg.Subject(), msg.Body()); err != nil {
			errs = append(errs, fmt.Errorf("email: %w", err))
		}
	}

	if cfg.Webhook.Enable {
		timeout := time.Duration(cfg.Webhook.TimeoutInSec) * time.Second
		if err := webhook.Send(nil, cfg.Webhook.Url, timeout, msg.Params()); err != nil {
			errs = append(errs, fmt.Errorf("webhook: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Source resolves emitter names. *scene.Scene implements it.
type Source interface {
	Emitter(name string) (events.Dispatcher, error)
	Sample(name string) any
}

type subscription struct {
	target events.Dispatcher
	kind   events.EventKind
	id     events.HandlerID
}

// Notifier sends a Message for every event matching one of the configured
// triggers. Sending happens on its own goroutine so dispatch never waits
// on the network.
type Notifier struct {
	source Source
	logger logrus.FieldLogger
	send   func(configs.Notify, Message) error
	wg     sync.WaitGroup

	mu      sync.Mutex
	cfg     configs.Notify
	subs    []subscription
	started bool
	closed  bool
}

func verifyTriggers(source Source, triggers []configs.Trigger) error {
	for _, trigger := range triggers {
		if _, err := source.Emitter(trigger.Emitter); err != nil {
			return fmt.Errorf("notify trigger %s: %w", trigger, err)
		}
		if _, err := events.ParseEventKind(trigger.Kind); err != nil {
			return fmt.Errorf("notify trigger %s: %w", trigger, err)
		}
	}
	return nil
}

func New(source Source, cfg configs.Notify, logger logrus.FieldLogger) (*Notifier, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if err := verifyTriggers(source, cfg.Triggers); err != nil {
		return nil, err
	}
	return &Notifier{
		cfg:    cfg,
		source: source,
		logger: logger.WithField("module", "notify"),
		send:   SendNotification,
	}, nil
}

// NewNotifier builds a notifier from the config found in ctx and registers
// it on the instance.
func NewNotifier(ctx context.Context, source Source) (*Notifier, error) {
	inst := instance.GetInstance(ctx)
	var logger logrus.FieldLogger
	if inst.Logger != nil {
		logger = inst.Logger
	}
	n, err := New(source, inst.Config.Notify, logger)
	if err != nil {
		return nil, err
	}
	inst.Notifier = n
	return n, nil
}

func (n *Notifier) handler(trigger configs.Trigger) events.Handler {
	return func(e *events.Event) {
		msg := Message{
			Emitter: trigger.Emitter,
			Kind:    e.Kind,
			Value:   n.source.Sample(trigger.Emitter),
		}
		// a dispatch started before Close may still reach this handler
		n.mu.Lock()
		if n.closed {
			n.mu.Unlock()
			return
		}
		cfg := n.cfg
		n.wg.Add(1)
		n.mu.Unlock()
		go func() {
			defer n.wg.Done()
			if err := n.send(cfg, msg); err != nil {
				n.logger.WithError(err).WithField("trigger", trigger.String()).Error("Failed to send notification")
			}
		}()
	}
}

// subscribe must be called with n.mu held.
func (n *Notifier) subscribe() {
	for _, trigger := range n.cfg.Triggers {
		target, _ := n.source.Emitter(trigger.Emitter)
		kind, _ := events.ParseEventKind(trigger.Kind)
		id := target.AddEventListener(kind, n.handler(trigger))
		n.subs = append(n.subs, subscription{target, kind, id})
	}
}

// unsubscribe must be called with n.mu held.
func (n *Notifier) unsubscribe() {
	for _, sub := range n.subs {
		sub.target.RemoveEventListener(sub.kind, sub.id)
	}
	n.subs = nil
}

func (n *Notifier) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.started || n.closed {
		return nil
	}
	n.subscribe()
	n.started = true
	return nil
}

// Reconfigure replaces the sinks and the triggers. A started notifier
// moves its listeners to the new triggers right away.
func (n *Notifier) Reconfigure(cfg configs.Notify) error {
	if err := verifyTriggers(n.source, cfg.Triggers); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cfg = cfg
	if n.started && !n.closed {
		n.unsubscribe()
		n.subscribe()
	}
	n.logger.WithField("triggers", len(cfg.Triggers)).Info("notify reconfigured")
	return nil
}

// Close stops listening and waits for notifications in flight.
func (n *Notifier) Close(ctx context.Context) {
	n.mu.Lock()
	n.unsubscribe()
	n.closed = true
	n.mu.Unlock()
	n.wg.Wait()
}
