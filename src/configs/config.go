package configs

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/bililive-go/eventdispatcher/src/consts"
	"github.com/bililive-go/eventdispatcher/src/pkg/events"
)

// RPC info.
type RPC struct {
	Enable bool   `yaml:"enable"`
	Bind   string `yaml:"bind"`
}

var defaultRPC = RPC{
	Enable: true,
	Bind:   "127.0.0.1:8080",
}

func (r *RPC) verify() error {
	if r == nil {
		return nil
	}
	if !r.Enable {
		return nil
	}
	if _, err := net.ResolveTCPAddr("tcp", r.Bind); err != nil {
		return err
	}
	return nil
}

type Log struct {
	OutPutFolder string `yaml:"out_put_folder"`
	SaveLastLog  bool   `yaml:"save_last_log"`
	SaveEveryLog bool   `yaml:"save_every_log"`
}

// Scene describes the counter wired to a stepper, a slider and a reset button.
type Scene struct {
	Initial   int    `yaml:"initial"`
	Min       int    `yaml:"min"`
	Max       int    `yaml:"max"`
	LabelTmpl string `yaml:"label_tmpl"`
}

func (s *Scene) verify() error {
	if s.Min >= s.Max {
		return fmt.Errorf("scene min (%d) must be lower than max (%d)", s.Min, s.Max)
	}
	if s.Initial < s.Min || s.Initial > s.Max {
		return fmt.Errorf("scene initial value %d is out of [%d, %d]", s.Initial, s.Min, s.Max)
	}
	return nil
}

type Journal struct {
	Size int `yaml:"size"`
}

// Trigger selects the events of one emitter.
type Trigger struct {
	Emitter string `yaml:"emitter"`
	Kind    string `yaml:"kind"`
}

type triggerAlias Trigger

// allow both "emitter:kind" and Trigger format in config
func (t *Trigger) UnmarshalYAML(unmarshal func(any) error) error {
	alias := triggerAlias{Kind: string(events.Change)}
	if err := unmarshal(&alias); err != nil {
		var s string
		if err = unmarshal(&s); err != nil {
			return err
		}
		emitter, kind, found := strings.Cut(s, ":")
		alias.Emitter = emitter
		if found {
			alias.Kind = kind
		}
	}
	*t = Trigger(alias)
	return nil
}

func (t Trigger) String() string {
	return t.Emitter + ":" + t.Kind
}

func (t Trigger) verify() error {
	if !consts.IsEmitterName(t.Emitter) {
		return fmt.Errorf("unknown emitter %q in %s", t.Emitter, t)
	}
	if _, err := events.ParseEventKind(t.Kind); err != nil {
		return fmt.Errorf("%s: %w", t, err)
	}
	return nil
}

// Hook runs a script every time the trigger matches.
type Hook struct {
	Emitter string `yaml:"emitter"`
	Kind    string `yaml:"kind"`
	Script  string `yaml:"script"`
}

func (h Hook) Trigger() Trigger {
	kind := h.Kind
	if kind == "" {
		kind = string(events.Change)
	}
	return Trigger{Emitter: h.Emitter, Kind: kind}
}

// 通知服务所需配置
type Notify struct {
	Triggers []Trigger `yaml:"triggers"`
	Telegram Telegram  `yaml:"telegram"`
	Email    Email     `yaml:"email"`
	Webhook  Webhook   `yaml:"webhook"`
}

type Telegram struct {
	Enable           bool   `yaml:"enable"`
	WithNotification bool   `yaml:"withNotification"`
	BotToken         string `yaml:"botToken"`
	ChatID           string `yaml:"chatID"`
}

type Email struct {
	Enable         bool   `yaml:"enable"`
	SMTPHost       string `yaml:"smtpHost"`
	SMTPPort       int    `yaml:"smtpPort"`
	SenderEmail    string `yaml:"senderEmail"`
	SenderPassword string `yaml:"senderPassword"`
	RecipientEmail string `yaml:"recipientEmail"`
}

type Webhook struct {
	Enable       bool   `yaml:"enable"`
	Url          string `yaml:"url"`
	TimeoutInSec int    `yaml:"timeout_in_sec"`
}

// Config content all config info.
type Config struct {
	File    string  `yaml:"-"`
	RPC     RPC     `yaml:"rpc"`
	Debug   bool    `yaml:"debug"`
	Log     Log     `yaml:"log"`
	Scene   Scene   `yaml:"scene"`
	Journal Journal `yaml:"journal"`
	Hooks   []Hook  `yaml:"hooks"`
	Notify  Notify  `yaml:"notify"`
	// interval in seconds of the registry stats report printed in debug mode
	StatsInterval int `yaml:"stats_interval"`
}

var (
	configLock sync.RWMutex
	config     *Config
)

func SetCurrentConfig(cfg *Config) {
	configLock.Lock()
	defer configLock.Unlock()
	config = cfg
}

func GetCurrentConfig() *Config {
	configLock.RLock()
	defer configLock.RUnlock()
	return config
}

var defaultConfig = Config{
	RPC:   defaultRPC,
	Debug: false,
	Log: Log{
		OutPutFolder: "./",
		SaveLastLog:  true,
		SaveEveryLog: false,
	},
	Scene: Scene{
		Initial:   25,
		Min:       0,
		Max:       50,
		LabelTmpl: "{{ .Value }}",
	},
	Journal: Journal{
		Size: 1024,
	},
	Hooks: []Hook{},
	Notify: Notify{
		Triggers: []Trigger{},
		Telegram: Telegram{
			Enable:           false,
			WithNotification: true,
		},
		Email: Email{
			Enable:   false,
			SMTPHost: "smtp.qq.com",
			SMTPPort: 465,
		},
		Webhook: Webhook{
			Enable:       false,
			TimeoutInSec: 10,
		},
	},
	StatsInterval: 30,
}

func applyContainerDefaults(c *Config) {
	// 容器内默认监听所有网卡
	if isInContainer() && strings.HasPrefix(c.RPC.Bind, "127.0.0.1:") {
		c.RPC.Bind = "0.0.0.0:" + strings.TrimPrefix(c.RPC.Bind, "127.0.0.1:")
	}
}

func NewConfig() *Config {
	config := defaultConfig
	config.Hooks = []Hook{}
	config.Notify.Triggers = []Trigger{}
	applyContainerDefaults(&config)
	return &config
}

// Verify will return an error when this config has problem.
func (c *Config) Verify() error {
	if c == nil {
		return fmt.Errorf("config is null")
	}
	if err := c.RPC.verify(); err != nil {
		return err
	}
	if err := c.Scene.verify(); err != nil {
		return err
	}
	if c.Journal.Size <= 0 {
		return fmt.Errorf("the journal size can not <= 0")
	}
	if c.StatsInterval <= 0 {
		return fmt.Errorf("the stats interval can not <= 0")
	}
	for i, hook := range c.Hooks {
		if err := hook.Trigger().verify(); err != nil {
			return fmt.Errorf("hook #%d: %w", i, err)
		}
		if strings.TrimSpace(hook.Script) == "" {
			return fmt.Errorf("hook #%d (%s) has an empty script", i, hook.Trigger())
		}
	}
	for _, trigger := range c.Notify.Triggers {
		if err := trigger.verify(); err != nil {
			return fmt.Errorf("notify trigger: %w", err)
		}
	}
	if c.Notify.Webhook.Enable && c.Notify.Webhook.Url == "" {
		return fmt.Errorf("the webhook is enabled but no url is set")
	}
	return nil
}

func NewConfigWithBytes(b []byte) (*Config, error) {
	config := defaultConfig
	if err := yaml.Unmarshal(b, &config); err != nil {
		return nil, err
	}
	applyContainerDefaults(&config)
	return &config, nil
}

func NewConfigWithFile(file string) (*Config, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("can`t open file: %s", file)
	}
	config, err := NewConfigWithBytes(b)
	if err != nil {
		return nil, err
	}
	config.File = file
	return config, nil
}

func (c *Config) Marshal() error {
	if c.File == "" {
		return errors.New("config path not set")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.File, b, 0644)
}

func (c Config) GetFilePath() (string, error) {
	if c.File == "" {
		return "", errors.New("config path not set")
	}
	return c.File, nil
}
