package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	require.NoError(t, c.Verify())
	assert.Equal(t, 25, c.Scene.Initial)
	assert.Equal(t, 0, c.Scene.Min)
	assert.Equal(t, 50, c.Scene.Max)
	assert.Equal(t, "{{ .Value }}", c.Scene.LabelTmpl)
	assert.Empty(t, c.Hooks)
}

func TestNewConfigWithBytes(t *testing.T) {
	c, err := NewConfigWithBytes([]byte(`
rpc:
  enable: true
  bind: 127.0.0.1:9090
scene:
  initial: 3
  min: 0
  max: 10
  label_tmpl: '{{ .Value | printf "%02d" }}'
hooks:
  - emitter: reset
    kind: tap
    script: log("reset")
  - emitter: value
    script: log(event.value)
notify:
  triggers:
    - reset:tap
    - value
    - emitter: slider
      kind: change
`))
	require.NoError(t, err)
	require.NoError(t, c.Verify())

	assert.Equal(t, "127.0.0.1:9090", c.RPC.Bind)
	assert.Equal(t, 3, c.Scene.Initial)
	assert.Equal(t, 1024, c.Journal.Size, "unset fields keep their default")

	require.Len(t, c.Hooks, 2)
	assert.Equal(t, Trigger{Emitter: "reset", Kind: "tap"}, c.Hooks[0].Trigger())
	assert.Equal(t, `log("reset")`, c.Hooks[0].Script)
	assert.Equal(t, Trigger{Emitter: "value", Kind: "change"}, c.Hooks[1].Trigger())

	assert.Equal(t, []Trigger{
		{Emitter: "reset", Kind: "tap"},
		{Emitter: "value", Kind: "change"},
		{Emitter: "slider", Kind: "change"},
	}, c.Notify.Triggers)
}

func TestVerify(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad bind", func(c *Config) { c.RPC.Bind = "not an address" }},
		{"empty range", func(c *Config) { c.Scene.Min, c.Scene.Max = 5, 5 }},
		{"initial out of range", func(c *Config) { c.Scene.Initial = 51 }},
		{"journal size", func(c *Config) { c.Journal.Size = 0 }},
		{"stats interval", func(c *Config) { c.StatsInterval = -1 }},
		{"unknown hook emitter", func(c *Config) {
			c.Hooks = []Hook{{Emitter: "knob", Script: "1"}}
		}},
		{"unknown hook kind", func(c *Config) {
			c.Hooks = []Hook{{Emitter: "value", Kind: "hover", Script: "1"}}
		}},
		{"empty hook script", func(c *Config) {
			c.Hooks = []Hook{{Emitter: "value", Script: "  "}}
		}},
		{"unknown trigger", func(c *Config) {
			c.Notify.Triggers = []Trigger{{Emitter: "label", Kind: "change"}}
		}},
		{"webhook without url", func(c *Config) { c.Notify.Webhook.Enable = true }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewConfig()
			tc.mutate(c)
			assert.Error(t, c.Verify())
		})
	}

	var nilConfig *Config
	assert.Error(t, nilConfig.Verify())
}

func TestRPCDisabledSkipsBindCheck(t *testing.T) {
	c := NewConfig()
	c.RPC = RPC{Enable: false, Bind: "garbage"}
	assert.NoError(t, c.Verify())
}

func TestMarshalRoundTrip(t *testing.T) {
	c := NewConfig()
	_, err := c.GetFilePath()
	assert.Error(t, err)
	assert.Error(t, c.Marshal())

	c.File = filepath.Join(t.TempDir(), "config.yml")
	c.Scene.Initial = 7
	require.NoError(t, c.Marshal())

	loaded, err := NewConfigWithFile(c.File)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Scene.Initial)
	path, err := loaded.GetFilePath()
	require.NoError(t, err)
	assert.Equal(t, c.File, path)
}

func TestNewConfigWithMissingFile(t *testing.T) {
	_, err := NewConfigWithFile(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestContainerDefaults(t *testing.T) {
	t.Setenv("IS_DOCKER", "true")
	c := NewConfig()
	assert.Equal(t, "0.0.0.0:8080", c.RPC.Bind)

	os.Unsetenv("IS_DOCKER")
	assert.Equal(t, "127.0.0.1:8080", NewConfig().RPC.Bind)
}

func TestCurrentConfig(t *testing.T) {
	old := GetCurrentConfig()
	t.Cleanup(func() { SetCurrentConfig(old) })

	c := NewConfig()
	SetCurrentConfig(c)
	assert.Same(t, c, GetCurrentConfig())
}
