package flag

import (
	"time"

	"github.com/alecthomas/kingpin"

	"github.com/bililive-go/eventdispatcher/src/configs"
	"github.com/bililive-go/eventdispatcher/src/consts"
)

var (
	app = kingpin.New(consts.AppName, "A headless counter scene driven by an event registry.").Version(consts.AppVersion)

	Debug         = app.Flag("debug", "Enable debug mode.").Default("false").Bool()
	Conf          = app.Flag("config", "Config file.").Short('c').String()
	RPC           = app.Flag("enable-rpc", "Enable RPC server.").Default("true").Bool()
	RPCBind       = app.Flag("rpc-bind", "RPC server bind address").Default("127.0.0.1:8080").String()
	Initial       = app.Flag("initial", "Initial counter value.").Default("25").Int()
	Min           = app.Flag("min", "Lowest counter value.").Default("0").Int()
	Max           = app.Flag("max", "Highest counter value.").Default("50").Int()
	Label         = app.Flag("label", "Label text template.").Default("{{ .Value }}").String()
	JournalSize   = app.Flag("journal-size", "Number of recent events kept.").Default("1024").Int()
	StatsInterval = app.Flag("stats-interval", "Interval of the registry stats report in debug mode.").Default("30s").Duration()
)

// Parse reads the command line arguments.
func Parse(args []string) error {
	_, err := app.Parse(args)
	return err
}

func GenConfigFromFlags() *configs.Config {
	cfg := configs.NewConfig()
	cfg.RPC = configs.RPC{
		Enable: *RPC,
		Bind:   *RPCBind,
	}
	cfg.Debug = *Debug
	cfg.Scene = configs.Scene{
		Initial:   *Initial,
		Min:       *Min,
		Max:       *Max,
		LabelTmpl: *Label,
	}
	cfg.Journal.Size = *JournalSize
	cfg.StatsInterval = statsSeconds(*StatsInterval)
	return cfg
}

// statsSeconds rounds d up to whole seconds.
func statsSeconds(d time.Duration) int {
	if d <= 0 {
		return int(d / time.Second)
	}
	return int((d + time.Second - 1) / time.Second)
}
