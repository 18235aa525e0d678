package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bluele/gcache"

	"github.com/bililive-go/eventdispatcher/src/cmd/eventdispatcher/internal/flag"
	"github.com/bililive-go/eventdispatcher/src/configs"
	"github.com/bililive-go/eventdispatcher/src/consts"
	"github.com/bililive-go/eventdispatcher/src/hooks"
	"github.com/bililive-go/eventdispatcher/src/instance"
	"github.com/bililive-go/eventdispatcher/src/journal"
	"github.com/bililive-go/eventdispatcher/src/log"
	"github.com/bililive-go/eventdispatcher/src/metrics"
	"github.com/bililive-go/eventdispatcher/src/notify"
	"github.com/bililive-go/eventdispatcher/src/pkg/events"
	"github.com/bililive-go/eventdispatcher/src/scene"
	"github.com/bililive-go/eventdispatcher/src/servers"
)

func getConfig() (*configs.Config, error) {
	var config *configs.Config
	if *flag.Conf != "" {
		c, err := configs.NewConfigWithFile(*flag.Conf)
		if err != nil {
			return nil, err
		}
		config = c
	} else {
		config = flag.GenConfigFromFlags()
		// if no flag is given, try using the config.yml file besides the executable file.
		if len(os.Args) <= 1 {
			if c, err := getConfigBesidesExecutable(); err == nil {
				config = c
			}
		}
	}
	return config, config.Verify()
}

func getConfigBesidesExecutable() (*configs.Config, error) {
	exePath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	configPath := filepath.Join(filepath.Dir(exePath), "config.yml")
	return configs.NewConfigWithFile(configPath)
}

func main() {
	if err := flag.Parse(os.Args[1:]); err != nil {
		fmt.Fprint(os.Stderr, err.Error())
		os.Exit(1)
	}

	config, err := getConfig()
	if err != nil {
		fmt.Fprint(os.Stderr, err.Error())
		os.Exit(1)
	}

	configs.SetCurrentConfig(config)

	inst := new(instance.Instance)
	inst.Config = config
	inst.Cache = gcache.New(config.Journal.Size).LRU().Build()
	ctx := context.WithValue(context.Background(), instance.Key, inst)

	logger := log.New(ctx)
	logger.Infof("%s Version: %s Link Start", consts.AppName, consts.AppVersion)
	if config.File != "" {
		logger.Debugf("config path: %s.", config.File)
		logger.Debugf("other flags have been ignored.")
	} else {
		logger.Debugf("config file is not used.")
		logger.Debugf("flag: %s used.", os.Args)
	}
	logger.Debugf("%+v", consts.AppInfo)
	logger.Debugf("%+v", inst.Config)

	inst.Registry = events.NewRegistry(events.WithLogger(logger))
	if err = inst.Registry.Start(ctx); err != nil {
		logger.Fatalf("failed to init event registry, error: %s", err)
	}

	sc, err := scene.NewScene(ctx)
	if err != nil {
		logger.Fatalf("failed to init scene, error: %s", err)
	}
	jn, err := journal.NewJournal(ctx, sc, consts.EmitterNames...)
	if err != nil {
		logger.Fatalf("failed to init journal, error: %s", err)
	}
	hm, err := hooks.NewManager(ctx, sc)
	if err != nil {
		logger.Fatalf("failed to init hooks, error: %s", err)
	}
	nf, err := notify.NewNotifier(ctx, sc)
	if err != nil {
		logger.Fatalf("failed to init notifier, error: %s", err)
	}

	// listeners installed before the scene is mounted see every event it produces
	for _, m := range []interface {
		Start(ctx context.Context) error
	}{jn, hm, nf, sc} {
		if err = m.Start(ctx); err != nil {
			logger.Fatalf("failed to start %T, error: %s", m, err)
		}
	}

	collector := metrics.NewCollector(ctx)
	if err = collector.Start(ctx); err != nil {
		logger.Fatalf("failed to init metrics collector, error: %s", err)
	}

	// 启动 server 要在 scene 初始化之后，否则可能会出现空指针异常
	if inst.Config.RPC.Enable {
		if err = servers.NewServer(ctx).Start(ctx); err != nil {
			logger.WithError(err).Fatalf("failed to init server")
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	inst.WaitGroup.Add(1)
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer inst.WaitGroup.Done()
		<-c
		defer cancel()
		if inst.Config.RPC.Enable {
			inst.Server.Close(ctx)
		}
		nf.Close(ctx)
		hm.Close(ctx)
		jn.Close(ctx)
		sc.Close(ctx)
		collector.Close(ctx)
		inst.Registry.Close(ctx)
	}()

	if inst.Config.Debug {
		go reportStats(ctx, inst.Registry, logger)
	}
	inst.WaitGroup.Wait()
	logger.Info("Bye~")
}
