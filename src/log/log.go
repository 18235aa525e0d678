package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bililive-go/eventdispatcher/src/configs"
	"github.com/bililive-go/eventdispatcher/src/instance"
	"github.com/bililive-go/eventdispatcher/src/interfaces"
)

const (
	lastLogFile = "last.log"
	logFileTmpl = "eventdispatcher-%s.log"
)

func logWriters(config *configs.Config) []io.Writer {
	writers := []io.Writer{os.Stderr}
	if config == nil || config.Log.OutPutFolder == "" {
		return writers
	}
	if !config.Log.SaveLastLog && !config.Log.SaveEveryLog {
		return writers
	}
	if err := os.MkdirAll(config.Log.OutPutFolder, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log folder %s: %v\n", config.Log.OutPutFolder, err)
		return writers
	}
	open := func(name string) {
		f, err := os.OpenFile(filepath.Join(config.Log.OutPutFolder, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", name, err)
			return
		}
		writers = append(writers, f)
	}
	if config.Log.SaveLastLog {
		open(lastLogFile)
	}
	if config.Log.SaveEveryLog {
		open(fmt.Sprintf(logFileTmpl, time.Now().Format("2006-01-02-15-04-05")))
	}
	return writers
}

// New builds the process logger and stores it on the instance found in ctx.
func New(ctx context.Context) *interfaces.Logger {
	inst := instance.GetInstance(ctx)
	var config *configs.Config
	if inst != nil {
		config = inst.Config
	}

	logLevel := logrus.InfoLevel
	if config != nil && config.Debug {
		logLevel = logrus.DebugLevel
	}

	logger := &interfaces.Logger{Logger: &logrus.Logger{
		Out: io.MultiWriter(logWriters(config)...),
		Formatter: &logrus.TextFormatter{
			DisableColors:   true,
			DisableQuote:    true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		},
		Hooks: make(logrus.LevelHooks),
		Level: logLevel,
	}}

	if inst != nil {
		inst.Logger = logger
	}
	return logger
}
