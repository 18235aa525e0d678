package instance

import (
	"context"
	"sync"

	"github.com/bluele/gcache"

	"github.com/bililive-go/eventdispatcher/src/configs"
	"github.com/bililive-go/eventdispatcher/src/interfaces"
	"github.com/bililive-go/eventdispatcher/src/pkg/events"
)

type key int

const Key key = 114514

type Instance struct {
	WaitGroup sync.WaitGroup
	Config    *configs.Config
	Logger    *interfaces.Logger
	Registry  *events.Registry
	Cache     gcache.Cache
	Scene     interfaces.Module
	Journal   interfaces.Module
	Hooks     interfaces.Module
	Notifier  interfaces.Module
	Server    interfaces.Module
}

func GetInstance(ctx context.Context) *Instance {
	if ctx == nil {
		return nil
	}
	if s, ok := ctx.Value(Key).(*Instance); ok {
		return s
	}
	return nil
}
