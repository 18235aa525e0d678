package main

import (
	"context"
	"time"

	"github.com/lthibault/jitterbug"
	"github.com/sirupsen/logrus"

	"github.com/bililive-go/eventdispatcher/src/instance"
	"github.com/bililive-go/eventdispatcher/src/pkg/events"
)

// reportStats logs the registry stats until ctx is done.
func reportStats(ctx context.Context, r *events.Registry, logger logrus.FieldLogger) {
	interval := time.Duration(instance.GetInstance(ctx).Config.StatsInterval) * time.Second
	ticker := jitterbug.New(interval, &jitterbug.Norm{Stdev: interval / 10})
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := r.Stats()
			logger.WithFields(logrus.Fields{
				"emitters":   stats.Emitters,
				"listeners":  stats.Listeners,
				"dispatched": stats.Dispatched,
			}).Info("registry stats")
		}
	}
}
