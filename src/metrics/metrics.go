package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bililive-go/eventdispatcher/src/consts"
	"github.com/bililive-go/eventdispatcher/src/instance"
	"github.com/bililive-go/eventdispatcher/src/pkg/events"
)

const namespace = "eventdispatcher"

var (
	emittersDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "emitters"),
		"Number of emitters with at least one listener.",
		nil, nil,
	)
	listenersDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "listeners"),
		"Number of registered listeners.",
		[]string{"kind"}, nil,
	)
	dispatchedDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "dispatched_events_total"),
		"Number of dispatched events.",
		[]string{"kind"}, nil,
	)
	buildInfoDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "build_info"),
		"Build information.",
		[]string{"version", "git_hash", "go_version"}, nil,
	)
)

// Collector exports the stats of a registry on every scrape.
type Collector struct {
	registry *events.Registry
}

func New(r *events.Registry) *Collector {
	return &Collector{registry: r}
}

// NewCollector builds a collector over the registry of the instance in ctx.
func NewCollector(ctx context.Context) *Collector {
	return New(instance.GetInstance(ctx).Registry)
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- emittersDesc
	ch <- listenersDesc
	ch <- dispatchedDesc
	ch <- buildInfoDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.registry.Stats()
	ch <- prometheus.MustNewConstMetric(emittersDesc, prometheus.GaugeValue, float64(stats.Emitters))
	for _, kind := range events.Kinds() {
		ch <- prometheus.MustNewConstMetric(listenersDesc, prometheus.GaugeValue,
			float64(stats.Listeners[kind]), string(kind))
		ch <- prometheus.MustNewConstMetric(dispatchedDesc, prometheus.CounterValue,
			float64(stats.Dispatched[kind]), string(kind))
	}
	ch <- prometheus.MustNewConstMetric(buildInfoDesc, prometheus.GaugeValue, 1,
		consts.AppInfo.AppVersion, consts.AppInfo.GitHash, consts.AppInfo.GoVersion)
}

// Start registers the collector on the default prometheus registerer.
func (c *Collector) Start(ctx context.Context) error {
	return prometheus.Register(c)
}

func (c *Collector) Close(ctx context.Context) {
	prometheus.Unregister(c)
}
