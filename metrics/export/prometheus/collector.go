package prometheus

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrEthical07/credkit"
	"github.com/MrEthical07/credkit/metrics/export/internaldefs"
	"github.com/MrEthical07/credkit/password"
)

type metricsSource interface {
	MetricsSnapshot() credkit.MetricsSnapshot
	PoolStats() password.PoolStats
}

// Collector implements prometheus.Collector over an engine.
type Collector struct {
	source     metricsSource
	counters   []*prom.Desc
	histograms []*prom.Desc
	queued     *prom.Desc
	inFlight   *prom.Desc
	completed  *prom.Desc
}

var _ prom.Collector = (*Collector)(nil)

// NewCollector returns a collector reading from engine.
func NewCollector(engine *credkit.Engine) *Collector {
	return NewCollectorFromSource(engine)
}

// NewCollectorFromSource returns a collector reading from any value with the
// engine's MetricsSnapshot and PoolStats methods.
func NewCollectorFromSource(source metricsSource) *Collector {
	c := &Collector{
		source:     source,
		counters:   make([]*prom.Desc, len(internaldefs.CounterDefs)),
		histograms: make([]*prom.Desc, len(internaldefs.HistogramDefs)),
		queued:     prom.NewDesc(internaldefs.PoolQueuedName, "Password jobs waiting for a worker.", nil, nil),
		inFlight:   prom.NewDesc(internaldefs.PoolInFlightName, "Password jobs currently running.", nil, nil),
		completed:  prom.NewDesc(internaldefs.PoolCompletedName, "Password jobs finished.", nil, nil),
	}
	for i, def := range internaldefs.CounterDefs {
		c.counters[i] = prom.NewDesc(def.Name, def.Help, nil, nil)
	}
	for i, def := range internaldefs.HistogramDefs {
		c.histograms[i] = prom.NewDesc(def.Name, def.Help, nil, nil)
	}
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prom.Desc) {
	for _, d := range c.counters {
		ch <- d
	}
	for _, d := range c.histograms {
		ch <- d
	}
	ch <- c.queued
	ch <- c.inFlight
	ch <- c.completed
}

// Collect implements prometheus.Collector. Series the engine does not record
// (metrics or latency disabled) are left out.
func (c *Collector) Collect(ch chan<- prom.Metric) {
	if c == nil || c.source == nil {
		return
	}

	snapshot := c.source.MetricsSnapshot()
	for i, def := range internaldefs.CounterDefs {
		v, ok := snapshot.Counters[def.ID]
		if !ok {
			continue
		}
		ch <- prom.MustNewConstMetric(c.counters[i], prom.CounterValue, float64(v))
	}

	for i, def := range internaldefs.HistogramDefs {
		raw, ok := snapshot.Histograms[def.ID]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		buckets := make(map[float64]uint64, len(internaldefs.HistogramUpperBounds))
		for j, le := range internaldefs.HistogramUpperBounds {
			buckets[le] = cumulative[j]
		}
		sum := snapshot.HistogramSums[def.ID].Seconds()
		ch <- prom.MustNewConstHistogram(c.histograms[i], cumulative[len(cumulative)-1], sum, buckets)
	}

	stats := c.source.PoolStats()
	ch <- prom.MustNewConstMetric(c.queued, prom.GaugeValue, float64(stats.Queued))
	ch <- prom.MustNewConstMetric(c.inFlight, prom.GaugeValue, float64(stats.InFlight))
	ch <- prom.MustNewConstMetric(c.completed, prom.CounterValue, float64(stats.Completed))
}

// Handler serves this collector alone from a private registry.
func (c *Collector) Handler() http.Handler {
	reg := prom.NewRegistry()
	reg.MustRegister(c)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
