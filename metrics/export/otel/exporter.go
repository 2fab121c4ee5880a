package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/MrEthical07/credkit"
	"github.com/MrEthical07/credkit/metrics/export/internaldefs"
	"github.com/MrEthical07/credkit/password"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() credkit.MetricsSnapshot
	PoolStats() password.PoolStats
}

type observedCounter struct {
	id         credkit.MetricID
	instrument metric.Int64ObservableCounter
}

type observedHistogram struct {
	id      credkit.MetricID
	buckets [internaldefs.BucketCount]metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
	sum     metric.Float64ObservableGauge
}

// Exporter holds the instruments and callback registered on a Meter.
type Exporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
	histograms   []observedHistogram
	poolQueued   metric.Int64ObservableGauge
	poolInFlight metric.Int64ObservableGauge
	poolDone     metric.Int64ObservableCounter
}

// NewExporter registers instruments on meter that read from engine.
func NewExporter(meter metric.Meter, engine *credkit.Engine) (*Exporter, error) {
	if engine == nil {
		return nil, ErrNilSource
	}
	return NewExporterFromSource(meter, engine)
}

// NewExporterFromSource is NewExporter for any value exposing the engine's
// MetricsSnapshot and PoolStats methods.
func NewExporterFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &Exporter{
		source:     source,
		counters:   make([]observedCounter, 0, len(internaldefs.CounterDefs)),
		histograms: make([]observedHistogram, 0, len(internaldefs.HistogramDefs)),
	}
	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+len(internaldefs.HistogramDefs)*(internaldefs.BucketCount+2)+3)

	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", def.Name, err)
		}
		e.counters = append(e.counters, observedCounter{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	for _, def := range internaldefs.HistogramDefs {
		h := observedHistogram{id: def.ID}
		for i, suffix := range internaldefs.HistogramBoundSuffix {
			name := def.Name + "_bucket_le_" + suffix
			ins, err := meter.Int64ObservableGauge(name, metric.WithDescription("Cumulative bucket count. "+def.Help))
			if err != nil {
				return nil, fmt.Errorf("create bucket gauge %s: %w", name, err)
			}
			h.buckets[i] = ins
			observables = append(observables, ins)
		}
		count, err := meter.Int64ObservableGauge(def.Name+"_count", metric.WithDescription("Sample count. "+def.Help))
		if err != nil {
			return nil, fmt.Errorf("create count gauge %s_count: %w", def.Name, err)
		}
		sum, err := meter.Float64ObservableGauge(def.Name+"_sum",
			metric.WithDescription("Total observed seconds. "+def.Help), metric.WithUnit("s"))
		if err != nil {
			return nil, fmt.Errorf("create sum gauge %s_sum: %w", def.Name, err)
		}
		h.count = count
		h.sum = sum
		observables = append(observables, count, sum)
		e.histograms = append(e.histograms, h)
	}

	var err error
	if e.poolQueued, err = meter.Int64ObservableGauge(internaldefs.PoolQueuedName,
		metric.WithDescription("Password jobs waiting for a worker.")); err != nil {
		return nil, fmt.Errorf("create pool gauge: %w", err)
	}
	if e.poolInFlight, err = meter.Int64ObservableGauge(internaldefs.PoolInFlightName,
		metric.WithDescription("Password jobs currently running.")); err != nil {
		return nil, fmt.Errorf("create pool gauge: %w", err)
	}
	if e.poolDone, err = meter.Int64ObservableCounter(internaldefs.PoolCompletedName,
		metric.WithDescription("Password jobs finished.")); err != nil {
		return nil, fmt.Errorf("create pool counter: %w", err)
	}
	observables = append(observables, e.poolQueued, e.poolInFlight, e.poolDone)

	e.registration, err = meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	return e, nil
}

func (e *Exporter) observe(_ context.Context, o metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()
	for _, c := range e.counters {
		if v, ok := snapshot.Counters[c.id]; ok {
			o.ObserveInt64(c.instrument, int64(v))
		}
	}
	for _, h := range e.histograms {
		raw, ok := snapshot.Histograms[h.id]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		for i, v := range cumulative {
			o.ObserveInt64(h.buckets[i], int64(v))
		}
		o.ObserveInt64(h.count, int64(cumulative[len(cumulative)-1]))
		o.ObserveFloat64(h.sum, snapshot.HistogramSums[h.id].Seconds())
	}

	stats := e.source.PoolStats()
	o.ObserveInt64(e.poolQueued, int64(stats.Queued))
	o.ObserveInt64(e.poolInFlight, stats.InFlight)
	o.ObserveInt64(e.poolDone, int64(stats.Completed))
	return nil
}

// Close unregisters the callback. The instruments stay on the Meter.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
