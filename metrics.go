package credkit

import (
	"sync/atomic"
	"time"
)

// MetricID names one engine counter or latency histogram.
type MetricID uint16

const (
	MetricTokenIssued MetricID = iota
	MetricTokenIssueRejected
	MetricTokenVerified
	MetricTokenMalformed
	MetricTokenSignatureInvalid
	MetricTokenExpired
	MetricHeaderMalformed
	MetricPasswordHashed
	MetricPasswordHashRejected
	MetricPasswordMatch
	MetricPasswordMismatch
	MetricPasswordHashMalformed
	MetricPasswordRehashNeeded
	MetricPasswordStrengthRejected
	MetricVerifyLatency
	MetricHashLatency
	MetricCompareLatency
	metricIDCount
)

// latencyBoundsMs are the inclusive upper bounds of every histogram bucket
// but the last, which takes everything slower.
var latencyBoundsMs = [...]int64{5, 10, 25, 50, 100, 250, 500}

const histBucketCount = len(latencyBoundsMs) + 1

// MetricsConfig switches engine metrics on. Latency histograms are only
// recorded when both fields are true.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// counter sits alone on a cache line so hot verify counters updated from many
// cores do not contend.
type counter struct {
	n atomic.Uint64
	_ [56]byte
}

type latencyHistogram [histBucketCount]atomic.Uint64

// Metrics is a fixed set of lock-free counters and bucketed latency
// histograms. The zero value and a nil *Metrics record nothing.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]counter
	latency       [len(latencyMetrics)]latencyHistogram
	latencySumNs  [len(latencyMetrics)]atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of every counter, plus the
// non-cumulative buckets and total observed time of each latency histogram
// when latency is enabled.
type MetricsSnapshot struct {
	Counters      map[MetricID]uint64
	Histograms    map[MetricID][]uint64
	HistogramSums map[MetricID]time.Duration
}

// NewMetrics returns metrics configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool { return m != nil && m.enabled }

// LatencyEnabled reports whether histograms are recorded.
func (m *Metrics) LatencyEnabled() bool { return m != nil && m.enableLatency }

// Inc adds one to counter id.
func (m *Metrics) Inc(id MetricID) {
	if !m.Enabled() || id >= metricIDCount {
		return
	}
	m.counters[id].n.Add(1)
}

// Observe records d in histogram id. Only latency IDs carry histograms.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if !m.LatencyEnabled() {
		return
	}
	slot := latencySlot(id)
	if slot < 0 {
		return
	}
	m.latency[slot][bucketIndex(d)].Add(1)
	if d > 0 {
		m.latencySumNs[slot].Add(uint64(d))
	}
}

// Value returns the current value of counter id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return m.counters[id].n.Load()
}

// Snapshot copies the current values. Disabled metrics give empty maps.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Counters:      map[MetricID]uint64{},
		Histograms:    map[MetricID][]uint64{},
		HistogramSums: map[MetricID]time.Duration{},
	}
	if !m.Enabled() {
		return s
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if latencySlot(id) >= 0 {
			continue
		}
		s.Counters[id] = m.counters[id].n.Load()
	}

	if m.enableLatency {
		for slot, id := range latencyMetrics {
			buckets := make([]uint64, histBucketCount)
			for i := range buckets {
				buckets[i] = m.latency[slot][i].Load()
			}
			s.Histograms[id] = buckets
			s.HistogramSums[id] = time.Duration(m.latencySumNs[slot].Load())
		}
	}
	return s
}

var latencyMetrics = [...]MetricID{MetricVerifyLatency, MetricHashLatency, MetricCompareLatency}

// latencySlot returns the histogram index for id, or -1 for plain counters.
func latencySlot(id MetricID) int {
	for slot, lid := range latencyMetrics {
		if lid == id {
			return slot
		}
	}
	return -1
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()
	for i, bound := range latencyBoundsMs {
		if ms <= bound {
			return i
		}
	}
	return len(latencyBoundsMs)
}
