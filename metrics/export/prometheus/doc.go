// Package prometheus exposes credkit engine metrics as a prometheus.Collector.
//
// [NewCollector] reads [credkit.Engine.MetricsSnapshot] and the password pool
// statistics on every scrape. Counters are named credkit_*_total and latency
// histograms credkit_*_latency_seconds. Register the collector on your own
// registry or serve it directly with [Collector.Handler]; nothing is added to
// the global default registry.
package prometheus
