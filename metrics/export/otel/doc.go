// Package otel publishes credkit engine metrics through an OpenTelemetry Meter.
//
// [NewExporter] creates one observable counter per engine counter, one
// cumulative gauge per latency bucket plus _count and _sum gauges, and gauges
// for the password pool. A single callback reads the engine on each
// collection; the caller owns the MeterProvider.
package otel
