// Package metrics exposes the daemon's cycle counters and the current
// reading as a Prometheus text endpoint.
//
// The collector is a plain mutex-guarded struct; families are materialized
// on each scrape and written with expfmt, so the endpoint never retains
// per-scrape state. Counters cover cycles, fetch failures by reason, parse
// failures, and fired alerts; gauges track the current value, range
// category, and liveness verdict.
package metrics
