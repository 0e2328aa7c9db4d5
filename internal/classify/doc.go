// Package classify maps a glucose reading to its clinical range category and
// the displayed value to a liveness verdict.
//
// range.go buckets the numeric value into low/normal/high against the
// configured thresholds (closed normal interval — boundary values are normal).
//
// liveness.go combines two independent staleness tests: the sample's own
// device-timestamp age, and the time since the last successful fetch.
// Contact recency dominates, because a payload can claim a fresh device
// timestamp while the process has actually lost contact with the store
// (an edge cache serving stale documents, for example).
//
// Both classifiers are pure functions of their inputs plus an explicit now,
// mirroring the rest of the per-cycle pipeline.
package classify
