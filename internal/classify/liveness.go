package classify

import "time"

// Verdict is the trust level of the currently displayed reading.
type Verdict string

// Liveness verdicts returned by Liveness.
const (
	// VerdictLive means the reading is current on both tests.
	VerdictLive Verdict = "live"

	// VerdictStale means contact is recent but the sample's own timestamp
	// is older than the age window.
	VerdictStale Verdict = "stale"

	// VerdictOffline means the process has not heard from the store within
	// the contact window (or ever).
	VerdictOffline Verdict = "offline"
)

// LivenessThresholds holds the two staleness windows.
type LivenessThresholds struct {
	// Age bounds how old a device timestamp may be.
	Age time.Duration

	// Contact bounds how long ago the last successful fetch may be.
	Contact time.Duration
}

// Liveness derives the verdict for a displayed reading.
//
// deviceTime is the sample's own timestamp (zero when the payload carried
// none — the age test is then skipped). lastSuccessAt is when the most
// recent successful fetch completed (zero when none has ever succeeded).
//
// The contact test wins over the age test: failing it yields offline no
// matter what the payload claims about itself. Never having fetched
// successfully is always offline.
func Liveness(now time.Time, deviceTime, lastSuccessAt time.Time, t LivenessThresholds) Verdict {
	if lastSuccessAt.IsZero() || now.Sub(lastSuccessAt) > t.Contact {
		return VerdictOffline
	}
	if !deviceTime.IsZero() && now.Sub(deviceTime) > t.Age {
		return VerdictStale
	}
	return VerdictLive
}
