package alert

import (
	"fmt"
	"sync"
	"time"

	"github.com/glucowatch/glucowatch/internal/classify"
	"github.com/glucowatch/glucowatch/internal/config"
)

// maxHistoryLen caps the fired-alert history kept for the control API.
const maxHistoryLen = 50

// Alert is one fired low-glucose warning.
type Alert struct {
	Value    float64           `json:"value"`
	Category classify.Category `json:"category"`
	Verdict  classify.Verdict  `json:"verdict"`
	FiredAt  time.Time         `json:"fired_at"`
	Message  string            `json:"message"`
}

// Decision is the outcome of one cycle's observation.
type Decision struct {
	// Notify is true when exactly this cycle should emit a warning.
	Notify bool

	// EnteredLowZone is true on the normal→low edge, regardless of policy.
	EnteredLowZone bool

	// Alert is the warning to deliver; only meaningful when Notify is true.
	Alert Alert
}

// Machine is the low-zone edge detector. It holds the only alert state in
// the process: whether the last observed category was low, and when the last
// warning fired. The scheduler is its single writer; History and InLowZone
// are safe for concurrent readers.
type Machine struct {
	policy         string
	repeatInterval time.Duration

	mu            sync.Mutex
	inLowZone     bool
	lastWarningAt time.Time
	history       []Alert
}

// NewMachine builds a Machine with the configured repeat policy.
func NewMachine(cfg config.AlertsConfig) *Machine {
	return &Machine{
		policy:         cfg.Policy,
		repeatInterval: cfg.RepeatInterval,
	}
}

// Observe consumes one cycle's (category, verdict) pair and decides whether
// to warn. The in-low-zone flag tracks the most recent category exactly:
// it is the single source of truth for edge detection.
func (m *Machine) Observe(now time.Time, value float64, cat classify.Category, verdict classify.Verdict) Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cat != classify.CategoryLow {
		// Zone exit resets silently; re-entry will warn again.
		m.inLowZone = false
		return Decision{}
	}

	entered := !m.inLowZone
	m.inLowZone = true

	notify := entered
	if !notify && m.policy == config.PolicyRepeat {
		notify = now.Sub(m.lastWarningAt) >= m.repeatInterval
	}
	if !notify {
		return Decision{}
	}

	m.lastWarningAt = now
	a := Alert{
		Value:    value,
		Category: cat,
		Verdict:  verdict,
		FiredAt:  now,
		Message:  fmt.Sprintf("low glucose reading: %.1f mmol/L (liveness: %s)", value, verdict),
	}
	m.history = append(m.history, a)
	if len(m.history) > maxHistoryLen {
		m.history = m.history[len(m.history)-maxHistoryLen:]
	}

	return Decision{Notify: true, EnteredLowZone: entered, Alert: a}
}

// InLowZone reports whether the most recent observation was low.
func (m *Machine) InLowZone() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inLowZone
}

// History returns a copy of the fired-alert history, oldest first.
func (m *Machine) History() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alert, len(m.history))
	copy(out, m.history)
	return out
}
