package sched

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/glucowatch/glucowatch/internal/alert"
	"github.com/glucowatch/glucowatch/internal/classify"
	"github.com/glucowatch/glucowatch/internal/config"
	"github.com/glucowatch/glucowatch/internal/display"
	"github.com/glucowatch/glucowatch/internal/fetch"
	"github.com/glucowatch/glucowatch/internal/metrics"
	"github.com/glucowatch/glucowatch/internal/reading"
)

// Fetcher acquires one raw reading document. Satisfied by *fetch.Client.
type Fetcher interface {
	Poll(ctx context.Context) ([]byte, error)
}

// Deliverer pushes a fired alert out to its targets. Satisfied by
// *alert.Notifier.
type Deliverer interface {
	Deliver(a alert.Alert)
}

// Sink consumes finished display updates. Classification is complete
// before Render is called; implementations only draw.
type Sink interface {
	Render(Update)
}

// Update is one cycle's complete output.
type Update struct {
	At             time.Time         `json:"at"`
	HasReading     bool              `json:"has_reading"`
	Value          float64           `json:"value"`
	Category       classify.Category `json:"category"`
	Verdict        classify.Verdict  `json:"verdict"`
	EnteredLowZone bool              `json:"entered_low_zone"`
	Frames         display.Bundle    `json:"frames"`
}

// Snapshot is the latest Update plus the retained fetch state, served by
// the status API.
type Snapshot struct {
	Update

	LastSuccessAt time.Time `json:"last_success_at"`
	DeviceTime    time.Time `json:"device_time"`
	InLowZone     bool      `json:"in_low_zone"`
}

// lastKnown is the retained reading state. The reading pointer is nil
// until the first successful fetch of the process lifetime.
type lastKnown struct {
	reading   *reading.Reading
	successAt time.Time
}

// Scheduler drives the poll cycle. Run is its single writer; Snapshot and
// SetThresholds are safe from other goroutines.
type Scheduler struct {
	fetcher   Fetcher
	machine   *alert.Machine
	deliverer Deliverer
	collector *metrics.Collector
	opts      display.Options
	interval  time.Duration
	log       *slog.Logger

	// now is the cycle clock; replaced in tests.
	now func() time.Time

	mu     sync.RWMutex
	rangeT classify.RangeThresholds
	liveT  classify.LivenessThresholds
	known  lastKnown
	last   Snapshot
	sinks  []Sink
}

// New builds a Scheduler from the loaded config. deliverer may be nil when
// no webhooks are configured.
func New(cfg *config.Config, f Fetcher, m *alert.Machine, d Deliverer, c *metrics.Collector) *Scheduler {
	return &Scheduler{
		fetcher:   f,
		machine:   m,
		deliverer: d,
		collector: c,
		opts: display.Options{
			IconWidth:  cfg.Display.IconWidth,
			IconHeight: cfg.Display.IconHeight,
		},
		interval: cfg.Source.PollInterval,
		log:      slog.Default().With("component", "scheduler"),
		now:      time.Now,
		rangeT:   classify.RangeThresholds{Low: cfg.Thresholds.Low, High: cfg.Thresholds.High},
		liveT:    classify.LivenessThresholds{Age: cfg.Thresholds.Age, Contact: cfg.Thresholds.Contact},
	}
}

// AddSink registers a display sink. Sinks added after Run starts receive
// updates from the next cycle on.
func (s *Scheduler) AddSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// SetThresholds swaps in retuned thresholds. Takes effect on the next cycle.
func (s *Scheduler) SetThresholds(t config.ThresholdsConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rangeT = classify.RangeThresholds{Low: t.Low, High: t.High}
	s.liveT = classify.LivenessThresholds{Age: t.Age, Contact: t.Contact}
	s.log.Info("thresholds retuned",
		"low", t.Low, "high", t.High, "age", t.Age, "contact", t.Contact)
}

// Snapshot returns the state left behind by the most recent cycle.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Alerts returns the fired-alert history, oldest first.
func (s *Scheduler) Alerts() []alert.Alert {
	return s.machine.History()
}

// Run executes cycles until ctx is cancelled. The first cycle runs
// immediately; later ones follow the poll interval.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("scheduler started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.Cycle(ctx)
		}
	}
}

// Cycle runs one fetch→parse→classify→alert→render pass and returns the
// resulting snapshot. Fetch and parse failures abort only the acquisition
// half; classification and rendering always run against the retained state.
func (s *Scheduler) Cycle(ctx context.Context) Snapshot {
	now := s.now()
	s.collector.IncCycle()

	body, err := s.fetcher.Poll(ctx)
	switch {
	case err != nil:
		s.collector.IncFetchFailure(failureReason(err))
		s.log.Warn("fetch failed", "error", err)
	case ctx.Err() != nil:
		// Shutdown raced the fetch; discard the result unrecorded.
	default:
		r, perr := reading.Parse(body, now)
		if perr != nil {
			s.collector.IncParseFailure()
			s.log.Warn("payload rejected", "error", perr)
		} else {
			s.mu.Lock()
			s.known = lastKnown{reading: &r, successAt: now}
			s.mu.Unlock()
		}
	}

	s.mu.RLock()
	known := s.known
	rangeT, liveT := s.rangeT, s.liveT
	sinks := s.sinks
	s.mu.RUnlock()

	value := math.NaN()
	var deviceTime time.Time
	hasReading := known.reading != nil
	if hasReading {
		value = known.reading.Value
		deviceTime = known.reading.DeviceTime
	}

	verdict := classify.Liveness(now, deviceTime, known.successAt, liveT)

	// An invalid value carries no clinical meaning: it never classifies
	// and never touches the alert machine. Displays render their own
	// fallback for it.
	valid := hasReading && !math.IsNaN(value) && value >= 0

	cat := classify.CategoryNormal
	var dec alert.Decision
	if valid {
		cat = classify.Range(value, rangeT)
		dec = s.machine.Observe(now, value, cat, verdict)
		if dec.Notify {
			s.collector.IncAlert()
			s.log.Warn("low glucose alert", "value", value, "verdict", verdict)
			if s.deliverer != nil {
				go s.deliverer.Deliver(dec.Alert)
			}
		}
		s.collector.SetReading(value, cat, verdict)
	}

	upd := Update{
		At:             now,
		HasReading:     hasReading,
		Category:       cat,
		Verdict:        verdict,
		EnteredLowZone: dec.EnteredLowZone,
		Frames:         display.Encode(value, cat, verdict, s.opts),
	}
	if valid {
		// NaN is not representable in JSON; Value stays zero otherwise.
		upd.Value = value
	}

	snap := Snapshot{
		Update:        upd,
		LastSuccessAt: known.successAt,
		DeviceTime:    deviceTime,
		InLowZone:     s.machine.InLowZone(),
	}

	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()

	for _, sink := range sinks {
		sink.Render(upd)
	}
	return snap
}

// failureReason maps a fetch error onto its metrics label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, fetch.ErrLinkDown):
		return metrics.ReasonLinkDown
	case errors.Is(err, fetch.ErrTimeout):
		return metrics.ReasonTimeout
	default:
		return metrics.ReasonRequest
	}
}
