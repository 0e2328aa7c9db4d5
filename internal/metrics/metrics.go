package metrics

import (
	"net/http"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/glucowatch/glucowatch/internal/classify"
)

// Fetch failure reasons used as the label value on fetch_failures_total.
const (
	ReasonLinkDown = "link_down"
	ReasonTimeout  = "timeout"
	ReasonRequest  = "request"
)

// Collector accumulates the daemon's operational counters and the current
// reading. Safe for concurrent use: the scheduler writes, scrapes read.
type Collector struct {
	mu            sync.Mutex
	cycles        float64
	fetchFailures map[string]float64
	parseFailures float64
	alertsFired   float64

	hasReading bool
	value      float64
	category   classify.Category
	verdict    classify.Verdict
}

// NewCollector returns a ready-to-use Collector.
func NewCollector() *Collector {
	return &Collector{fetchFailures: make(map[string]float64)}
}

// IncCycle counts one completed cycle, successful or not.
func (c *Collector) IncCycle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cycles++
}

// IncFetchFailure counts one failed acquisition attempt by reason.
func (c *Collector) IncFetchFailure(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchFailures[reason]++
}

// IncParseFailure counts one undecodable or value-less payload.
func (c *Collector) IncParseFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parseFailures++
}

// IncAlert counts one fired low-glucose warning.
func (c *Collector) IncAlert() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alertsFired++
}

// SetReading records the currently displayed reading and its classification.
func (c *Collector) SetReading(value float64, cat classify.Category, verdict classify.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasReading = true
	c.value = value
	c.category = cat
	c.verdict = verdict
}

// ServeHTTP writes the current families in Prometheus text format.
func (c *Collector) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	families := c.gather()

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))

	enc := expfmt.NewEncoder(w, format)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			// The client went away mid-scrape; nothing useful to do.
			return
		}
	}
}

// gather materializes the metric families from the current counters.
func (c *Collector) gather() []*dto.MetricFamily {
	c.mu.Lock()
	defer c.mu.Unlock()

	families := []*dto.MetricFamily{
		counterFamily("glucowatch_cycles_total",
			"Total poll cycles run.",
			counterMetric(c.cycles)),
		counterFamily("glucowatch_parse_failures_total",
			"Total payloads that failed to parse into a reading.",
			counterMetric(c.parseFailures)),
		counterFamily("glucowatch_alerts_fired_total",
			"Total low-glucose warnings fired.",
			counterMetric(c.alertsFired)),
	}

	if len(c.fetchFailures) > 0 {
		mf := counterFamily("glucowatch_fetch_failures_total",
			"Total failed acquisition attempts by reason.")
		for _, reason := range []string{ReasonLinkDown, ReasonTimeout, ReasonRequest} {
			if v, ok := c.fetchFailures[reason]; ok {
				m := counterMetric(v)
				m.Label = []*dto.LabelPair{labelPair("reason", reason)}
				mf.Metric = append(mf.Metric, m)
			}
		}
		families = append(families, mf)
	}

	if c.hasReading {
		families = append(families,
			gaugeFamily("glucowatch_glucose_mmol_per_l",
				"Currently displayed glucose value.",
				gaugeMetric(c.value, nil)),
			gaugeFamily("glucowatch_reading_category",
				"Current range category (1 for the active one).",
				gaugeMetric(1, []*dto.LabelPair{labelPair("category", string(c.category))})),
			gaugeFamily("glucowatch_liveness",
				"Current liveness verdict (1 for the active one).",
				gaugeMetric(1, []*dto.LabelPair{labelPair("verdict", string(c.verdict))})),
		)
	}

	return families
}

// --- dto construction helpers -----------------------------------------------

func counterFamily(name, help string, metrics ...*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   strPtr(name),
		Help:   strPtr(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: metrics,
	}
}

func gaugeFamily(name, help string, metrics ...*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   strPtr(name),
		Help:   strPtr(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: metrics,
	}
}

func counterMetric(v float64) *dto.Metric {
	return &dto.Metric{Counter: &dto.Counter{Value: floatPtr(v)}}
}

func gaugeMetric(v float64, labels []*dto.LabelPair) *dto.Metric {
	return &dto.Metric{Label: labels, Gauge: &dto.Gauge{Value: floatPtr(v)}}
}

func labelPair(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: strPtr(name), Value: strPtr(value)}
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
