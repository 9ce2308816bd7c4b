package observability

import (
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/yungbote/tgdash-backend/internal/platform/envutil"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

// Metrics is a nil-safe bundle of process metrics. Every method is a no-op
// on a nil receiver, so callers never check whether metrics are enabled.
type Metrics struct {
	apiRequests  *CounterVec
	apiLatency   *HistogramVec
	apiInflight  *Gauge
	llmRequests  *CounterVec
	llmLatency   *HistogramVec
	reportBuilds *CounterVec
	reportTime   *HistogramVec
	deliveries   *CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics when METRICS_ENABLED is set.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

// NewMetrics returns a fresh, unregistered bundle. Tests use it directly.
func NewMetrics() *Metrics {
	slow := []float64{0.5, 1, 2, 5, 10, 20, 30, 60}
	return &Metrics{
		apiRequests:  NewCounterVec("tgdash_api_requests_total", "HTTP requests served", []string{"method", "route", "status"}),
		apiLatency:   NewHistogramVec("tgdash_api_request_seconds", "HTTP request latency", []string{"method", "route"}, nil),
		apiInflight:  NewGauge("tgdash_api_inflight", "HTTP requests in flight"),
		llmRequests:  NewCounterVec("tgdash_llm_requests_total", "Model completions by outcome", []string{"model", "schema", "outcome"}),
		llmLatency:   NewHistogramVec("tgdash_llm_request_seconds", "Model completion latency", []string{"model"}, slow),
		reportBuilds: NewCounterVec("tgdash_report_builds_total", "Report builds by persona and outcome", []string{"persona", "mode", "outcome"}),
		reportTime:   NewHistogramVec("tgdash_report_build_seconds", "Report build latency", []string{"persona"}, slow),
		deliveries:   NewCounterVec("tgdash_telegram_deliveries_total", "Telegram deliveries by outcome", []string{"outcome"}),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.llmRequests, m.llmLatency,
		m.reportBuilds, m.reportTime,
		m.deliveries,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveLLMRequest records one completion. outcome is "ok", "soft_fail" or "error".
func (m *Metrics) ObserveLLMRequest(model, schema, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.Inc(model, schema, outcome)
	if dur > 0 {
		m.llmLatency.Observe(dur.Seconds(), model)
	}
}

func (m *Metrics) ObserveReport(persona, mode, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.reportBuilds.Inc(persona, mode, outcome)
	m.reportTime.Observe(dur.Seconds(), persona)
}

func (m *Metrics) IncDelivery(outcome string) {
	if m == nil {
		return
	}
	m.deliveries.Inc(outcome)
}

// ReportBuilds exposes the build counter for one label set.
func (m *Metrics) ReportBuilds(persona, mode, outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.reportBuilds.Value(persona, mode, outcome)
}
