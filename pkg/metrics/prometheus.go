package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	providerCalls *prometheus.CounterVec
	breakerState  *prometheus.GaugeVec
	cacheResults  *prometheus.CounterVec
	signals       *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	lastPrice     *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		providerCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsignals_provider_calls_total",
				Help: "Provider calls by category and result",
			},
			[]string{"provider", "category", "result"},
		),
		breakerState: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fxsignals_breaker_state",
				Help: "Circuit breaker state per provider (0 closed, 1 half-open, 2 open)",
			},
			[]string{"provider"},
		),
		cacheResults: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsignals_cache_results_total",
				Help: "Cache lookups by category and outcome",
			},
			[]string{"category", "outcome"},
		),
		signals: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsignals_signals_total",
				Help: "Signals generated by pair and direction",
			},
			[]string{"pair", "direction"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsignals_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fxsignals_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fxsignals_last_price",
				Help: "Last streamed price per pair",
			},
			[]string{"pair"},
		),
	}
}

// RecordProviderCall records one provider call outcome.
func (r *Recorder) RecordProviderCall(provider, category, result string) {
	r.providerCalls.WithLabelValues(provider, category, result).Inc()
}

// RecordBreakerState records the breaker state for a provider.
func (r *Recorder) RecordBreakerState(provider, state string) {
	v := 0.0
	switch state {
	case "half_open":
		v = 1
	case "open":
		v = 2
	}
	r.breakerState.WithLabelValues(provider).Set(v)
}

// RecordCacheResult records a cache hit or miss.
func (r *Recorder) RecordCacheResult(category string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheResults.WithLabelValues(category, outcome).Inc()
}

// RecordSignal records one generated signal.
func (r *Recorder) RecordSignal(pair, direction string) {
	r.signals.WithLabelValues(pair, direction).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the most recent streamed price for a pair.
func (r *Recorder) RecordLastPrice(pair string, price float64) {
	r.lastPrice.WithLabelValues(pair).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
