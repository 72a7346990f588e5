package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fxsignals",
			Subsystem: "provider",
			Name:      "calls_total",
			Help:      "Provider calls by category and result",
		},
		[]string{"provider", "category", "result"},
	)

	ChainFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fxsignals",
			Subsystem: "provider",
			Name:      "chain_fallbacks_total",
			Help:      "Times a chain had to skip past its first provider",
		},
		[]string{"category"},
	)

	ChainLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fxsignals",
			Subsystem: "provider",
			Name:      "chain_latency_seconds",
			Help:      "End-to-end fetch latency per category",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"category"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(ProviderCalls, ChainFallbacks, ChainLatency)
	})
}
