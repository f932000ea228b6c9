package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	Conversions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_conversions_total",
		Help: "Currency conversions by resolution method.",
	}, []string{"method"})

	RateFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_rate_fetches_total",
		Help: "Exchange rate provider fetches by provider and outcome.",
	}, []string{"provider", "outcome"})

	RateFetchLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_rate_fetch_duration_seconds",
		Help:    "Exchange rate provider fetch latency in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 8),
	}, []string{"provider"})

	TransactionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_transactions_created_total",
		Help: "Transactions persisted.",
	})

	UnbalancedRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_unbalanced_rejections_total",
		Help: "Transactions rejected by the balance check.",
	})
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		HTTPRequests,
		HTTPLatency,
		Conversions,
		RateFetches,
		RateFetchLatency,
		TransactionsCreated,
		UnbalancedRejections,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveConversion counts one conversion by method.
func ObserveConversion[M ~string](method M) {
	Conversions.WithLabelValues(string(method)).Inc()
}
