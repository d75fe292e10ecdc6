package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "contactly",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contactly",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	// Auth lifecycle metrics

	EmailsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contactly",
		Name:      "emails_sent_total",
		Help:      "Outbound emails, by purpose.",
	}, []string{"purpose"})

	EmailSendFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "contactly",
		Name:      "email_send_failures_total",
		Help:      "Outbound emails that could not be delivered.",
	})

	TokensIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contactly",
		Name:      "tokens_issued_total",
		Help:      "One-time codes, reset tokens and session tokens issued.",
	}, []string{"kind"})

	TokensPurgedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "contactly",
		Name:      "tokens_purged_total",
		Help:      "Expired one-time tokens removed by the janitor.",
	})
)

func Register() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		EmailsSentTotal,
		EmailSendFailuresTotal,
		TokensIssuedTotal,
		TokensPurgedTotal,
	)
}
