package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "line_tracker_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "line_tracker_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	SummaryRecomputeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "line_tracker_summary_recompute_total",
		Help: "Daily summary recomputations by result.",
	}, []string{"result"})

	SummaryRecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "line_tracker_summary_recompute_duration_seconds",
		Help:    "Time spent recomputing one daily summary.",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	})
)
