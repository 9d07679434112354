package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	passesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evodash_passes_total",
		Help: "Coordination passes completed.",
	})

	passDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "evodash_pass_duration_seconds",
		Help:    "Wall time of a coordination pass.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	panelDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evodash_panel_render_seconds",
		Help:    "Wall time of one panel render.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	}, []string{"panel"})

	renderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evodash_render_failures_total",
		Help: "Panel renders that returned an error or panicked.",
	}, []string{"panel"})

	filteredRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "evodash_filtered_records",
		Help: "Records in the filtered subset of the last pass.",
	})
)
