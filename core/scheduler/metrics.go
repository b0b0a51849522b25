package scheduler

import "github.com/prometheus/client_golang/prometheus"

var (
	ticksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gridpilot_ticks_total",
		Help: "Committed ticks",
	})
	tickFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridpilot_tick_failures_total",
		Help: "Aborted ticks by failing stage",
	}, []string{"stage"})
	stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridpilot_stage_duration_seconds",
		Help:    "Per-stage execution time",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	sinkErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gridpilot_sink_errors_total",
		Help: "Publish failures reported by the sink",
	})
)

func init() {
	prometheus.MustRegister(ticksTotal, tickFailures, stageDuration, sinkErrors)
}
