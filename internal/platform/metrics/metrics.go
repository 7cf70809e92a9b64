// Package metrics exposes the payroll engine's Prometheus instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	calculations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payroll_calculations_total",
		Help: "Payroll draft calculations performed.",
	})

	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payroll_transitions_total",
		Help: "Payroll workflow transitions by action and outcome.",
	}, []string{"action", "outcome"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payroll_operation_duration_seconds",
		Help:    "Duration of payroll operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

func RecordCalculation(start time.Time) {
	calculations.Inc()
	operationDuration.WithLabelValues("calculate").Observe(time.Since(start).Seconds())
}

func RecordTransition(action string, err error, start time.Time) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	transitions.WithLabelValues(action, outcome).Inc()
	operationDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
}
