package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type PrometheusRecorder struct {
	counters  *prometheus.CounterVec
	histogram *prometheus.HistogramVec
}

// NewPrometheusRecorder registers the facilitator metric vectors with the
// default registry and returns a recorder backed by them.
func NewPrometheusRecorder() Recorder {
	counters := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "facilitator",
			Name:      "events_total",
			Help:      "Settlement pipeline event counters",
		},
		[]string{"type", "result"},
	)

	histogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "facilitator",
			Name:      "latency_seconds",
			Help:      "Settlement pipeline operation latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "result"},
	)

	prometheus.MustRegister(counters, histogram)

	return &PrometheusRecorder{
		counters:  counters,
		histogram: histogram,
	}
}

func (r *PrometheusRecorder) IncCounter(name string, labels map[string]string) {
	r.counters.WithLabelValues(name, labels["result"]).Inc()
}

func (r *PrometheusRecorder) ObserveLatency(name string, d time.Duration, labels map[string]string) {
	r.histogram.WithLabelValues(name, labels["result"]).Observe(d.Seconds())
}
