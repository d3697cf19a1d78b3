// Package metrics defines the recorder abstraction for operational counters
// and latencies. The facilitator works against the interface so deployments
// without a metrics backend pay nothing.
package metrics

import "time"

type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}

// Metric names emitted by the settlement pipeline.
const (
	MetricAttempts   = "attempts"
	MetricSettlement = "settlement"
)

type Noop struct{}

func (Noop) IncCounter(string, map[string]string)                   {}
func (Noop) ObserveLatency(string, time.Duration, map[string]string) {}
