package mint

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics receives per-item and per-phase results.
type Metrics interface {
	IncItemCompleted(status string)
	IncPhaseFailed(phase string)
	IncReconciled(result string)
	ObserveItemDuration(seconds float64)
}

// Noop implements Metrics without emitting anything.
type Noop struct{}

func (Noop) IncItemCompleted(string)     {}
func (Noop) IncPhaseFailed(string)       {}
func (Noop) IncReconciled(string)        {}
func (Noop) ObserveItemDuration(float64) {}

// Prom implements Metrics backed by Prometheus collectors.
type Prom struct {
	itemsCompleted *prometheus.CounterVec
	phaseFailures  *prometheus.CounterVec
	reconciled     *prometheus.CounterVec
	itemDuration   prometheus.Histogram
}

// NewProm registers the collectors on registerer (the default registerer
// when nil).
func NewProm(namespace string, registerer prometheus.Registerer) (*Prom, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	p := &Prom{
		itemsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_completed_total",
			Help:      "Batch items completed by status",
		}, []string{"status"}),
		phaseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_failures_total",
			Help:      "Item failures by pipeline phase",
		}, []string{"phase"}),
		reconciled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliations_total",
			Help:      "Storage reconciliations after missing events by result",
		}, []string{"result"}),
		itemDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "item_duration_seconds",
			Help:      "Time spent publishing and minting one item",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}
	for _, collector := range []prometheus.Collector{p.itemsCompleted, p.phaseFailures, p.reconciled, p.itemDuration} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prom) IncItemCompleted(status string) {
	p.itemsCompleted.WithLabelValues(status).Inc()
}

func (p *Prom) IncPhaseFailed(phase string) {
	p.phaseFailures.WithLabelValues(phase).Inc()
}

func (p *Prom) IncReconciled(result string) {
	p.reconciled.WithLabelValues(result).Inc()
}

func (p *Prom) ObserveItemDuration(seconds float64) {
	p.itemDuration.Observe(seconds)
}
