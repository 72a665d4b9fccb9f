package event

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts observer deliveries and failures.
type Metrics struct {
	deliveries *prometheus.CounterVec
	failures   *prometheus.CounterVec
}

// NewMetrics creates the dispatcher counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retail_observer_deliveries_total",
				Help: "Total number of events successfully handled by an observer.",
			},
			[]string{"observer", "event"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retail_observer_failures_total",
				Help: "Total number of events an observer failed to handle (error, panic or timeout).",
			},
			[]string{"observer", "event"},
		),
	}
	if err := reg.Register(m.deliveries); err != nil {
		return nil, err
	}
	if err := reg.Register(m.failures); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) delivered(observer, event string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(observer, event).Inc()
}

func (m *Metrics) failed(observer, event string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(observer, event).Inc()
}
