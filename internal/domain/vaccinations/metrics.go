package vaccinations

import "github.com/prometheus/client_golang/prometheus"

// Metrics cuenta estados resueltos. Un *Metrics nil es válido (no-op).
type Metrics struct {
	resolved *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pet_vaccination_status_total",
			Help: "Vaccination records resolved, by status.",
		}, []string{"status"}),
	}
	if reg != nil {
		reg.MustRegister(m.resolved)
	}
	return m
}

func (m *Metrics) observe(resolutions []Resolution) {
	if m == nil {
		return
	}
	for _, r := range resolutions {
		m.resolved.WithLabelValues(string(r.Status)).Inc()
	}
}
