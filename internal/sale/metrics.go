package sale

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Checkouts  *prometheus.CounterVec
	RevenueIDR prometheus.Counter
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Checkouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_checkouts_total",
				Help: "Checkout attempts by outcome",
			},
			[]string{"outcome"},
		),
		RevenueIDR: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pos_revenue_idr_total",
				Help: "Committed sale totals in rupiah",
			},
		),
	}

	reg.MustRegister(m.Checkouts, m.RevenueIDR)
	return m
}
