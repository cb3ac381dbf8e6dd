package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics of the results service.
type Metrics struct {
	RequestsTotal  *prometheus.CounterVec
	ResultReads    prometheus.Counter
	ResultReadErrs prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "divergence_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"route", "status"}),
		ResultReads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "divergence_result_reads_total",
			Help: "Successful backtest result file reads.",
		}),
		ResultReadErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "divergence_result_read_errors_total",
			Help: "Failed backtest result file reads.",
		}),
	}
	reg.MustRegister(m.RequestsTotal, m.ResultReads, m.ResultReadErrs)
	return m
}
