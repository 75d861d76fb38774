// Package metrics expõe as métricas Prometheus do backend.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa os coletores registrados.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	wishlistOps      *prometheus.CounterVec
	kycOps           *prometheus.CounterVec
	logins           *prometheus.CounterVec
	searchResults    prometheus.Histogram
}

// NewMetrics cria um registro próprio com os coletores do processo e do Go.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landledger_http_requests_total",
				Help: "Total de requisições HTTP",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "landledger_http_request_duration_seconds",
				Help:    "Duração das requisições HTTP em segundos",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		requestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "landledger_http_requests_in_flight",
				Help: "Requisições HTTP em processamento",
			},
		),
		wishlistOps: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landledger_wishlist_operations_total",
				Help: "Operações na wishlist por tipo de dono",
			},
			[]string{"op", "owner"},
		),
		kycOps: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landledger_kyc_operations_total",
				Help: "Operações de KYC por resultado",
			},
			[]string{"op", "result"},
		),
		logins: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landledger_logins_total",
				Help: "Tentativas de login por método e resultado",
			},
			[]string{"method", "result"},
		),
		searchResults: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "landledger_marketplace_search_results",
				Help:    "Quantidade de imóveis devolvidos por busca",
				Buckets: []float64{0, 1, 5, 10, 20, 40},
			},
		),
	}
}

// Registry devolve o registro, usado em testes.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serve o endpoint de scrape.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) IncInFlight() { m.requestsInFlight.Inc() }
func (m *Metrics) DecInFlight() { m.requestsInFlight.Dec() }

// RecordWishlistOp conta uma operação; owner é "user" ou "guest".
func (m *Metrics) RecordWishlistOp(op, owner string) {
	m.wishlistOps.WithLabelValues(op, owner).Inc()
}

func (m *Metrics) RecordKYCOp(op string, err error) {
	m.kycOps.WithLabelValues(op, result(err)).Inc()
}

func (m *Metrics) RecordLogin(method string, err error) {
	m.logins.WithLabelValues(method, result(err)).Inc()
}

func (m *Metrics) RecordSearch(results int) {
	m.searchResults.Observe(float64(results))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
