// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package observability

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "woosmap"

// Metrics holds the Prometheus collectors for geocoding requests.
type Metrics struct {
	GeocodeRequests    *prometheus.CounterVec   // labels: method={forward,reverse}, outcome={success,empty,error}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method={forward,reverse}
	GeocodeResults     *prometheus.HistogramVec // labels: method={forward,reverse}

	gatherer prometheus.Gatherer
}

// NewMetrics creates the geocoding metrics and registers them with reg. If reg is nil, a fresh
// registry is used so multiple instances can coexist.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Woosmap API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method"}),
		GeocodeResults: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_results",
			Help:      "Number of addresses returned per successful request.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}, []string{"method"}),
		gatherer: reg,
	}
	reg.MustRegister(m.GeocodeRequests, m.GeocodeAPIDuration, m.GeocodeResults)

	return m
}

// WriteText writes all gathered metric families in the Prometheus text exposition format
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err = expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("failed to encode metric family %q: %w", family.GetName(), err)
		}
	}
	return nil
}
