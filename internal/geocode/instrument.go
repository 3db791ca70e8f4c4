// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wneessen/woosmap-geocode/internal/observability"
)

const (
	methodForward = "forward"
	methodReverse = "reverse"

	outcomeSuccess = "success"
	outcomeEmpty   = "empty"
	outcomeError   = "error"
)

// InstrumentedGeocoder records request outcomes, durations and result counts of the
// wrapped Geocoder
type InstrumentedGeocoder struct {
	coder   Geocoder
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// NewInstrumentedGeocoder wraps coder. A nil clock selects the real clock.
func NewInstrumentedGeocoder(coder Geocoder, metrics *observability.Metrics, clock clockwork.Clock) *InstrumentedGeocoder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &InstrumentedGeocoder{
		coder:   coder,
		metrics: metrics,
		clock:   clock,
	}
}

func (i *InstrumentedGeocoder) Name() string {
	return i.coder.Name()
}

func (i *InstrumentedGeocoder) Geocode(ctx context.Context, query GeocodeQuery) (AddressCollection, error) {
	start := i.clock.Now()
	result, err := i.coder.Geocode(ctx, query)
	i.observe(methodForward, start, result, err)
	return result, err
}

func (i *InstrumentedGeocoder) Reverse(ctx context.Context, query ReverseQuery) (AddressCollection, error) {
	start := i.clock.Now()
	result, err := i.coder.Reverse(ctx, query)
	i.observe(methodReverse, start, result, err)
	return result, err
}

func (i *InstrumentedGeocoder) observe(method string, start time.Time, result AddressCollection, err error) {
	i.metrics.GeocodeAPIDuration.WithLabelValues(method).Observe(i.clock.Since(start).Seconds())
	switch {
	case err != nil:
		i.metrics.GeocodeRequests.WithLabelValues(method, outcomeError).Inc()
		return
	case result.IsEmpty():
		i.metrics.GeocodeRequests.WithLabelValues(method, outcomeEmpty).Inc()
	default:
		i.metrics.GeocodeRequests.WithLabelValues(method, outcomeSuccess).Inc()
	}
	i.metrics.GeocodeResults.WithLabelValues(method).Observe(float64(result.Len()))
}
