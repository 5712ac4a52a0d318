package api

import (
	"context"
	"time"

	"gsmforecast/internal/forecast"
	"gsmforecast/internal/metrics"
)

// InstrumentedClient records fetch outcomes and latency
type InstrumentedClient struct {
	next Forecaster
}

// NewInstrumentedClient wraps next with prometheus instrumentation
func NewInstrumentedClient(next Forecaster) *InstrumentedClient {
	return &InstrumentedClient{next: next}
}

func (c *InstrumentedClient) FetchForecast(ctx context.Context, latitude, longitude float64, hours int) (*forecast.Forecast, error) {
	start := time.Now()
	f, err := c.next.FetchForecast(ctx, latitude, longitude, hours)

	outcome := "success"
	if err != nil {
		outcome = forecast.KindOf(err).String()
	}
	metrics.RecordForecastFetch(outcome, time.Since(start))
	if f != nil {
		metrics.ForecastHoursReturned.Observe(float64(f.Len()))
	}

	return f, err
}

var (
	_ Forecaster = (*Client)(nil)
	_ Forecaster = (*InstrumentedClient)(nil)
)
