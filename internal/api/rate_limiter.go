package api

import (
	"context"
	"fmt"

	"gsmforecast/internal/forecast"

	"golang.org/x/time/rate"
)

// RateLimitedClient wraps a Forecaster with a token bucket
type RateLimitedClient struct {
	next    Forecaster
	limiter *rate.Limiter
}

// NewRateLimitedClient creates a rate limited forecaster.
// rps is the maximum requests per second (fractional for slower rates), burst the bucket size.
func NewRateLimitedClient(next Forecaster, rps float64, burst int) *RateLimitedClient {
	return &RateLimitedClient{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// FetchForecast waits for a token or ctx cancellation, then forwards the call.
// A cancelled wait is reported as a transport error since no request was sent.
func (r *RateLimitedClient) FetchForecast(ctx context.Context, latitude, longitude float64, hours int) (*forecast.Forecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, forecast.TransportError(fmt.Errorf("rate limit wait canceled: %w", err))
	}
	return r.next.FetchForecast(ctx, latitude, longitude, hours)
}

var _ Forecaster = (*RateLimitedClient)(nil)
