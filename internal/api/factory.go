package api

import (
	"gsmforecast/internal/config"
)

// NewForecaster builds the client described by cfg, rate limited and instrumented
func NewForecaster(cfg *config.Config) Forecaster {
	var opts []Option
	if cfg.Forecast.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.Forecast.BaseURL))
	}
	if cfg.Forecast.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Forecast.Timeout))
	}

	var f Forecaster = NewClient(cfg.APIToken(), opts...)
	if cfg.Forecast.RateLimit.RPS > 0 {
		f = NewRateLimitedClient(f, cfg.Forecast.RateLimit.RPS, max(cfg.Forecast.RateLimit.Burst, 1))
	}
	return NewInstrumentedClient(f)
}
