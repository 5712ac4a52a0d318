package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gsmforecast/internal/forecast"
	"gsmforecast/internal/models"
)

const (
	DefaultBaseURL = "https://weather.ittools.biz/api/forecast/GSM"
	DefaultTimeout = 30 * time.Second
	DefaultHours   = 24

	maxBodySize = 16 << 20
)

// Forecaster fetches an hourly forecast for a point
type Forecaster interface {
	FetchForecast(ctx context.Context, latitude, longitude float64, hours int) (*forecast.Forecast, error)
}

// Client is a client for the GSM forecast API. It is safe for concurrent use.
type Client struct {
	token      string
	baseURL    string
	client     *http.Client
	timeout    time.Duration
	hasTimeout bool
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another origin, e.g. a proxy or a test server
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient uses a copy of hc for requests; nil selects a default client.
// hc itself is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout bounds each request end to end, whatever the option order
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		c.hasTimeout = true
	}
}

// NewClient creates a GSM API client authenticating with token
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
		return c
	}
	hc := *c.client
	if c.hasTimeout {
		hc.Timeout = c.timeout
	}
	c.client = &hc
	return c
}

// BuildURL returns the request target for a point
func (c *Client) BuildURL(latitude, longitude float64) string {
	return fmt.Sprintf("%s/%s/%s,%s", c.baseURL, c.token,
		strconv.FormatFloat(latitude, 'f', -1, 64),
		strconv.FormatFloat(longitude, 'f', -1, 64))
}

// FetchForecast issues one request and returns at most hours hourly items.
// hours <= 0 selects DefaultHours. Failures are *forecast.Error values.
func (c *Client) FetchForecast(ctx context.Context, latitude, longitude float64, hours int) (*forecast.Forecast, error) {
	if hours <= 0 {
		hours = DefaultHours
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BuildURL(latitude, longitude), nil)
	if err != nil {
		return nil, forecast.TransportError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, forecast.TransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, forecast.HTTPError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, forecast.TransportError(fmt.Errorf("failed to read response body: %w", err))
	}
	if len(body) > maxBodySize {
		return nil, forecast.MalformedError(fmt.Sprintf("response too large (over %d bytes)", maxBodySize), nil)
	}

	return decodeEnvelope(body, hours)
}

func decodeEnvelope(body []byte, hours int) (*forecast.Forecast, error) {
	var env models.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, forecast.MalformedError("failed to decode response", err)
	}

	if !models.IsNull(env.Error) {
		return nil, forecast.APIMessageError(errorMessage(env.Error))
	}

	if env.Code != nil && *env.Code != models.SuccessCode {
		return nil, forecast.APICodeError(*env.Code)
	}

	if models.IsNull(env.Result) {
		return nil, forecast.MalformedError("response missing result", nil)
	}

	var result models.Result
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return nil, forecast.MalformedError("failed to decode result", err)
	}

	return forecast.New(result, hours)
}

// errorMessage renders the envelope error member, which the API sends as a string
func errorMessage(raw json.RawMessage) string {
	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return msg
	}
	return string(raw)
}
