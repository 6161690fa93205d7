// Package openmeteo talks to the Open-Meteo geocoding, forecast and archive
// APIs. Every transport, status or decoding failure leaves this package as
// apperr.UpstreamUnavailable; calls are never retried.
package openmeteo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alexivanou/weather-requests-api/internal/apperr"
	"github.com/alexivanou/weather-requests-api/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	endpointGeocoding = "geocoding"
	endpointForecast  = "forecast"
	endpointArchive   = "archive"
)

// Client is an Open-Meteo API client. It is safe for concurrent use.
type Client struct {
	http     *resty.Client
	cfg      config.WeatherConfig
	limiter  *rate.Limiter
	breakers map[string]*gobreaker.CircuitBreaker
	logger   *zap.Logger
}

// NewClient creates a client with one circuit breaker per endpoint.
func NewClient(cfg config.WeatherConfig, logger *zap.Logger) *Client {
	limit := rate.Inf
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		http: resty.New().
			SetTimeout(cfg.Timeout).
			SetHeader("Accept", "application/json"),
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, burst),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		logger:   logger,
	}

	for _, name := range []string{endpointGeocoding, endpointForecast, endpointArchive} {
		c.breakers[name] = c.newBreaker(name)
	}
	return c
}

func (c *Client) newBreaker(name string) *gobreaker.CircuitBreaker {
	failures := c.cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo-" + name,
		MaxRequests: 1,
		Timeout:     c.cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// BreakerStates reports the circuit breaker state of each endpoint.
func (c *Client) BreakerStates() map[string]string {
	states := make(map[string]string, len(c.breakers))
	for _, cb := range c.breakers {
		states[cb.Name()] = cb.State().String()
	}
	return states
}

type apiError struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

// get issues one GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint, url string, params map[string]string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return c.unavailable(endpoint, fmt.Errorf("rate limit wait canceled: %w", err))
	}

	_, err := c.breakers[endpoint].Execute(func() (interface{}, error) {
		var apiErr apiError
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(out).
			SetError(&apiErr).
			ForceContentType("application/json").
			Get(url)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			if apiErr.Reason != "" {
				return nil, fmt.Errorf("status %d: %s", resp.StatusCode(), apiErr.Reason)
			}
			return nil, fmt.Errorf("status %d", resp.StatusCode())
		}
		return nil, nil
	})
	if err != nil {
		return c.unavailable(endpoint, err)
	}
	return nil
}

func (c *Client) unavailable(endpoint string, err error) error {
	c.logger.Warn("Open-Meteo request failed",
		zap.String("endpoint", endpoint),
		zap.Error(err),
	)
	return apperr.Wrap(apperr.UpstreamUnavailable, err,
		"Weather service unavailable",
		fmt.Sprintf("the %s service could not be reached", endpoint))
}

func malformed(endpoint string, format string, args ...interface{}) error {
	return apperr.Wrap(apperr.UpstreamUnavailable, fmt.Errorf(format, args...),
		"Weather service unavailable",
		fmt.Sprintf("the %s service returned an unexpected response", endpoint))
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func coordParams(lat, lon float64) map[string]string {
	return map[string]string{
		"latitude":  coord(lat),
		"longitude": coord(lon),
		"timezone":  "auto",
	}
}
