package circuitbreaker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPClient wraps an HTTP client with circuit breaker protection. It guards
// the upstream Precision Platform so repeated outages fail fast instead of
// tying up the connection pool.
type HTTPClient struct {
	client  *http.Client
	breaker *CircuitBreaker
	log     *zap.Logger
}

// NewHTTPClient creates a new HTTP client with circuit breaker
func NewHTTPClient(client *http.Client, breaker *CircuitBreaker, log *zap.Logger) *HTTPClient {
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	return &HTTPClient{
		client:  client,
		breaker: breaker,
		log:     log,
	}
}

// Do executes an HTTP request with circuit breaker protection
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	result, err := c.breaker.ExecuteCtx(req.Context(), func(ctx context.Context) (interface{}, error) {
		resp, err := c.client.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}

		// 5xx responses count as failures for the breaker
		if resp.StatusCode >= 500 {
			return resp, fmt.Errorf("server error: %d", resp.StatusCode)
		}

		return resp, nil
	})

	if err != nil {
		if IsCircuitOpen(err) {
			c.log.Warn("Circuit breaker open, request blocked",
				zap.String("url", req.URL.String()),
				zap.String("breaker", c.breaker.Name()),
			)
			return nil, err
		}
		// A 5xx response is returned to the caller alongside being counted
		// as a breaker failure.
		if resp, ok := result.(*http.Response); ok && resp != nil {
			return resp, nil
		}
		return nil, err
	}

	return result.(*http.Response), nil
}

// HTTPClientSettings configures the HTTP client with circuit breaker
type HTTPClientSettings struct {
	// HTTP client settings
	Timeout time.Duration

	// Circuit breaker settings
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	BreakerTimeout   time.Duration
	FailureThreshold uint32
	SuccessThreshold uint32
}

// DefaultHTTPClientSettings returns default settings
func DefaultHTTPClientSettings(name string) HTTPClientSettings {
	return HTTPClientSettings{
		Name:             name,
		Timeout:          30 * time.Second,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		BreakerTimeout:   30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
	}
}

// NewHTTPClientWithSettings creates a new HTTP client with the given settings
func NewHTTPClientWithSettings(settings HTTPClientSettings, log *zap.Logger) *HTTPClient {
	client := &http.Client{
		Timeout: settings.Timeout,
	}

	breaker := New(Settings{
		Name:             settings.Name,
		MaxRequests:      settings.MaxRequests,
		Interval:         settings.Interval,
		Timeout:          settings.BreakerTimeout,
		FailureThreshold: settings.FailureThreshold,
		SuccessThreshold: settings.SuccessThreshold,
	}, log)

	return NewHTTPClient(client, breaker, log)
}
