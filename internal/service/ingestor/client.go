package ingestor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
	"github.com/avilaops/canaswarm-intelligence/internal/observability/telemetry"
)

// Doer is the minimal transport capability the client needs. Production wires
// a circuit-breaker-wrapped *http.Client; tests substitute a deterministic fake.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds Precision Platform client configuration
type ClientConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	MaxRetries   int           // retries on transient connectivity failures
	RetryBackoff time.Duration // base backoff, doubled per attempt
}

// DefaultClientConfig returns default Precision client configuration
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:      "http://localhost:5000",
		Timeout:      5 * time.Second,
		MaxRetries:   2,
		RetryBackoff: 500 * time.Millisecond,
	}
}

// PrecisionClient fetches field recommendations from the Precision Platform
// REST API.
type PrecisionClient struct {
	httpClient Doer
	config     *ClientConfig
	log        *zap.Logger
}

// NewPrecisionClient creates a new Precision Platform API client. When doer is
// nil a plain http.Client with the configured timeout is used.
func NewPrecisionClient(config *ClientConfig, doer Doer, log *zap.Logger) *PrecisionClient {
	if config == nil {
		config = DefaultClientConfig()
	}
	if doer == nil {
		doer = &http.Client{Timeout: config.Timeout}
	}

	return &PrecisionClient{
		httpClient: doer,
		config:     config,
		log:        log,
	}
}

// FetchRecommendations issues one GET to
// <base_url>/api/v1/recommendations?field_id=<id> and decodes the body into a
// FieldReport. Transient connectivity failures are retried up to the
// configured bound with exponential backoff; malformed bodies are never
// retried.
func (c *PrecisionClient) FetchRecommendations(ctx context.Context, fieldID string) (*domain.FieldReport, error) {
	if fieldID == "" {
		return nil, fmt.Errorf("field id must not be empty")
	}

	endpoint := fmt.Sprintf("%s/api/v1/recommendations?field_id=%s",
		c.config.BaseURL, url.QueryEscape(fieldID))

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.config.RetryBackoff * time.Duration(1<<(attempt-1))
			c.log.Warn("Retrying Precision fetch",
				zap.String("field_id", fieldID),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, &domain.ConnectivityError{Endpoint: endpoint, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		report, err := c.fetchOnce(ctx, endpoint, fieldID)
		if err == nil {
			return report, nil
		}
		if !domain.IsConnectivity(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

func (c *PrecisionClient) fetchOnce(ctx context.Context, endpoint, fieldID string) (*domain.FieldReport, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.PrecisionFetchesTotal.WithLabelValues("unreachable").Inc()
		return nil, &domain.ConnectivityError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	telemetry.PrecisionFetchLatency.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Warn("Precision API returned error",
			zap.String("field_id", fieldID),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		telemetry.PrecisionFetchesTotal.WithLabelValues("error_status").Inc()
		return nil, &domain.ConnectivityError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	report, err := decodeFieldReport(resp.Body)
	if err != nil {
		telemetry.PrecisionFetchesTotal.WithLabelValues("malformed").Inc()
		return nil, err
	}

	telemetry.PrecisionFetchesTotal.WithLabelValues("ok").Inc()
	return report, nil
}

// fieldReportWire mirrors FieldReport with pointer fields so missing required
// keys are distinguishable from zero values.
type fieldReportWire struct {
	FieldID       *string                  `json:"field_id"`
	Crop          string                   `json:"crop"`
	Season        string                   `json:"season"`
	HarvestNumber int                      `json:"harvest_number"`
	TotalAreaHa   float64                  `json:"total_area_ha"`
	AnalysisDate  string                   `json:"analysis_date"`
	Summary       *domain.FieldSummary     `json:"summary"`
	Zones         *[]domain.ManagementZone `json:"zones"`
}

func decodeFieldReport(r io.Reader) (*domain.FieldReport, error) {
	var wire fieldReportWire
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wire); err != nil {
		return nil, &domain.MalformedResponseError{Reason: "body is not valid JSON", Err: err}
	}

	switch {
	case wire.FieldID == nil || *wire.FieldID == "":
		return nil, &domain.MalformedResponseError{Reason: `missing required key "field_id"`}
	case wire.Zones == nil:
		return nil, &domain.MalformedResponseError{Reason: `missing required key "zones"`}
	case wire.Summary == nil:
		return nil, &domain.MalformedResponseError{Reason: `missing required key "summary"`}
	}

	seen := make(map[string]bool, len(*wire.Zones))
	for _, z := range *wire.Zones {
		if z.ZoneID == "" {
			return nil, &domain.MalformedResponseError{Reason: "zone with empty zone_id"}
		}
		if seen[z.ZoneID] {
			return nil, &domain.MalformedResponseError{Reason: fmt.Sprintf("duplicate zone_id %q", z.ZoneID)}
		}
		seen[z.ZoneID] = true
	}

	return &domain.FieldReport{
		FieldID:       *wire.FieldID,
		Crop:          wire.Crop,
		Season:        wire.Season,
		HarvestNumber: wire.HarvestNumber,
		TotalAreaHa:   wire.TotalAreaHa,
		AnalysisDate:  wire.AnalysisDate,
		Summary:       *wire.Summary,
		Zones:         *wire.Zones,
	}, nil
}
