package ports

import (
	"context"
	"time"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
)

// PrecisionClient is the minimal capability the ingestor needs from the
// upstream transport. Tests substitute a deterministic fake.
type PrecisionClient interface {
	FetchRecommendations(ctx context.Context, fieldID string) (*domain.FieldReport, error)
}

// IngestorService drives the fetch -> classify -> persist cycle.
type IngestorService interface {
	// Fetch issues one synchronous read to the Precision endpoint.
	Fetch(ctx context.Context, fieldID string) (*domain.FieldReport, error)
	// Classify partitions zones by the profitability threshold. Pure.
	Classify(report *domain.FieldReport) *domain.ClassifiedReport
	// Refresh runs the full cycle for one field: fetch, classify, append to
	// history, generate a decision and hand alerts to the dispatcher.
	Refresh(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error)
	// LatestClassified returns the classification of the most recent stored
	// report for a field, or nil when nothing was ingested yet.
	LatestClassified(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error)
	History(ctx context.Context, fieldID string, limit int) ([]domain.FieldReport, error)
	ListFields(ctx context.Context) ([]FieldInfo, error)
}

// DecisionService turns a field report into an actionable decision.
type DecisionService interface {
	// Decide derives the decision. Pure.
	Decide(report *domain.FieldReport) *domain.FieldDecision
	// Process decides and appends the decision to history.
	Process(ctx context.Context, report *domain.FieldReport) (*domain.FieldDecision, error)
	LatestDecision(ctx context.Context, fieldID string) (*domain.FieldDecision, error)
}

// AlertDispatcher fans alerts out to the configured notification channels.
// Delivery is fire-and-forget; guarantees belong to the channel providers.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, fieldID string, alerts []domain.Alert)
}

// EmailService sends rendered notification emails.
type EmailService interface {
	SendCriticalZoneAlert(ctx context.Context, to string, fieldID string, alerts []domain.Alert) error
}

// Cache is the key-value cache capability backed by Redis in production and
// an in-memory map in tests and degraded mode.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
