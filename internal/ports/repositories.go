package ports

import (
	"context"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
)

// FieldInfo is the summary row returned when listing stored fields.
type FieldInfo struct {
	FieldID      string  `json:"field_id"`
	Crop         string  `json:"crop"`
	AreaHa       float64 `json:"area_ha"`
	Season       string  `json:"season"`
	AnalysisDate string  `json:"analysis_date"`
	HasDecision  bool    `json:"has_decision"`
}

// ReportRepository persists fetched field reports. The store is append-only:
// every fetch adds a new row keyed by field and ingestion timestamp, nothing
// is updated or deleted.
type ReportRepository interface {
	Append(ctx context.Context, report *domain.FieldReport) error
	FindLatest(ctx context.Context, fieldID string) (*domain.FieldReport, error)
	FindHistory(ctx context.Context, fieldID string, limit int) ([]domain.FieldReport, error)
	ListFields(ctx context.Context) ([]FieldInfo, error)
}

// DecisionRepository persists generated field decisions, append-only.
type DecisionRepository interface {
	Append(ctx context.Context, decision *domain.FieldDecision) error
	FindLatest(ctx context.Context, fieldID string) (*domain.FieldDecision, error)
}
