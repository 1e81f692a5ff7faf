package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
	"github.com/avilaops/canaswarm-intelligence/internal/ports"
)

// DecisionRecord is one append-only decision snapshot.
type DecisionRecord struct {
	ID            uint   `gorm:"primaryKey"`
	FieldID       string `gorm:"index;not null"`
	DecisionDate  string
	PriorityLevel string
	TotalROI      float64
	DataJSON      string `gorm:"type:jsonb;not null"`
	CreatedAt     time.Time
}

type DecisionRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewDecisionRepository(db *gorm.DB, log *zap.Logger) ports.DecisionRepository {
	return &DecisionRepository{
		db:  db,
		log: log,
	}
}

func (r *DecisionRepository) Append(ctx context.Context, decision *domain.FieldDecision) error {
	data, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}

	record := DecisionRecord{
		FieldID:       NormalizeFieldID(decision.FieldID),
		DecisionDate:  decision.DecisionDate,
		PriorityLevel: string(decision.Priority.Level),
		TotalROI:      decision.TotalEstimatedROIBRLYear,
		DataJSON:      string(data),
	}

	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *DecisionRepository) FindLatest(ctx context.Context, fieldID string) (*domain.FieldDecision, error) {
	var record DecisionRecord
	err := r.db.WithContext(ctx).
		Where("field_id = ?", NormalizeFieldID(fieldID)).
		Order("created_at desc").
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	var decision domain.FieldDecision
	if err := json.Unmarshal([]byte(record.DataJSON), &decision); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decision record %d: %w", record.ID, err)
	}
	return &decision, nil
}
