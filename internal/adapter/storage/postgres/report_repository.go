package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
	"github.com/avilaops/canaswarm-intelligence/internal/ports"
)

// ReportRecord is one append-only history row. The full report is stored as
// JSON next to the indexed columns used for lookups.
type ReportRecord struct {
	ID           uint   `gorm:"primaryKey"`
	FieldID      string `gorm:"index;not null"`
	Crop         string
	Season       string
	TotalAreaHa  float64
	AnalysisDate string
	DataJSON     string `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time
}

type ReportRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReportRepository(db *gorm.DB, log *zap.Logger) ports.ReportRepository {
	return &ReportRepository{
		db:  db,
		log: log,
	}
}

func (r *ReportRepository) Append(ctx context.Context, report *domain.FieldReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	record := ReportRecord{
		FieldID:      NormalizeFieldID(report.FieldID),
		Crop:         report.Crop,
		Season:       report.Season,
		TotalAreaHa:  report.TotalAreaHa,
		AnalysisDate: report.AnalysisDate,
		DataJSON:     string(data),
	}

	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *ReportRepository) FindLatest(ctx context.Context, fieldID string) (*domain.FieldReport, error) {
	var record ReportRecord
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

	return unmarshalReport(&record)
}

func (r *ReportRepository) FindHistory(ctx context.Context, fieldID string, limit int) ([]domain.FieldReport, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []ReportRecord
	err := r.db.WithContext(ctx).
		Where("field_id = ?", NormalizeFieldID(fieldID)).
		Order("created_at desc").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	reports := make([]domain.FieldReport, 0, len(records))
	for i := range records {
		report, err := unmarshalReport(&records[i])
		if err != nil {
			r.log.Warn("Skipping corrupt history row",
				zap.Uint("id", records[i].ID),
				zap.Error(err),
			)
			continue
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

func (r *ReportRepository) ListFields(ctx context.Context) ([]ports.FieldInfo, error) {
	var rows []struct {
		FieldID      string
		Crop         string
		Season       string
		TotalAreaHa  float64
		AnalysisDate string
	}
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (field_id) field_id, crop, season, total_area_ha, analysis_date
		     FROM report_records ORDER BY field_id, created_at DESC`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var decided []string
	err = r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT field_id FROM decision_records`).
		Scan(&decided).Error
	if err != nil {
		return nil, err
	}
	hasDecision := make(map[string]bool, len(decided))
	for _, id := range decided {
		hasDecision[id] = true
	}

	fields := make([]ports.FieldInfo, 0, len(rows))
	for _, row := range rows {
		fields = append(fields, ports.FieldInfo{
			FieldID:      row.FieldID,
			Crop:         row.Crop,
			AreaHa:       row.TotalAreaHa,
			Season:       row.Season,
			AnalysisDate: row.AnalysisDate,
			HasDecision:  hasDecision[row.FieldID],
		})
	}
	return fields, nil
}

func unmarshalReport(record *ReportRecord) (*domain.FieldReport, error) {
	var report domain.FieldReport
	if err := json.Unmarshal([]byte(record.DataJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report record %d: %w", record.ID, err)
	}
	return &report, nil
}

// NormalizeFieldID reduces a long identifier like
// "F001-UsinaGuarani-Piracicaba" to its short form "F001" used as the
// history key.
func NormalizeFieldID(fieldID string) string {
	if i := strings.Index(fieldID, "-"); i > 0 {
		return fieldID[:i]
	}
	return fieldID
}
