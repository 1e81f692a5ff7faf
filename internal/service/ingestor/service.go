package ingestor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/avilaops/canaswarm-intelligence/internal/adapter/queue"
	"github.com/avilaops/canaswarm-intelligence/internal/domain"
	"github.com/avilaops/canaswarm-intelligence/internal/observability/telemetry"
	"github.com/avilaops/canaswarm-intelligence/internal/ports"
)

const (
	subjectReportIngested = "reports.ingested"

	cacheKeyPrefix = "report:classified:"
)

// Service implements the IngestorService: it owns the fetch -> classify ->
// persist cycle for field recommendations.
type Service struct {
	client     ports.PrecisionClient
	classifier *Classifier
	reports    ports.ReportRepository
	decisions  ports.DecisionService
	dispatcher ports.AlertDispatcher
	cache      ports.Cache
	mq         queue.MessageQueue
	cacheTTL   time.Duration
	log        *zap.Logger
}

// NewService wires the ingestor. dispatcher, cache and mq may be nil; the
// corresponding step is skipped (useful in tests and degraded deployments).
func NewService(
	client ports.PrecisionClient,
	classifier *Classifier,
	reports ports.ReportRepository,
	decisions ports.DecisionService,
	dispatcher ports.AlertDispatcher,
	cache ports.Cache,
	mq queue.MessageQueue,
	cacheTTL time.Duration,
	log *zap.Logger,
) ports.IngestorService {
	return &Service{
		client:     client,
		classifier: classifier,
		reports:    reports,
		decisions:  decisions,
		dispatcher: dispatcher,
		cache:      cache,
		mq:         mq,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

func (s *Service) Fetch(ctx context.Context, fieldID string) (*domain.FieldReport, error) {
	return s.client.FetchRecommendations(ctx, fieldID)
}

func (s *Service) Classify(report *domain.FieldReport) *domain.ClassifiedReport {
	return s.classifier.Classify(report)
}

// Refresh runs one full ingestion cycle. Any failure is scoped to this
// invocation: previously stored history is never touched.
func (s *Service) Refresh(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error) {
	report, err := s.Fetch(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	classified := s.Classify(report)

	start := time.Now()
	if err := s.reports.Append(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to append report to history: %w", err)
	}
	telemetry.HistoryWriteLatency.Observe(time.Since(start).Seconds())
	telemetry.ReportsIngestedTotal.Inc()
	telemetry.CriticalZones.WithLabelValues(report.FieldID).Set(float64(len(classified.CriticalZoneIDs)))

	if s.decisions != nil {
		if _, err := s.decisions.Process(ctx, report); err != nil {
			// The classified report is still usable; the decision can be
			// regenerated from stored history on the next read.
			s.log.Error("Failed to generate decision",
				zap.String("field_id", fieldID),
				zap.Error(err),
			)
		}
	}

	s.cacheClassified(ctx, classified)
	s.publishIngested(classified)

	if s.dispatcher != nil && len(classified.Alerts) > 0 {
		s.dispatcher.Dispatch(ctx, report.FieldID, classified.Alerts)
	}

	s.log.Info("Field report ingested",
		zap.String("field_id", report.FieldID),
		zap.Int("zones", len(report.Zones)),
		zap.Int("critical_zones", len(classified.CriticalZoneIDs)),
		zap.Float64("total_impact_brl", classified.TotalEstimatedImpactBRL),
	)

	return classified, nil
}

func (s *Service) LatestClassified(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error) {
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, cacheKeyPrefix+fieldID); err == nil && val != "" {
			var classified domain.ClassifiedReport
			if err := json.Unmarshal([]byte(val), &classified); err == nil {
				return &classified, nil
			}
			// Stale or corrupt entry: fall through to storage.
			_ = s.cache.Delete(ctx, cacheKeyPrefix+fieldID)
		}
	}

	report, err := s.reports.FindLatest(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, nil
	}

	classified := s.Classify(report)
	s.cacheClassified(ctx, classified)
	return classified, nil
}

func (s *Service) History(ctx context.Context, fieldID string, limit int) ([]domain.FieldReport, error) {
	return s.reports.FindHistory(ctx, fieldID, limit)
}

func (s *Service) ListFields(ctx context.Context) ([]ports.FieldInfo, error) {
	return s.reports.ListFields(ctx)
}

func (s *Service) cacheClassified(ctx context.Context, classified *domain.ClassifiedReport) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(classified)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKeyPrefix+classified.Report.FieldID, string(data), s.cacheTTL); err != nil {
		s.log.Warn("Failed to cache classified report",
			zap.String("field_id", classified.Report.FieldID),
			zap.Error(err),
		)
	}
}

func (s *Service) publishIngested(classified *domain.ClassifiedReport) {
	if s.mq == nil {
		return
	}
	payload, err := json.Marshal(classified)
	if err != nil {
		return
	}
	if err := s.mq.Publish(subjectReportIngested, payload); err != nil {
		s.log.Warn("Failed to publish ingestion event", zap.Error(err))
	}
}
