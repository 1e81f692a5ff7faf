package ingestor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
	"github.com/avilaops/canaswarm-intelligence/internal/mocks"
)

type ingestorFixture struct {
	client     *mocks.MockPrecisionClient
	reports    *mocks.MockReportRepository
	decisions  *mocks.MockDecisionService
	dispatcher *mocks.MockAlertDispatcher
	cache      *mocks.MockCache
	mq         *mocks.MockMessageQueue
	svc        *Service
}

func newIngestorFixture(t *testing.T) *ingestorFixture {
	t.Helper()

	f := &ingestorFixture{
		client:     &mocks.MockPrecisionClient{},
		reports:    &mocks.MockReportRepository{},
		decisions:  &mocks.MockDecisionService{},
		dispatcher: &mocks.MockAlertDispatcher{},
		cache:      mocks.NewMockCache(),
		mq:         &mocks.MockMessageQueue{},
	}
	f.client.FetchRecommendationsFunc = func(ctx context.Context, fieldID string) (*domain.FieldReport, error) {
		return reportWithZones(
			zoneWithScore("Z1", 0.25, domain.PriorityHigh),
			zoneWithScore("Z2", 0.55, domain.PriorityMedium),
		), nil
	}

	f.svc = NewService(
		f.client,
		NewClassifier(0.4),
		f.reports,
		f.decisions,
		f.dispatcher,
		f.cache,
		f.mq,
		5*time.Minute,
		zap.NewNop(),
	).(*Service)
	return f
}

func TestRefreshHappyPath(t *testing.T) {
	f := newIngestorFixture(t)

	classified, err := f.svc.Refresh(context.Background(), "F001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.reports.Appended) != 1 {
		t.Fatalf("expected 1 appended report, got %d", len(f.reports.Appended))
	}
	if f.reports.Appended[0].FieldID != "F001" {
		t.Errorf("unexpected appended field: %s", f.reports.Appended[0].FieldID)
	}

	if len(classified.CriticalZoneIDs) != 1 || classified.CriticalZoneIDs[0] != "Z1" {
		t.Errorf("expected critical [Z1], got %v", classified.CriticalZoneIDs)
	}

	if len(f.dispatcher.Dispatched) != 1 {
		t.Fatalf("expected 1 dispatched batch, got %d", len(f.dispatcher.Dispatched))
	}
	if f.dispatcher.Dispatched[0].FieldID != "F001" {
		t.Errorf("dispatched for wrong field: %s", f.dispatcher.Dispatched[0].FieldID)
	}
	if len(f.dispatcher.Dispatched[0].Alerts) != 1 {
		t.Errorf("expected 1 dispatched alert, got %d", len(f.dispatcher.Dispatched[0].Alerts))
	}

	msgs := f.mq.Messages(subjectReportIngested)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 ingestion event, got %d", len(msgs))
	}
	var published domain.ClassifiedReport
	if err := json.Unmarshal(msgs[0].Data, &published); err != nil {
		t.Fatalf("event payload is not a classified report: %v", err)
	}
	if published.Report.FieldID != "F001" {
		t.Errorf("event for wrong field: %s", published.Report.FieldID)
	}

	cached, err := f.cache.Get(context.Background(), cacheKeyPrefix+"F001")
	if err != nil || cached == "" {
		t.Errorf("expected classified report cached, got %q err %v", cached, err)
	}
}

func TestRefreshFetchFailurePersistsNothing(t *testing.T) {
	f := newIngestorFixture(t)
	f.client.FetchRecommendationsFunc = func(ctx context.Context, fieldID string) (*domain.FieldReport, error) {
		return nil, &domain.ConnectivityError{Endpoint: "http://precision:5000"}
	}

	_, err := f.svc.Refresh(context.Background(), "F001")
	if !domain.IsConnectivity(err) {
		t.Fatalf("expected ConnectivityError, got %v", err)
	}

	if len(f.reports.Appended) != 0 {
		t.Errorf("no report should be appended on fetch failure, got %d", len(f.reports.Appended))
	}
	if len(f.dispatcher.Dispatched) != 0 {
		t.Errorf("no alerts should be dispatched on fetch failure")
	}
	if len(f.mq.Published) != 0 {
		t.Errorf("no events should be published on fetch failure")
	}
}

func TestRefreshAppendFailure(t *testing.T) {
	f := newIngestorFixture(t)
	f.reports.AppendFunc = func(ctx context.Context, report *domain.FieldReport) error {
		return errors.New("connection refused")
	}

	_, err := f.svc.Refresh(context.Background(), "F001")
	if err == nil {
		t.Fatal("expected append failure to propagate")
	}
	if len(f.dispatcher.Dispatched) != 0 {
		t.Errorf("no alerts should be dispatched when persistence fails")
	}
}

func TestRefreshDecisionFailureIsNotFatal(t *testing.T) {
	f := newIngestorFixture(t)
	f.decisions.ProcessFunc = func(ctx context.Context, report *domain.FieldReport) (*domain.FieldDecision, error) {
		return nil, errors.New("decision history unavailable")
	}

	classified, err := f.svc.Refresh(context.Background(), "F001")
	if err != nil {
		t.Fatalf("decision failure should not fail the refresh: %v", err)
	}
	if classified == nil {
		t.Fatal("expected classified report despite decision failure")
	}
	if len(f.reports.Appended) != 1 {
		t.Errorf("report should still be persisted, got %d appends", len(f.reports.Appended))
	}
}

func TestRefreshNoAlertsWhenNoCriticalZones(t *testing.T) {
	f := newIngestorFixture(t)
	f.client.FetchRecommendationsFunc = func(ctx context.Context, fieldID string) (*domain.FieldReport, error) {
		return reportWithZones(
			zoneWithScore("Z1", 0.82, domain.PriorityLow),
			zoneWithScore("Z2", 0.45, domain.PriorityMedium),
		), nil
	}

	classified, err := f.svc.Refresh(context.Background(), "F002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(classified.CriticalZoneIDs) != 0 {
		t.Errorf("expected no critical zones, got %v", classified.CriticalZoneIDs)
	}
	if len(f.dispatcher.Dispatched) != 0 {
		t.Errorf("no dispatch expected for a healthy field")
	}
}

func TestLatestClassifiedCacheHit(t *testing.T) {
	f := newIngestorFixture(t)

	cached := &domain.ClassifiedReport{
		Report:          reportWithZones(zoneWithScore("Z1", 0.25, domain.PriorityHigh)),
		CriticalZoneIDs: []string{"Z1"},
		NormalZoneIDs:   []string{},
		Alerts:          []domain.Alert{{ZoneID: "Z1", Severity: domain.SeverityCritical, Message: "cached"}},
	}
	data, _ := json.Marshal(cached)
	if err := f.cache.Set(context.Background(), cacheKeyPrefix+"F001", string(data), time.Minute); err != nil {
		t.Fatal(err)
	}
	f.reports.FindLatestFunc = func(ctx context.Context, fieldID string) (*domain.FieldReport, error) {
		t.Error("storage should not be hit on a cache hit")
		return nil, nil
	}

	got, err := f.svc.LatestClassified(context.Background(), "F001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got.Alerts) != 1 || got.Alerts[0].Message != "cached" {
		t.Errorf("expected cached classified report, got %+v", got)
	}
}

func TestLatestClassifiedFallsBackToStorage(t *testing.T) {
	f := newIngestorFixture(t)
	f.reports.FindLatestFunc = func(ctx context.Context, fieldID string) (*domain.FieldReport, error) {
		return reportWithZones(zoneWithScore("Z1", 0.25, domain.PriorityHigh)), nil
	}

	got, err := f.svc.LatestClassified(context.Background(), "F001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected classified report from storage")
	}
	if len(got.CriticalZoneIDs) != 1 || got.CriticalZoneIDs[0] != "Z1" {
		t.Errorf("expected critical [Z1], got %v", got.CriticalZoneIDs)
	}

	// The reclassified report is cached for the next read.
	cached, _ := f.cache.Get(context.Background(), cacheKeyPrefix+"F001")
	if cached == "" {
		t.Error("expected storage fallback to repopulate the cache")
	}
}

func TestLatestClassifiedNoData(t *testing.T) {
	f := newIngestorFixture(t)

	got, err := f.svc.LatestClassified(context.Background(), "F404")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown field, got %+v", got)
	}
}

func TestLatestClassifiedCorruptCacheEntry(t *testing.T) {
	f := newIngestorFixture(t)
	if err := f.cache.Set(context.Background(), cacheKeyPrefix+"F001", "{not json", time.Minute); err != nil {
		t.Fatal(err)
	}
	f.reports.FindLatestFunc = func(ctx context.Context, fieldID string) (*domain.FieldReport, error) {
		return reportWithZones(zoneWithScore("Z1", 0.25, domain.PriorityHigh)), nil
	}

	got, err := f.svc.LatestClassified(context.Background(), "F001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got.CriticalZoneIDs) != 1 {
		t.Errorf("expected storage fallback past corrupt cache entry, got %+v", got)
	}
}
