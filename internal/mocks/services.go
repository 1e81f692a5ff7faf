package mocks

import (
	"context"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
	"github.com/avilaops/canaswarm-intelligence/internal/ports"
)

// MockPrecisionClient is a mock implementation of PrecisionClient
type MockPrecisionClient struct {
	FetchRecommendationsFunc func(ctx context.Context, fieldID string) (*domain.FieldReport, error)
}

func (m *MockPrecisionClient) FetchRecommendations(ctx context.Context, fieldID string) (*domain.FieldReport, error) {
	if m.FetchRecommendationsFunc != nil {
		return m.FetchRecommendationsFunc(ctx, fieldID)
	}
	return nil, nil
}

// MockDecisionService is a mock implementation of DecisionService
type MockDecisionService struct {
	DecideFunc         func(report *domain.FieldReport) *domain.FieldDecision
	ProcessFunc        func(ctx context.Context, report *domain.FieldReport) (*domain.FieldDecision, error)
	LatestDecisionFunc func(ctx context.Context, fieldID string) (*domain.FieldDecision, error)
}

func (m *MockDecisionService) Decide(report *domain.FieldReport) *domain.FieldDecision {
	if m.DecideFunc != nil {
		return m.DecideFunc(report)
	}
	return &domain.FieldDecision{FieldID: report.FieldID}
}

func (m *MockDecisionService) Process(ctx context.Context, report *domain.FieldReport) (*domain.FieldDecision, error) {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, report)
	}
	return &domain.FieldDecision{FieldID: report.FieldID}, nil
}

func (m *MockDecisionService) LatestDecision(ctx context.Context, fieldID string) (*domain.FieldDecision, error) {
	if m.LatestDecisionFunc != nil {
		return m.LatestDecisionFunc(ctx, fieldID)
	}
	return nil, nil
}

// MockAlertDispatcher records dispatched alerts for assertions
type MockAlertDispatcher struct {
	DispatchFunc func(ctx context.Context, fieldID string, alerts []domain.Alert)

	Dispatched []DispatchedBatch
}

// DispatchedBatch is one recorded Dispatch call
type DispatchedBatch struct {
	FieldID string
	Alerts  []domain.Alert
}

func (m *MockAlertDispatcher) Dispatch(ctx context.Context, fieldID string, alerts []domain.Alert) {
	m.Dispatched = append(m.Dispatched, DispatchedBatch{FieldID: fieldID, Alerts: alerts})
	if m.DispatchFunc != nil {
		m.DispatchFunc(ctx, fieldID, alerts)
	}
}

// MockEmailService records sent alert emails for assertions
type MockEmailService struct {
	SendCriticalZoneAlertFunc func(ctx context.Context, to string, fieldID string, alerts []domain.Alert) error

	Sent []SentAlertEmail
}

// SentAlertEmail is one recorded SendCriticalZoneAlert call
type SentAlertEmail struct {
	To      string
	FieldID string
	Alerts  []domain.Alert
}

func (m *MockEmailService) SendCriticalZoneAlert(ctx context.Context, to string, fieldID string, alerts []domain.Alert) error {
	m.Sent = append(m.Sent, SentAlertEmail{To: to, FieldID: fieldID, Alerts: alerts})
	if m.SendCriticalZoneAlertFunc != nil {
		return m.SendCriticalZoneAlertFunc(ctx, to, fieldID, alerts)
	}
	return nil
}

// MockIngestorService is a mock implementation of IngestorService
type MockIngestorService struct {
	FetchFunc            func(ctx context.Context, fieldID string) (*domain.FieldReport, error)
	ClassifyFunc         func(report *domain.FieldReport) *domain.ClassifiedReport
	RefreshFunc          func(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error)
	LatestClassifiedFunc func(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error)
	HistoryFunc          func(ctx context.Context, fieldID string, limit int) ([]domain.FieldReport, error)
	ListFieldsFunc       func(ctx context.Context) ([]ports.FieldInfo, error)
}

func (m *MockIngestorService) Fetch(ctx context.Context, fieldID string) (*domain.FieldReport, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, fieldID)
	}
	return nil, nil
}

func (m *MockIngestorService) Classify(report *domain.FieldReport) *domain.ClassifiedReport {
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(report)
	}
	return &domain.ClassifiedReport{Report: report}
}

func (m *MockIngestorService) Refresh(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, fieldID)
	}
	return nil, nil
}

func (m *MockIngestorService) LatestClassified(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error) {
	if m.LatestClassifiedFunc != nil {
		return m.LatestClassifiedFunc(ctx, fieldID)
	}
	return nil, nil
}

func (m *MockIngestorService) History(ctx context.Context, fieldID string, limit int) ([]domain.FieldReport, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, fieldID, limit)
	}
	return []domain.FieldReport{}, nil
}

func (m *MockIngestorService) ListFields(ctx context.Context) ([]ports.FieldInfo, error) {
	if m.ListFieldsFunc != nil {
		return m.ListFieldsFunc(ctx)
	}
	return []ports.FieldInfo{}, nil
}
