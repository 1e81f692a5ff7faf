package mocks

import (
	"context"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
	"github.com/avilaops/canaswarm-intelligence/internal/ports"
)

// MockReportRepository is a mock implementation of ReportRepository
type MockReportRepository struct {
	AppendFunc      func(ctx context.Context, report *domain.FieldReport) error
	FindLatestFunc  func(ctx context.Context, fieldID string) (*domain.FieldReport, error)
	FindHistoryFunc func(ctx context.Context, fieldID string, limit int) ([]domain.FieldReport, error)
	ListFieldsFunc  func(ctx context.Context) ([]ports.FieldInfo, error)

	// Track appended reports for assertions
	Appended []domain.FieldReport
}

func (m *MockReportRepository) Append(ctx context.Context, report *domain.FieldReport) error {
	if m.AppendFunc != nil {
		if err := m.AppendFunc(ctx, report); err != nil {
			return err
		}
	}
	m.Appended = append(m.Appended, *report)
	return nil
}

func (m *MockReportRepository) FindLatest(ctx context.Context, fieldID string) (*domain.FieldReport, error) {
	if m.FindLatestFunc != nil {
		return m.FindLatestFunc(ctx, fieldID)
	}
	return nil, nil
}

func (m *MockReportRepository) FindHistory(ctx context.Context, fieldID string, limit int) ([]domain.FieldReport, error) {
	if m.FindHistoryFunc != nil {
		return m.FindHistoryFunc(ctx, fieldID, limit)
	}
	return []domain.FieldReport{}, nil
}

func (m *MockReportRepository) ListFields(ctx context.Context) ([]ports.FieldInfo, error) {
	if m.ListFieldsFunc != nil {
		return m.ListFieldsFunc(ctx)
	}
	return []ports.FieldInfo{}, nil
}

// MockDecisionRepository is a mock implementation of DecisionRepository
type MockDecisionRepository struct {
	AppendFunc     func(ctx context.Context, decision *domain.FieldDecision) error
	FindLatestFunc func(ctx context.Context, fieldID string) (*domain.FieldDecision, error)

	Appended []domain.FieldDecision
}

func (m *MockDecisionRepository) Append(ctx context.Context, decision *domain.FieldDecision) error {
	if m.AppendFunc != nil {
		if err := m.AppendFunc(ctx, decision); err != nil {
			return err
		}
	}
	m.Appended = append(m.Appended, *decision)
	return nil
}

func (m *MockDecisionRepository) FindLatest(ctx context.Context, fieldID string) (*domain.FieldDecision, error) {
	if m.FindLatestFunc != nil {
		return m.FindLatestFunc(ctx, fieldID)
	}
	return nil, nil
}
