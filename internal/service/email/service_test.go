package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
)

// MockProvider is a mock email provider for testing
type MockProvider struct {
	SentEmails []MockEmail
	ShouldFail bool
	FailError  error
}

type MockEmail struct {
	To      string
	Subject string
	Body    string
	IsHTML  bool
}

func (m *MockProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	if m.ShouldFail {
		if m.FailError != nil {
			return m.FailError
		}
		return errors.New("mock send failed")
	}

	m.SentEmails = append(m.SentEmails, MockEmail{
		To:      to,
		Subject: subject,
		Body:    body,
		IsHTML:  isHTML,
	})
	return nil
}

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestService_Send_Success(t *testing.T) {
	// Arrange
	mockProvider := &MockProvider{}
	service := &Service{
		config:   DefaultConfig(),
		provider: mockProvider,
		log:      newTestLogger(),
	}
	service.loadTemplates()

	// Act
	err := service.Send(context.Background(), "agro@usina.br", "Test Subject", "Test Body")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mockProvider.SentEmails) != 1 {
		t.Fatalf("expected 1 email sent, got %d", len(mockProvider.SentEmails))
	}
	email := mockProvider.SentEmails[0]
	if email.To != "agro@usina.br" {
		t.Errorf("expected to 'agro@usina.br', got '%s'", email.To)
	}
	if email.IsHTML {
		t.Error("expected plain text email, got HTML")
	}
}

func TestService_Send_Failure(t *testing.T) {
	// Arrange
	mockProvider := &MockProvider{ShouldFail: true}
	service := &Service{
		config:   DefaultConfig(),
		provider: mockProvider,
		log:      newTestLogger(),
	}
	service.loadTemplates()

	// Act
	err := service.Send(context.Background(), "agro@usina.br", "Test Subject", "Test Body")

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestService_SendCriticalZoneAlert(t *testing.T) {
	// Arrange
	mockProvider := &MockProvider{}
	service := &Service{
		config:   DefaultConfig(),
		provider: mockProvider,
		log:      newTestLogger(),
	}
	service.loadTemplates()

	alerts := []domain.Alert{
		{ZoneID: "Z1", Severity: domain.SeverityCritical, Message: "score 0.25 abaixo do limiar 0.40"},
		{ZoneID: "Z3", Severity: domain.SeverityWarning, Message: "score 0.38 abaixo do limiar 0.40"},
	}

	// Act
	err := service.SendCriticalZoneAlert(context.Background(), "agro@usina.br", "F001", alerts)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mockProvider.SentEmails) != 1 {
		t.Fatalf("expected 1 email sent, got %d", len(mockProvider.SentEmails))
	}
	email := mockProvider.SentEmails[0]
	if !email.IsHTML {
		t.Error("expected HTML email")
	}
	if !strings.Contains(email.Subject, "F001") {
		t.Errorf("expected subject to name the field, got '%s'", email.Subject)
	}
	for _, want := range []string{"Zona Z1", "Zona Z3", "score 0.25", "fields/F001"} {
		if !strings.Contains(email.Body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
	if !strings.Contains(email.Body, "alert-critical") || !strings.Contains(email.Body, "alert-warning") {
		t.Error("expected body to style both severities")
	}
}

func TestService_SendCriticalZoneAlert_EmptyBatch(t *testing.T) {
	mockProvider := &MockProvider{}
	service := &Service{
		config:   DefaultConfig(),
		provider: mockProvider,
		log:      newTestLogger(),
	}
	service.loadTemplates()

	if err := service.SendCriticalZoneAlert(context.Background(), "agro@usina.br", "F001", nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mockProvider.SentEmails) != 0 {
		t.Errorf("expected no email for empty batch, got %d", len(mockProvider.SentEmails))
	}
}

func TestNewService_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "carrier-pigeon"

	if _, err := NewService(cfg, newTestLogger()); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
