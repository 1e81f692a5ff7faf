package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
)

// Provider defines the interface for email providers
type Provider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

// Config holds email service configuration
type Config struct {
	// Provider type: "sendgrid" or "smtp"
	Provider string

	// From email address
	FromEmail string
	FromName  string

	// SendGrid configuration
	SendGridAPIKey string

	// SMTP configuration (for Mailhog or other SMTP servers)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool

	// Base URL for dashboard links in emails
	BaseURL string
}

// DefaultConfig returns a default configuration for development (Mailhog)
func DefaultConfig() *Config {
	return &Config{
		Provider:   "smtp",
		FromEmail:  "noreply@canaswarm.com",
		FromName:   "CanaSwarm Intelligence",
		SMTPHost:   "localhost",
		SMTPPort:   1025, // Mailhog default port
		SMTPUseTLS: false,
		BaseURL:    "http://localhost:3000",
	}
}

// Service renders and sends field alert notifications.
type Service struct {
	config    *Config
	provider  Provider
	templates map[string]*template.Template
	log       *zap.Logger
}

// NewService creates a new email service
func NewService(config *Config, log *zap.Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
		log:       log,
	}

	switch config.Provider {
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SendGrid API key is required")
		}
		s.provider = NewSendGridProvider(config.SendGridAPIKey, config.FromEmail, config.FromName)
	case "smtp":
		s.provider = NewSMTPProvider(
			config.SMTPHost,
			config.SMTPPort,
			config.SMTPUsername,
			config.SMTPPassword,
			config.FromEmail,
			config.FromName,
			config.SMTPUseTLS,
		)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", config.Provider)
	}

	s.loadTemplates()
	return s, nil
}

func (s *Service) loadTemplates() {
	s.templates = map[string]*template.Template{
		"critical_zone_alert": template.Must(template.New("critical_zone_alert").Parse(criticalZoneAlertTemplate)),
	}
}

// Send sends a generic plain-text email
func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	s.log.Info("Sending email",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	if err := s.provider.Send(ctx, to, subject, body, false); err != nil {
		s.log.Error("Failed to send email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendHTML sends an HTML email
func (s *Service) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	s.log.Info("Sending HTML email",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	if err := s.provider.Send(ctx, to, subject, htmlBody, true); err != nil {
		s.log.Error("Failed to send HTML email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send HTML email: %w", err)
	}

	return nil
}

// SendCriticalZoneAlert sends one digest email covering every alert raised
// by the latest classification of a field.
func (s *Service) SendCriticalZoneAlert(ctx context.Context, to string, fieldID string, alerts []domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	tmpl := s.templates["critical_zone_alert"]

	critical := 0
	for _, a := range alerts {
		if a.Severity == domain.SeverityCritical {
			critical++
		}
	}

	data := map[string]interface{}{
		"FieldID":       fieldID,
		"Alerts":        alerts,
		"CriticalCount": critical,
		"TotalCount":    len(alerts),
		"DashboardURL":  fmt.Sprintf("%s/fields/%s", s.config.BaseURL, fieldID),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("Alerta de rentabilidade: talhão %s (%d zona(s))", fieldID, len(alerts))
	return s.SendHTML(ctx, to, subject, buf.String())
}
