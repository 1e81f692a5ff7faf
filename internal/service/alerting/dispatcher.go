package alerting

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
	"github.com/avilaops/canaswarm-intelligence/internal/observability/telemetry"
	"github.com/avilaops/canaswarm-intelligence/internal/ports"
)

const subjectAlerts = "alerts.dispatched"

// Publisher is the broker capability the dispatcher needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Broadcaster pushes serialized alert events to connected dashboards.
type Broadcaster interface {
	BroadcastAlert(fieldID string, payload []byte)
}

// SMSSender delivers a short text to the on-call numbers.
type SMSSender interface {
	SendBulkSMS(ctx context.Context, recipients []string, message string) error
}

// AlertEvent is the outbound form of a zone alert. Classification produces
// plain alert values; the dispatcher stamps identity and time at the moment
// an alert leaves the process.
type AlertEvent struct {
	ID        string               `json:"id"`
	FieldID   string               `json:"field_id"`
	ZoneID    string               `json:"zone_id"`
	Severity  domain.AlertSeverity `json:"severity"`
	Message   string               `json:"message"`
	Timestamp time.Time            `json:"timestamp"`
}

// Config selects the channels and recipients for outbound alerts.
type Config struct {
	EmailRecipient string
	SMSRecipients  []string
	// Only alerts at critical severity go out by SMS.
	SMSOnCriticalOnly bool
}

// Dispatcher fans classified alerts out to the message broker, email, SMS
// and the websocket stream. Delivery is fire-and-forget: a failing channel is
// logged and counted, never propagated back to ingestion.
type Dispatcher struct {
	queue       Publisher
	email       ports.EmailService
	sms         SMSSender
	broadcaster Broadcaster
	cfg         Config
	log         *zap.Logger
}

func NewDispatcher(queue Publisher, email ports.EmailService, sms SMSSender, broadcaster Broadcaster, cfg Config, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		queue:       queue,
		email:       email,
		sms:         sms,
		broadcaster: broadcaster,
		cfg:         cfg,
		log:         log,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, fieldID string, alerts []domain.Alert) {
	if len(alerts) == 0 {
		return
	}

	now := time.Now().UTC()
	events := make([]AlertEvent, 0, len(alerts))
	for _, alert := range alerts {
		events = append(events, AlertEvent{
			ID:        uuid.New().String(),
			FieldID:   fieldID,
			ZoneID:    alert.ZoneID,
			Severity:  alert.Severity,
			Message:   alert.Message,
			Timestamp: now,
		})
	}

	d.publish(events)
	d.broadcastWS(fieldID, events)
	d.sendEmail(ctx, fieldID, alerts)
	d.sendSMS(ctx, events)

	d.log.Info("Alerts dispatched",
		zap.String("field_id", fieldID),
		zap.Int("count", len(alerts)),
	)
}

func (d *Dispatcher) publish(events []AlertEvent) {
	if d.queue == nil {
		return
	}
	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			d.log.Error("Failed to marshal alert event", zap.Error(err))
			continue
		}
		if err := d.queue.Publish(subjectAlerts, data); err != nil {
			d.log.Error("Failed to publish alert event",
				zap.String("zone_id", event.ZoneID),
				zap.Error(err),
			)
			continue
		}
		telemetry.AlertsDispatchedTotal.WithLabelValues("queue").Inc()
	}
}

func (d *Dispatcher) broadcastWS(fieldID string, events []AlertEvent) {
	if d.broadcaster == nil {
		return
	}
	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		d.broadcaster.BroadcastAlert(fieldID, data)
		telemetry.AlertsDispatchedTotal.WithLabelValues("websocket").Inc()
	}
}

func (d *Dispatcher) sendEmail(ctx context.Context, fieldID string, alerts []domain.Alert) {
	if d.email == nil || d.cfg.EmailRecipient == "" {
		return
	}
	if err := d.email.SendCriticalZoneAlert(ctx, d.cfg.EmailRecipient, fieldID, alerts); err != nil {
		d.log.Error("Failed to send alert email",
			zap.String("field_id", fieldID),
			zap.Error(err),
		)
		return
	}
	telemetry.AlertsDispatchedTotal.WithLabelValues("email").Inc()
}

func (d *Dispatcher) sendSMS(ctx context.Context, events []AlertEvent) {
	if d.sms == nil || len(d.cfg.SMSRecipients) == 0 {
		return
	}
	for _, event := range events {
		if d.cfg.SMSOnCriticalOnly && event.Severity != domain.SeverityCritical {
			continue
		}
		if err := d.sms.SendBulkSMS(ctx, d.cfg.SMSRecipients, event.Message); err != nil {
			d.log.Error("Failed to send alert SMS",
				zap.String("zone_id", event.ZoneID),
				zap.Error(err),
			)
			continue
		}
		telemetry.AlertsDispatchedTotal.WithLabelValues("sms").Inc()
	}
}
