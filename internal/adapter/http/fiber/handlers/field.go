package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/avilaops/canaswarm-intelligence/internal/ports"
)

// FieldHandler serves the field analysis API backed by the ingestor and
// decision services.
type FieldHandler struct {
	ingestor  ports.IngestorService
	decisions ports.DecisionService
	log       *zap.Logger
}

func NewFieldHandler(ingestor ports.IngestorService, decisions ports.DecisionService, log *zap.Logger) *FieldHandler {
	return &FieldHandler{
		ingestor:  ingestor,
		decisions: decisions,
		log:       log,
	}
}

// Refresh runs one full ingestion cycle for a field and returns the
// resulting classification.
func (h *FieldHandler) Refresh(c *fiber.Ctx) error {
	fieldID := c.Params("id")
	if fieldID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "field id is required"})
	}

	classified, err := h.ingestor.Refresh(c.Context(), fieldID)
	if err != nil {
		// Mapped to 502/500 by the error handler.
		return err
	}

	return c.JSON(fiber.Map{
		"message":           "Data ingested successfully",
		"field_id":          classified.Report.FieldID,
		"zones_analyzed":    len(classified.Report.Zones),
		"critical_zone_ids": classified.CriticalZoneIDs,
		"alerts":            classified.Alerts,
	})
}

// GetDecision returns the latest stored decision for a field.
func (h *FieldHandler) GetDecision(c *fiber.Ctx) error {
	fieldID := c.Query("field_id")
	if fieldID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "field_id query parameter is required"})
	}

	decision, err := h.decisions.LatestDecision(c.Context(), fieldID)
	if err != nil {
		return err
	}
	if decision == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No data available for field '" + fieldID + "'. Please ingest Precision data first.",
		})
	}

	return c.JSON(decision)
}

// ListFields returns a summary row per stored field.
func (h *FieldHandler) ListFields(c *fiber.Ctx) error {
	fields, err := h.ingestor.ListFields(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"fields": fields,
		"count":  len(fields),
	})
}

// GetReports returns the stored report history for a field, newest first.
func (h *FieldHandler) GetReports(c *fiber.Ctx) error {
	fieldID := c.Query("field_id")
	if fieldID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "field_id query parameter is required"})
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	reports, err := h.ingestor.History(c.Context(), fieldID, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"field_id": fieldID,
		"reports":  reports,
		"count":    len(reports),
	})
}

// GetAlerts returns the alerts from the latest classification of a field.
func (h *FieldHandler) GetAlerts(c *fiber.Ctx) error {
	fieldID := c.Query("field_id")
	if fieldID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "field_id query parameter is required"})
	}

	classified, err := h.ingestor.LatestClassified(c.Context(), fieldID)
	if err != nil {
		return err
	}
	if classified == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No data available for field '" + fieldID + "'. Please ingest Precision data first.",
		})
	}

	return c.JSON(fiber.Map{
		"field_id":          fieldID,
		"critical_zone_ids": classified.CriticalZoneIDs,
		"alerts":            classified.Alerts,
	})
}
