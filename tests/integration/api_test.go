package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/avilaops/canaswarm-intelligence/internal/adapter/http/fiber/handlers"
	"github.com/avilaops/canaswarm-intelligence/internal/adapter/http/fiber/middleware"
	"github.com/avilaops/canaswarm-intelligence/internal/domain"
	"github.com/avilaops/canaswarm-intelligence/internal/mocks"
)

func setupTestApp(ingestor *mocks.MockIngestorService, decisions *mocks.MockDecisionService) *fiber.App {
	log := zap.NewNop()
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(log),
	})

	fieldHandler := handlers.NewFieldHandler(ingestor, decisions, log)

	v1 := app.Group("/api/v1")
	v1.Get("/decision", fieldHandler.GetDecision)
	v1.Get("/fields", fieldHandler.ListFields)
	v1.Get("/reports", fieldHandler.GetReports)
	v1.Get("/alerts", fieldHandler.GetAlerts)
	v1.Post("/fields/:id/refresh", fieldHandler.Refresh)

	return app
}

// TestAPI_RefreshFlow tests the ingestion endpoint end to end
func TestAPI_RefreshFlow(t *testing.T) {
	ingestor := &mocks.MockIngestorService{
		RefreshFunc: func(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error) {
			return &domain.ClassifiedReport{
				Report: &domain.FieldReport{
					FieldID: fieldID,
					Zones:   make([]domain.ManagementZone, 3),
				},
				CriticalZoneIDs: []string{"Z1"},
				NormalZoneIDs:   []string{"Z2", "Z3"},
				Alerts: []domain.Alert{
					{ZoneID: "Z1", Severity: domain.SeverityCritical, Message: "zona crítica"},
				},
			}, nil
		},
	}
	app := setupTestApp(ingestor, &mocks.MockDecisionService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fields/F001/refresh", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result struct {
		FieldID         string   `json:"field_id"`
		ZonesAnalyzed   int      `json:"zones_analyzed"`
		CriticalZoneIDs []string `json:"critical_zone_ids"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.FieldID != "F001" {
		t.Errorf("Expected field F001, got %s", result.FieldID)
	}
	if result.ZonesAnalyzed != 3 {
		t.Errorf("Expected 3 zones analyzed, got %d", result.ZonesAnalyzed)
	}
	if len(result.CriticalZoneIDs) != 1 || result.CriticalZoneIDs[0] != "Z1" {
		t.Errorf("Expected critical [Z1], got %v", result.CriticalZoneIDs)
	}
}

// TestAPI_RefreshUpstreamDown verifies upstream failures map to 502
func TestAPI_RefreshUpstreamDown(t *testing.T) {
	ingestor := &mocks.MockIngestorService{
		RefreshFunc: func(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error) {
			return nil, &domain.ConnectivityError{Endpoint: "http://precision:5000"}
		},
	}
	app := setupTestApp(ingestor, &mocks.MockDecisionService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fields/F001/refresh", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", resp.StatusCode)
	}
}

// TestAPI_RefreshMalformedUpstream verifies malformed payloads map to 502
func TestAPI_RefreshMalformedUpstream(t *testing.T) {
	ingestor := &mocks.MockIngestorService{
		RefreshFunc: func(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error) {
			return nil, &domain.MalformedResponseError{Reason: `missing required key "zones"`}
		},
	}
	app := setupTestApp(ingestor, &mocks.MockDecisionService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fields/F001/refresh", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", resp.StatusCode)
	}
}

// TestAPI_GetDecision tests the decision endpoint
func TestAPI_GetDecision(t *testing.T) {
	decisions := &mocks.MockDecisionService{
		LatestDecisionFunc: func(ctx context.Context, fieldID string) (*domain.FieldDecision, error) {
			if fieldID != "F001" {
				return nil, nil
			}
			return &domain.FieldDecision{
				FieldID: "F001",
				Priority: domain.PriorityLevel{
					Level: domain.PriorityCritical,
					Score: 9.5,
				},
				TotalEstimatedROIBRLYear: 73000,
			}, nil
		},
	}
	app := setupTestApp(&mocks.MockIngestorService{}, decisions)

	t.Run("Found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/decision?field_id=F001", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}

		var decision domain.FieldDecision
		if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if decision.Priority.Level != domain.PriorityCritical {
			t.Errorf("Expected critical priority, got %s", decision.Priority.Level)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/decision?field_id=F404", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", resp.StatusCode)
		}
	})

	t.Run("MissingFieldID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/decision", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", resp.StatusCode)
		}
	})
}

// TestAPI_GetAlerts tests the alerts endpoint
func TestAPI_GetAlerts(t *testing.T) {
	ingestor := &mocks.MockIngestorService{
		LatestClassifiedFunc: func(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error) {
			if fieldID != "F001" {
				return nil, nil
			}
			return &domain.ClassifiedReport{
				Report:          &domain.FieldReport{FieldID: "F001"},
				CriticalZoneIDs: []string{"Z1"},
				Alerts: []domain.Alert{
					{ZoneID: "Z1", Severity: domain.SeverityCritical, Message: "zona crítica"},
				},
			}, nil
		},
	}
	app := setupTestApp(ingestor, &mocks.MockDecisionService{})

	t.Run("Found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts?field_id=F001", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}

		var result struct {
			FieldID string         `json:"field_id"`
			Alerts  []domain.Alert `json:"alerts"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(result.Alerts) != 1 || result.Alerts[0].Severity != domain.SeverityCritical {
			t.Errorf("Unexpected alerts: %+v", result.Alerts)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts?field_id=F404", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", resp.StatusCode)
		}
	})
}

// TestAPI_ListFields tests the fields listing endpoint
func TestAPI_ListFields(t *testing.T) {
	app := setupTestApp(&mocks.MockIngestorService{}, &mocks.MockDecisionService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fields", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Count != 0 {
		t.Errorf("Expected empty listing, got count %d", result.Count)
	}
}
