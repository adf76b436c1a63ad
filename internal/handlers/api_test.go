package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/services"
)

func createTestAnalytics() *services.Analytics {
	a := services.NewAnalytics(15)
	testData := []models.Record{
		{
			OrderDate:   time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC),
			Year:        2022,
			Month:       "2022-01",
			ShipMode:    "Second Class",
			Segment:     "Consumer",
			State:       "Kentucky",
			Region:      "South",
			Category:    "Furniture",
			SubCategory: "Bookcases",
			Sales:       261.96,
			Profit:      41.91,
			Quantity:    2,
		},
		{
			OrderDate:   time.Date(2022, 2, 10, 0, 0, 0, 0, time.UTC),
			Year:        2022,
			Month:       "2022-02",
			ShipMode:    "Standard Class",
			Segment:     "Corporate",
			State:       "California",
			Region:      "West",
			Category:    "Technology",
			SubCategory: "Phones",
			Sales:       731.94,
			Profit:      219.58,
			Quantity:    3,
		},
		{
			OrderDate:   time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC),
			Year:        2023,
			Month:       "2023-01",
			ShipMode:    "First Class",
			Segment:     "Home Office",
			State:       "Texas",
			Region:      "Central",
			Category:    "Office Supplies",
			SubCategory: "Binders",
			Sales:       14.62,
			Profit:      -6.87,
			Quantity:    2,
		},
	}
	a.SetData(testData)
	return a
}

func TestNewAPIHandlers(t *testing.T) {
	analytics := createTestAnalytics()
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	if handlers == nil {
		t.Error("NewAPIHandlers() returned nil")
	}

	if handlers.analytics != analytics {
		t.Error("NewAPIHandlers() should set analytics field")
	}
}

func TestAPIHandlers_HandleDashboard(t *testing.T) {
	analytics := createTestAnalytics()
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}

	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("expected cache-control 'public, max-age=300', got %q", cc)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}

	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected data object in response")
	}

	measures, ok := data["measures"].(map[string]interface{})
	if !ok {
		t.Fatal("expected measures map in dashboard payload")
	}
	for _, measure := range []string{"sales", "profit", "quantity"} {
		if _, ok := measures[measure]; !ok {
			t.Errorf("expected measure %q in payload", measure)
		}
	}
}

func TestAPIHandlers_HandleDashboard_YearFilter(t *testing.T) {
	analytics := createTestAnalytics()
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?year=2022", nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data := response["data"].(map[string]interface{})
	if count, ok := data["record_count"].(float64); !ok || count != 2 {
		t.Errorf("record_count = %v, want 2", data["record_count"])
	}

	measures := data["measures"].(map[string]interface{})
	sales := measures["sales"].(map[string]interface{})
	if total, ok := sales["total"].(float64); !ok || total != 261.96+731.94 {
		t.Errorf("2022 sales total = %v, want %v", sales["total"], 261.96+731.94)
	}
}

func TestAPIHandlers_HandleDashboard_InvalidYear(t *testing.T) {
	analytics := createTestAnalytics()
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?year=twenty-two", nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if success, ok := response["success"].(bool); !ok || success {
		t.Error("expected success=false in error response")
	}
}

func TestAPIHandlers_HandleDashboard_MissingYear(t *testing.T) {
	analytics := createTestAnalytics()
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	// A year not present in the data is not an error, just empty.
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?year=1999", nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data := response["data"].(map[string]interface{})
	if count, ok := data["record_count"].(float64); !ok || count != 0 {
		t.Errorf("record_count = %v, want 0", data["record_count"])
	}
}

func TestAPIHandlers_HandleYears(t *testing.T) {
	analytics := createTestAnalytics()
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/years", nil)
	w := httptest.NewRecorder()

	handlers.HandleYears(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	years, ok := response["data"].([]interface{})
	if !ok {
		t.Fatal("expected years array in response")
	}
	if len(years) != 2 {
		t.Errorf("expected 2 years, got %d", len(years))
	}
	if len(years) == 2 && (years[0].(float64) != 2022 || years[1].(float64) != 2023) {
		t.Errorf("years = %v, want [2022 2023]", years)
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	analytics := createTestAnalytics()
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handlers.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}

	// Health endpoint should NOT have cache-control header.
	if cc := w.Header().Get("Cache-Control"); cc != "" {
		t.Errorf("health endpoint should not set cache-control, got %q", cc)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if data, ok := response["data"].(map[string]interface{}); !ok {
		t.Error("expected health data in response")
	} else {
		if status, ok := data["status"].(string); !ok || status != "healthy" {
			t.Errorf("expected status 'healthy', got %q", status)
		}

		if timestamp, ok := data["timestamp"].(string); !ok || timestamp == "" {
			t.Error("expected non-empty timestamp")
		} else {
			if _, err := time.Parse(time.RFC3339, timestamp); err != nil {
				t.Errorf("invalid timestamp format: %v", err)
			}
		}
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	analytics := createTestAnalytics()
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()

	handlers.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}

	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected stats data in response")
	}
	if count, ok := data["record_count"].(float64); !ok || count != 3 {
		t.Errorf("record_count = %v, want 3", data["record_count"])
	}
}
