package scholarship_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/database"
	"github.com/scholarhub/api/handlers/scholarship"
	"github.com/scholarhub/api/model"
	"github.com/scholarhub/api/utils/localized"
	"gorm.io/gorm"
)

func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	store, err := database.StartGORM()
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		t.Fatal("Failed to get GORM DB instance")
	}
	return db
}

func TestReportWithoutBody(t *testing.T) {
	db := setupIntegrationDB(t)

	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	listing := model.Scholarship{
		Slug:          "report-handler-test-" + suffix,
		Title:         localized.Plain("Report Handler Test"),
		Description:   "Listing used by the anonymous report test.",
		ProviderName:  "Test Provider",
		Amount:        1000,
		Currency:      "USD",
		TargetCountry: "Uzbekistan",
		DegreeLevel:   "Bachelor",
	}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("Failed to create test listing: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("scholarship_id = ?", listing.ID).Delete(&model.ScholarshipReport{})
		db.Unscoped().Delete(&listing)
	})

	app := fiber.New()
	handler := scholarship.NewScholarshipHandler(db)
	app.Post("/scholarships/:id/report", handler.Report)

	// A body-less anonymous POST is valid: the reason is optional.
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/scholarships/%d/report", listing.ID), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("body-less report status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var report model.ScholarshipReport
	if err := db.Where("scholarship_id = ?", listing.ID).First(&report).Error; err != nil {
		t.Fatalf("report row not created: %v", err)
	}
	if report.UserID != nil {
		t.Errorf("anonymous report has user id %d, want null", *report.UserID)
	}
	if report.Reason != nil {
		t.Errorf("empty reason stored as %q, want null", *report.Reason)
	}

	// A present but malformed body is still rejected.
	bad := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/scholarships/%d/report", listing.ID), strings.NewReader("{not json"))
	bad.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(bad)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		body, _ := json.Marshal(resp.Header)
		t.Fatalf("malformed report status = %d, want %d (%s)", resp.StatusCode, http.StatusBadRequest, body)
	}
}
