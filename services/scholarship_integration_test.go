package services_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/scholarhub/api/database"
	"github.com/scholarhub/api/model"
	"github.com/scholarhub/api/services"
	"github.com/scholarhub/api/utils/localized"
	"gorm.io/gorm"
)

// setupIntegrationDB connects to the database from the usual environment
// variables and runs migrations. Tests using it are skipped unless
// RUN_INTEGRATION_TESTS=true.
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

func createTestUniversityUser(t *testing.T, db *gorm.DB, verified bool) *model.User {
	t.Helper()

	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	university := model.University{
		Name:       "Integration Test University " + suffix,
		Email:      "uni-" + suffix + "@example.com",
		Website:    "https://uni-" + suffix + ".example.com",
		IsVerified: verified,
	}
	if err := db.Create(&university).Error; err != nil {
		t.Fatalf("Failed to create test university: %v", err)
	}

	user := model.User{
		Email:        "provider-" + suffix + "@example.com",
		PasswordHash: "not-a-real-hash",
		Name:         "Provider " + suffix,
		Role:         model.RoleUniversity,
		UniversityID: &university.ID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	t.Cleanup(func() {
		db.Unscoped().Where("university_id = ?", university.ID).Delete(&model.Scholarship{})
		db.Unscoped().Delete(&user)
		db.Unscoped().Delete(&university)
	})
	return &user
}

func createTestStudent(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()

	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	user := model.User{
		Email:        "student-" + suffix + "@example.com",
		PasswordHash: "not-a-real-hash",
		Name:         "Student " + suffix,
		Role:         model.RoleStudent,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test student: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("user_id = ?", user.ID).Delete(&model.SavedScholarship{})
		db.Unscoped().Delete(&user)
	})
	return &user
}

func testCreateRequest() *services.CreateScholarshipRequest {
	deadline := time.Now().Add(90 * 24 * time.Hour)
	return &services.CreateScholarshipRequest{
		Title:         localized.Plain("Integration Test Scholarship"),
		Description:   "Full tuition support for graduate applicants.",
		Amount:        20000,
		Currency:      "usd",
		Deadline:      &deadline,
		TargetCountry: "Uzbekistan",
		DegreeLevel:   "Master",
		FieldOfStudy:  []string{"Computer Science"},
	}
}

func TestCreateRequiresVerifiedUniversity(t *testing.T) {
	db := setupIntegrationDB(t)
	service := services.NewScholarshipService(db)
	ctx := context.Background()

	unverified := createTestUniversityUser(t, db, false)
	if _, err := service.Create(ctx, unverified, testCreateRequest()); !errors.Is(err, services.ErrNotVerified) {
		t.Fatalf("unverified create = %v, want ErrNotVerified", err)
	}

	verified := createTestUniversityUser(t, db, true)
	scholarship, err := service.Create(ctx, verified, testCreateRequest())
	if err != nil {
		t.Fatalf("verified create: %v", err)
	}
	if scholarship.Slug == "" {
		t.Error("created listing has no slug")
	}
	if scholarship.Currency != "USD" {
		t.Errorf("currency = %q, want normalized USD", scholarship.Currency)
	}
}

func TestEditLocksAfterFirstEdit(t *testing.T) {
	db := setupIntegrationDB(t)
	service := services.NewScholarshipService(db)
	ctx := context.Background()

	owner := createTestUniversityUser(t, db, true)
	scholarship, err := service.Create(ctx, owner, testCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newAmount := 25000
	edited, err := service.Edit(ctx, owner, scholarship.ID, &services.EditScholarshipRequest{Amount: &newAmount})
	if err != nil {
		t.Fatalf("first edit: %v", err)
	}
	if !edited.IsEdited || edited.Amount != 25000 {
		t.Fatalf("first edit result = edited:%v amount:%d", edited.IsEdited, edited.Amount)
	}

	// The second edit must fail no matter which field it touches.
	another := 30000
	if _, err := service.Edit(ctx, owner, scholarship.ID, &services.EditScholarshipRequest{Amount: &another}); !errors.Is(err, services.ErrAlreadyEdited) {
		t.Fatalf("second edit = %v, want ErrAlreadyEdited", err)
	}

	// Another university cannot edit someone else's listing at all.
	stranger := createTestUniversityUser(t, db, true)
	if _, err := service.Edit(ctx, stranger, scholarship.ID, &services.EditScholarshipRequest{Amount: &another}); !errors.Is(err, services.ErrNotOwner) {
		t.Fatalf("stranger edit = %v, want ErrNotOwner", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	db := setupIntegrationDB(t)
	service := services.NewScholarshipService(db)
	ctx := context.Background()

	owner := createTestUniversityUser(t, db, true)
	scholarship, err := service.Create(ctx, owner, testCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := service.Remove(ctx, scholarship.ID, "policy violation")
	if err != nil {
		t.Fatalf("first removal: %v", err)
	}
	if first.RemovedAt == nil || first.RemovedReason == nil || *first.RemovedReason != "policy violation" {
		t.Fatalf("first removal did not record reason: %+v", first)
	}

	second, err := service.Remove(ctx, scholarship.ID, "a different reason")
	if err != nil {
		t.Fatalf("second removal: %v", err)
	}
	if !second.RemovedAt.Equal(*first.RemovedAt) {
		t.Error("second removal moved the removal timestamp")
	}
	if *second.RemovedReason != "policy violation" {
		t.Errorf("second removal overwrote the reason: %q", *second.RemovedReason)
	}

	// Removed listings disappear from public reads.
	if _, err := service.GetBySlug(ctx, scholarship.Slug); !errors.Is(err, services.ErrScholarshipNotFound) {
		t.Fatalf("removed listing lookup = %v, want ErrScholarshipNotFound", err)
	}
}

func TestViewCounterIncrements(t *testing.T) {
	db := setupIntegrationDB(t)
	service := services.NewScholarshipService(db)
	ctx := context.Background()

	owner := createTestUniversityUser(t, db, true)
	scholarship, err := service.Create(ctx, owner, testCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := service.View(ctx, scholarship.ID)
	if err != nil {
		t.Fatalf("first view: %v", err)
	}
	second, err := service.View(ctx, scholarship.ID)
	if err != nil {
		t.Fatalf("second view: %v", err)
	}
	if second != first+1 {
		t.Fatalf("views went %d -> %d, want +1", first, second)
	}

	if _, err := service.View(ctx, 0); !errors.Is(err, services.ErrScholarshipNotFound) {
		t.Fatalf("view of missing listing = %v, want ErrScholarshipNotFound", err)
	}
}

func TestViewCounterConcurrent(t *testing.T) {
	db := setupIntegrationDB(t)
	service := services.NewScholarshipService(db)
	ctx := context.Background()

	owner := createTestUniversityUser(t, db, true)
	scholarship, err := service.Create(ctx, owner, testCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const viewers = 50
	errs := make(chan error, viewers)
	var wg sync.WaitGroup
	for i := 0; i < viewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.View(ctx, scholarship.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent view: %v", err)
		}
	}

	// No increment may be lost to a read-modify-write race.
	var fresh model.Scholarship
	if err := db.First(&fresh, scholarship.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.Views != viewers {
		t.Fatalf("views = %d after %d concurrent increments, want %d", fresh.Views, viewers, viewers)
	}
}

func TestBookmarkDuplicateConflicts(t *testing.T) {
	db := setupIntegrationDB(t)
	scholarshipService := services.NewScholarshipService(db)
	bookmarkService := services.NewBookmarkService(db)
	ctx := context.Background()

	owner := createTestUniversityUser(t, db, true)
	scholarship, err := scholarshipService.Create(ctx, owner, testCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	student := createTestStudent(t, db)

	if err := bookmarkService.Bookmark(ctx, student.ID, scholarship.ID); err != nil {
		t.Fatalf("first bookmark: %v", err)
	}
	if err := bookmarkService.Bookmark(ctx, student.ID, scholarship.ID); !errors.Is(err, services.ErrAlreadyBookmarked) {
		t.Fatalf("duplicate bookmark = %v, want ErrAlreadyBookmarked", err)
	}

	// Removing the bookmark twice is fine.
	if err := bookmarkService.Unbookmark(ctx, student.ID, scholarship.ID); err != nil {
		t.Fatalf("unbookmark: %v", err)
	}
	if err := bookmarkService.Unbookmark(ctx, student.ID, scholarship.ID); err != nil {
		t.Fatalf("repeat unbookmark: %v", err)
	}

	saved, err := bookmarkService.ListSaved(ctx, student.ID)
	if err != nil {
		t.Fatalf("ListSaved: %v", err)
	}
	if len(saved) != 0 {
		t.Fatalf("saved list has %d entries after unbookmark, want 0", len(saved))
	}
}
