package auth_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/database"
	auth_handlers "github.com/scholarhub/api/handlers/auth"
	"github.com/scholarhub/api/model"
	authutil "github.com/scholarhub/api/utils/auth"
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

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	db := setupIntegrationDB(t)

	jwtManager := authutil.NewJWTManager(authutil.JWTConfig{
		Secret:        "register-test-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "scholarhub-test",
	})

	app := fiber.New()
	handler := auth_handlers.NewAuthHandler(db, jwtManager, nil)
	app.Post("/auth/register", handler.Register)

	email := fmt.Sprintf("dup-%d@example.com", time.Now().UnixNano())
	t.Cleanup(func() {
		db.Unscoped().Where("email = ?", email).Delete(&model.User{})
	})

	body := fmt.Sprintf(`{"email":%q,"password":"longenough1","name":"Dup Test"}`, email)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		return resp.StatusCode
	}

	if status := post(); status != http.StatusCreated {
		t.Fatalf("first signup status = %d, want %d", status, http.StatusCreated)
	}
	if status := post(); status != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d, want %d", status, http.StatusConflict)
	}

	// The unique constraint itself reports a translated duplicate-key error,
	// which is what keeps a concurrent duplicate from becoming a 500.
	dup := model.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Name:         "Racing Signup",
		Role:         model.RoleStudent,
	}
	if err := db.Create(&dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate insert error = %v, want gorm.ErrDuplicatedKey", err)
	}

	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("user rows for %s = %d, want 1", email, count)
	}
}
