package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/config"
	"github.com/scholarhub/api/database"
	"github.com/scholarhub/api/handlers"
	admin_handlers "github.com/scholarhub/api/handlers/admin"
	auth_handlers "github.com/scholarhub/api/handlers/auth"
	dashboard_handlers "github.com/scholarhub/api/handlers/dashboard"
	scholarship_handlers "github.com/scholarhub/api/handlers/scholarship"
	university_handlers "github.com/scholarhub/api/handlers/university"
	"github.com/scholarhub/api/services"
	"github.com/scholarhub/api/services/storage"
	"github.com/scholarhub/api/services/translate"
	"github.com/scholarhub/api/utils/auth"
	"github.com/scholarhub/api/utils/cache"
	"github.com/scholarhub/api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	// Get JWT secret from environment
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "scholarhub-api"
	}

	// Initialize JWT manager with config
	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Initialize Redis cache for brute force protection and stats caching
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection and stats caching will be disabled.", err)
	}

	// Initialize brute force protection
	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Initialize auth middleware with DB for blacklist checking
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Optional integrations come up only when their credentials are present.
	getEnv, _ := config.Get()

	var spacesClient *storage.SpacesClient
	if getEnv != nil && getEnv.SPACES_ACCESS_KEY != "" && getEnv.SPACES_BUCKET != "" {
		spacesClient, err = storage.NewSpacesClient(storage.SpacesConfig{
			AccessKey: getEnv.SPACES_ACCESS_KEY,
			SecretKey: getEnv.SPACES_SECRET_KEY,
			Bucket:    getEnv.SPACES_BUCKET,
			Region:    getEnv.SPACES_REGION,
			Endpoint:  getEnv.SPACES_ENDPOINT,
			CDNURL:    getEnv.SPACES_CDN_URL,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize Spaces client: %v. Logo uploads will be disabled.", err)
		}
	}

	var translateClient *translate.Client
	if getEnv != nil && getEnv.GEMINI_API_KEY != "" {
		translateClient = translate.NewClient(translate.Config{APIKey: getEnv.GEMINI_API_KEY})
	}

	emailService := services.NewEmailService()

	// Initialize handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	scholarshipHandler := scholarship_handlers.NewScholarshipHandler(db)
	dashboardHandler := dashboard_handlers.NewDashboardHandler(db)
	universityHandler := university_handlers.NewUniversityHandler(db, spacesClient, translateClient)
	adminHandler := admin_handlers.NewAdminHandler(db, redisCache, emailService)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", func(c *fiber.Ctx) error {
		return handlers.HandleCheckHealth(c, store)
	})

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/setup-university", authMiddleware.Required(), authHandler.SetupUniversity)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Scholarship routes
	scholarships := api.Group("/scholarships")
	scholarships.Get("/", authMiddleware.Optional(), scholarshipHandler.List)                  // Public: Browse listings
	scholarships.Get("/:slug", authMiddleware.Optional(), scholarshipHandler.GetBySlug)        // Public: Get listing by slug
	scholarships.Post("/:id/view", scholarshipHandler.View)                                    // Public: Record a detail view
	scholarships.Post("/:id/report", authMiddleware.Optional(), scholarshipHandler.Report)     // Public: Report a listing
	scholarships.Post("/:id/bookmark", authMiddleware.Required(), scholarshipHandler.Bookmark) // Protected: Save listing
	scholarships.Delete("/:id/bookmark", authMiddleware.Required(), scholarshipHandler.Unbookmark)
	scholarships.Get("/:id/bookmark", authMiddleware.Optional(), scholarshipHandler.IsBookmarked)

	// Student dashboard routes (protected)
	dashboard := api.Group("/dashboard", authMiddleware.Required())
	dashboard.Get("/saved-scholarships", dashboardHandler.ListSaved)

	// Best-effort listing translation (any authenticated account)
	api.Post("/translate", authMiddleware.Required(), universityHandler.Translate)

	// University routes (university accounts only)
	university := api.Group("/university", authMiddleware.RequireUniversity())
	university.Get("/dashboard", universityHandler.Dashboard)
	university.Get("/profile", universityHandler.GetProfile)
	university.Put("/profile", universityHandler.UpdateProfile)
	university.Post("/logo", universityHandler.UploadLogo)
	university.Get("/scholarships", universityHandler.ListScholarships)
	university.Post("/scholarships", universityHandler.CreateScholarship)
	university.Get("/scholarships/:id", universityHandler.GetScholarship)
	university.Patch("/scholarships/:id", universityHandler.EditScholarship)

	// Admin routes (admin accounts only, mutations audited)
	admin := api.Group("/admin", authMiddleware.RequireAdmin())
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id", adminHandler.GetUser)
	admin.Patch("/users/:id", middleware.AdminAuditLog(db, "update_role", "user"), adminHandler.UpdateUserRole)
	admin.Get("/universities", adminHandler.ListUniversities)
	admin.Patch("/universities/:id", middleware.AdminAuditLog(db, "set_verification", "university"), adminHandler.SetVerification)
	admin.Get("/scholarships", adminHandler.ListScholarships)
	admin.Post("/scholarships", middleware.AdminAuditLog(db, "create", "scholarship"), adminHandler.CreateScholarship)
	admin.Delete("/scholarships/:id", middleware.AdminAuditLog(db, "remove", "scholarship"), adminHandler.RemoveScholarship)
	admin.Patch("/scholarships/:id/feature", middleware.AdminAuditLog(db, "feature", "scholarship"), adminHandler.FeatureScholarship)
	admin.Get("/reports", adminHandler.ListReports)
	admin.Get("/stats", adminHandler.GetStats)
}
