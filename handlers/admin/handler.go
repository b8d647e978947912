package admin

import (
	"github.com/scholarhub/api/services"
	"github.com/scholarhub/api/utils/cache"
	"gorm.io/gorm"
)

// AdminHandler serves the moderation surface
type AdminHandler struct {
	db                 *gorm.DB
	scholarshipService *services.ScholarshipService
	reportService      *services.ReportService
	statsService       *services.StatsService
	emailService       *services.EmailService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, redisCache *cache.RedisCache, emailService *services.EmailService) *AdminHandler {
	return &AdminHandler{
		db:                 db,
		scholarshipService: services.NewScholarshipService(db),
		reportService:      services.NewReportService(db),
		statsService:       services.NewStatsService(db, redisCache),
		emailService:       emailService,
	}
}
