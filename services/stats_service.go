package services

import (
	"context"
	"log"
	"time"

	"github.com/scholarhub/api/model"
	"github.com/scholarhub/api/utils/cache"
	"gorm.io/gorm"
)

const (
	statsCacheKey = "admin:stats"
	statsCacheTTL = 60 * time.Second
)

// AdminStats is the aggregate snapshot shown on the admin dashboard
type AdminStats struct {
	TotalUsers             int64     `json:"total_users"`
	TotalStudents          int64     `json:"total_students"`
	TotalUniversityUsers   int64     `json:"total_university_users"`
	TotalUniversities      int64     `json:"total_universities"`
	VerifiedUniversities   int64     `json:"verified_universities"`
	UnverifiedUniversities int64     `json:"unverified_universities"`
	TotalScholarships      int64     `json:"total_scholarships"`
	ActiveScholarships     int64     `json:"active_scholarships"`
	RemovedScholarships    int64     `json:"removed_scholarships"`
	FeaturedScholarships   int64     `json:"featured_scholarships"`
	TotalReports           int64     `json:"total_reports"`
	TotalBookmarks         int64     `json:"total_bookmarks"`
	SignupsLast7Days       int64     `json:"signups_last_7_days"`
	TotalViews             int64     `json:"total_views"`
	GeneratedAt            time.Time `json:"generated_at"`
}

// StatsService computes admin dashboard aggregates with a short Redis cache
// in front of the counting queries.
type StatsService struct {
	db         *gorm.DB
	redisCache *cache.RedisCache
}

// NewStatsService creates a new stats service. The cache may be nil, in which
// case every call hits the database.
func NewStatsService(db *gorm.DB, redisCache *cache.RedisCache) *StatsService {
	return &StatsService{db: db, redisCache: redisCache}
}

// Get returns the dashboard snapshot, served from cache when fresh
func (s *StatsService) Get(ctx context.Context) (*AdminStats, error) {
	if s.redisCache != nil {
		var cached AdminStats
		if err := s.redisCache.GetJSON(ctx, statsCacheKey, &cached); err == nil {
			return &cached, nil
		} else if err != cache.ErrNotFound {
			log.Printf("stats cache read failed, recomputing: %v", err)
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.redisCache != nil {
		if err := s.redisCache.SetJSON(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
			log.Printf("stats cache write failed: %v", err)
		}
	}
	return stats, nil
}

// Invalidate drops the cached snapshot, used after admin mutations
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.redisCache == nil {
		return
	}
	if err := s.redisCache.Delete(ctx, statsCacheKey); err != nil {
		log.Printf("stats cache invalidation failed: %v", err)
	}
}

func (s *StatsService) compute(ctx context.Context) (*AdminStats, error) {
	db := s.db.WithContext(ctx)
	stats := AdminStats{GeneratedAt: time.Now()}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, db.Model(&model.User{})},
		{&stats.TotalStudents, db.Model(&model.User{}).Where("role = ?", model.RoleStudent)},
		{&stats.TotalUniversityUsers, db.Model(&model.User{}).Where("role = ?", model.RoleUniversity)},
		{&stats.TotalUniversities, db.Model(&model.University{})},
		{&stats.VerifiedUniversities, db.Model(&model.University{}).Where("is_verified = ?", true)},
		{&stats.UnverifiedUniversities, db.Model(&model.University{}).Where("is_verified = ?", false)},
		{&stats.TotalScholarships, db.Model(&model.Scholarship{})},
		{&stats.ActiveScholarships, db.Model(&model.Scholarship{}).Where("removed_at IS NULL")},
		{&stats.RemovedScholarships, db.Model(&model.Scholarship{}).Where("removed_at IS NOT NULL")},
		{&stats.FeaturedScholarships, db.Model(&model.Scholarship{}).Where("is_featured = ? AND removed_at IS NULL", true)},
		{&stats.TotalReports, db.Model(&model.ScholarshipReport{})},
		{&stats.TotalBookmarks, db.Model(&model.SavedScholarship{})},
		{&stats.SignupsLast7Days, db.Model(&model.User{}).Where("created_at >= ?", time.Now().AddDate(0, 0, -7))},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	err := db.Model(&model.Scholarship{}).
		Select("COALESCE(SUM(views), 0)").
		Scan(&stats.TotalViews).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
