package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/scholarhub/api/model"
)

// PurgeExpiredBlacklist removes token blacklist entries whose tokens have
// expired on their own and no longer need tracking
func (m *CronManager) PurgeExpiredBlacklist() {
	const jobName = "purge_expired_blacklist"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := m.blacklistService.CleanupExpiredTokens(ctx)
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("purged %d expired blacklist entries", removed))
}

// UnfeatureExpiredListings clears the featured flag on listings whose
// deadline has passed so promoted slots free up for live scholarships
func (m *CronManager) UnfeatureExpiredListings() {
	const jobName = "unfeature_expired_listings"

	res := m.db.Model(&model.Scholarship{}).
		Where("is_featured = ? AND deadline IS NOT NULL AND deadline < ?", true, time.Now()).
		UpdateColumn("is_featured", false)
	if res.Error != nil {
		m.logJobError(jobName, res.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("unfeatured %d past-deadline listings", res.RowsAffected))
}

// CleanupOldJobLogs trims cron job logs older than 90 days
func (m *CronManager) CleanupOldJobLogs() {
	const jobName = "cleanup_cron_logs"

	cutoff := time.Now().AddDate(0, 0, -90)
	res := m.db.Unscoped().
		Where("started_at < ?", cutoff).
		Delete(&model.CronJobLog{})
	if res.Error != nil {
		m.logJobError(jobName, res.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("deleted %d old job logs", res.RowsAffected))
}
