package workers

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mephub/mephub/internal/models"
	"github.com/mephub/mephub/internal/tasks"
)

// StartMaintenanceScheduler runs a periodic check (every minute) that purges
// expired sessions and enqueues sitemap regeneration when it is due
func StartMaintenanceScheduler(client *asynq.Client, db *gorm.DB, logger zerolog.Logger) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	// Run immediately on startup, then every minute
	runMaintenance(client, db, logger)

	for range ticker.C {
		runMaintenance(client, db, logger)
	}
}

func runMaintenance(client *asynq.Client, db *gorm.DB, logger zerolog.Logger) {
	purgeExpiredSessions(db, logger)
	checkAndEnqueueSitemap(client, db, logger)
}

func purgeExpiredSessions(db *gorm.DB, logger zerolog.Logger) {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		logger.Error().Err(result.Error).Msg("Failed to purge expired sessions")
		return
	}
	if result.RowsAffected > 0 {
		logger.Info().
			Int64("count", result.RowsAffected).
			Msg("Purged expired sessions")
	}
}

func checkAndEnqueueSitemap(client *asynq.Client, db *gorm.DB, logger zerolog.Logger) {
	var siteCfg models.SiteConfig
	err := db.First(&siteCfg).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.Debug().Msg("No site config found - skipping sitemap check")
			return
		}
		logger.Error().Err(err).Msg("Failed to query site config for sitemap schedule")
		return
	}

	if siteCfg.SitemapSchedule == "" {
		logger.Debug().Msg("No sitemap schedule configured")
		return
	}

	if siteCfg.NextSitemapAt != nil && siteCfg.NextSitemapAt.After(time.Now()) {
		logger.Debug().
			Time("next_sitemap_at", *siteCfg.NextSitemapAt).
			Msg("Sitemap regeneration not due yet")
		return
	}

	task, err := tasks.NewSitemapRegenerateTask()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create sitemap task")
		return
	}

	if _, err := client.Enqueue(task, asynq.Queue("low")); err != nil {
		logger.Error().Err(err).Msg("Failed to enqueue sitemap task")
		return
	}

	// Advance next_sitemap_at right away so the scheduler does not enqueue
	// again every minute while the task is still in the queue
	next := NextScheduledTime(siteCfg.SitemapSchedule, time.Now())
	if next != nil {
		if err := db.Model(&siteCfg).Update("next_sitemap_at", next).Error; err != nil {
			logger.Error().Err(err).Msg("Failed to update next_sitemap_at")
		} else {
			logger.Info().
				Time("next_sitemap_at", *next).
				Msg("Sitemap regeneration enqueued")
		}
	}
}

// NextScheduledTime calculates the next run from a standard 5-field cron
// expression, or nil when the expression is empty or invalid
func NextScheduledTime(cronExpr string, from time.Time) *time.Time {
	if cronExpr == "" {
		return nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(cronExpr)
	if err != nil {
		return nil
	}

	next := schedule.Next(from)
	return &next
}
