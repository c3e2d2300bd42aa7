package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mephub/mephub/internal/config"
	"github.com/mephub/mephub/internal/models"
	"github.com/mephub/mephub/internal/sitemap"
)

// HandleSitemapRegenerate rebuilds sitemap.xml from the current published
// listings and records the run on the SiteConfig singleton
func HandleSitemapRegenerate(ctx context.Context, _ *asynq.Task, generator *sitemap.Generator, db *gorm.DB, cfg *config.Config, logger zerolog.Logger) error {
	var siteCfg models.SiteConfig
	if err := db.WithContext(ctx).First(&siteCfg).Error; err != nil {
		return fmt.Errorf("failed to load site config: %w", err)
	}

	if err := generator.WriteFile(ctx, siteCfg.BaseURL, cfg.Server.SitemapPath); err != nil {
		return err
	}

	now := time.Now()
	if err := db.WithContext(ctx).Model(&siteCfg).Update("last_sitemap_at", &now).Error; err != nil {
		logger.Warn().Err(err).Msg("Failed to record sitemap run")
	}

	return nil
}
