package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/mephub/mephub/internal/models"
)

// UpdateSiteConfigRequest represents a partial site configuration update
type UpdateSiteConfigRequest struct {
	SiteName        *string `json:"site_name"`
	BaseURL         *string `json:"base_url" validate:"omitempty,url"`
	SessionTTLHours *int    `json:"session_ttl_hours" validate:"omitempty,min=1,max=8760"`
	SitemapSchedule *string `json:"sitemap_schedule"`
}

// @Summary Get site configuration
// @Description Get the site configuration singleton (admin only)
// @Tags config
// @Produce json
// @Success 200 {object} models.SiteConfig
// @Router /admin/site-config [get]
func (s *Server) getSiteConfig(c *gin.Context) {
	cfg, err := s.siteConfig()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load site config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// @Summary Update site configuration
// @Description Patch the site configuration singleton (admin only)
// @Tags config
// @Accept json
// @Produce json
// @Param request body UpdateSiteConfigRequest true "Fields to update"
// @Success 200 {object} models.SiteConfig
// @Failure 400 {object} map[string]interface{}
// @Router /admin/site-config [patch]
func (s *Server) updateSiteConfig(c *gin.Context) {
	var req UpdateSiteConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	cfg, err := s.siteConfig()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load site config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	updates := map[string]interface{}{}
	if req.SiteName != nil {
		updates["site_name"] = *req.SiteName
	}
	if req.BaseURL != nil {
		updates["base_url"] = *req.BaseURL
	}
	if req.SessionTTLHours != nil {
		updates["session_ttl_hours"] = *req.SessionTTLHours
	}
	if req.SitemapSchedule != nil {
		schedule := *req.SitemapSchedule
		if schedule != "" {
			parsed, err := cron.ParseStandard(schedule)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cron expression", "details": err.Error()})
				return
			}
			next := parsed.Next(time.Now())
			updates["next_sitemap_at"] = &next
		} else {
			updates["next_sitemap_at"] = nil
		}
		updates["sitemap_schedule"] = schedule
	}

	if len(updates) > 0 {
		if err := s.db.Model(cfg).Updates(updates).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to update site config")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update configuration"})
			return
		}
	}

	var refreshed models.SiteConfig
	if err := s.db.First(&refreshed).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to reload site config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, refreshed)
}
