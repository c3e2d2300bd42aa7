package server

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/mephub/mephub/internal/models"
	"github.com/mephub/mephub/internal/sysinfo"
)

// SystemInfoResponse contains host and content statistics for the dashboard
type SystemInfoResponse struct {
	Version string          `json:"version"`
	Host    sysinfo.Metrics `json:"host"`
	Content ContentStats    `json:"content"`
}

// ContentStats summarizes stored records for the admin dashboard
type ContentStats struct {
	Users           int64 `json:"users"`
	ActiveSessions  int64 `json:"active_sessions"`
	ContactMessages int64 `json:"contact_messages"`
}

// @Summary System information
// @Description Host metrics and content statistics (admin only)
// @Tags system
// @Produce json
// @Success 200 {object} SystemInfoResponse
// @Router /admin/system/info [get]
func (s *Server) getSystemInfo(c *gin.Context) {
	metrics, err := sysinfo.GetMetrics(filepath.Dir(s.config.Database.URL))
	if err != nil {
		// Metrics are best effort; keep whatever was populated
		s.logger.Warn().Err(err).Msg("Failed to collect host metrics")
	}

	stats := ContentStats{}
	s.db.Model(&models.User{}).Count(&stats.Users)
	s.db.Model(&models.Session{}).Where("expires_at > CURRENT_TIMESTAMP").Count(&stats.ActiveSessions)
	s.db.Model(&models.ContactMessage{}).Count(&stats.ContactMessages)

	c.JSON(http.StatusOK, SystemInfoResponse{
		Version: s.version,
		Host:    metrics,
		Content: stats,
	})
}
