package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mephub/mephub/internal/models"
	"github.com/mephub/mephub/internal/tasks"
)

// ContactRequest represents a public contact form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Body    string `json:"body" binding:"required"`
}

// @Summary Submit contact message
// @Description Store a contact form submission and notify operators
// @Tags contact
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Contact message"
// @Success 201 {object} models.ContactMessage
// @Failure 400 {object} map[string]interface{}
// @Router /contact [post]
func (s *Server) submitContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name, email and message are required"})
		return
	}

	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	}
	if err := s.db.Create(msg).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to store contact message")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to submit message"})
		return
	}

	// Notification happens out of band; a queue outage must not lose the message
	if s.asynqClient != nil {
		task, err := tasks.NewContactNotifyTask(msg.ID)
		if err == nil {
			if _, err := s.asynqClient.Enqueue(task); err != nil {
				s.logger.Warn().Err(err).Str("contact_id", msg.ID).Msg("Failed to enqueue contact notification")
			}
		}
	}

	s.logger.Info().Str("contact_id", msg.ID).Msg("Contact message received")
	c.JSON(http.StatusCreated, msg)
}

// @Summary List contact messages
// @Description List contact form submissions (admin only)
// @Tags contact
// @Produce json
// @Success 200 {array} models.ContactMessage
// @Router /admin/contact [get]
func (s *Server) listContactMessages(c *gin.Context) {
	var messages []models.ContactMessage
	if err := s.db.Order("created_at DESC").Find(&messages).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list contact messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// @Summary Delete contact message
// @Description Delete a contact form submission (admin only)
// @Tags contact
// @Produce json
// @Param id path string true "Message ID"
// @Success 204
// @Router /admin/contact/{id} [delete]
func (s *Server) deleteContactMessage(c *gin.Context) {
	id := c.Param("id")

	var msg models.ContactMessage
	if err := s.db.Where("id = ?", id).First(&msg).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find contact message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := s.db.Delete(&msg).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete contact message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		return
	}

	c.Status(http.StatusNoContent)
}
