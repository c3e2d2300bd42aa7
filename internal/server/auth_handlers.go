package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mephub/mephub/internal/auth"
	"github.com/mephub/mephub/internal/models"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a member registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserDetail represents user information returned in responses
type UserDetail struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	UserType  string    `json:"userType"`
	CreatedAt time.Time `json:"created_at"`
}

// CheckAuthResponse is the body of GET /users/check-auth
type CheckAuthResponse struct {
	IsAuthenticated bool        `json:"isAuthenticated"`
	User            *UserDetail `json:"user,omitempty"`
}

func userDetail(user *models.User) *UserDetail {
	return &UserDetail{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		UserType:  user.UserType,
		CreatedAt: user.CreatedAt,
	}
}

// createSession opens a session row for the user and sets the credential
// cookie on the response
func (s *Server) createSession(c *gin.Context, user *models.User) error {
	cfg, err := s.siteConfig()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(time.Duration(cfg.SessionTTLHours) * time.Hour)
	session := &models.Session{
		UserID:     user.ID,
		ExpiresAt:  expiresAt,
		LastSeenAt: time.Now(),
	}
	if err := s.db.Create(session).Error; err != nil {
		return err
	}

	token, err := auth.GenerateSessionToken(session.ID, expiresAt)
	if err != nil {
		return err
	}

	s.setSessionCookie(c, token, expiresAt)
	return nil
}

// @Summary Register
// @Description Create a member account; the first account becomes the admin
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 201 {object} UserDetail
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /users/register [post]
func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid registration details"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to check email")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	// The first registered account bootstraps the deployment as admin
	var total int64
	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count users")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}
	userType := models.UserTypeUser
	if total == 0 {
		userType = models.UserTypeAdmin
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        req.Email,
		PasswordHash: passwordHash,
		UserType:     userType,
	}
	if err := s.db.Create(user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	if err := s.createSession(c, user); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create session")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Str("user_type", user.UserType).
		Msg("User registered")

	c.JSON(http.StatusCreated, userDetail(user))
}

// @Summary Login
// @Description Authenticate with email and password; sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} UserDetail
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /users/login [post]
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	if err := s.createSession(c, &user); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create session")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User logged in")

	c.JSON(http.StatusOK, userDetail(&user))
}

// @Summary Check authentication
// @Description Resolve the session cookie; always responds 200
// @Tags auth
// @Produce json
// @Success 200 {object} CheckAuthResponse
// @Router /users/check-auth [get]
func (s *Server) checkAuth(c *gin.Context) {
	sessionData, err := resolveSession(c, s.db)
	if err != nil {
		// An anonymous visitor is not an error condition
		c.JSON(http.StatusOK, CheckAuthResponse{IsAuthenticated: false})
		return
	}

	var user models.User
	if err := models.FindByID(s.db, sessionData.UserID, &user); err != nil {
		c.JSON(http.StatusOK, CheckAuthResponse{IsAuthenticated: false})
		return
	}

	c.JSON(http.StatusOK, CheckAuthResponse{
		IsAuthenticated: true,
		User:            userDetail(&user),
	})
}

// @Summary Logout
// @Description Destroy the server-side session and clear the cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users/logout [post]
func (s *Server) logout(c *gin.Context) {
	if sessionData, err := resolveSession(c, s.db); err == nil {
		if err := s.db.Where("id = ?", sessionData.SessionID).Delete(&models.Session{}).Error; err != nil {
			s.logger.Error().Err(err).Str("session_id", sessionData.SessionID).Msg("Failed to delete session")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Logout failed"})
			return
		}
		s.logger.Info().Str("user_id", sessionData.UserID).Msg("User logged out")
	}

	// Clear the cookie even when no valid session was found; logout is
	// idempotent from the client's point of view.
	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// @Summary Get current user
// @Description Get information about the currently authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} UserDetail
// @Failure 401 {object} map[string]interface{}
// @Router /users/me [get]
func (s *Server) getCurrentUser(c *gin.Context) {
	sessionData, exists := GetSessionData(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var user models.User
	if err := models.FindByID(s.db, sessionData.UserID, &user); err != nil {
		s.logger.Error().Err(err).Str("user_id", sessionData.UserID).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, userDetail(&user))
}

// @Summary List users
// @Description List all member accounts (admin only)
// @Tags users
// @Produce json
// @Success 200 {array} UserDetail
// @Router /admin/users [get]
func (s *Server) listUsers(c *gin.Context) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	userDetails := make([]UserDetail, len(users))
	for i := range users {
		userDetails[i] = *userDetail(&users[i])
	}

	c.JSON(http.StatusOK, userDetails)
}

// @Summary Delete user
// @Description Delete a member account (admin only, cannot delete self)
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 204
// @Router /admin/users/{id} [delete]
func (s *Server) deleteUser(c *gin.Context) {
	userID := c.Param("id")

	sessionData, _ := GetSessionData(c)

	// Prevent deleting self
	if userID == sessionData.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete yourself"})
		return
	}

	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := s.db.Delete(&user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	// Their sessions die with them
	if err := s.db.Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to delete user sessions")
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("deleted_by", sessionData.UserID).
		Msg("User deleted")

	c.Status(http.StatusNoContent)
}
