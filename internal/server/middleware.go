package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mephub/mephub/internal/auth"
	"github.com/mephub/mephub/internal/models"
)

// SessionCookieName is the name of the credential cookie set on login/register
const SessionCookieName = "mephub_session"

var (
	ErrMissingCookie  = errors.New("missing session cookie")
	ErrInvalidToken   = errors.New("invalid session token")
	ErrSessionExpired = errors.New("session expired")
	ErrUserNotFound   = errors.New("user not found")
)

func setSession(c *gin.Context, sessionData *auth.SessionData) {
	c.Set("session", sessionData)
}

// GetSessionData returns the session stashed on the request context, if any
func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	session, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	sessionData, ok := session.(*auth.SessionData)
	return sessionData, ok
}

// setSessionCookie attaches the signed session token as an HttpOnly cookie.
// The browser's cookie jar carries it on every request; the client never
// holds a bearer token.
func (s *Server) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", s.config.Server.CookieSecure, true)
}

// clearSessionCookie expires the credential cookie
func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", s.config.Server.CookieSecure, true)
}

// resolveSession validates the request's session cookie against the database.
// It returns the session data without writing a response, so both the strict
// middleware and the tolerant check-auth endpoint can share it.
func resolveSession(c *gin.Context, db *gorm.DB) (*auth.SessionData, error) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie == "" {
		return nil, ErrMissingCookie
	}

	claims, err := auth.ValidateSessionToken(cookie)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var session models.Session
	if err := db.Preload("User").Where("id = ?", claims.SessionID).First(&session).Error; err != nil {
		return nil, ErrSessionExpired
	}
	if session.Expired() {
		return nil, ErrSessionExpired
	}
	if session.User == nil {
		return nil, ErrUserNotFound
	}

	// Touch LastSeenAt so the purge worker can distinguish idle sessions.
	// Best effort, failures here must not break the request.
	db.Model(&session).Update("last_seen_at", time.Now())

	return &auth.SessionData{
		SessionID: session.ID,
		UserID:    session.User.ID,
		Email:     session.User.Email,
		UserType:  session.User.UserType,
	}, nil
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Msg(message)
	c.JSON(statusCode, gin.H{"message": message})
	c.Abort()
}

// SessionAuthMiddleware requires a valid session cookie
func SessionAuthMiddleware(db *gorm.DB, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData, err := resolveSession(c, db)
		if err != nil {
			respondWithError(c, log, http.StatusUnauthorized, err, "Authentication required")
			return
		}

		setSession(c, sessionData)
		c.Next()
	}
}

// AdminOnlyMiddleware ensures the authenticated user is an admin
func AdminOnlyMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData, exists := GetSessionData(c)
		if !exists {
			respondWithError(c, log, http.StatusUnauthorized, errors.New("no session"), "Authentication required")
			return
		}

		if sessionData.UserType != models.UserTypeAdmin {
			respondWithError(c, log, http.StatusForbidden, errors.New("not admin"), "Admin access required")
			return
		}

		c.Next()
	}
}
