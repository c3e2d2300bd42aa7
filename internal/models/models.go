package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// User types stored in User.UserType
const (
	UserTypeAdmin = "admin"
	UserTypeUser  = "user"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// User represents a member account (self-hosted, no external auth)
type User struct {
	BaseModel
	Username     string    `json:"username" gorm:"not null"`
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	UserType     string    `json:"userType" gorm:"not null;default:user"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

// Session represents a server-side login session referenced by the signed
// session cookie. Expired rows are purged by the worker.
type Session struct {
	BaseModel
	UserID     string    `json:"user_id" gorm:"not null;index"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"not null"`
	LastSeenAt time.Time `json:"last_seen_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// Expired reports whether the session is past its expiry time
func (s *Session) Expired() bool {
	return s.ExpiresAt.Before(time.Now())
}

// SiteConfig represents the global configuration for the single-tenant deployment
// This is a singleton model (only one row should exist)
type SiteConfig struct {
	BaseModel
	// Authentication configuration
	SessionSecret   string `json:"-" gorm:"type:varchar(64);not null"` // Auto-generated on first boot (64 hex chars)
	SessionTTLHours int    `json:"session_ttl_hours" gorm:"not null;default:168"`

	// Site metadata used in the sitemap and page titles
	SiteName string `json:"site_name" gorm:"not null;default:'MEP Hub'"`
	BaseURL  string `json:"base_url" gorm:"not null;default:'https://mephub.lk'"`

	// Sitemap refresh configuration
	SitemapSchedule string     `json:"sitemap_schedule"` // Cron expression, e.g. "0 2 * * *" (2am daily), empty = no auto refresh
	LastSitemapAt   *time.Time `json:"last_sitemap_at"`
	NextSitemapAt   *time.Time `json:"next_sitemap_at"` // Calculated from cron schedule
}

// ContactMessage represents an inquiry submitted through the public contact form
type ContactMessage struct {
	BaseModel
	Name       string     `json:"name" gorm:"not null"`
	Email      string     `json:"email" gorm:"not null"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body" gorm:"type:text;not null"`
	NotifiedAt *time.Time `json:"notified_at"` // Set by the worker once operators have been notified
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	// Collect all models
	models := []interface{}{
		&User{}, &Session{}, &SiteConfig{}, &ContactMessage{},
		&Project{}, &Consultant{}, &Contractor{}, &Supplier{}, &Director{},
		&Lecturer{}, &Institution{}, &Vacancy{}, &Jobseeker{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}
