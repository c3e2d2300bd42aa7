// Package server
//
// @title MEP Hub API
// @version 1.0
// @description Business directory API for Sri Lanka's MEP construction industry
// @host localhost:8080
// @BasePath /
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mephub/mephub/internal/auth"
	"github.com/mephub/mephub/internal/config"
	"github.com/mephub/mephub/internal/directory"
	"github.com/mephub/mephub/internal/models"
	"github.com/mephub/mephub/internal/sitemap"
	"github.com/mephub/mephub/internal/tasks"
)

// Server represents the HTTP server
type Server struct {
	router           *gin.Engine
	db               *gorm.DB
	config           *config.Config
	logger           zerolog.Logger
	validator        *validator.Validate
	asynqClient      *asynq.Client
	directoryService *directory.Service
	sitemapGenerator *sitemap.Generator
	version          string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	// Initialize database with production settings
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	// Run database migrations
	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}

	// Load or create the SiteConfig singleton; the session secret is
	// generated on first boot and persisted.
	if err := ensureSiteConfig(db, zlog); err != nil {
		return nil, err
	}

	// Initialize validator
	validate := validator.New()

	// Register custom validators
	validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		// Lowercase alphanumeric and hyphens only (safe for URL paths)
		value := fl.Field().String()
		for _, char := range value {
			if !((char >= 'a' && char <= 'z') ||
				(char >= '0' && char <= '9') ||
				char == '-') {
				return false
			}
		}
		return true
	})

	// Initialize Asynq client for enqueueing tasks
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr: cfg.Redis.Address,
	})

	// Initialize directory service
	directoryService := directory.NewService(db, zlog)

	// Initialize sitemap generator
	sitemapGenerator := sitemap.NewGenerator(directoryService, zlog)

	// Create server
	server := &Server{
		db:               db,
		config:           cfg,
		logger:           zlog,
		validator:        validate,
		asynqClient:      asynqClient,
		directoryService: directoryService,
		sitemapGenerator: sitemapGenerator,
		version:          version,
	}

	// Setup router
	server.setupRouter()

	return server, nil
}

// initDatabase initializes the database connection with production settings
func initDatabase(cfg *config.Config, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns    = 8    // Reduced for SQLite efficiency
		maxIdleConns    = 4    // Reduced proportionally
		connMaxLifetime = 300  // 5 minutes
		busyTimeout     = 5000 // 5 seconds
		cacheSize       = 10000
	)

	// Open database connection
	db, err := gorm.Open(sqlite.Open(cfg.Database.URL), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Get underlying sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool settings
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Apply SQLite pragmas directly (connection string pragmas may not work with all drivers)
	// WAL mode must be set first for optimal concurrency
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		fmt.Sprintf("PRAGMA cache_size=-%d", cacheSize),
		"PRAGMA foreign_keys=1",
		"PRAGMA temp_store=2",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	return db, nil
}

// ensureSiteConfig loads the SiteConfig singleton, creating it with a fresh
// session secret on first boot, and initializes token signing
func ensureSiteConfig(db *gorm.DB, zlog zerolog.Logger) error {
	var cfg models.SiteConfig
	err := db.First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		// Generate session secret (64 hex characters = 32 bytes of randomness)
		secretBytes := make([]byte, 32)
		if _, err := rand.Read(secretBytes); err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}

		cfg = models.SiteConfig{
			SessionSecret:   hex.EncodeToString(secretBytes),
			SessionTTLHours: 168, // 7 days
			SiteName:        "MEP Hub",
			BaseURL:         "https://mephub.lk",
		}
		if err := db.Create(&cfg).Error; err != nil {
			return fmt.Errorf("failed to create site config: %w", err)
		}
		zlog.Info().Msg("Site config created with generated session secret")
	} else if err != nil {
		return fmt.Errorf("failed to load site config: %w", err)
	}

	auth.InitializeSecret(cfg.SessionSecret)
	return nil
}

// siteConfig returns the SiteConfig singleton
func (s *Server) siteConfig() (*models.SiteConfig, error) {
	var cfg models.SiteConfig
	if err := s.db.First(&cfg).Error; err != nil {
		return nil, fmt.Errorf("failed to load site config: %w", err)
	}
	return &cfg, nil
}

// enqueueSitemapRefresh schedules a sitemap rebuild after content changes.
// Best effort; the scheduled refresh catches anything missed here.
func (s *Server) enqueueSitemapRefresh() {
	if s.asynqClient == nil {
		return
	}

	task, err := tasks.NewSitemapRegenerateTask()
	if err != nil {
		return
	}
	if _, err := s.asynqClient.Enqueue(task, asynq.Queue("low")); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to enqueue sitemap refresh")
	}
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// CORS middleware; credentials must be allowed for the session cookie
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{s.config.Server.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// Generated sitemap
	s.router.GET("/sitemap.xml", func(c *gin.Context) {
		c.File(s.config.Server.SitemapPath)
	})

	// Session endpoints; check-auth and logout resolve the cookie themselves
	// so they never fail with 401
	users := s.router.Group("/users")
	{
		users.GET("/check-auth", s.checkAuth)
		users.POST("/login", s.login)
		users.POST("/register", s.register)
		users.POST("/logout", s.logout)

		authed := users.Group("")
		authed.Use(SessionAuthMiddleware(s.db, s.logger))
		authed.GET("/me", s.getCurrentUser)
	}

	// Public directory routes + contact form
	public := s.router.Group("")
	public.POST("/contact", s.submitContact)

	// Admin routes (session + admin role required)
	admin := s.router.Group("/admin")
	admin.Use(SessionAuthMiddleware(s.db, s.logger))
	admin.Use(AdminOnlyMiddleware(s.logger))
	{
		s.registerDirectoryRoutes(public, admin)

		// Contact message review
		admin.GET("/contact", s.listContactMessages)
		admin.DELETE("/contact/:id", s.deleteContactMessage)

		// User management
		admin.GET("/users", s.listUsers)
		admin.DELETE("/users/:id", s.deleteUser)

		// Site configuration
		admin.GET("/site-config", s.getSiteConfig)
		admin.PATCH("/site-config", s.updateSiteConfig)

		// Dashboard
		admin.GET("/system/info", s.getSystemInfo)
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// @Router /health [get]
// @Success 200 {object} map[string]interface{}
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "mephub-api",
	})
}

// GetDB returns the database connection for use by workers
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := s.config.Server.Addr

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Create HTTP server with production timeouts
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	// Start server in goroutine
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	// Close Asynq client
	if s.asynqClient != nil {
		if err := s.asynqClient.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Error closing Asynq client")
		}
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info().Msg("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	// Close database connection to flush WAL writes
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		}
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
