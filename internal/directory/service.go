package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mephub/mephub/internal/models"
)

// Category identifies one directory section of the site. Category values are
// the lowercase path segments used in routes ("/projects", "/agents", ...).
type Category string

const (
	CategoryProjects     Category = "projects"
	CategoryConsultants  Category = "consultants"
	CategoryContractors  Category = "contractors"
	CategoryAgents       Category = "agents" // suppliers/agents share one section
	CategoryDirectors    Category = "directors"
	CategoryLecturers    Category = "lecturers"
	CategoryInstitutions Category = "institutions"
	CategoryVacancies    Category = "vacancies"
	CategoryJobseekers   Category = "jobseekers"
)

// Categories returns all directory categories in display order
func Categories() []Category {
	return []Category{
		CategoryProjects, CategoryConsultants, CategoryContractors,
		CategoryAgents, CategoryDirectors, CategoryLecturers,
		CategoryInstitutions, CategoryVacancies, CategoryJobseekers,
	}
}

// Valid reports whether the given path segment names a directory category
func Valid(category string) bool {
	for _, c := range Categories() {
		if string(c) == strings.ToLower(category) {
			return true
		}
	}
	return false
}

var (
	ErrNotFound     = errors.New("listing not found")
	ErrSlugTaken    = errors.New("slug already in use")
	ErrNameRequired = errors.New("name is required")
	ErrEmptySlug    = errors.New("name does not produce a usable slug")
)

// Entity is implemented by every directory model through the embedded Listing
type Entity interface {
	ListingRef() *models.Listing
}

// Service provides listing CRUD shared by all directory categories
type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewService creates a new directory service
func NewService(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// ListParams controls listing queries
type ListParams struct {
	Query              string // substring match on name/city, empty = all
	IncludeUnpublished bool   // admin views see unpublished rows
}

// List returns listings of one category ordered by name
func List[T any](ctx context.Context, s *Service, params ListParams) ([]T, error) {
	query := s.db.WithContext(ctx).Model(new(T))

	if !params.IncludeUnpublished {
		query = query.Where("published = ?", true)
	}

	if q := strings.TrimSpace(params.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ?", pattern, pattern)
	}

	var records []T
	if err := query.Order("name ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// Get finds a listing by ULID or slug
func Get[T any](ctx context.Context, s *Service, idOrSlug string) (*T, error) {
	var record T
	err := s.db.WithContext(ctx).
		Where("id = ? OR slug = ?", idOrSlug, NormalizeSlug(idOrSlug)).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find record: %w", err)
	}
	return &record, nil
}

// Create validates, normalizes and stores a new listing
func Create[T any, PT interface {
	Entity
	*T
}](ctx context.Context, s *Service, record PT) error {
	listing := record.ListingRef()

	if strings.TrimSpace(listing.Name) == "" {
		return ErrNameRequired
	}

	// Slugs are always stored lowercase regardless of what callers send
	if listing.Slug == "" {
		listing.Slug = Slugify(listing.Name)
	} else {
		listing.Slug = NormalizeSlug(listing.Slug)
	}
	if listing.Slug == "" {
		return ErrEmptySlug
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(new(T)).
		Where("slug = ?", listing.Slug).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if count > 0 {
		return ErrSlugTaken
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	s.logger.Info().
		Str("slug", listing.Slug).
		Str("name", listing.Name).
		Msg("Listing created")

	return nil
}

// Update replaces the mutable fields of an existing listing
func Update[T any, PT interface {
	Entity
	*T
}](ctx context.Context, s *Service, id string, record PT) (*T, error) {
	var existing T
	if err := models.FindByID(s.db.WithContext(ctx), id, &existing); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find record: %w", err)
	}

	listing := record.ListingRef()
	if strings.TrimSpace(listing.Name) == "" {
		return nil, ErrNameRequired
	}
	listing.Slug = NormalizeSlug(listing.Slug)
	if listing.Slug == "" {
		listing.Slug = Slugify(listing.Name)
	}
	if listing.Slug == "" {
		return nil, ErrEmptySlug
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(new(T)).
		Where("slug = ? AND id <> ?", listing.Slug, id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	if err := s.db.WithContext(ctx).Model(&existing).
		Where("id = ?", id).
		Select("*").Omit("id", "created_at").
		Updates(record).Error; err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	var updated T
	if err := models.FindByID(s.db.WithContext(ctx), id, &updated); err != nil {
		return nil, fmt.Errorf("failed to reload record: %w", err)
	}
	return &updated, nil
}

// Delete removes a listing by ULID
func Delete[T any](ctx context.Context, s *Service, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("failed to delete record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info().Str("id", id).Msg("Listing deleted")
	return nil
}

// PublishedSlugs returns the slugs of all published rows of one category,
// used by the sitemap generator.
func PublishedSlugs[T any](ctx context.Context, s *Service) ([]string, error) {
	var slugs []string
	if err := s.db.WithContext(ctx).Model(new(T)).
		Where("published = ?", true).
		Order("slug ASC").
		Pluck("slug", &slugs).Error; err != nil {
		return nil, fmt.Errorf("failed to load slugs: %w", err)
	}
	return slugs, nil
}
