package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mephub/mephub/internal/directory"
	"github.com/mephub/mephub/internal/models"
)

// staticRoutes are the site pages that exist regardless of directory content
var staticRoutes = []string{
	"/", "/about", "/contact", "/login", "/register",
}

// URLSet is the root element of a sitemap.xml document
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL is a single sitemap entry
type URL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Generator builds sitemap.xml from published directory listings
type Generator struct {
	service *directory.Service
	logger  zerolog.Logger
}

// NewGenerator creates a sitemap generator backed by the directory service
func NewGenerator(service *directory.Service, logger zerolog.Logger) *Generator {
	return &Generator{
		service: service,
		logger:  logger,
	}
}

// Build assembles the sitemap document for the given site base URL
func (g *Generator) Build(ctx context.Context, baseURL string) (*URLSet, error) {
	base := strings.TrimRight(baseURL, "/")
	now := time.Now().UTC().Format("2006-01-02")

	set := &URLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
	}

	for _, route := range staticRoutes {
		set.URLs = append(set.URLs, URL{Loc: base + route, LastMod: now})
	}

	for _, category := range directory.Categories() {
		set.URLs = append(set.URLs, URL{Loc: fmt.Sprintf("%s/%s", base, category), LastMod: now})

		slugs, err := g.categorySlugs(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s slugs: %w", category, err)
		}
		for _, slug := range slugs {
			set.URLs = append(set.URLs, URL{Loc: fmt.Sprintf("%s/%s/%s", base, category, slug)})
		}
	}

	return set, nil
}

// WriteFile renders the sitemap and writes it to path
func (g *Generator) WriteFile(ctx context.Context, baseURL, path string) error {
	set, err := g.Build(ctx, baseURL)
	if err != nil {
		return err
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sitemap: %w", err)
	}
	data = append([]byte(xml.Header), data...)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sitemap: %w", err)
	}

	g.logger.Info().
		Str("path", path).
		Int("urls", len(set.URLs)).
		Msg("Sitemap written")

	return nil
}

func (g *Generator) categorySlugs(ctx context.Context, category directory.Category) ([]string, error) {
	switch category {
	case directory.CategoryProjects:
		return directory.PublishedSlugs[models.Project](ctx, g.service)
	case directory.CategoryConsultants:
		return directory.PublishedSlugs[models.Consultant](ctx, g.service)
	case directory.CategoryContractors:
		return directory.PublishedSlugs[models.Contractor](ctx, g.service)
	case directory.CategoryAgents:
		return directory.PublishedSlugs[models.Supplier](ctx, g.service)
	case directory.CategoryDirectors:
		return directory.PublishedSlugs[models.Director](ctx, g.service)
	case directory.CategoryLecturers:
		return directory.PublishedSlugs[models.Lecturer](ctx, g.service)
	case directory.CategoryInstitutions:
		return directory.PublishedSlugs[models.Institution](ctx, g.service)
	case directory.CategoryVacancies:
		return directory.PublishedSlugs[models.Vacancy](ctx, g.service)
	case directory.CategoryJobseekers:
		return directory.PublishedSlugs[models.Jobseeker](ctx, g.service)
	default:
		return nil, fmt.Errorf("unknown category %q", category)
	}
}
