package sitemap

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mephub/mephub/internal/directory"
	"github.com/mephub/mephub/internal/models"
)

func newTestGenerator(t *testing.T) (*Generator, *directory.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	service := directory.NewService(db, zerolog.Nop())
	return NewGenerator(service, zerolog.Nop()), service
}

func TestBuildIncludesPublishedListings(t *testing.T) {
	g, service := newTestGenerator(t)
	ctx := context.Background()

	published := &models.Project{
		Listing: models.Listing{Name: "Port City Chiller Plant", Published: true},
	}
	if err := directory.Create[models.Project](ctx, service, published); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	hidden := &models.Project{
		Listing: models.Listing{Name: "Unannounced Tower", Published: false},
	}
	if err := directory.Create[models.Project](ctx, service, hidden); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	set, err := g.Build(ctx, "https://mephub.lk/")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	locs := make(map[string]bool, len(set.URLs))
	for _, u := range set.URLs {
		locs[u.Loc] = true
	}

	if !locs["https://mephub.lk/"] {
		t.Error("missing root route")
	}
	if !locs["https://mephub.lk/projects"] {
		t.Error("missing category index route")
	}
	if !locs["https://mephub.lk/projects/port-city-chiller-plant"] {
		t.Error("missing published listing route")
	}
	if locs["https://mephub.lk/projects/unannounced-tower"] {
		t.Error("unpublished listing leaked into sitemap")
	}

	// Every category index must appear even when empty
	for _, category := range directory.Categories() {
		if !locs["https://mephub.lk/"+string(category)] {
			t.Errorf("missing index for %s", category)
		}
	}

	// Slugs are always lowercase
	for loc := range locs {
		if loc != strings.ToLower(loc) {
			t.Errorf("non-lowercase URL in sitemap: %s", loc)
		}
	}
}

func TestWriteFile(t *testing.T) {
	g, _ := newTestGenerator(t)

	path := t.TempDir() + "/sitemap.xml"
	if err := g.WriteFile(context.Background(), "https://mephub.lk", path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read sitemap: %v", err)
	}
	if !strings.Contains(string(data), "<urlset") || !strings.Contains(string(data), "https://mephub.lk/contact") {
		t.Errorf("sitemap content unexpected:\n%s", data)
	}
}
