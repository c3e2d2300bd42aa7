package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mephub/mephub/internal/models"
)

func newTestService(t *testing.T) *Service {
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

	return NewService(db, zerolog.Nop())
}

func TestCreateNormalizesSlug(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	inst := &models.Institution{
		Listing: models.Listing{Name: "Colombo Technical College", Slug: "Institutions/CTC"},
	}
	if err := Create[models.Institution](ctx, s, inst); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if inst.Slug != "institutions-ctc" {
		t.Errorf("slug not normalized, got %q", inst.Slug)
	}
	if inst.ID == "" {
		t.Error("expected ULID to be generated")
	}
}

func TestCreateDerivesSlugFromName(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	p := &models.Project{
		Listing: models.Listing{Name: "Harbour Tower HVAC Upgrade"},
	}
	if err := Create[models.Project](ctx, s, p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Slug != "harbour-tower-hvac-upgrade" {
		t.Errorf("unexpected slug %q", p.Slug)
	}
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	first := &models.Consultant{Listing: models.Listing{Name: "Delta Consultants"}}
	if err := Create[models.Consultant](ctx, s, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	dup := &models.Consultant{Listing: models.Listing{Name: "delta CONSULTANTS"}}
	if err := Create[models.Consultant](ctx, s, dup); !errors.Is(err, ErrSlugTaken) {
		t.Errorf("expected ErrSlugTaken, got %v", err)
	}
}

func TestCreateRequiresName(t *testing.T) {
	s := newTestService(t)

	err := Create[models.Supplier](context.Background(), s, &models.Supplier{})
	if !errors.Is(err, ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}

func TestGetBySlugAndByID(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	v := &models.Vacancy{
		Listing: models.Listing{Name: "Senior HVAC Engineer", City: "Kandy"},
		Company: "Acme MEP",
	}
	if err := Create[models.Vacancy](ctx, s, v); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	bySlug, err := Get[models.Vacancy](ctx, s, "Senior-HVAC-Engineer")
	if err != nil {
		t.Fatalf("Get by slug failed: %v", err)
	}
	if bySlug.ID != v.ID {
		t.Errorf("got wrong record by slug")
	}

	byID, err := Get[models.Vacancy](ctx, s, v.ID)
	if err != nil {
		t.Fatalf("Get by id failed: %v", err)
	}
	if byID.Company != "Acme MEP" {
		t.Errorf("unexpected company %q", byID.Company)
	}

	if _, err := Get[models.Vacancy](ctx, s, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListFiltersUnpublishedAndQuery(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	records := []*models.Contractor{
		{Listing: models.Listing{Name: "Alpha Mechanical", City: "Colombo", Published: true}},
		{Listing: models.Listing{Name: "Beta Plumbing", City: "Galle", Published: true}},
		{Listing: models.Listing{Name: "Hidden Works", City: "Colombo", Published: false}},
	}
	for _, r := range records {
		if err := Create[models.Contractor](ctx, s, r); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	public, err := List[models.Contractor](ctx, s, ListParams{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(public) != 2 {
		t.Errorf("expected 2 published contractors, got %d", len(public))
	}

	all, err := List[models.Contractor](ctx, s, ListParams{IncludeUnpublished: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 contractors for admin view, got %d", len(all))
	}

	colombo, err := List[models.Contractor](ctx, s, ListParams{Query: "colombo"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(colombo) != 1 || colombo[0].Name != "Alpha Mechanical" {
		t.Errorf("query filter returned unexpected result: %+v", colombo)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	d := &models.Director{
		Listing: models.Listing{Name: "N. Perera"},
		Company: "Perera Holdings",
	}
	if err := Create[models.Director](ctx, s, d); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := Update[models.Director](ctx, s, d.ID, &models.Director{
		Listing:  models.Listing{Name: "N. Perera", Slug: d.Slug, City: "Negombo", Published: true},
		Company:  "Perera Holdings",
		Position: "Managing Director",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Position != "Managing Director" || updated.City != "Negombo" {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := Delete[models.Director](ctx, s, d.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := Delete[models.Director](ctx, s, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestValidCategory(t *testing.T) {
	if !Valid("projects") || !Valid("Institutions") {
		t.Error("expected category names to validate case-insensitively")
	}
	if Valid("branches") {
		t.Error("unexpected category accepted")
	}
}
