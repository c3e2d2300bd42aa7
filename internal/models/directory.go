package models

import "time"

// Listing holds the fields shared by every directory entity. Slug is the
// lowercase URL identifier shown on public pages; it is unique per category.
type Listing struct {
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	City        string `json:"city"`
	Description string `json:"description" gorm:"type:text"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Published   bool   `json:"published" gorm:"not null;default:true"`
}

// ListingRef exposes the embedded Listing to code that works across
// categories (slug normalization, publication filters).
func (l *Listing) ListingRef() *Listing {
	return l
}

// Project represents an MEP construction project listing
type Project struct {
	BaseModel
	Listing
	Client      string     `json:"client"`
	Sector      string     `json:"sector"` // e.g. commercial, residential, industrial
	CompletedAt *time.Time `json:"completed_at"`
}

// Consultant represents an MEP consultancy firm
type Consultant struct {
	BaseModel
	Listing
	Specialties string `json:"specialties"` // comma-separated disciplines (HVAC, fire, ELV, ...)
}

// Contractor represents an MEP contracting firm
type Contractor struct {
	BaseModel
	Listing
	Grade       string `json:"grade"` // CIDA registration grade
	Specialties string `json:"specialties"`
}

// Supplier represents an equipment/material supplier or agent
type Supplier struct {
	BaseModel
	Listing
	Brands string `json:"brands"` // comma-separated represented brands
}

// Director represents an industry director profile
type Director struct {
	BaseModel
	Listing
	Company  string `json:"company"`
	Position string `json:"position"`
}

// Lecturer represents a lecturer profile for MEP-related programmes
type Lecturer struct {
	BaseModel
	Listing
	Subjects        string `json:"subjects"`
	InstitutionName string `json:"institution_name"`
}

// Institution represents a training or academic institution
type Institution struct {
	BaseModel
	Listing
	Programmes string `json:"programmes"`
	Accredited bool   `json:"accredited" gorm:"not null;default:false"`
}

// Vacancy represents a job vacancy posting
type Vacancy struct {
	BaseModel
	Listing
	Company     string     `json:"company"`
	Salary      string     `json:"salary"`
	ClosingDate *time.Time `json:"closing_date"`
}

// Jobseeker represents a jobseeker profile
type Jobseeker struct {
	BaseModel
	Listing
	Profession      string `json:"profession"`
	YearsExperience int    `json:"years_experience"`
}
