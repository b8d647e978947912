package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/scholarhub/api/utils/localized"
	"gorm.io/gorm"
)

// Scholarship represents a published scholarship listing.
//
// Lifecycle: created by a verified university (or an admin directly), edited at
// most once (IsEdited latches), and soft-removed by an admin (RemovedAt set).
// Removed rows stay queryable for report review but never appear in public
// listing or detail queries.
type Scholarship struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Title       localized.Text `gorm:"type:jsonb;not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	// Nullable: admin-direct posts have no owning institution.
	UniversityID    *uint          `gorm:"index" json:"university_id,omitempty"`
	ProviderName    string         `gorm:"not null" json:"provider_name"`
	Amount          int            `gorm:"not null" json:"amount"`
	Currency        string         `gorm:"type:varchar(8);default:'USD'" json:"currency"`
	Deadline        *time.Time     `json:"deadline,omitempty"`
	TargetCountry   string         `gorm:"not null" json:"target_country"`
	DegreeLevel     string         `gorm:"not null" json:"degree_level"`
	FieldOfStudy    pq.StringArray `gorm:"type:text[]" json:"field_of_study"`
	EligibleRegions pq.StringArray `gorm:"type:text[]" json:"eligible_regions"`
	OfficialWebsite string         `gorm:"type:varchar(512)" json:"official_website,omitempty"`
	Views           int64          `gorm:"default:0" json:"views"`
	IsFeatured      bool           `gorm:"default:false" json:"is_featured"`
	// Latches true on the first successful edit; further edits are rejected.
	IsEdited      bool       `gorm:"default:false" json:"is_edited"`
	RemovedAt     *time.Time `gorm:"index" json:"removed_at,omitempty"`
	RemovedReason *string    `gorm:"type:varchar(500)" json:"removed_reason,omitempty"`

	// Relationships
	University *University         `gorm:"foreignKey:UniversityID" json:"university,omitempty"`
	SavedBy    []SavedScholarship  `gorm:"foreignKey:ScholarshipID;constraint:OnDelete:CASCADE" json:"-"`
	ReportsFor []ScholarshipReport `gorm:"foreignKey:ScholarshipID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsRemoved reports whether the listing has been soft-removed.
func (s *Scholarship) IsRemoved() bool {
	return s.RemovedAt != nil
}
