package model

import "time"

// ScholarshipReport is an append-only abuse report against a listing.
// Anonymous reports are allowed, so UserID is nullable. Reports are never
// mutated; an admin acts on one by removing the referenced scholarship, which
// leaves the report in place.
type ScholarshipReport struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ScholarshipID uint      `gorm:"not null;index" json:"scholarship_id"`
	UserID        *uint     `gorm:"index" json:"user_id,omitempty"`
	Reason        *string   `gorm:"type:varchar(500)" json:"reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`

	// Relationships
	Scholarship Scholarship `gorm:"foreignKey:ScholarshipID" json:"scholarship,omitempty"`
	User        *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for ScholarshipReport
func (ScholarshipReport) TableName() string {
	return "scholarship_reports"
}
