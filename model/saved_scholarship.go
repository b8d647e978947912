package model

import "time"

// SavedScholarship is a student's bookmark of a listing. The composite primary
// key enforces at-most-one bookmark per (user, scholarship) pair at the storage
// layer, so concurrent duplicate inserts fail on the constraint instead of
// racing an application-level existence check.
type SavedScholarship struct {
	UserID        uint      `gorm:"primaryKey" json:"user_id"`
	ScholarshipID uint      `gorm:"primaryKey" json:"scholarship_id"`
	SavedAt       time.Time `gorm:"autoCreateTime" json:"saved_at"`

	// Relationships
	User        User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Scholarship Scholarship `gorm:"foreignKey:ScholarshipID;constraint:OnDelete:CASCADE" json:"scholarship,omitempty"`
}

// TableName specifies the table name for SavedScholarship
func (SavedScholarship) TableName() string {
	return "saved_scholarships"
}
