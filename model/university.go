package model

import (
	"time"

	"gorm.io/gorm"
)

// University represents a scholarship-publishing institution
type University struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Email      string         `gorm:"uniqueIndex;not null" json:"email"`
	Website    string         `gorm:"type:varchar(255)" json:"website"`
	LogoURL    string         `gorm:"type:varchar(512)" json:"logo_url,omitempty"`
	IsVerified bool           `gorm:"default:false" json:"is_verified"` // Flipped only by an admin
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Scholarships []Scholarship `gorm:"foreignKey:UniversityID" json:"scholarships,omitempty"`
	Users        []User        `gorm:"foreignKey:UniversityID" json:"users,omitempty"`
}
