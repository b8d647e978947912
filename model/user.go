package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Admins are created by seed data or promoted by another admin;
// self-registration only allows student and university accounts.
const (
	RoleStudent    = "STUDENT"
	RoleUniversity = "UNIVERSITY"
	RoleAdmin      = "ADMIN"
)

// User represents a registered account in the marketplace
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string         `gorm:"not null" json:"name"`
	Role         string         `gorm:"type:varchar(20);default:'STUDENT'" json:"role"`
	UniversityID *uint          `gorm:"index" json:"university_id,omitempty"`
	// Website captured at signup before the University record exists; the
	// university dashboard creates the record lazily from this value.
	PendingWebsite string `gorm:"type:varchar(255)" json:"pending_website,omitempty"`
	TokenVersion   int    `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Relationships
	University     *University         `gorm:"foreignKey:UniversityID" json:"university,omitempty"`
	Saved          []SavedScholarship  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reports        []ScholarshipReport `gorm:"foreignKey:UserID" json:"-"`
	AdminAuditLog  []AdminAuditLog     `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsUniversity reports whether the user is a university account with a linked institution.
func (u *User) IsUniversity() bool {
	return u.Role == RoleUniversity && u.UniversityID != nil
}
