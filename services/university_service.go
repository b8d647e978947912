package services

import (
	"context"
	"errors"
	"strings"

	"github.com/scholarhub/api/model"
	"gorm.io/gorm"
)

var ErrUniversityNotFound = errors.New("university not found")

// UniversityService manages institution records and their lazy creation
type UniversityService struct {
	db *gorm.DB
}

// NewUniversityService creates a new university service
func NewUniversityService(db *gorm.DB) *UniversityService {
	return &UniversityService{db: db}
}

// EnsureForUser returns the user's linked university, creating the record
// lazily from the pending website captured at signup. The created institution
// starts unverified. Returns nil without error when the user has neither a
// link nor a pending website.
func (s *UniversityService) EnsureForUser(ctx context.Context, user *model.User) (*model.University, error) {
	if user.UniversityID != nil {
		var university model.University
		if err := s.db.WithContext(ctx).First(&university, *user.UniversityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUniversityNotFound
			}
			return nil, err
		}
		return &university, nil
	}

	if strings.TrimSpace(user.PendingWebsite) == "" {
		return nil, nil
	}

	university := model.University{
		Name:       user.Name,
		Email:      user.Email,
		Website:    user.PendingWebsite,
		IsVerified: false,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&university).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"university_id":   university.ID,
				"pending_website": "",
			}).Error
	})
	if err != nil {
		return nil, err
	}

	user.UniversityID = &university.ID
	user.PendingWebsite = ""
	return &university, nil
}

// SetupForUser explicitly binds the caller to an institution. An existing
// University with the caller's email is reused, otherwise one is created from
// the given name and website. The user is linked and promoted to the
// UNIVERSITY role in the same transaction. Calling it again for an already
// linked user just returns the linked record.
func (s *UniversityService) SetupForUser(ctx context.Context, user *model.User, name, website string) (*model.University, error) {
	if user.UniversityID != nil {
		var university model.University
		if err := s.db.WithContext(ctx).First(&university, *user.UniversityID).Error; err != nil {
			return nil, err
		}
		return &university, nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = user.Name
	}
	website = strings.TrimSpace(website)
	if website == "" {
		website = user.PendingWebsite
	}

	var university model.University
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", user.Email).First(&university).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			university = model.University{
				Name:       name,
				Email:      user.Email,
				Website:    website,
				IsVerified: false,
			}
			if err := tx.Create(&university).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		return tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"university_id":   university.ID,
				"role":            model.RoleUniversity,
				"pending_website": "",
			}).Error
	})
	if err != nil {
		return nil, err
	}

	user.UniversityID = &university.ID
	user.Role = model.RoleUniversity
	user.PendingWebsite = ""
	return &university, nil
}

// ListingSavedCount is the bookmark count for one of the university's listings
type ListingSavedCount struct {
	ScholarshipID uint  `json:"scholarship_id"`
	Count         int64 `json:"count"`
}

// UniversityDashboard aggregates a university's own listing activity
type UniversityDashboard struct {
	University       *model.University   `json:"university"`
	TotalListings    int64               `json:"total_listings"`
	ActiveListings   int64               `json:"active_listings"`
	FeaturedListings int64               `json:"featured_listings"`
	TotalViews       int64               `json:"total_views"`
	TotalAmount      int64               `json:"total_amount"`
	TotalBookmarks   int64               `json:"total_bookmarks"`
	SavedCounts      []ListingSavedCount `json:"saved_counts"`
	RecentListings   []model.Scholarship `json:"recent_listings"`
}

// Dashboard computes the aggregate view for a university's dashboard page
func (s *UniversityService) Dashboard(ctx context.Context, universityID uint) (*UniversityDashboard, error) {
	db := s.db.WithContext(ctx)

	var university model.University
	if err := db.First(&university, universityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUniversityNotFound
		}
		return nil, err
	}

	dashboard := UniversityDashboard{University: &university}

	own := db.Model(&model.Scholarship{}).Where("university_id = ?", universityID)
	if err := own.Session(&gorm.Session{}).Count(&dashboard.TotalListings).Error; err != nil {
		return nil, err
	}
	if err := own.Session(&gorm.Session{}).Where("removed_at IS NULL").Count(&dashboard.ActiveListings).Error; err != nil {
		return nil, err
	}
	if err := own.Session(&gorm.Session{}).Where("is_featured = ? AND removed_at IS NULL", true).Count(&dashboard.FeaturedListings).Error; err != nil {
		return nil, err
	}
	if err := own.Session(&gorm.Session{}).Select("COALESCE(SUM(views), 0)").Scan(&dashboard.TotalViews).Error; err != nil {
		return nil, err
	}
	if err := own.Session(&gorm.Session{}).Where("removed_at IS NULL").Select("COALESCE(SUM(amount), 0)").Scan(&dashboard.TotalAmount).Error; err != nil {
		return nil, err
	}

	err := db.Model(&model.SavedScholarship{}).
		Joins("JOIN scholarships ON scholarships.id = saved_scholarships.scholarship_id").
		Where("scholarships.university_id = ?", universityID).
		Count(&dashboard.TotalBookmarks).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&model.SavedScholarship{}).
		Select("saved_scholarships.scholarship_id, COUNT(*) AS count").
		Joins("JOIN scholarships ON scholarships.id = saved_scholarships.scholarship_id").
		Where("scholarships.university_id = ?", universityID).
		Group("saved_scholarships.scholarship_id").
		Scan(&dashboard.SavedCounts).Error
	if err != nil {
		return nil, err
	}

	err = db.Where("university_id = ?", universityID).
		Order("created_at DESC").
		Limit(5).
		Find(&dashboard.RecentListings).Error
	if err != nil {
		return nil, err
	}

	return &dashboard, nil
}

// UpdateProfileRequest is a partial profile update; nil fields are unchanged
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Website *string `json:"website"`
}

// UpdateProfile applies profile changes to a university record
func (s *UniversityService) UpdateProfile(ctx context.Context, universityID uint, req *UpdateProfileRequest) (*model.University, error) {
	updates := map[string]interface{}{}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Website != nil {
		updates["website"] = strings.TrimSpace(*req.Website)
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).
			Model(&model.University{}).
			Where("id = ?", universityID).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrUniversityNotFound
		}
	}

	var university model.University
	if err := s.db.WithContext(ctx).First(&university, universityID).Error; err != nil {
		return nil, err
	}
	return &university, nil
}

// SetLogoURL records the uploaded logo's public URL
func (s *UniversityService) SetLogoURL(ctx context.Context, universityID uint, logoURL string) error {
	res := s.db.WithContext(ctx).
		Model(&model.University{}).
		Where("id = ?", universityID).
		UpdateColumn("logo_url", logoURL)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUniversityNotFound
	}
	return nil
}
