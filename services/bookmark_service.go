package services

import (
	"context"
	"errors"

	"github.com/scholarhub/api/model"
	"gorm.io/gorm"
)

var ErrAlreadyBookmarked = errors.New("scholarship already bookmarked")

// BookmarkService manages the per-user saved-scholarship relation
type BookmarkService struct {
	db *gorm.DB
}

// NewBookmarkService creates a new bookmark service
func NewBookmarkService(db *gorm.DB) *BookmarkService {
	return &BookmarkService{db: db}
}

// Bookmark saves a listing for a user. Duplicate saves surface as
// ErrAlreadyBookmarked via the composite primary key, so two concurrent
// requests cannot both insert.
func (s *BookmarkService) Bookmark(ctx context.Context, userID, scholarshipID uint) error {
	var exists int64
	err := s.db.WithContext(ctx).
		Model(&model.Scholarship{}).
		Where("id = ? AND removed_at IS NULL", scholarshipID).
		Count(&exists).Error
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrScholarshipNotFound
	}

	saved := model.SavedScholarship{
		UserID:        userID,
		ScholarshipID: scholarshipID,
	}
	if err := s.db.WithContext(ctx).Create(&saved).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyBookmarked
		}
		return err
	}
	return nil
}

// Unbookmark removes a saved listing. Deleting a pair that is already gone
// is treated as success.
func (s *BookmarkService) Unbookmark(ctx context.Context, userID, scholarshipID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND scholarship_id = ?", userID, scholarshipID).
		Delete(&model.SavedScholarship{}).Error
}

// IsBookmarked reports whether the user has saved the listing
func (s *BookmarkService) IsBookmarked(ctx context.Context, userID, scholarshipID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.SavedScholarship{}).
		Where("user_id = ? AND scholarship_id = ?", userID, scholarshipID).
		Count(&count).Error
	return count > 0, err
}

// ListSaved returns the user's saved listings, newest save first, with the
// scholarship and its university preloaded. Removed listings are filtered out
// after the fetch so a stale bookmark never resurfaces a hidden record.
func (s *BookmarkService) ListSaved(ctx context.Context, userID uint) ([]model.SavedScholarship, error) {
	var saved []model.SavedScholarship
	err := s.db.WithContext(ctx).
		Preload("Scholarship").
		Preload("Scholarship.University").
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&saved).Error
	if err != nil {
		return nil, err
	}

	visible := saved[:0]
	for _, entry := range saved {
		if !entry.Scholarship.IsRemoved() {
			visible = append(visible, entry)
		}
	}
	return visible, nil
}
