package services

import (
	"context"

	"github.com/scholarhub/api/model"
	"gorm.io/gorm"
)

// ReportService manages the append-only abuse report ledger
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Report files an abuse report against a listing. The reporting user is
// optional; anonymous reports store a null user id. The reason is trimmed and
// capped at 500 characters, stored as null when empty.
func (s *ReportService) Report(ctx context.Context, scholarshipID uint, userID *uint, reason string) (*model.ScholarshipReport, error) {
	var exists int64
	err := s.db.WithContext(ctx).
		Model(&model.Scholarship{}).
		Where("id = ?", scholarshipID).
		Count(&exists).Error
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrScholarshipNotFound
	}

	report := model.ScholarshipReport{
		ScholarshipID: scholarshipID,
		UserID:        userID,
		Reason:        NormalizeReason(reason),
	}
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// List returns all reports, newest first, with the reported scholarship and
// the reporting user joined. Removed scholarships stay visible here so admins
// can review what a report referred to.
func (s *ReportService) List(ctx context.Context, page, limit int) ([]model.ScholarshipReport, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.ScholarshipReport{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []model.ScholarshipReport
	err := s.db.WithContext(ctx).
		Preload("Scholarship").
		Preload("Scholarship.University").
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// Get returns a single report with its joins
func (s *ReportService) Get(ctx context.Context, id uint) (*model.ScholarshipReport, error) {
	var report model.ScholarshipReport
	err := s.db.WithContext(ctx).
		Preload("Scholarship").
		Preload("User").
		First(&report, id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}
