package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/scholarhub/api/model"
	"github.com/scholarhub/api/utils/localized"
	"gorm.io/gorm"
)

var (
	ErrScholarshipNotFound = errors.New("scholarship not found")
	ErrNotVerified         = errors.New("university is not verified")
	ErrNoInstitution       = errors.New("user has no linked university")
	ErrNotOwner            = errors.New("scholarship is not owned by the caller's university")
	ErrAlreadyEdited       = errors.New("scholarship has already been edited once")
	ErrMissingFields       = errors.New("required fields are missing")
)

// ScholarshipService implements the listing lifecycle: creation gating,
// the one-time edit lock, soft removal and the view counter.
type ScholarshipService struct {
	db *gorm.DB
}

// NewScholarshipService creates a new scholarship service
func NewScholarshipService(db *gorm.DB) *ScholarshipService {
	return &ScholarshipService{db: db}
}

const slugSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Slugify derives a URL slug from a title: lowercase, runs of
// non-alphanumerics collapsed to single hyphens, edge hyphens trimmed, and a
// random 5-character suffix appended so duplicate titles stay unique.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	base := strings.TrimRight(b.String(), "-")

	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = slugSuffixAlphabet[rand.Intn(len(slugSuffixAlphabet))]
	}

	if base == "" {
		return string(suffix)
	}
	return base + "-" + string(suffix)
}

// ProviderNameFor resolves the display name shown as the listing's provider:
// the linked university's name, else the user's display name, else a generic
// placeholder.
func ProviderNameFor(user *model.User, university *model.University) string {
	if university != nil && strings.TrimSpace(university.Name) != "" {
		return university.Name
	}
	if user != nil && strings.TrimSpace(user.Name) != "" {
		return user.Name
	}
	return "University"
}

// CreateScholarshipRequest carries the fields for a new listing
type CreateScholarshipRequest struct {
	Title           localized.Text `json:"title"`
	Description     string         `json:"description" validate:"required"`
	Amount          int            `json:"amount" validate:"gte=0"`
	Currency        string         `json:"currency"`
	Deadline        *time.Time     `json:"deadline"`
	TargetCountry   string         `json:"target_country" validate:"required"`
	DegreeLevel     string         `json:"degree_level" validate:"required"`
	FieldOfStudy    []string       `json:"field_of_study" validate:"required,min=1"`
	EligibleRegions []string       `json:"eligible_regions"`
	OfficialWebsite string         `json:"official_website"`
}

func (r *CreateScholarshipRequest) validate() error {
	switch {
	case r.Title.IsEmpty():
		return fmt.Errorf("%w: title", ErrMissingFields)
	case strings.TrimSpace(r.Description) == "":
		return fmt.Errorf("%w: description", ErrMissingFields)
	case r.Amount <= 0:
		return fmt.Errorf("%w: amount", ErrMissingFields)
	case strings.TrimSpace(r.TargetCountry) == "":
		return fmt.Errorf("%w: target_country", ErrMissingFields)
	case strings.TrimSpace(r.DegreeLevel) == "":
		return fmt.Errorf("%w: degree_level", ErrMissingFields)
	case len(r.FieldOfStudy) == 0:
		return fmt.Errorf("%w: field_of_study", ErrMissingFields)
	}
	return nil
}

// Create publishes a new listing. Admin callers bypass the verification gate
// and may post without a linked university; university callers must own a
// verified institution. Fresh listings always start unfeatured and unedited,
// even when an admin authors them.
func (s *ScholarshipService) Create(ctx context.Context, caller *model.User, req *CreateScholarshipRequest) (*model.Scholarship, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var university *model.University
	if caller.UniversityID != nil {
		var u model.University
		if err := s.db.WithContext(ctx).First(&u, *caller.UniversityID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		} else {
			university = &u
		}
	}

	if !caller.IsAdmin() {
		if caller.Role != model.RoleUniversity || university == nil {
			return nil, ErrNoInstitution
		}
		if !university.IsVerified {
			return nil, ErrNotVerified
		}
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	scholarship := model.Scholarship{
		Slug:            Slugify(req.Title.Resolve(localized.DefaultLanguage)),
		Title:           req.Title,
		Description:     strings.TrimSpace(req.Description),
		UniversityID:    caller.UniversityID,
		ProviderName:    ProviderNameFor(caller, university),
		Amount:          req.Amount,
		Currency:        currency,
		Deadline:        req.Deadline,
		TargetCountry:   strings.TrimSpace(req.TargetCountry),
		DegreeLevel:     strings.TrimSpace(req.DegreeLevel),
		FieldOfStudy:    pq.StringArray(req.FieldOfStudy),
		EligibleRegions: pq.StringArray(req.EligibleRegions),
		OfficialWebsite: strings.TrimSpace(req.OfficialWebsite),
		Views:           0,
		IsFeatured:      false,
		IsEdited:        false,
	}

	if err := s.db.WithContext(ctx).Create(&scholarship).Error; err != nil {
		return nil, err
	}
	return &scholarship, nil
}

// EditScholarshipRequest is a partial update; nil fields are left unchanged
type EditScholarshipRequest struct {
	Title           *localized.Text `json:"title"`
	Description     *string         `json:"description"`
	Amount          *int            `json:"amount"`
	Currency        *string         `json:"currency"`
	Deadline        *time.Time      `json:"deadline"`
	TargetCountry   *string         `json:"target_country"`
	DegreeLevel     *string         `json:"degree_level"`
	FieldOfStudy    []string        `json:"field_of_study"`
	EligibleRegions []string        `json:"eligible_regions"`
	OfficialWebsite *string         `json:"official_website"`
}

func (r *EditScholarshipRequest) changes() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.Title != nil {
		updates["title"] = *r.Title
	}
	if r.Description != nil {
		updates["description"] = strings.TrimSpace(*r.Description)
	}
	if r.Amount != nil {
		updates["amount"] = *r.Amount
	}
	if r.Currency != nil {
		updates["currency"] = strings.ToUpper(strings.TrimSpace(*r.Currency))
	}
	if r.Deadline != nil {
		updates["deadline"] = *r.Deadline
	}
	if r.TargetCountry != nil {
		updates["target_country"] = strings.TrimSpace(*r.TargetCountry)
	}
	if r.DegreeLevel != nil {
		updates["degree_level"] = strings.TrimSpace(*r.DegreeLevel)
	}
	if r.FieldOfStudy != nil {
		updates["field_of_study"] = pq.StringArray(r.FieldOfStudy)
	}
	if r.EligibleRegions != nil {
		updates["eligible_regions"] = pq.StringArray(r.EligibleRegions)
	}
	if r.OfficialWebsite != nil {
		updates["official_website"] = strings.TrimSpace(*r.OfficialWebsite)
	}
	return updates
}

// Edit applies a one-time patch to a listing. Only the owning university may
// edit; admins are not exempt. The edit lock is enforced with a conditional
// update so two concurrent edits cannot both pass an application-level check.
// GetOwned returns a single listing, including removed ones, for the owning
// university only.
func (s *ScholarshipService) GetOwned(ctx context.Context, caller *model.User, id uint) (*model.Scholarship, error) {
	var scholarship model.Scholarship
	if err := s.db.WithContext(ctx).First(&scholarship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScholarshipNotFound
		}
		return nil, err
	}

	if caller.UniversityID == nil || scholarship.UniversityID == nil ||
		*caller.UniversityID != *scholarship.UniversityID {
		return nil, ErrNotOwner
	}
	return &scholarship, nil
}

func (s *ScholarshipService) Edit(ctx context.Context, caller *model.User, id uint, req *EditScholarshipRequest) (*model.Scholarship, error) {
	var scholarship model.Scholarship
	if err := s.db.WithContext(ctx).First(&scholarship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScholarshipNotFound
		}
		return nil, err
	}

	if caller.UniversityID == nil || scholarship.UniversityID == nil ||
		*caller.UniversityID != *scholarship.UniversityID {
		return nil, ErrNotOwner
	}

	if scholarship.IsEdited {
		return nil, ErrAlreadyEdited
	}

	updates := req.changes()
	updates["is_edited"] = true

	res := s.db.WithContext(ctx).
		Model(&model.Scholarship{}).
		Where("id = ? AND is_edited = ?", id, false).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// A concurrent edit won the race.
		return nil, ErrAlreadyEdited
	}

	if err := s.db.WithContext(ctx).First(&scholarship, id).Error; err != nil {
		return nil, err
	}
	return &scholarship, nil
}

// Remove soft-removes a listing. Idempotent: a second removal succeeds
// without overwriting the original timestamp or reason.
func (s *ScholarshipService) Remove(ctx context.Context, id uint, reason string) (*model.Scholarship, error) {
	var scholarship model.Scholarship
	if err := s.db.WithContext(ctx).First(&scholarship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScholarshipNotFound
		}
		return nil, err
	}

	if scholarship.IsRemoved() {
		return &scholarship, nil
	}

	res := s.db.WithContext(ctx).
		Model(&model.Scholarship{}).
		Where("id = ? AND removed_at IS NULL", id).
		Updates(map[string]interface{}{
			"removed_at":     time.Now(),
			"removed_reason": NormalizeReason(reason),
		})
	if res.Error != nil {
		return nil, res.Error
	}

	if err := s.db.WithContext(ctx).First(&scholarship, id).Error; err != nil {
		return nil, err
	}
	return &scholarship, nil
}

// View atomically increments the view counter and returns the new count
func (s *ScholarshipService) View(ctx context.Context, id uint) (int64, error) {
	var views int64
	res := s.db.WithContext(ctx).
		Raw("UPDATE scholarships SET views = views + 1 WHERE id = ? AND deleted_at IS NULL RETURNING views", id).
		Scan(&views)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrScholarshipNotFound
	}
	return views, nil
}

// GetBySlug returns a public (non-removed) listing by its slug
func (s *ScholarshipService) GetBySlug(ctx context.Context, slug string) (*model.Scholarship, error) {
	var scholarship model.Scholarship
	err := s.db.WithContext(ctx).
		Preload("University").
		Where("slug = ? AND removed_at IS NULL", slug).
		First(&scholarship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScholarshipNotFound
		}
		return nil, err
	}
	return &scholarship, nil
}

// ListPublic returns all non-removed listings, newest first, for the
// in-memory filter engine
func (s *ScholarshipService) ListPublic(ctx context.Context) ([]model.Scholarship, error) {
	var scholarships []model.Scholarship
	err := s.db.WithContext(ctx).
		Preload("University").
		Where("removed_at IS NULL").
		Order("updated_at DESC").
		Find(&scholarships).Error
	return scholarships, err
}

// ListByUniversity returns a university's own listings, removed ones included
func (s *ScholarshipService) ListByUniversity(ctx context.Context, universityID uint) ([]model.Scholarship, error) {
	var scholarships []model.Scholarship
	err := s.db.WithContext(ctx).
		Where("university_id = ?", universityID).
		Order("created_at DESC").
		Find(&scholarships).Error
	return scholarships, err
}

// SetFeatured flips the featured flag on a listing
func (s *ScholarshipService) SetFeatured(ctx context.Context, id uint, featured bool) error {
	res := s.db.WithContext(ctx).
		Model(&model.Scholarship{}).
		Where("id = ?", id).
		UpdateColumn("is_featured", featured)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrScholarshipNotFound
	}
	return nil
}

// NormalizeReason trims free-text moderation input and caps it at 500
// characters; empty input becomes null. The cap counts runes, not bytes, so
// multibyte text is never cut mid-character.
func NormalizeReason(reason string) *string {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return nil
	}
	if runes := []rune(trimmed); len(runes) > 500 {
		trimmed = string(runes[:500])
	}
	return &trimmed
}
