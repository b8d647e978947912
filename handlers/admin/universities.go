package admin

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/model"
	"github.com/scholarhub/api/utils/response"
)

// ListUniversitiesRequest represents the query parameters for listing institutions
type ListUniversitiesRequest struct {
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
	Verified string `query:"verified"` // "true", "false" or empty for all
}

// SetVerificationRequest represents the verification toggle body
type SetVerificationRequest struct {
	IsVerified *bool `json:"is_verified" validate:"required"`
}

// ListUniversities retrieves all institutions with pagination
// GET /admin/universities
func (h *AdminHandler) ListUniversities(c *fiber.Ctx) error {
	var req ListUniversitiesRequest
	if err := c.QueryParser(&req); err != nil {
		return response.BadRequest(c, "Invalid query parameters")
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := h.db.Model(&model.University{})
	if req.Verified == "true" {
		query = query.Where("is_verified = ?", true)
	} else if req.Verified == "false" {
		query = query.Where("is_verified = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count universities")
	}

	var universities []model.University
	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Order("created_at DESC").Find(&universities).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch universities")
	}

	rows, err := h.withModerationCounts(universities)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch universities")
	}

	return response.Paginated(c, rows, response.CalculatePagination(req.Page, req.Limit, total))
}

// universityRow is a University annotated with the moderation-view extras
type universityRow struct {
	model.University
	ScholarshipCount int64        `json:"scholarship_count"`
	LinkedUsers      []model.User `json:"linked_users"`
}

func (h *AdminHandler) withModerationCounts(universities []model.University) ([]universityRow, error) {
	ids := make([]uint, len(universities))
	for i, u := range universities {
		ids[i] = u.ID
	}

	counts := map[uint]int64{}
	if len(ids) > 0 {
		var grouped []struct {
			UniversityID uint
			Count        int64
		}
		err := h.db.Model(&model.Scholarship{}).
			Select("university_id, COUNT(*) AS count").
			Where("university_id IN ?", ids).
			Group("university_id").
			Scan(&grouped).Error
		if err != nil {
			return nil, err
		}
		for _, g := range grouped {
			counts[g.UniversityID] = g.Count
		}
	}

	usersByUniversity := map[uint][]model.User{}
	if len(ids) > 0 {
		var users []model.User
		if err := h.db.Where("university_id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			usersByUniversity[*u.UniversityID] = append(usersByUniversity[*u.UniversityID], u)
		}
	}

	rows := make([]universityRow, len(universities))
	for i, u := range universities {
		rows[i] = universityRow{
			University:       u,
			ScholarshipCount: counts[u.ID],
			LinkedUsers:      usersByUniversity[u.ID],
		}
	}
	return rows, nil
}

// SetVerification flips an institution's verification flag. Verifying
// triggers a notification email to the institution.
// PATCH /admin/universities/:id
func (h *AdminHandler) SetVerification(c *fiber.Ctx) error {
	universityID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid university ID")
	}

	var req SetVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.IsVerified == nil {
		return response.BadRequest(c, "is_verified is required")
	}

	var university model.University
	if err := h.db.First(&university, universityID).Error; err != nil {
		return response.NotFound(c, "University not found")
	}

	wasVerified := university.IsVerified
	if err := h.db.Model(&university).UpdateColumn("is_verified", *req.IsVerified).Error; err != nil {
		return response.InternalServerError(c, "Failed to update verification")
	}
	university.IsVerified = *req.IsVerified

	if !wasVerified && university.IsVerified && h.emailService != nil {
		if err := h.emailService.SendUniversityVerifiedEmail(university.Email, university.Name); err != nil {
			log.Printf("failed to send verification email to %s: %v", university.Email, err)
		}
	}

	h.statsService.Invalidate(c.Context())

	return response.SuccessWithMessage(c, "University verification updated", university)
}
