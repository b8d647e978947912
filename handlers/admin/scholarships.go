package admin

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/model"
	"github.com/scholarhub/api/services"
	"github.com/scholarhub/api/utils/middleware"
	"github.com/scholarhub/api/utils/response"
)

// ListScholarshipsRequest represents the query parameters for the admin list
type ListScholarshipsRequest struct {
	Page    int    `query:"page"`
	Limit   int    `query:"limit"`
	Removed string `query:"removed"` // "true", "false" or empty for all
}

// RemoveScholarshipRequest carries the moderation reason
type RemoveScholarshipRequest struct {
	Reason string `json:"reason,omitempty"`
}

// FeatureScholarshipRequest toggles the featured flag
type FeatureScholarshipRequest struct {
	IsFeatured *bool `json:"is_featured" validate:"required"`
}

// ListScholarships retrieves all listings, removed ones included
// GET /admin/scholarships
func (h *AdminHandler) ListScholarships(c *fiber.Ctx) error {
	var req ListScholarshipsRequest
	if err := c.QueryParser(&req); err != nil {
		return response.BadRequest(c, "Invalid query parameters")
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := h.db.Model(&model.Scholarship{})
	if req.Removed == "true" {
		query = query.Where("removed_at IS NOT NULL")
	} else if req.Removed == "false" {
		query = query.Where("removed_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count scholarships")
	}

	var scholarships []model.Scholarship
	offset := (req.Page - 1) * req.Limit
	if err := query.Preload("University").Offset(offset).Limit(req.Limit).Order("created_at DESC").Find(&scholarships).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch scholarships")
	}

	return response.Paginated(c, scholarships, response.CalculatePagination(req.Page, req.Limit, total))
}

// CreateScholarship lets an admin publish a listing directly, bypassing the
// verification gate. Admin listings are never auto-featured.
// POST /admin/scholarships
func (h *AdminHandler) CreateScholarship(c *fiber.Ctx) error {
	admin, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req services.CreateScholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	scholarship, err := h.scholarshipService.Create(c.Context(), admin, &req)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to create scholarship")
	}

	h.statsService.Invalidate(c.Context())

	return response.Created(c, scholarship)
}

// RemoveScholarship soft-removes a listing with a moderation reason.
// Idempotent: removing an already-removed listing succeeds without
// overwriting the original reason.
// DELETE /admin/scholarships/:id
func (h *AdminHandler) RemoveScholarship(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid scholarship ID")
	}

	var req RemoveScholarshipRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	scholarship, err := h.scholarshipService.Remove(c.Context(), uint(id), req.Reason)
	if err != nil {
		if err == services.ErrScholarshipNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		return response.InternalServerError(c, "Failed to remove scholarship")
	}

	h.notifyProviderOfRemoval(scholarship)
	h.statsService.Invalidate(c.Context())

	return response.SuccessWithMessage(c, "Scholarship removed", scholarship)
}

func (h *AdminHandler) notifyProviderOfRemoval(scholarship *model.Scholarship) {
	if h.emailService == nil || scholarship.UniversityID == nil {
		return
	}

	var university model.University
	if err := h.db.First(&university, *scholarship.UniversityID).Error; err != nil {
		return
	}

	reason := ""
	if scholarship.RemovedReason != nil {
		reason = *scholarship.RemovedReason
	}
	title := scholarship.Title.Resolve("en")
	if err := h.emailService.SendListingRemovedEmail(university.Email, title, reason); err != nil {
		log.Printf("failed to send removal email to %s: %v", university.Email, err)
	}
}

// FeatureScholarship toggles the featured flag on a listing
// PATCH /admin/scholarships/:id/feature
func (h *AdminHandler) FeatureScholarship(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid scholarship ID")
	}

	var req FeatureScholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.IsFeatured == nil {
		return response.BadRequest(c, "is_featured is required")
	}

	if err := h.scholarshipService.SetFeatured(c.Context(), uint(id), *req.IsFeatured); err != nil {
		if err == services.ErrScholarshipNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		return response.InternalServerError(c, "Failed to update featured flag")
	}

	h.statsService.Invalidate(c.Context())

	return response.Success(c, fiber.Map{
		"id":          uint(id),
		"is_featured": *req.IsFeatured,
	})
}
