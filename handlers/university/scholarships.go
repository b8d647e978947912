package university

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/services"
	"github.com/scholarhub/api/services/storage"
	"github.com/scholarhub/api/services/translate"
	"github.com/scholarhub/api/utils/middleware"
	"github.com/scholarhub/api/utils/response"
	"github.com/scholarhub/api/utils/validation"
	"gorm.io/gorm"
)

// UniversityHandler serves the university dashboard surface
type UniversityHandler struct {
	scholarshipService *services.ScholarshipService
	universityService  *services.UniversityService
	validator          *validation.Validator
	spacesClient       *storage.SpacesClient
	translateClient    *translate.Client
}

// NewUniversityHandler creates a new university handler. The storage and
// translation clients may be nil when not configured; the endpoints that need
// them degrade to 503.
func NewUniversityHandler(db *gorm.DB, spacesClient *storage.SpacesClient, translateClient *translate.Client) *UniversityHandler {
	return &UniversityHandler{
		scholarshipService: services.NewScholarshipService(db),
		universityService:  services.NewUniversityService(db),
		validator:          validation.NewValidator(),
		spacesClient:       spacesClient,
		translateClient:    translateClient,
	}
}

// CreateScholarship publishes a new listing for the caller's university.
// Admins may also post directly; their listings bypass the verification gate.
func (h *UniversityHandler) CreateScholarship(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	// Materialize the institution record if signup only captured a website
	if _, err := h.universityService.EnsureForUser(c.Context(), user); err != nil && err != services.ErrUniversityNotFound {
		return response.InternalServerError(c, "Failed to resolve university")
	}

	var req services.CreateScholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	scholarship, err := h.scholarshipService.Create(c.Context(), user, &req)
	if err != nil {
		switch {
		case err == services.ErrNotVerified:
			return response.Forbidden(c, "University is not verified yet")
		case err == services.ErrNoInstitution:
			return response.Forbidden(c, "Only verified universities or admins can publish listings")
		case errors.Is(err, services.ErrMissingFields):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create scholarship")
		}
	}

	return response.Created(c, scholarship)
}

// ListScholarships returns the caller's own listings, removed ones included
func (h *UniversityHandler) ListScholarships(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	if user.UniversityID == nil {
		return response.Success(c, []interface{}{})
	}

	scholarships, err := h.scholarshipService.ListByUniversity(c.Context(), *user.UniversityID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load scholarships")
	}

	return response.Success(c, scholarships)
}

// GetScholarship returns one of the caller's own listings by ID
func (h *UniversityHandler) GetScholarship(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid scholarship ID")
	}

	scholarship, err := h.scholarshipService.GetOwned(c.Context(), user, uint(id))
	if err != nil {
		switch err {
		case services.ErrScholarshipNotFound:
			return response.NotFound(c, "Scholarship not found")
		case services.ErrNotOwner:
			return response.Forbidden(c, "Only the owning university can view this listing")
		default:
			return response.InternalServerError(c, "Failed to load scholarship")
		}
	}

	return response.Success(c, scholarship)
}

// EditScholarship applies the one-time edit to an owned listing
func (h *UniversityHandler) EditScholarship(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid scholarship ID")
	}

	var req services.EditScholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	scholarship, err := h.scholarshipService.Edit(c.Context(), user, uint(id), &req)
	if err != nil {
		switch err {
		case services.ErrScholarshipNotFound:
			return response.NotFound(c, "Scholarship not found")
		case services.ErrNotOwner:
			return response.Forbidden(c, "Only the owning university can edit a listing")
		case services.ErrAlreadyEdited:
			return response.Forbidden(c, "This listing has already been edited once and is locked")
		default:
			return response.InternalServerError(c, "Failed to edit scholarship")
		}
	}

	return response.SuccessWithMessage(c, "Scholarship updated. Further edits are locked.", scholarship)
}
