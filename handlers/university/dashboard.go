package university

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/services"
	"github.com/scholarhub/api/services/storage"
	"github.com/scholarhub/api/utils/middleware"
	"github.com/scholarhub/api/utils/response"
)

// maxLogoSize caps logo uploads at 2 MiB
const maxLogoSize = 2 << 20

// Dashboard serves the university's aggregate dashboard. On first load this
// creates the institution record lazily from the pending website captured at
// signup.
func (h *UniversityHandler) Dashboard(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	university, err := h.universityService.EnsureForUser(c.Context(), user)
	if err != nil {
		if err == services.ErrUniversityNotFound {
			return response.NotFound(c, "University not found")
		}
		return response.InternalServerError(c, "Failed to resolve university")
	}
	if university == nil {
		return response.NotFound(c, "No university linked to this account")
	}

	dashboard, err := h.universityService.Dashboard(c.Context(), university.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}

	return response.Success(c, dashboard)
}

// GetProfile returns the caller's institution record
func (h *UniversityHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	university, err := h.universityService.EnsureForUser(c.Context(), user)
	if err != nil {
		return response.InternalServerError(c, "Failed to resolve university")
	}
	if university == nil {
		return response.NotFound(c, "No university linked to this account")
	}

	return response.Success(c, university)
}

// UpdateProfile applies partial profile changes
func (h *UniversityHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	if user.UniversityID == nil {
		return response.NotFound(c, "No university linked to this account")
	}

	var req services.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	university, err := h.universityService.UpdateProfile(c.Context(), *user.UniversityID, &req)
	if err != nil {
		if err == services.ErrUniversityNotFound {
			return response.NotFound(c, "University not found")
		}
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, university)
}

// UploadLogo stores a logo image in object storage and records its URL
func (h *UniversityHandler) UploadLogo(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	if user.UniversityID == nil {
		return response.NotFound(c, "No university linked to this account")
	}
	if h.spacesClient == nil {
		return response.ServiceUnavailable(c, "Logo storage is not configured")
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return response.BadRequest(c, "Logo file is required")
	}
	if fileHeader.Size > maxLogoSize {
		return response.BadRequest(c, "Logo must be smaller than 2 MB")
	}

	contentType := storage.ImageContentType(fileHeader.Filename)
	if contentType == "" {
		return response.BadRequest(c, "Logo must be a PNG, JPEG, WebP or SVG image")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read logo file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return response.InternalServerError(c, "Failed to read logo file")
	}

	key := storage.LogoKey(*user.UniversityID, fileHeader.Filename)
	url, err := h.spacesClient.UploadBytes(c.Context(), key, data, contentType)
	if err != nil {
		return response.InternalServerError(c, "Failed to upload logo")
	}

	if err := h.universityService.SetLogoURL(c.Context(), *user.UniversityID, url); err != nil {
		return response.InternalServerError(c, "Failed to save logo URL")
	}

	return response.Success(c, fiber.Map{
		"logo_url": url,
	})
}
