package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/utils/middleware"
	"github.com/scholarhub/api/utils/response"
	"github.com/scholarhub/api/utils/validation"
)

// SetupUniversityRequest binds an institution to the caller's own account
type SetupUniversityRequest struct {
	Name    string `json:"name,omitempty"`
	Website string `json:"website,omitempty"`
}

// SetupUniversity links the caller to a University record, creating one when
// no institution with the caller's email exists yet, and promotes the account
// to the UNIVERSITY role. Calling it again returns the existing link.
func (h *AuthHandler) SetupUniversity(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req SetupUniversityRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	website := strings.TrimSpace(req.Website)
	if website != "" && !validation.ValidateWebsite(website) {
		return response.BadRequest(c, "Website must be a valid http or https URL")
	}
	if website == "" && user.UniversityID == nil && strings.TrimSpace(user.PendingWebsite) == "" {
		return response.BadRequest(c, "A website is required to set up a university account")
	}

	university, err := h.universityService.SetupForUser(c.Context(), user, req.Name, website)
	if err != nil {
		return response.InternalServerError(c, "Failed to set up university account")
	}

	return response.Success(c, fiber.Map{
		"university": university,
		"user":       toUserResponse(user),
	})
}
