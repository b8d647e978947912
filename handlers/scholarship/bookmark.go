package scholarship

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/services"
	"github.com/scholarhub/api/utils/middleware"
	"github.com/scholarhub/api/utils/response"
)

// Bookmark saves a listing for the current user
func (h *ScholarshipHandler) Bookmark(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid scholarship ID")
	}

	if err := h.bookmarkService.Bookmark(c.Context(), userID, uint(id)); err != nil {
		switch err {
		case services.ErrScholarshipNotFound:
			return response.NotFound(c, "Scholarship not found")
		case services.ErrAlreadyBookmarked:
			return response.Conflict(c, "Scholarship already bookmarked")
		default:
			return response.InternalServerError(c, "Failed to bookmark scholarship")
		}
	}

	return response.Created(c, fiber.Map{
		"bookmarked": true,
	})
}

// Unbookmark removes a saved listing. Removing one that is already gone
// still succeeds.
func (h *ScholarshipHandler) Unbookmark(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid scholarship ID")
	}

	if err := h.bookmarkService.Unbookmark(c.Context(), userID, uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to remove bookmark")
	}

	return response.Success(c, fiber.Map{
		"bookmarked": false,
	})
}

// IsBookmarked reports whether the current user saved the listing.
// Anonymous callers get false rather than an error.
func (h *ScholarshipHandler) IsBookmarked(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid scholarship ID")
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Success(c, fiber.Map{"bookmarked": false})
	}

	bookmarked, err := h.bookmarkService.IsBookmarked(c.Context(), userID, uint(id))
	if err != nil {
		return response.InternalServerError(c, "Failed to check bookmark")
	}

	return response.Success(c, fiber.Map{"bookmarked": bookmarked})
}
