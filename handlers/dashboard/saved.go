package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/services"
	"github.com/scholarhub/api/utils/middleware"
	"github.com/scholarhub/api/utils/response"
	"gorm.io/gorm"
)

// DashboardHandler serves the student dashboard surface
type DashboardHandler struct {
	bookmarkService *services.BookmarkService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		bookmarkService: services.NewBookmarkService(db),
	}
}

// ListSaved returns the current user's saved scholarships, newest first.
// Listings removed since they were saved are filtered out.
func (h *DashboardHandler) ListSaved(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	saved, err := h.bookmarkService.ListSaved(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load saved scholarships")
	}

	return response.Success(c, saved)
}
