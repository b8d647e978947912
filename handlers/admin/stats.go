package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/utils/response"
)

// GetStats serves the admin dashboard aggregates, cached for a short window
// GET /admin/stats
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.statsService.Get(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute stats")
	}

	return response.Success(c, stats)
}
