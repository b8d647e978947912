package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/utils/response"
)

// ListReportsRequest represents the query parameters for listing reports
type ListReportsRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// ListReports retrieves abuse reports with the reported scholarship and the
// reporting user joined. Reports against removed scholarships stay visible.
// GET /admin/reports
func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	var req ListReportsRequest
	if err := c.QueryParser(&req); err != nil {
		return response.BadRequest(c, "Invalid query parameters")
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	reports, total, err := h.reportService.List(c.Context(), req.Page, req.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch reports")
	}

	return response.Paginated(c, reports, response.CalculatePagination(req.Page, req.Limit, total))
}
