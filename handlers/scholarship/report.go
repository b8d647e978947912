package scholarship

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/services"
	"github.com/scholarhub/api/utils/middleware"
	"github.com/scholarhub/api/utils/response"
)

// ReportRequest represents an abuse report submission
type ReportRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Report files an abuse report against a listing. Anonymous reporting is
// permitted; when a session is present the reporter is attached.
func (h *ScholarshipHandler) Report(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid scholarship ID")
	}

	// The reason is optional, so a body-less POST is a valid report.
	var req ReportRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	var reporterID *uint
	if userID, ok := middleware.GetUserID(c); ok {
		reporterID = &userID
	}

	report, err := h.reportService.Report(c.Context(), uint(id), reporterID, req.Reason)
	if err != nil {
		if err == services.ErrScholarshipNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		return response.InternalServerError(c, "Failed to submit report")
	}

	return response.Created(c, report)
}
