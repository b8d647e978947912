package scholarship

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/services"
	"github.com/scholarhub/api/utils/middleware"
	"github.com/scholarhub/api/utils/response"
	"gorm.io/gorm"
)

// ScholarshipHandler serves the public listing surface
type ScholarshipHandler struct {
	scholarshipService *services.ScholarshipService
	bookmarkService    *services.BookmarkService
	reportService      *services.ReportService
}

// NewScholarshipHandler creates a new scholarship handler
func NewScholarshipHandler(db *gorm.DB) *ScholarshipHandler {
	return &ScholarshipHandler{
		scholarshipService: services.NewScholarshipService(db),
		bookmarkService:    services.NewBookmarkService(db),
		reportService:      services.NewReportService(db),
	}
}

// requestLanguage picks the display language from the lang query param,
// falling back to the Accept-Language header's primary tag
func requestLanguage(c *fiber.Ctx) string {
	if lang := c.Query("lang"); lang != "" {
		return lang
	}
	header := c.Get("Accept-Language")
	if header == "" {
		return "en"
	}
	primary := strings.Split(header, ",")[0]
	if i := strings.Index(primary, "-"); i > 0 {
		primary = primary[:i]
	}
	return strings.TrimSpace(primary)
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// List serves the filtered, sorted, load-more paged public listing
func (h *ScholarshipHandler) List(c *fiber.Ctx) error {
	filter := services.ListingFilter{
		Query:        c.Query("search", c.Query("q")),
		Countries:    splitParam(c.Query("countries")),
		Degrees:      splitParam(c.Query("degrees")),
		AmountBucket: c.Query("amount", services.BucketAny),
		SortKey:      c.Query("sort", services.SortRecent),
		Lang:         requestLanguage(c),
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	all, err := h.scholarshipService.ListPublic(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load scholarships")
	}

	filtered := services.FilterScholarships(all, filter)
	services.SortScholarships(filtered, filter.SortKey)
	pageItems, hasMore := services.PageScholarships(filtered, page)

	return response.LoadMore(c, pageItems, len(filtered), hasMore)
}

// GetBySlug serves a single public listing. When the caller is authenticated
// the bookmarked flag is included; anonymous callers always see false.
func (h *ScholarshipHandler) GetBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return response.BadRequest(c, "Slug is required")
	}

	scholarship, err := h.scholarshipService.GetBySlug(c.Context(), slug)
	if err != nil {
		if err == services.ErrScholarshipNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		return response.InternalServerError(c, "Failed to load scholarship")
	}

	bookmarked := false
	if userID, ok := middleware.GetUserID(c); ok {
		bookmarked, _ = h.bookmarkService.IsBookmarked(c.Context(), userID, scholarship.ID)
	}

	return response.Success(c, fiber.Map{
		"scholarship":   scholarship,
		"is_bookmarked": bookmarked,
	})
}

// View atomically increments the view counter and returns the new count.
// No authentication required.
func (h *ScholarshipHandler) View(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid scholarship ID")
	}

	views, err := h.scholarshipService.View(c.Context(), uint(id))
	if err != nil {
		if err == services.ErrScholarshipNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		return response.InternalServerError(c, "Failed to record view")
	}

	return response.Success(c, fiber.Map{
		"views": views,
	})
}
