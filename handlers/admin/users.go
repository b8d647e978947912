package admin

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/model"
	"github.com/scholarhub/api/utils/auth"
	"github.com/scholarhub/api/utils/middleware"
	"github.com/scholarhub/api/utils/response"
)

// ListUsersRequest represents the query parameters for listing users
type ListUsersRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Role   string `query:"role"`
	Search string `query:"search"`
}

// UpdateUserRoleRequest represents the request body for toggling a role
type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ListUsers retrieves all users with pagination and filters
// GET /admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var req ListUsersRequest
	if err := c.QueryParser(&req); err != nil {
		return response.BadRequest(c, "Invalid query parameters")
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := h.db.Model(&model.User{})

	if req.Role != "" {
		query = query.Where("role = ?", strings.ToUpper(req.Role))
	}

	if req.Search != "" {
		searchTerm := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count users")
	}

	var users []model.User
	offset := (req.Page - 1) * req.Limit
	if err := query.Preload("University").Offset(offset).Limit(req.Limit).Order("created_at DESC").Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}

	return response.Paginated(c, users, response.CalculatePagination(req.Page, req.Limit, total))
}

// GetUser retrieves a specific user by ID
// GET /admin/users/:id
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var user model.User
	if err := h.db.Preload("University").First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, user)
}

// UpdateUserRole toggles a user's role. The change takes effect on the user's
// very next request because auth reloads the role from storage, and all of
// the user's outstanding tokens are invalidated for good measure.
// PATCH /admin/users/:id
func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req UpdateUserRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != model.RoleStudent && role != model.RoleUniversity && role != model.RoleAdmin {
		return response.BadRequest(c, "Invalid role")
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	// An admin cannot de-rank themselves; this avoids locking the last admin
	// out of the moderation surface.
	if actingID, ok := middleware.GetUserID(c); ok && actingID == user.ID && role != model.RoleAdmin {
		return response.BadRequest(c, "Admins cannot change their own role")
	}

	if err := h.db.Model(&user).UpdateColumn("role", role).Error; err != nil {
		return response.InternalServerError(c, "Failed to update role")
	}

	blacklist := auth.NewBlacklistService(h.db)
	if err := blacklist.RevokeAllUserTokens(c.Context(), user.ID); err != nil {
		return response.InternalServerError(c, "Failed to invalidate user sessions")
	}

	h.statsService.Invalidate(c.Context())

	user.Role = role
	return response.SuccessWithMessage(c, "User role updated", user)
}
