package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminAuditLog records admin mutations to the audit trail. Must run after
// RequireAdmin so the admin user is present in context.
func AdminAuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin, ok := GetUser(c)
		if !ok {
			return c.Next()
		}

		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, err := strconv.ParseUint(id, 10, 32); err == nil {
				resourceID = uint(parsedID)
			}
		}

		// Capture the request body before the handler consumes it
		var details datatypes.JSON
		if body := c.Body(); len(body) > 0 {
			buf := make([]byte, len(body))
			copy(buf, body)
			details = datatypes.JSON(buf)
		}

		err := c.Next()

		// Log failed requests too; the status code lands in Description
		entry := model.AdminAuditLog{
			AdminID:     admin.ID,
			Action:      action,
			Resource:    resource,
			ResourceID:  resourceID,
			Details:     details,
			IPAddress:   c.IP(),
			UserAgent:   c.Get("User-Agent"),
			Description: c.Method() + " " + c.Path() + " -> " + strconv.Itoa(c.Response().StatusCode()),
		}
		db.Create(&entry)

		return err
	}
}
