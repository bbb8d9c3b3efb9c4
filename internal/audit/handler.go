package audit

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?action=CREATED_&user=admin&since=2025-08-01&limit=50
func ListAuditLogsHandler(trail *Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := Filter{
			Action: c.Query("action"),
			User:   c.Query("user"),
			Limit:  c.QueryInt("limit", 0),
		}

		if since := c.Query("since"); since != "" {
			t, err := time.Parse("2006-01-02", since)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "since must be formatted as YYYY-MM-DD")
			}
			filter.Since = t
		}
		if filter.Limit < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must not be negative")
		}

		return c.JSON(trail.List(filter))
	}
}
