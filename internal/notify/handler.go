package notify

import (
	"distribution-backend/internal/apperror"
	"distribution-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

// GET /api/notifications?unread=true
func ListNotificationsHandler(center *Center) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(center.List(c.QueryBool("unread", false)))
	}
}

// POST /api/notifications/:id/read
func MarkReadHandler(s *store.Store, center *Center) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid notification id")
		}
		if err := center.MarkRead(id); err != nil {
			return apperror.ToFiber(err)
		}
		if err := s.Save(c.UserContext()); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/notifications/read-all
func MarkAllReadHandler(s *store.Store, center *Center) fiber.Handler {
	return func(c *fiber.Ctx) error {
		marked := center.MarkAllRead()
		if err := s.Save(c.UserContext()); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"marked": marked})
	}
}

// DELETE /api/notifications
func ClearHandler(s *store.Store, center *Center) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cleared := center.Clear()
		if err := s.Save(c.UserContext()); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"cleared": cleared})
	}
}
