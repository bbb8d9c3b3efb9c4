package schedule

import (
	"distribution-backend/internal/apperror"
	"distribution-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

func agentID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid agent id")
	}
	return id, nil
}

// GET /api/agents/:id/schedule
func ScheduleHandler(r *Router) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := agentID(c)
		if err != nil {
			return err
		}
		stops, err := r.TodaysSchedule(id)
		if err != nil {
			return apperror.ToFiber(err)
		}
		visited := 0
		for _, s := range stops {
			if s.Visited {
				visited++
			}
		}
		return c.JSON(fiber.Map{
			"stops":   stops,
			"visited": visited,
			"total":   len(stops),
		})
	}
}

// GET /api/agents/:id/route
func RemainingRouteHandler(r *Router) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := agentID(c)
		if err != nil {
			return err
		}
		stops, err := r.RemainingRoute(id)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.JSON(stops)
	}
}

// POST /api/agents/:id/visits/:customerId/toggle
func ToggleVisitHandler(r *Router) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := agentID(c)
		if err != nil {
			return err
		}
		customerID, err := c.ParamsInt("customerId")
		if err != nil || customerID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
		}
		visited, err := r.ToggleVisit(id, customerID)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.JSON(fiber.Map{"customerId": customerID, "visited": visited})
	}
}

// POST /api/agents/:id/next-stop?completed=302
func NextStopHandler(r *Router) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := agentID(c)
		if err != nil {
			return err
		}
		next, err := r.NextStop(id, c.QueryInt("completed", 0))
		if err != nil {
			return apperror.ToFiber(err)
		}
		if next == nil {
			return c.JSON(fiber.Map{"done": true})
		}
		return c.JSON(fiber.Map{"done": false, "next": next})
	}
}

// PUT /api/agents/:id/position
func MovePositionHandler(r *Router) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := agentID(c)
		if err != nil {
			return err
		}
		var p Position
		if err := store.DecodeStrict(c.Body(), &p); err != nil {
			return apperror.ToFiber(err)
		}
		if err := r.MovePosition(id, p); err != nil {
			return apperror.ToFiber(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/agents/:id/route-geometry
func RouteGeometryHandler(r *Router) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := agentID(c)
		if err != nil {
			return err
		}
		route, err := r.RouteGeometry(c.UserContext(), id)
		if err != nil {
			if apperror.KindOf(err) == apperror.KindUnknown {
				return fiber.NewError(fiber.StatusBadGateway, "could not calculate the route")
			}
			return apperror.ToFiber(err)
		}
		return c.JSON(route)
	}
}
