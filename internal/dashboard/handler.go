package dashboard

import (
	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func parseRange(c *fiber.Ctx) (Range, error) {
	var rng Range
	if v := c.Query("from"); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			return rng, fiber.NewError(fiber.StatusBadRequest, "invalid from date")
		}
		rng.From = d
	}
	if v := c.Query("to"); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			return rng, fiber.NewError(fiber.StatusBadRequest, "invalid to date")
		}
		rng.To = d
	}
	if !rng.From.IsZero() && !rng.To.IsZero() && rng.To.Before(rng.From) {
		return rng, fiber.NewError(fiber.StatusBadRequest, "to is before from")
	}
	return rng, nil
}

// GET /api/dashboard/sales-summary?from=2025-08-01&to=2025-08-31
func SalesSummaryHandler(r *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rng, err := parseRange(c)
		if err != nil {
			return err
		}
		return c.JSON(r.SalesSummary(rng))
	}
}

// GET /api/dashboard/top/:kind?limit=3&from=&to=
// kind is products, customers or agents.
func TopHandler(r *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rng, err := parseRange(c)
		if err != nil {
			return err
		}
		limit := c.QueryInt("limit", 3)
		if limit <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		switch c.Params("kind") {
		case "products":
			return c.JSON(r.TopProducts(rng, limit))
		case "customers":
			return c.JSON(r.TopCustomers(rng, limit))
		case "agents":
			return c.JSON(r.TopAgents(rng, limit))
		}
		return fiber.NewError(fiber.StatusNotFound, "unknown ranking")
	}
}

// GET /api/dashboard/receivables-aging
func ReceivablesAgingHandler(r *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(r.ReceivablesAging())
	}
}

// GET /api/dashboard/inventory
func InventoryOverviewHandler(r *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(r.InventoryOverview())
	}
}

// GET /api/dashboard/recent-orders?limit=3
func RecentOrdersHandler(r *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 3)
		if limit <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		return c.JSON(r.RecentOrders(limit))
	}
}

// GET /api/dashboard/sales-chart?period=daily&count=7
func SalesChartHandler(r *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		chart, err := r.SalesChart(c.Query("period", PeriodDaily), c.QueryInt("count", 0))
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.JSON(chart)
	}
}
