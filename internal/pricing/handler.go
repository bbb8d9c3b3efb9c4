package pricing

import (
	"distribution-backend/internal/apperror"
	"distribution-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// GET /api/orders/:id/totals
func OrderTotalsHandler(s *store.Store, r *Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
		}
		order, err := s.Orders.Find(id)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.JSON(r.OrderTotals(order))
	}
}

// GET /api/products/:id/price?quantity=50&customerId=301
func PriceHandler(s *store.Store, r *Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}
		product, err := s.Products.Find(id)
		if err != nil {
			return apperror.ToFiber(err)
		}

		quantity := decimal.NewFromInt(1)
		if raw := c.Query("quantity"); raw != "" {
			if quantity, err = decimal.NewFromString(raw); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "quantity must be a number")
			}
		}

		var customerID *int
		if cid := c.QueryInt("customerId", 0); cid > 0 {
			customerID = &cid
		}

		return c.JSON(fiber.Map{
			"productId": product.ID,
			"quantity":  quantity,
			"unitPrice": r.PriceFor(product, quantity, customerID),
		})
	}
}
