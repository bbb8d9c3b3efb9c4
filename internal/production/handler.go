package production

import (
	"distribution-backend/internal/apperror"
	"distribution-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProduceRequest struct {
	ProductID int             `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// POST /api/production-orders
func ProduceHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ProduceRequest
		if err := store.DecodeStrict(c.Body(), &req); err != nil {
			return apperror.ToFiber(err)
		}
		order, err := e.Produce(c.UserContext(), req.ProductID, req.Quantity)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(order)
	}
}

// GET /api/traceability/:lot
func TraceHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := e.Trace(c.Params("lot"))
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.JSON(report)
	}
}
