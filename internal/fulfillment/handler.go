package fulfillment

import (
	"errors"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"
	"distribution-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type CompleteRequest struct {
	Signature *string `json:"signature"`
}

type ShipRequest struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"trackingNumber"`
}

type ReturnRequest struct {
	Reason string            `json:"reason"`
	Items  []models.LineItem `json:"items"`
}

type ConvertQuoteRequest struct {
	AgentID int `json:"agentId"`
}

func paramID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// decodeOptional accepts an empty body as the zero request.
func decodeOptional(c *fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return apperror.ToFiber(store.DecodeStrict(c.Body(), v))
}

// POST /api/orders/:id/complete
func CompleteOrderHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		var req CompleteRequest
		if err := decodeOptional(c, &req); err != nil {
			return err
		}

		order, err := e.Complete(c.UserContext(), id, req.Signature)
		if err != nil {
			var short *ShortageError
			if errors.As(err, &short) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error":     short.Error(),
					"shortages": short.Lines,
				})
			}
			return apperror.ToFiber(err)
		}
		return c.JSON(order)
	}
}

// POST /api/orders/:id/ship
func ShipOrderHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		var req ShipRequest
		if err := decodeOptional(c, &req); err != nil {
			return err
		}
		order, err := e.Ship(c.UserContext(), id, req.Carrier, req.TrackingNumber)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.JSON(order)
	}
}

// POST /api/orders/:id/deliver
func DeliverOrderHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		order, err := e.Deliver(c.UserContext(), id)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.JSON(order)
	}
}

// POST /api/orders/:id/cancel
func CancelOrderHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		order, err := e.Cancel(c.UserContext(), id)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.JSON(order)
	}
}

// POST /api/orders/:id/returns
func ReturnHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		var req ReturnRequest
		if err := store.DecodeStrict(c.Body(), &req); err != nil {
			return apperror.ToFiber(err)
		}
		note, err := e.CreateCreditNoteForReturn(c.UserContext(), id, req.Reason, req.Items)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(note)
	}
}

// POST /api/orders/:id/invoice
func GenerateInvoiceHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		invoice, err := e.GenerateInvoice(c.UserContext(), id)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(invoice)
	}
}

// POST /api/invoices/:id/pay
func MarkInvoicePaidHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		invoice, err := e.MarkInvoicePaid(c.UserContext(), id)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.JSON(invoice)
	}
}

// POST /api/leads/:id/convert
func ConvertLeadHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		customer, err := e.ConvertLeadToCustomer(c.UserContext(), id)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(customer)
	}
}

// POST /api/quotes/:id/convert
func ConvertQuoteHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		var req ConvertQuoteRequest
		if err := decodeOptional(c, &req); err != nil {
			return err
		}
		order, err := e.CreateOrderFromQuote(c.UserContext(), id, req.AgentID)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(order)
	}
}
