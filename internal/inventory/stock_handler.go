package inventory

import (
	"distribution-backend/internal/apperror"
	"distribution-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ReceiveRequest struct {
	Items []ReceivedItem `json:"items"`
}

// POST /api/purchase-orders/:id/receive
func ReceivePurchaseOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid purchase order id")
		}

		var body ReceiveRequest
		if err := store.DecodeStrict(c.Body(), &body); err != nil {
			return apperror.ToFiber(err)
		}

		po, err := svc.ReceivePurchaseOrder(c.UserContext(), id, body.Items)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.JSON(po)
	}
}

// POST /api/purchase-orders/:id/receive/xlsx (multipart, field "file")
func ImportReceiptHandler(s *store.Store, svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid purchase order id")
		}

		header, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "spreadsheet file is required")
		}
		file, err := header.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not open uploaded file")
		}
		defer file.Close()

		items, skipped, err := ParseReceiptSheet(file, s.Components.All())
		if err != nil {
			return apperror.ToFiber(err)
		}

		po, err := svc.ReceivePurchaseOrder(c.UserContext(), id, items)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return c.JSON(fiber.Map{
			"purchaseOrder": po,
			"imported":      len(items),
			"skipped":       skipped,
		})
	}
}

// GET /api/inventory/expiring?days=30
func NearingExpiryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := c.QueryInt("days", 30)
		if days < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "days must not be negative")
		}
		return c.JSON(svc.NearingExpiry(days))
	}
}

// GET /api/inventory/low-stock-components?threshold=50
func LowStockComponentsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		threshold := decimal.NewFromInt(50)
		if raw := c.Query("threshold"); raw != "" {
			t, err := decimal.NewFromString(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "threshold must be a number")
			}
			threshold = t
		}
		return c.JSON(svc.LowStockComponents(threshold))
	}
}

// GET /api/inventory/summary
func SummaryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Summary())
	}
}
