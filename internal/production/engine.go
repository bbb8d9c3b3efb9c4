// Package production turns components into finished-goods lots and keeps
// the lot genealogy needed for traceability.
package production

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/inventory"
	"distribution-backend/internal/models"
	"distribution-backend/internal/notify"
	"distribution-backend/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultShelfLifeDays applies to products without a shelf life.
const DefaultShelfLifeDays = 90

var ErrNoBillOfMaterials = &apperror.Error{Kind: apperror.KindPrecondition, Message: "product has no bill of materials"}

type InsufficientComponentStockError struct {
	ComponentID   int
	ComponentName string
	Required      decimal.Decimal
	Available     decimal.Decimal
}

func (e *InsufficientComponentStockError) Error() string {
	return fmt.Sprintf("insufficient stock of component #%d (%s): required %s, available %s",
		e.ComponentID, e.ComponentName, e.Required, e.Available)
}

func (e *InsufficientComponentStockError) Kind() apperror.Kind { return apperror.KindPrecondition }

type Engine struct {
	store *store.Store
	sink  notify.Sink
	log   *zap.Logger
}

func NewEngine(s *store.Store, sink notify.Sink, log *zap.Logger) *Engine {
	return &Engine{store: s, sink: notify.OrNop(sink), log: log.Named("production")}
}

// Produce consumes the bill of materials for qty units, FIFO by received
// date, and books a new finished-goods lot. Every component is checked
// before any stock moves, so a failure leaves the store untouched.
func (e *Engine) Produce(ctx context.Context, productID int, qty decimal.Decimal) (*models.ProductionOrder, error) {
	if !qty.IsPositive() {
		return nil, apperror.Validation("quantity to produce must be positive")
	}

	product, err := e.store.Products.Find(productID)
	if err != nil {
		e.sink.Notify(models.SeverityError, "Failed to produce \"Unknown Product\": product not found.",
			models.NotificationDetails{Type: "production_failed", ProductID: productID})
		return nil, err
	}
	if len(product.BOM) == 0 {
		e.sink.Notify(models.SeverityError, fmt.Sprintf("Failed to produce %q: No Bill of Materials defined.", product.Name),
			models.NotificationDetails{Type: "production_failed", ProductID: productID})
		return nil, fmt.Errorf("produce %s: %w", product.Name, ErrNoBillOfMaterials)
	}

	if err := e.checkComponents(product, qty); err != nil {
		msg := fmt.Sprintf("Failed to produce %q: %v.", product.Name, err)
		var componentID int
		var short *InsufficientComponentStockError
		if errors.As(err, &short) {
			componentID = short.ComponentID
			msg = fmt.Sprintf("Failed to produce %q: Insufficient stock of %q.", product.Name, short.ComponentName)
		}
		e.sink.Notify(models.SeverityError, msg,
			models.NotificationDetails{Type: "production_failed", ProductID: productID, ComponentID: componentID})
		return nil, err
	}

	var used []models.ComponentUsage
	for _, line := range product.BOM {
		required := line.Quantity.Mul(qty)
		_, err := e.store.Components.Update(line.ComponentID, func(c *models.Component) error {
			var draws []inventory.Draw
			c.StockBatches, draws = inventory.Deduct(c.StockBatches, required, inventory.FIFO)
			for _, d := range draws {
				used = append(used, models.ComponentUsage{
					ComponentID:       c.ID,
					QuantityUsed:      d.Quantity,
					SupplierLotNumber: d.Lot,
				})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	today := e.store.Today()
	id := e.store.ProductionOrders.NextID()
	lot := LotNumber(today, id)
	shelfLife := product.ShelfLifeDays
	if shelfLife <= 0 {
		shelfLife = DefaultShelfLifeDays
	}

	if _, err := e.store.Products.Update(productID, func(p *models.Product) error {
		p.StockBatches = inventory.AddBatch(append([]models.ProductBatch(nil), p.StockBatches...), models.ProductBatch{
			LotNumber:  lot,
			Quantity:   qty,
			ExpiryDate: today.AddDays(shelfLife),
		})
		return nil
	}); err != nil {
		return nil, err
	}

	order := e.store.ProductionOrders.AddAs(models.ProductionOrder{
		ProductID:        productID,
		LotNumber:        lot,
		QuantityProduced: qty,
		Date:             today,
		ComponentsUsed:   used,
	}, "PRODUCTION_ORDER_EXECUTED", fmt.Sprintf("Produced %s of %s (Lot: %s)", qty, product.Name, lot),
		map[string]any{"productId": productID, "lotNumber": lot})

	if err := e.store.Save(ctx); err != nil {
		return nil, err
	}

	e.log.Info("production order executed",
		zap.Int("product_id", productID), zap.String("lot", lot), zap.String("quantity", qty.String()),
		zap.Int("draws", len(used)))
	e.sink.Notify(models.SeveritySuccess, fmt.Sprintf("%s units of %q (Lot: %s) produced.", qty, product.Name, lot),
		models.NotificationDetails{Type: "production_complete", ProductID: productID, LotNumber: lot})
	return order, nil
}

// checkComponents verifies the whole bill of materials before anything is
// deducted. A component named twice is checked against its combined need
// and a missing component counts as a shortage.
func (e *Engine) checkComponents(product *models.Product, qty decimal.Decimal) error {
	if err := ValidateBOM(product.BOM); err != nil {
		return err
	}
	required := make(map[int]decimal.Decimal, len(product.BOM))
	var ids []int
	for _, line := range product.BOM {
		if _, seen := required[line.ComponentID]; !seen {
			ids = append(ids, line.ComponentID)
			required[line.ComponentID] = decimal.Zero
		}
		required[line.ComponentID] = required[line.ComponentID].Add(line.Quantity.Mul(qty))
	}

	for _, id := range ids {
		c, ok := e.store.Components.Get(id)
		if !ok {
			return &InsufficientComponentStockError{
				ComponentID:   id,
				ComponentName: "Unknown Component",
				Required:      required[id],
				Available:     decimal.Zero,
			}
		}
		available := inventory.TotalStock(c.StockBatches)
		name := c.Name
		if available.LessThan(required[id]) {
			return &InsufficientComponentStockError{
				ComponentID:   id,
				ComponentName: name,
				Required:      required[id],
				Available:     available,
			}
		}
	}
	return nil
}

// ValidateBOM rejects bill of materials lines without a component or with
// a non-positive quantity.
func ValidateBOM(bom []models.BOMLine) error {
	for i, line := range bom {
		if line.ComponentID <= 0 {
			return apperror.Validation("bill of materials line %d has no component", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.Validation("bill of materials line %d for component #%d must have a positive quantity", i+1, line.ComponentID)
		}
	}
	return nil
}

// ValidateProduct is the create/update hook for products.
func ValidateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.Validation("product name is required")
	}
	if p.ShelfLifeDays < 0 {
		return apperror.Validation("shelf life cannot be negative")
	}
	for _, t := range p.PricingTiers {
		if t.MinQty.IsNegative() || t.Price.IsNegative() {
			return apperror.Validation("pricing tiers cannot be negative")
		}
	}
	return ValidateBOM(p.BOM)
}

// LotNumber formats a production lot as LOT-YYYYMMDD-<id>.
func LotNumber(day models.Date, id int) string {
	return fmt.Sprintf("LOT-%s-%d", day.Format("20060102"), id)
}
