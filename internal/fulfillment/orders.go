package fulfillment

import (
	"context"
	"fmt"
	"strings"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/inventory"
	"distribution-backend/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:   {models.OrderCompleted, models.OrderCancelled},
	models.OrderCompleted: {models.OrderShipped},
	models.OrderShipped:   {models.OrderDelivered},
}

// CanTransition reports whether an order may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to models.OrderStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition is CanTransition as an error.
func CheckTransition(from, to models.OrderStatus) error {
	if !CanTransition(from, to) {
		return apperror.Precondition("order cannot move from %s to %s", from, to)
	}
	return nil
}

// Shortage is one order line that cannot be covered from stock.
type Shortage struct {
	ProductID   int             `json:"productId"`
	ProductName string          `json:"productName"`
	Needed      decimal.Decimal `json:"needed"`
	Available   decimal.Decimal `json:"available"`
}

// ShortageError is returned by Complete when any line is short. No stock
// has moved when it is returned.
type ShortageError struct {
	OrderID int
	Lines   []Shortage
}

func (e *ShortageError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, fmt.Sprintf("%s (needed %s, available %s)", l.ProductName, l.Needed, l.Available))
	}
	return fmt.Sprintf("order #%d cannot be completed, insufficient stock: %s", e.OrderID, strings.Join(parts, "; "))
}

func (e *ShortageError) Kind() apperror.Kind { return apperror.KindPrecondition }

// Complete deducts every line FEFO and marks the order completed. All
// lines are checked first; if any is short nothing is deducted, the order
// stays pending and a ShortageError lists the short lines.
func (e *Engine) Complete(ctx context.Context, orderID int, signature *string) (*models.Order, error) {
	order, err := e.store.Orders.Find(orderID)
	if err != nil {
		return nil, err
	}
	if err := CheckTransition(order.Status, models.OrderCompleted); err != nil {
		return nil, err
	}
	if order.Status == models.OrderCompleted {
		return nil, apperror.Precondition("order #%d is already completed", orderID)
	}

	needed := make(map[int]decimal.Decimal)
	var productIDs []int
	for _, item := range order.Items {
		if !item.Quantity.IsPositive() {
			continue
		}
		if _, seen := needed[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
			needed[item.ProductID] = decimal.Zero
		}
		needed[item.ProductID] = needed[item.ProductID].Add(item.Quantity)
	}

	var short []Shortage
	for _, id := range productIDs {
		name := "Unknown Product"
		available := decimal.Zero
		if p, ok := e.store.Products.Get(id); ok {
			name = p.Name
			available = inventory.TotalStock(p.StockBatches)
		}
		if available.LessThan(needed[id]) {
			short = append(short, Shortage{ProductID: id, ProductName: name, Needed: needed[id], Available: available})
		}
	}

	if len(short) > 0 {
		for _, l := range short {
			e.sink.Notify(models.SeverityWarning,
				fmt.Sprintf("Insufficient stock for order #%d. Product %q is short by %s units.", orderID, l.ProductName, l.Needed.Sub(l.Available)),
				models.NotificationDetails{Type: "order_stock_shortage", OrderID: orderID, ProductID: l.ProductID})
		}
		e.log.Warn("order not completed, stock short", zap.Int("order_id", orderID), zap.Int("short_lines", len(short)))
		if err := e.store.Save(ctx); err != nil {
			return nil, err
		}
		return nil, &ShortageError{OrderID: orderID, Lines: short}
	}

	for _, id := range productIDs {
		if _, err := e.store.Products.Update(id, func(p *models.Product) error {
			p.StockBatches, _ = inventory.Deduct(p.StockBatches, needed[id], inventory.FEFO)
			return nil
		}); err != nil {
			return nil, err
		}
	}

	updated, err := e.store.Orders.Update(orderID, func(o *models.Order) error {
		o.Status = models.OrderCompleted
		if signature != nil {
			o.Signature = signature
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.store.Record("ORDER_COMPLETED", fmt.Sprintf("Completed order #%d and adjusted stock", orderID),
		map[string]any{"orderId": orderID, "customerId": updated.CustomerID})

	if err := e.store.Save(ctx); err != nil {
		return nil, err
	}
	e.sink.Notify(models.SeverityInfo, fmt.Sprintf("Stock adjusted for Order #%d.", orderID),
		models.NotificationDetails{Type: "order_stock_adjusted", OrderID: orderID})
	return updated, nil
}

// Ship moves a completed order to shipped and stores the carrier details.
func (e *Engine) Ship(ctx context.Context, orderID int, carrier, tracking string) (*models.Order, error) {
	return e.move(ctx, orderID, models.OrderShipped, "ORDER_SHIPPED", func(o *models.Order) {
		if carrier != "" {
			o.ShippingCarrier = &carrier
		}
		if tracking != "" {
			o.TrackingNumber = &tracking
		}
	})
}

func (e *Engine) Deliver(ctx context.Context, orderID int) (*models.Order, error) {
	return e.move(ctx, orderID, models.OrderDelivered, "ORDER_DELIVERED", nil)
}

// Cancel is only possible while the order is pending. No stock has been
// taken at that point so nothing is returned.
func (e *Engine) Cancel(ctx context.Context, orderID int) (*models.Order, error) {
	return e.move(ctx, orderID, models.OrderCancelled, "ORDER_CANCELLED", nil)
}

func (e *Engine) move(ctx context.Context, orderID int, to models.OrderStatus, action string, apply func(*models.Order)) (*models.Order, error) {
	order, err := e.store.Orders.Find(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == to {
		return nil, apperror.Precondition("order #%d is already %s", orderID, to)
	}
	if err := CheckTransition(order.Status, to); err != nil {
		return nil, err
	}

	updated, err := e.store.Orders.Update(orderID, func(o *models.Order) error {
		o.Status = to
		if apply != nil {
			apply(o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.store.Record(action, fmt.Sprintf("Order #%d is now %s", orderID, to),
		map[string]any{"orderId": orderID, "customerId": updated.CustomerID})

	if err := e.store.Save(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// GuardOrderUpdate rejects generic order edits that skip the life cycle.
// Completing goes through Complete so stock is adjusted.
func GuardOrderUpdate(before, after *models.Order) error {
	if before.Status == after.Status {
		return nil
	}
	if after.Status == models.OrderCompleted {
		return apperror.Precondition("orders are completed through the complete endpoint")
	}
	return CheckTransition(before.Status, after.Status)
}

// ValidateOrder checks an order body before it is stored.
func ValidateOrder(o *models.Order) error {
	switch o.Status {
	case "":
		o.Status = models.OrderPending
	case models.OrderPending, models.OrderCompleted, models.OrderShipped, models.OrderDelivered, models.OrderCancelled:
	default:
		return apperror.Validation("unknown order status %q", o.Status)
	}
	for _, item := range o.Items {
		if !item.Quantity.IsPositive() {
			return apperror.Validation("quantity for product #%d must be positive", item.ProductID)
		}
	}
	return nil
}

// CreateOrder stores a new order. New orders always start pending and
// default to today's date.
func (e *Engine) CreateOrder(o models.Order) (*models.Order, error) {
	if o.Status != "" && o.Status != models.OrderPending {
		return nil, apperror.Validation("new orders must be pending, got %q", o.Status)
	}
	o.Status = models.OrderPending
	if o.Date.IsZero() {
		o.Date = e.store.Today()
	}
	if _, err := e.store.Customers.Find(o.CustomerID); err != nil {
		return nil, err
	}
	return e.store.Orders.Add(o), nil
}
