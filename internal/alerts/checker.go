// Package alerts sweeps the store for conditions someone should act on and
// raises one notification per condition until it has been read.
package alerts

import (
	"context"
	"fmt"
	"time"

	"distribution-backend/internal/inventory"
	"distribution-backend/internal/models"
	"distribution-backend/internal/notify"
	"distribution-backend/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Thresholds struct {
	LowStock          decimal.Decimal
	ExpiryWarningDays int
	PendingOrderDays  int
}

type Checker struct {
	store  *store.Store
	center *notify.Center
	sink   notify.Sink
	th     Thresholds
	log    *zap.Logger
}

// NewChecker raises alerts through sink and uses center to skip conditions
// that already have an unread notification.
func NewChecker(s *store.Store, center *notify.Center, sink notify.Sink, th Thresholds, log *zap.Logger) *Checker {
	return &Checker{store: s, center: center, sink: notify.OrNop(sink), th: th, log: log.Named("alerts")}
}

// Check runs every sweep once and saves when anything was raised. The
// caller holds the store lock.
func (c *Checker) Check(ctx context.Context) (int, error) {
	raised := c.lowStockProducts() + c.lowStockComponents() + c.expiringBatches() + c.overdueInvoices() + c.pendingOrders()
	if raised == 0 {
		return 0, nil
	}
	if err := c.store.Save(ctx); err != nil {
		return raised, err
	}
	return raised, nil
}

func (c *Checker) raise(severity models.Severity, message string, details models.NotificationDetails) int {
	if c.center != nil && c.center.HasUnread(details) {
		return 0
	}
	c.sink.Notify(severity, message, details)
	return 1
}

func (c *Checker) isLow(stock decimal.Decimal) bool {
	return stock.IsPositive() && stock.LessThanOrEqual(c.th.LowStock)
}

func (c *Checker) lowStockProducts() int {
	n := 0
	for _, p := range c.store.Products.All() {
		stock := inventory.TotalStock(p.StockBatches)
		if !c.isLow(stock) {
			continue
		}
		n += c.raise(models.SeverityWarning,
			fmt.Sprintf("Product %q is low in stock! (%s units left)", p.Name, stock),
			models.NotificationDetails{Type: "product_low_stock", ProductID: p.ID})
	}
	return n
}

func (c *Checker) lowStockComponents() int {
	n := 0
	for _, comp := range c.store.Components.All() {
		stock := inventory.TotalStock(comp.StockBatches)
		if !c.isLow(stock) {
			continue
		}
		n += c.raise(models.SeverityWarning,
			fmt.Sprintf("Component %q is low in stock! (%s units left)", comp.Name, stock),
			models.NotificationDetails{Type: "component_low_stock", ComponentID: comp.ID})
	}
	return n
}

func (c *Checker) expiringBatches() int {
	today := c.store.Today()
	n := 0
	for _, p := range c.store.Products.All() {
		for _, b := range p.StockBatches {
			if b.ExpiryDate.IsZero() {
				continue
			}
			days := today.DaysUntil(b.ExpiryDate)
			if days <= 0 || days > c.th.ExpiryWarningDays {
				continue
			}
			n += c.raise(models.SeverityWarning,
				fmt.Sprintf("Product %q (Lot: %s) is nearing expiry in %d days!", p.Name, b.LotNumber, days),
				models.NotificationDetails{Type: "product_expiry", ProductID: p.ID, LotNumber: b.LotNumber})
		}
	}
	return n
}

func (c *Checker) overdueInvoices() int {
	today := c.store.Today()
	n := 0
	for _, inv := range c.store.Invoices.All() {
		if inv.Status != models.InvoiceSent || !inv.DueDate.Before(today) {
			continue
		}
		n += c.raise(models.SeverityWarning,
			fmt.Sprintf("Invoice %s for %s is overdue!", inv.InvoiceNumber, c.company(inv.CustomerID)),
			models.NotificationDetails{Type: "invoice_overdue", InvoiceID: inv.ID})
	}
	return n
}

func (c *Checker) pendingOrders() int {
	today := c.store.Today()
	n := 0
	for _, o := range c.store.Orders.All() {
		if o.Status != models.OrderPending || o.Date.IsZero() {
			continue
		}
		days := o.Date.DaysUntil(today)
		if days <= c.th.PendingOrderDays {
			continue
		}
		n += c.raise(models.SeverityInfo,
			fmt.Sprintf("Order #%d for %s is still pending after %d days.", o.ID, c.company(o.CustomerID), days),
			models.NotificationDetails{Type: "order_pending", OrderID: o.ID})
	}
	return n
}

func (c *Checker) company(customerID int) string {
	if cust, ok := c.store.Customers.Get(customerID); ok {
		return cust.Company
	}
	return "N/A"
}

// Run sweeps on every tick until ctx is done. Each sweep takes the store
// lock so it never interleaves with a request.
func (c *Checker) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		c.log.Info("proactive alerts disabled")
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *Checker) sweep(ctx context.Context) {
	c.store.Lock()
	defer c.store.Unlock()

	raised, err := c.Check(ctx)
	if err != nil {
		c.log.Error("alert sweep failed", zap.Error(err))
		return
	}
	if raised > 0 {
		c.log.Info("alert sweep raised notifications", zap.Int("count", raised))
	}
}
