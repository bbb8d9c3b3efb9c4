package dashboard

import (
	"sort"

	"distribution-backend/internal/inventory"
	"distribution-backend/internal/models"
	"distribution-backend/internal/pricing"
	"distribution-backend/internal/store"

	"github.com/shopspring/decimal"
)

// LowStockLevel is the product stock below which the overview counts a
// product as running low.
var LowStockLevel = decimal.NewFromInt(10)

// Reports computes read-only views over the store. Callers hold the store lock.
type Reports struct {
	store   *store.Store
	pricing *pricing.Resolver
}

func NewReports(s *store.Store, resolver *pricing.Resolver) *Reports {
	return &Reports{store: s, pricing: resolver}
}

// Range is an inclusive date filter; a zero bound is open.
type Range struct {
	From models.Date
	To   models.Date
}

func (r Range) contains(d models.Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// fulfilled reports whether stock already left for the order.
func fulfilled(o *models.Order) bool {
	switch o.Status {
	case models.OrderCompleted, models.OrderShipped, models.OrderDelivered:
		return true
	}
	return false
}

func (r *Reports) fulfilledOrders(rng Range) []*models.Order {
	return r.store.Orders.Filter(func(o *models.Order) bool {
		return fulfilled(o) && rng.contains(o.Date)
	})
}

type SalesSummary struct {
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	TotalProfit     decimal.Decimal `json:"totalProfit"`
	CompletedOrders int             `json:"completedOrders"`
}

// SalesSummary sums net revenue and gross profit (revenue minus product
// cost) over fulfilled orders.
func (r *Reports) SalesSummary(rng Range) SalesSummary {
	orders := r.fulfilledOrders(rng)
	out := SalesSummary{TotalRevenue: decimal.Zero, TotalProfit: decimal.Zero, CompletedOrders: len(orders)}
	for _, o := range orders {
		for _, line := range r.pricing.OrderTotals(o).Lines {
			out.TotalRevenue = out.TotalRevenue.Add(line.LineTotal)
			cost := decimal.Zero
			if p, ok := r.store.Products.Get(line.ProductID); ok {
				cost = p.Cost.Mul(line.Quantity)
			}
			out.TotalProfit = out.TotalProfit.Add(line.LineTotal.Sub(cost))
		}
	}
	return out
}

type Ranked struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

func rank(totals map[int]decimal.Decimal, name func(int) string, limit int) []Ranked {
	out := make([]Ranked, 0, len(totals))
	for id, total := range totals {
		out = append(out, Ranked{ID: id, Name: name(id), TotalRevenue: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// TopProducts ranks products by net line revenue.
func (r *Reports) TopProducts(rng Range, limit int) []Ranked {
	totals := map[int]decimal.Decimal{}
	names := map[int]string{}
	for _, o := range r.fulfilledOrders(rng) {
		for _, line := range r.pricing.OrderTotals(o).Lines {
			totals[line.ProductID] = totals[line.ProductID].Add(line.LineTotal)
			names[line.ProductID] = line.Name
		}
	}
	return rank(totals, func(id int) string { return names[id] }, limit)
}

// TopCustomers ranks customers by gross order total.
func (r *Reports) TopCustomers(rng Range, limit int) []Ranked {
	totals := map[int]decimal.Decimal{}
	for _, o := range r.fulfilledOrders(rng) {
		totals[o.CustomerID] = totals[o.CustomerID].Add(r.pricing.OrderTotals(o).Total)
	}
	return rank(totals, func(id int) string {
		if c, ok := r.store.Customers.Get(id); ok {
			return c.Name
		}
		return "Unknown"
	}, limit)
}

// TopAgents ranks agents by gross order total. Orders without an agent are skipped.
func (r *Reports) TopAgents(rng Range, limit int) []Ranked {
	totals := map[int]decimal.Decimal{}
	for _, o := range r.fulfilledOrders(rng) {
		if o.AgentID == 0 {
			continue
		}
		totals[o.AgentID] = totals[o.AgentID].Add(r.pricing.OrderTotals(o).Total)
	}
	return rank(totals, func(id int) string {
		if a, ok := r.store.Agents.Get(id); ok {
			return a.Name
		}
		return "Unknown"
	}, limit)
}

type Aging struct {
	Current      decimal.Decimal `json:"current"`
	Days31To60   decimal.Decimal `json:"31-60"`
	Days61To90   decimal.Decimal `json:"61-90"`
	Over90       decimal.Decimal `json:"90+"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	OpenInvoices int             `json:"openInvoices"`
}

// ReceivablesAging buckets unpaid invoice totals by days past due. Invoices
// not yet due count as current.
func (r *Reports) ReceivablesAging() Aging {
	out := Aging{Current: decimal.Zero, Days31To60: decimal.Zero, Days61To90: decimal.Zero, Over90: decimal.Zero, Outstanding: decimal.Zero}
	today := r.store.Today()
	for _, inv := range r.store.Invoices.All() {
		if inv.Status != models.InvoiceSent {
			continue
		}
		overdue := inv.DueDate.DaysUntil(today)
		switch {
		case overdue <= 30:
			out.Current = out.Current.Add(inv.Total)
		case overdue <= 60:
			out.Days31To60 = out.Days31To60.Add(inv.Total)
		case overdue <= 90:
			out.Days61To90 = out.Days61To90.Add(inv.Total)
		default:
			out.Over90 = out.Over90.Add(inv.Total)
		}
		out.Outstanding = out.Outstanding.Add(inv.Total)
		out.OpenInvoices++
	}
	return out
}

type InventoryOverview struct {
	TotalProducts int             `json:"totalProducts"`
	ItemsInStock  decimal.Decimal `json:"itemsInStock"`
	LowStock      int             `json:"lowStock"`
	OutOfStock    int             `json:"outOfStock"`
}

func (r *Reports) InventoryOverview() InventoryOverview {
	out := InventoryOverview{ItemsInStock: decimal.Zero}
	for _, p := range r.store.Products.All() {
		out.TotalProducts++
		stock := inventory.TotalStock(p.StockBatches)
		out.ItemsInStock = out.ItemsInStock.Add(stock)
		switch {
		case !stock.IsPositive():
			out.OutOfStock++
		case stock.LessThan(LowStockLevel):
			out.LowStock++
		}
	}
	return out
}

// RecentOrders returns the newest orders by id, any status.
func (r *Reports) RecentOrders(limit int) []*models.Order {
	orders := r.store.Orders.All()
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders
}
