// Package pricing resolves unit prices and order totals. Nothing here
// mutates the store except AddContract.
package pricing

import (
	"sort"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"
	"distribution-backend/internal/store"

	"github.com/shopspring/decimal"
)

// NoTax is used when no tax rate is flagged as default.
var NoTax = models.TaxRate{Name: "No Tax", Rate: decimal.Zero}

type Resolver struct {
	store *store.Store
}

func NewResolver(s *store.Store) *Resolver {
	return &Resolver{store: s}
}

// PriceFor returns the unit price of product at quantity. An active
// contract for customerID always wins. Otherwise the highest tier whose
// minimum is reached applies, falling back to the lowest tier, then zero.
func (r *Resolver) PriceFor(product *models.Product, quantity decimal.Decimal, customerID *int) decimal.Decimal {
	if product == nil {
		return decimal.Zero
	}
	if customerID != nil {
		if c := r.activeContract(*customerID, product.ID, r.store.Today()); c != nil {
			return c.ContractPrice
		}
	}
	return TierPrice(product.PricingTiers, quantity)
}

// TierPrice applies tier pricing only.
func TierPrice(tiers []models.PricingTier, quantity decimal.Decimal) decimal.Decimal {
	if len(tiers) == 0 {
		return decimal.Zero
	}
	sorted := append([]models.PricingTier(nil), tiers...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinQty.GreaterThan(sorted[j].MinQty) })
	for _, t := range sorted {
		if quantity.GreaterThanOrEqual(t.MinQty) {
			return t.Price
		}
	}
	return sorted[len(sorted)-1].Price
}

func (r *Resolver) activeContract(customerID, productID int, day models.Date) *models.CustomerContract {
	for _, c := range r.store.CustomerContracts.All() {
		if c.CustomerID == customerID && c.ProductID == productID && c.ActiveOn(day) {
			return c
		}
	}
	return nil
}

type Line struct {
	ProductID int             `json:"productId"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type Totals struct {
	Lines     []Line          `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
	TaxRate   models.TaxRate  `json:"taxRate"`
}

// OrderTotals recomputes the totals from current prices and the current
// default tax rate. Lines for unknown products are skipped.
func (r *Resolver) OrderTotals(order *models.Order) Totals {
	rate := NoTax
	if def := r.store.DefaultTaxRate(); def != nil {
		rate = *def
	}

	totals := Totals{Lines: make([]Line, 0), Subtotal: decimal.Zero, TaxRate: rate}
	if order == nil {
		totals.TaxAmount = decimal.Zero
		totals.Total = decimal.Zero
		return totals
	}

	customerID := order.CustomerID
	for _, item := range order.Items {
		product, ok := r.store.Products.Get(item.ProductID)
		if !ok {
			continue
		}
		price := r.PriceFor(product, item.Quantity, &customerID)
		line := price.Mul(item.Quantity)
		totals.Lines = append(totals.Lines, Line{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: price,
			LineTotal: line,
		})
		totals.Subtotal = totals.Subtotal.Add(line)
	}
	totals.TaxAmount = totals.Subtotal.Mul(rate.Rate).Round(2)
	totals.Total = totals.Subtotal.Add(totals.TaxAmount)
	return totals
}

// CheckContract validates a contract against the others on file. The
// contract's own id is ignored so it also serves updates.
func (r *Resolver) CheckContract(c *models.CustomerContract) error {
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return apperror.Validation("contract start and end dates are required")
	}
	if c.EndDate.Before(c.StartDate) {
		return apperror.Validation("contract ends (%s) before it starts (%s)", c.EndDate, c.StartDate)
	}
	if c.ContractPrice.IsNegative() {
		return apperror.Validation("contract price must not be negative")
	}
	if _, err := r.store.Customers.Find(c.CustomerID); err != nil {
		return err
	}
	if _, err := r.store.Products.Find(c.ProductID); err != nil {
		return err
	}
	for _, other := range r.store.CustomerContracts.All() {
		if other.ID == c.ID || other.CustomerID != c.CustomerID || other.ProductID != c.ProductID {
			continue
		}
		if !c.StartDate.After(other.EndDate) && !other.StartDate.After(c.EndDate) {
			return apperror.Precondition("contract overlaps contract #%d (%s to %s) for the same customer and product",
				other.ID, other.StartDate, other.EndDate)
		}
	}
	return nil
}

// AddContract stores c after CheckContract accepts it.
func (r *Resolver) AddContract(c models.CustomerContract) (*models.CustomerContract, error) {
	c.ID = 0
	if err := r.CheckContract(&c); err != nil {
		return nil, err
	}
	return r.store.CustomerContracts.Add(c), nil
}
