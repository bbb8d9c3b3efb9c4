package models

import "github.com/shopspring/decimal"

// ComponentUsage is one batch-level draw made by a production run.
type ComponentUsage struct {
	ComponentID       int             `json:"componentId"`
	QuantityUsed      decimal.Decimal `json:"quantityUsed"`
	SupplierLotNumber string          `json:"supplierLotNumber"`
}

// ProductionOrder is immutable once written; ComponentsUsed is the lot genealogy.
type ProductionOrder struct {
	ID               int              `json:"id"`
	ProductID        int              `json:"productId"`
	LotNumber        string           `json:"lotNumber"`
	QuantityProduced decimal.Decimal  `json:"quantityProduced"`
	Date             Date             `json:"date"`
	ComponentsUsed   []ComponentUsage `json:"componentsUsed"`
}
