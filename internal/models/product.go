package models

import "github.com/shopspring/decimal"

type PricingTier struct {
	MinQty decimal.Decimal `json:"minQty"`
	Price  decimal.Decimal `json:"price"`
}

// BOMLine quantity is per produced unit.
type BOMLine struct {
	ComponentID int             `json:"componentId"`
	Quantity    decimal.Decimal `json:"quantity"`
}

type ProductBatch struct {
	LotNumber  string          `json:"lotNumber"`
	Quantity   decimal.Decimal `json:"quantity"`
	ExpiryDate Date            `json:"expiryDate"`
}

// Product is a finished good. The collection is called "inventory" in the snapshot.
type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Cost          decimal.Decimal `json:"cost"`
	PricingTiers  []PricingTier   `json:"pricingTiers"`
	BOM           []BOMLine       `json:"bom,omitempty"`
	ShelfLifeDays int             `json:"shelfLifeDays,omitempty"`
	StockBatches  []ProductBatch  `json:"stockBatches"`
}

type ComponentBatch struct {
	SupplierLotNumber string          `json:"supplierLotNumber"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReceivedDate      Date            `json:"receivedDate"`
}

// Component is a raw material consumed by production.
type Component struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	Cost         decimal.Decimal  `json:"cost"`
	StockBatches []ComponentBatch `json:"stockBatches"`
}
