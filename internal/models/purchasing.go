package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Supplier struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

type PurchaseOrderStatus string

const (
	PurchaseOrderDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderSent      PurchaseOrderStatus = "sent"
	PurchaseOrderFulfilled PurchaseOrderStatus = "fulfilled"
)

// PurchaseOrderItem keeps the first received lot in SupplierLotNumber and
// every lot of the receipt in ReceivedLots.
type PurchaseOrderItem struct {
	ComponentID       int             `json:"componentId"`
	Quantity          decimal.Decimal `json:"quantity"`
	SupplierLotNumber *string         `json:"supplierLotNumber"`
	ReceivedLots      []string        `json:"receivedLots,omitempty"`
}

// HasLot reports whether lot arrived on this item. Lot numbers compare
// case-insensitively.
func (i PurchaseOrderItem) HasLot(lot string) bool {
	if i.SupplierLotNumber != nil && strings.EqualFold(*i.SupplierLotNumber, lot) {
		return true
	}
	for _, l := range i.ReceivedLots {
		if strings.EqualFold(l, lot) {
			return true
		}
	}
	return false
}

type PurchaseOrder struct {
	ID         int                 `json:"id"`
	PONumber   string              `json:"poNumber"`
	SupplierID int                 `json:"supplierId"`
	IssueDate  Date                `json:"issueDate"`
	Status     PurchaseOrderStatus `json:"status"`
	Items      []PurchaseOrderItem `json:"items"`
}
