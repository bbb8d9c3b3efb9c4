package models

import "github.com/shopspring/decimal"

// Both batch kinds expose the same accessors so one deduction routine
// serves products and components. A missing date is the zero Date.

func (b ProductBatch) Lot() string               { return b.LotNumber }
func (b ProductBatch) Qty() decimal.Decimal      { return b.Quantity }
func (b ProductBatch) Expiry() Date              { return b.ExpiryDate }
func (b ProductBatch) Received() Date            { return Date{} }
func (b *ProductBatch) SetQty(q decimal.Decimal) { b.Quantity = q }

func (b ComponentBatch) Lot() string               { return b.SupplierLotNumber }
func (b ComponentBatch) Qty() decimal.Decimal      { return b.Quantity }
func (b ComponentBatch) Expiry() Date              { return Date{} }
func (b ComponentBatch) Received() Date            { return b.ReceivedDate }
func (b *ComponentBatch) SetQty(q decimal.Decimal) { b.Quantity = q }
