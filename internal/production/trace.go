package production

import (
	"strings"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	// Backward goes from a finished lot to the component lots it used.
	Backward Direction = "backward"
	// Forward goes from a supplier lot to the finished lots that used it.
	Forward Direction = "forward"
)

type ComponentTrace struct {
	ComponentID       int             `json:"componentId"`
	ComponentName     string          `json:"componentName"`
	SupplierLotNumber string          `json:"supplierLotNumber"`
	QuantityUsed      decimal.Decimal `json:"quantityUsed"`
}

type ProductTrace struct {
	ProductionOrderID int             `json:"productionOrderId"`
	ProductID         int             `json:"productId"`
	ProductName       string          `json:"productName"`
	ProductLotNumber  string          `json:"productLotNumber"`
	Date              models.Date     `json:"date"`
	QuantityUsed      decimal.Decimal `json:"quantityUsed"`
}

type Report struct {
	Direction   Direction `json:"direction"`
	SearchedLot string    `json:"searchedLot"`

	// backward
	ProductName      string           `json:"productName,omitempty"`
	QuantityProduced *decimal.Decimal `json:"quantityProduced,omitempty"`
	Components       []ComponentTrace `json:"components,omitempty"`

	// forward
	ComponentName       string         `json:"componentName,omitempty"`
	SourcePurchaseOrder string         `json:"sourcePurchaseOrder,omitempty"`
	Products            []ProductTrace `json:"products,omitempty"`
}

// Trace looks lot up as a production lot first, then as a supplier lot.
// Matching ignores case.
func (e *Engine) Trace(lot string) (*Report, error) {
	lot = strings.TrimSpace(lot)
	if lot == "" {
		return nil, apperror.Validation("lot number is required")
	}

	for _, po := range e.store.ProductionOrders.All() {
		if strings.EqualFold(po.LotNumber, lot) {
			return e.backward(lot, po), nil
		}
	}
	if report := e.forward(lot); report != nil {
		return report, nil
	}
	return nil, apperror.NotFound("lot %s not found", lot)
}

func (e *Engine) backward(lot string, po *models.ProductionOrder) *Report {
	qty := po.QuantityProduced
	report := &Report{
		Direction:        Backward,
		SearchedLot:      lot,
		ProductName:      e.productName(po.ProductID),
		QuantityProduced: &qty,
		Components:       make([]ComponentTrace, 0, len(po.ComponentsUsed)),
	}
	for _, u := range po.ComponentsUsed {
		report.Components = append(report.Components, ComponentTrace{
			ComponentID:       u.ComponentID,
			ComponentName:     e.componentName(u.ComponentID),
			SupplierLotNumber: u.SupplierLotNumber,
			QuantityUsed:      u.QuantityUsed,
		})
	}
	return report
}

func (e *Engine) forward(lot string) *Report {
	var products []ProductTrace
	componentName := ""
	for _, po := range e.store.ProductionOrders.All() {
		used := decimal.Zero
		found := false
		for _, u := range po.ComponentsUsed {
			if !strings.EqualFold(u.SupplierLotNumber, lot) {
				continue
			}
			if !found {
				found = true
				if componentName == "" {
					componentName = e.componentName(u.ComponentID)
				}
			}
			used = used.Add(u.QuantityUsed)
		}
		if !found {
			continue
		}
		products = append(products, ProductTrace{
			ProductionOrderID: po.ID,
			ProductID:         po.ProductID,
			ProductName:       e.productName(po.ProductID),
			ProductLotNumber:  po.LotNumber,
			Date:              po.Date,
			QuantityUsed:      used,
		})
	}
	if len(products) == 0 {
		return nil
	}

	source := "N/A"
	for _, po := range e.store.PurchaseOrders.All() {
		for _, item := range po.Items {
			if item.HasLot(lot) {
				source = po.PONumber
			}
		}
	}

	return &Report{
		Direction:           Forward,
		SearchedLot:         lot,
		ComponentName:       componentName,
		SourcePurchaseOrder: source,
		Products:            products,
	}
}

func (e *Engine) productName(id int) string {
	if p, ok := e.store.Products.Get(id); ok {
		return p.Name
	}
	return "Unknown Product"
}

func (e *Engine) componentName(id int) string {
	if c, ok := e.store.Components.Get(id); ok {
		return c.Name
	}
	return "Unknown Component"
}
