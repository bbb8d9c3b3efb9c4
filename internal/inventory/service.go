package inventory

import (
	"context"
	"fmt"
	"sort"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"
	"distribution-backend/internal/notify"
	"distribution-backend/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service exposes stock queries and purchase-order receiving. Methods
// expect the caller to hold the store lock.
type Service struct {
	store *store.Store
	sink  notify.Sink
	log   *zap.Logger
}

func NewService(s *store.Store, sink notify.Sink, log *zap.Logger) *Service {
	return &Service{store: s, sink: notify.OrNop(sink), log: log.Named("inventory")}
}

func (s *Service) ProductStock(productID int) (decimal.Decimal, error) {
	p, err := s.store.Products.Find(productID)
	if err != nil {
		return decimal.Zero, err
	}
	return TotalStock(p.StockBatches), nil
}

func (s *Service) ComponentStock(componentID int) (decimal.Decimal, error) {
	c, err := s.store.Components.Find(componentID)
	if err != nil {
		return decimal.Zero, err
	}
	return TotalStock(c.StockBatches), nil
}

type ReceivedItem struct {
	ComponentID       int             `json:"componentId"`
	Quantity          decimal.Decimal `json:"quantity"`
	SupplierLotNumber string          `json:"supplierLotNumber"`
}

// ReceivePurchaseOrder books the received component lots as new batches
// dated today and marks the purchase order fulfilled. Items naming an
// unknown component are skipped.
func (s *Service) ReceivePurchaseOrder(ctx context.Context, poID int, items []ReceivedItem) (*models.PurchaseOrder, error) {
	po, ok := s.store.PurchaseOrders.Get(poID)
	if !ok {
		s.sink.Notify(models.SeverityError, fmt.Sprintf("Failed to receive stock: P.O. #%d not found.", poID),
			models.NotificationDetails{Type: "po_not_found", PurchaseOrderID: poID})
		return nil, apperror.NotFound("purchase order #%d not found", poID)
	}
	if po.Status == models.PurchaseOrderFulfilled {
		s.sink.Notify(models.SeverityError, fmt.Sprintf("Failed to receive stock: P.O. #%s has already been fulfilled.", po.PONumber),
			models.NotificationDetails{Type: "po_already_fulfilled", PurchaseOrderID: poID})
		return nil, apperror.Precondition("purchase order %s has already been fulfilled", po.PONumber)
	}
	if len(items) == 0 {
		return nil, apperror.Validation("no received items given")
	}
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			return nil, apperror.Validation("received quantity for component #%d must be positive", item.ComponentID)
		}
		if item.SupplierLotNumber == "" {
			return nil, apperror.Validation("supplier lot number for component #%d is required", item.ComponentID)
		}
	}

	today := s.store.Today()
	lots := make(map[int][]string, len(items))
	for _, item := range items {
		_, err := s.store.Components.Update(item.ComponentID, func(c *models.Component) error {
			c.StockBatches = AddBatch(append([]models.ComponentBatch(nil), c.StockBatches...), models.ComponentBatch{
				SupplierLotNumber: item.SupplierLotNumber,
				Quantity:          item.Quantity,
				ReceivedDate:      today,
			})
			return nil
		})
		if err != nil {
			s.log.Warn("received item for unknown component skipped",
				zap.Int("po_id", poID), zap.Int("component_id", item.ComponentID))
			continue
		}
		lots[item.ComponentID] = append(lots[item.ComponentID], item.SupplierLotNumber)
	}

	updated, err := s.store.PurchaseOrders.Update(poID, func(po *models.PurchaseOrder) error {
		poItems := append([]models.PurchaseOrderItem(nil), po.Items...)
		for i := range poItems {
			if received, ok := lots[poItems[i].ComponentID]; ok {
				first := received[0]
				poItems[i].SupplierLotNumber = &first
				poItems[i].ReceivedLots = received
			}
		}
		po.Items = poItems
		po.Status = models.PurchaseOrderFulfilled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.store.Record("PO_STOCK_RECEIVED", fmt.Sprintf("Received stock for P.O. #%s", updated.PONumber), map[string]any{"poId": poID})
	if err := s.store.Save(ctx); err != nil {
		return nil, err
	}
	s.sink.Notify(models.SeveritySuccess, fmt.Sprintf("Stock received for Purchase Order #%s.", updated.PONumber),
		models.NotificationDetails{Type: "po_stock_received", PurchaseOrderID: poID})
	return updated, nil
}

type ExpiringBatch struct {
	ProductID   int             `json:"productId"`
	ProductName string          `json:"productName"`
	LotNumber   string          `json:"lotNumber"`
	Quantity    decimal.Decimal `json:"quantity"`
	ExpiryDate  models.Date     `json:"expiryDate"`
	DaysLeft    int             `json:"daysLeft"`
}

// NearingExpiry lists finished-goods batches expiring between today and
// today+days inclusive, soonest first.
func (s *Service) NearingExpiry(days int) []ExpiringBatch {
	today := s.store.Today()
	limit := today.AddDays(days)

	out := make([]ExpiringBatch, 0)
	for _, p := range s.store.Products.All() {
		for _, b := range p.StockBatches {
			if b.ExpiryDate.IsZero() || b.ExpiryDate.Before(today) || b.ExpiryDate.After(limit) {
				continue
			}
			out = append(out, ExpiringBatch{
				ProductID:   p.ID,
				ProductName: p.Name,
				LotNumber:   b.LotNumber,
				Quantity:    b.Quantity,
				ExpiryDate:  b.ExpiryDate,
				DaysLeft:    today.DaysUntil(b.ExpiryDate),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out
}

type StockLevel struct {
	Kind    string          `json:"kind"`
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Stock   decimal.Decimal `json:"stock"`
	Batches int             `json:"batches"`
}

const (
	KindProduct   = "product"
	KindComponent = "component"
)

// LowStockComponents lists components with 0 < stock < threshold.
func (s *Service) LowStockComponents(threshold decimal.Decimal) []StockLevel {
	out := make([]StockLevel, 0)
	for _, c := range s.store.Components.All() {
		stock := TotalStock(c.StockBatches)
		if stock.IsPositive() && stock.LessThan(threshold) {
			out = append(out, StockLevel{Kind: KindComponent, ID: c.ID, Name: c.Name, Stock: stock, Batches: len(c.StockBatches)})
		}
	}
	return out
}

// Summary returns the on-hand stock of every product and component.
func (s *Service) Summary() []StockLevel {
	out := make([]StockLevel, 0, s.store.Products.Len()+s.store.Components.Len())
	for _, p := range s.store.Products.All() {
		out = append(out, StockLevel{Kind: KindProduct, ID: p.ID, Name: p.Name, Stock: TotalStock(p.StockBatches), Batches: len(p.StockBatches)})
	}
	for _, c := range s.store.Components.All() {
		out = append(out, StockLevel{Kind: KindComponent, ID: c.ID, Name: c.Name, Stock: TotalStock(c.StockBatches), Batches: len(c.StockBatches)})
	}
	return out
}
