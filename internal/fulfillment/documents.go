package fulfillment

import (
	"context"
	"fmt"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/inventory"
	"distribution-backend/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// ReturnShelfLifeDays is the fixed expiry of restocked returns.
	ReturnShelfLifeDays = 90
	// PaymentTermDays is the gap between issue and due date of an invoice.
	PaymentTermDays = 30
)

// CreateCreditNoteForReturn credits the returned lines at the unit price the
// original order quantity earned and puts the goods back on stock as
// RETURN-CN-<id> batches. Lines with a non-positive quantity are dropped.
// Returned quantities are not capped at the ordered quantity.
func (e *Engine) CreateCreditNoteForReturn(ctx context.Context, orderID int, reason string, items []models.LineItem) (*models.CreditNote, error) {
	order, err := e.store.Orders.Find(orderID)
	if err != nil {
		e.sink.Notify(models.SeverityError, fmt.Sprintf("Failed to process return: Original order #%d not found.", orderID),
			models.NotificationDetails{Type: "order_not_found", OrderID: orderID})
		return nil, err
	}

	returned := make([]models.LineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity.IsPositive() {
			returned = append(returned, item)
		}
	}
	if len(returned) == 0 {
		return nil, apperror.Validation("no returned items with a positive quantity")
	}

	total := decimal.Zero
	for _, item := range returned {
		product, ok := e.store.Products.Get(item.ProductID)
		if !ok {
			continue
		}
		ordered, ok := orderedQuantity(order, item.ProductID)
		if !ok {
			continue
		}
		total = total.Add(e.pricing.PriceFor(product, ordered, nil).Mul(item.Quantity))
	}

	today := e.store.Today()
	number := documentNumber("CN", today.Year(), e.store.CreditNotes.Len()+1)
	note := e.store.CreditNotes.AddAs(models.CreditNote{
		OrderID:          order.ID,
		CustomerID:       order.CustomerID,
		IssueDate:        today,
		Total:            total,
		Reason:           reason,
		Status:           models.CreditNoteApplied,
		ReturnedItems:    returned,
		CreditNoteNumber: number,
	}, "CREDIT_NOTE_CREATED", fmt.Sprintf("Created credit note %s for order #%d", number, order.ID),
		map[string]any{"orderId": order.ID, "customerId": order.CustomerID})

	lot := fmt.Sprintf("RETURN-CN-%d", note.ID)
	for _, item := range returned {
		if _, ok := e.store.Products.Get(item.ProductID); !ok {
			e.log.Warn("returned item for unknown product not restocked",
				zap.Int("order_id", orderID), zap.Int("product_id", item.ProductID))
			continue
		}
		if _, err := e.store.Products.Update(item.ProductID, func(p *models.Product) error {
			p.StockBatches = inventory.AddBatch(append([]models.ProductBatch(nil), p.StockBatches...), models.ProductBatch{
				LotNumber:  lot,
				Quantity:   item.Quantity,
				ExpiryDate: today.AddDays(ReturnShelfLifeDays),
			})
			return nil
		}); err != nil {
			return nil, err
		}
	}

	if err := e.store.Save(ctx); err != nil {
		return nil, err
	}
	e.sink.Notify(models.SeveritySuccess,
		fmt.Sprintf("Return processed for order #%d. Credit Note %s issued.", order.ID, number),
		models.NotificationDetails{Type: "return_processed", OrderID: order.ID, CreditNoteID: note.ID})
	return note, nil
}

func orderedQuantity(order *models.Order, productID int) (decimal.Decimal, bool) {
	for _, item := range order.Items {
		if item.ProductID == productID {
			return item.Quantity, true
		}
	}
	return decimal.Zero, false
}

// GenerateInvoice issues the single invoice of an order. The total is
// frozen from the order totals at this moment.
func (e *Engine) GenerateInvoice(ctx context.Context, orderID int) (*models.Invoice, error) {
	for _, inv := range e.store.Invoices.All() {
		if inv.OrderID == orderID {
			e.sink.Notify(models.SeverityInfo,
				fmt.Sprintf("Invoice for Order #%d already exists (%s).", orderID, inv.InvoiceNumber),
				models.NotificationDetails{Type: "invoice_exists", OrderID: orderID, InvoiceID: inv.ID})
			return nil, apperror.Precondition("order #%d already has invoice %s", orderID, inv.InvoiceNumber)
		}
	}

	order, err := e.store.Orders.Find(orderID)
	if err != nil {
		e.sink.Notify(models.SeverityError, fmt.Sprintf("Failed to generate invoice: Original order #%d not found.", orderID),
			models.NotificationDetails{Type: "order_not_found", OrderID: orderID})
		return nil, err
	}
	if order.Status == models.OrderCancelled {
		return nil, apperror.Precondition("order #%d is cancelled", orderID)
	}

	today := e.store.Today()
	number := documentNumber("INV", today.Year(), e.store.Invoices.Len()+1)
	invoice := e.store.Invoices.AddAs(models.Invoice{
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		IssueDate:     today,
		DueDate:       today.AddDays(PaymentTermDays),
		Total:         e.pricing.OrderTotals(order).Total,
		Status:        models.InvoiceSent,
		InvoiceNumber: number,
	}, "INVOICE_GENERATED", fmt.Sprintf("Generated invoice %s for Order #%d", number, orderID),
		map[string]any{"customerId": order.CustomerID, "orderId": orderID})

	if err := e.store.Save(ctx); err != nil {
		return nil, err
	}
	e.sink.Notify(models.SeveritySuccess, fmt.Sprintf("Invoice %s generated for Order #%d.", number, orderID),
		models.NotificationDetails{Type: "invoice_generated", OrderID: orderID, InvoiceID: invoice.ID})
	return invoice, nil
}

// MarkInvoicePaid moves an invoice from sent to paid. It succeeds once.
func (e *Engine) MarkInvoicePaid(ctx context.Context, invoiceID int) (*models.Invoice, error) {
	invoice, err := e.store.Invoices.Find(invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == models.InvoicePaid {
		return nil, apperror.Precondition("invoice %s is already paid", invoice.InvoiceNumber)
	}

	updated, err := e.store.Invoices.Update(invoiceID, func(inv *models.Invoice) error {
		inv.Status = models.InvoicePaid
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.store.Record("INVOICE_PAID", fmt.Sprintf("Marked invoice #%s as paid.", updated.InvoiceNumber),
		map[string]any{"customerId": updated.CustomerID, "orderId": updated.OrderID, "invoiceId": updated.ID})

	if err := e.store.Save(ctx); err != nil {
		return nil, err
	}
	e.sink.Notify(models.SeverityInfo, fmt.Sprintf("Invoice %s has been marked as paid.", updated.InvoiceNumber),
		models.NotificationDetails{Type: "invoice_paid", InvoiceID: updated.ID})
	return updated, nil
}
