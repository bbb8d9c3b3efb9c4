package fulfillment

import (
	"context"
	"fmt"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"
)

// New customers converted from leads start here until the agent edits them.
const (
	DefaultCustomerLat = 52.3676
	DefaultCustomerLng = 4.9041
)

var defaultVisitSchedule = models.VisitSchedule{Day: "Monday", Frequency: "weekly"}

// ConvertLeadToCustomer replaces a lead with a customer carrying the same
// contact data.
func (e *Engine) ConvertLeadToCustomer(ctx context.Context, leadID int) (*models.Customer, error) {
	customer, err := e.convertLead(leadID)
	if err != nil {
		return nil, err
	}
	if err := e.store.Save(ctx); err != nil {
		return nil, err
	}
	return customer, nil
}

func (e *Engine) convertLead(leadID int) (*models.Customer, error) {
	lead, err := e.store.Leads.Find(leadID)
	if err != nil {
		e.sink.Notify(models.SeverityError, fmt.Sprintf("Lead #%d not found.", leadID),
			models.NotificationDetails{Type: "lead_not_found"})
		return nil, err
	}
	name := lead.Name

	customer := e.store.Customers.Add(models.Customer{
		Name:          lead.Name,
		Company:       lead.Company,
		Email:         lead.Email,
		Phone:         lead.Phone,
		AgentID:       lead.AgentID,
		Lat:           DefaultCustomerLat,
		Lng:           DefaultCustomerLng,
		Notes:         []models.CustomerNote{},
		VisitSchedule: defaultVisitSchedule,
	})
	e.store.Leads.Delete(leadID)
	e.store.Record("LEAD_CONVERTED", fmt.Sprintf("Converted lead #%d (%s) to customer #%d", leadID, name, customer.ID),
		map[string]any{"leadId": leadID, "customerId": customer.ID})

	e.sink.Notify(models.SeveritySuccess, fmt.Sprintf("Lead %q has been converted to a customer.", name),
		models.NotificationDetails{Type: "lead_converted"})
	return customer, nil
}

// CreateOrderFromQuote turns an accepted quote into a pending order. A
// quote addressed to a lead converts the lead first. agentID 0 assigns the
// customer's own agent.
func (e *Engine) CreateOrderFromQuote(ctx context.Context, quoteID, agentID int) (*models.Order, error) {
	quote, err := e.store.Quotes.Find(quoteID)
	if err != nil {
		e.sink.Notify(models.SeverityError, "Quote not found.", models.NotificationDetails{Type: "quote_not_found"})
		return nil, err
	}
	if quote.Status != models.QuoteAccepted {
		e.sink.Notify(models.SeverityWarning, "Only accepted quotes can be converted to orders.",
			models.NotificationDetails{Type: "quote_not_accepted"})
		return nil, apperror.Precondition("quote %s is %s, only accepted quotes can be converted", quote.QuoteNumber, quote.Status)
	}

	var customerID int
	if quote.CustomerID != nil {
		customerID = *quote.CustomerID
	}
	if quote.LeadID != nil {
		customer, err := e.convertLead(*quote.LeadID)
		if err != nil {
			return nil, apperror.Precondition("quote %s: lead conversion failed: %v", quote.QuoteNumber, err)
		}
		customerID = customer.ID
	}

	customer, ok := e.store.Customers.Get(customerID)
	if !ok {
		e.sink.Notify(models.SeverityError, "No valid customer associated with this quote.",
			models.NotificationDetails{Type: "quote_without_customer"})
		return nil, apperror.Precondition("quote %s has no valid customer", quote.QuoteNumber)
	}
	if agentID == 0 {
		agentID = customer.AgentID
	}

	order := e.store.Orders.Add(models.Order{
		CustomerID: customer.ID,
		AgentID:    agentID,
		Date:       e.store.Today(),
		Status:     models.OrderPending,
		Items:      append([]models.LineItem(nil), quote.Items...),
	})

	if _, err := e.store.Quotes.Update(quoteID, func(q *models.Quote) error {
		q.Status = models.QuoteConverted
		id := customer.ID
		q.CustomerID = &id
		return nil
	}); err != nil {
		return nil, err
	}
	e.store.Record("QUOTE_CONVERTED", fmt.Sprintf("Converted quote #%d to order #%d", quoteID, order.ID),
		map[string]any{"customerId": order.CustomerID, "orderId": order.ID})

	if err := e.store.Save(ctx); err != nil {
		return nil, err
	}
	e.sink.Notify(models.SeveritySuccess, fmt.Sprintf("Quote %q converted to Order #%d.", quote.QuoteNumber, order.ID),
		models.NotificationDetails{Type: "quote_converted", OrderID: order.ID})
	return order, nil
}
