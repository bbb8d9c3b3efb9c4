package models

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              int         `json:"id"`
	CustomerID      int         `json:"customerId"`
	AgentID         int         `json:"agentId"`
	Date            Date        `json:"date"`
	Status          OrderStatus `json:"status"`
	Items           []LineItem  `json:"items"`
	Signature       *string     `json:"signature"`
	ShippingCarrier *string     `json:"shippingCarrier"`
	TrackingNumber  *string     `json:"trackingNumber"`
}

type InvoiceStatus string

const (
	InvoiceSent InvoiceStatus = "sent"
	InvoicePaid InvoiceStatus = "paid"
)

// Invoice total is frozen when the invoice is generated.
type Invoice struct {
	ID            int             `json:"id"`
	OrderID       int             `json:"orderId"`
	CustomerID    int             `json:"customerId"`
	IssueDate     Date            `json:"issueDate"`
	DueDate       Date            `json:"dueDate"`
	Total         decimal.Decimal `json:"total"`
	Status        InvoiceStatus   `json:"status"`
	InvoiceNumber string          `json:"invoiceNumber"`
}

const CreditNoteApplied = "applied"

type CreditNote struct {
	ID               int             `json:"id"`
	OrderID          int             `json:"orderId"`
	CustomerID       int             `json:"customerId"`
	IssueDate        Date            `json:"issueDate"`
	Total            decimal.Decimal `json:"total"`
	Reason           string          `json:"reason"`
	Status           string          `json:"status"`
	ReturnedItems    []LineItem      `json:"returnedItems"`
	CreditNoteNumber string          `json:"creditNoteNumber"`
}
