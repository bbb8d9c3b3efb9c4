package models

import "time"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// NotificationDetails references the entity a notification is about.
// Type is the de-duplication key used by the proactive checks.
type NotificationDetails struct {
	Type            string `json:"type,omitempty"`
	ProductID       int    `json:"productId,omitempty"`
	ComponentID     int    `json:"componentId,omitempty"`
	OrderID         int    `json:"orderId,omitempty"`
	InvoiceID       int    `json:"invoiceId,omitempty"`
	CreditNoteID    int    `json:"creditNoteId,omitempty"`
	PurchaseOrderID int    `json:"poId,omitempty"`
	LotNumber       string `json:"lotNumber,omitempty"`
}

type Notification struct {
	ID        int                 `json:"id"`
	Timestamp time.Time           `json:"timestamp"`
	Type      Severity            `json:"type"`
	Message   string              `json:"message"`
	Details   NotificationDetails `json:"details"`
	Read      bool                `json:"read"`
}
