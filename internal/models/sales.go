package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Agent struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone string  `json:"phone"`
	Role  string  `json:"role"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadLost      LeadStatus = "lost"
)

type Lead struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Company string     `json:"company"`
	Email   string     `json:"email"`
	Phone   string     `json:"phone"`
	Status  LeadStatus `json:"status"`
	AgentID int        `json:"agentId"`
}

type QuoteStatus string

const (
	QuoteDraft     QuoteStatus = "draft"
	QuoteSent      QuoteStatus = "sent"
	QuoteAccepted  QuoteStatus = "accepted"
	QuoteRejected  QuoteStatus = "rejected"
	QuoteConverted QuoteStatus = "converted"
)

type LineItem struct {
	ProductID int             `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// Quote targets either a lead or a customer.
type Quote struct {
	ID          int         `json:"id"`
	QuoteNumber string      `json:"quoteNumber"`
	LeadID      *int        `json:"leadId"`
	CustomerID  *int        `json:"customerId"`
	Date        Date        `json:"date"`
	ExpiryDate  Date        `json:"expiryDate"`
	Status      QuoteStatus `json:"status"`
	Items       []LineItem  `json:"items"`
}

type VisitSchedule struct {
	Day       string `json:"day"`
	Frequency string `json:"frequency"`
}

type CustomerNote struct {
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

type Customer struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	Company       string         `json:"company"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	AgentID       int            `json:"agentId"`
	Lat           float64        `json:"lat"`
	Lng           float64        `json:"lng"`
	Notes         []CustomerNote `json:"notes"`
	VisitSchedule VisitSchedule  `json:"visitSchedule"`
}

// CustomerContract overrides tier pricing between StartDate and EndDate inclusive.
type CustomerContract struct {
	ID            int             `json:"id"`
	CustomerID    int             `json:"customerId"`
	ProductID     int             `json:"productId"`
	ContractPrice decimal.Decimal `json:"contractPrice"`
	StartDate     Date            `json:"startDate"`
	EndDate       Date            `json:"endDate"`
}

// ActiveOn reports whether day falls in the contract range.
func (c CustomerContract) ActiveOn(day Date) bool {
	return !day.Before(c.StartDate) && !day.After(c.EndDate)
}
