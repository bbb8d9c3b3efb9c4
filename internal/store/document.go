package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"
)

// Document is the persisted snapshot.
type Document struct {
	Entities    Entities            `json:"entities"`
	CurrentUser *models.SessionUser `json:"currentUser"`
}

type Entities struct {
	Agents            []models.Agent            `json:"agents"`
	Leads             []models.Lead             `json:"leads"`
	Quotes            []models.Quote            `json:"quotes"`
	Customers         []models.Customer         `json:"customers"`
	CustomerContracts []models.CustomerContract `json:"customerContracts"`
	Suppliers         []models.Supplier         `json:"suppliers"`
	Components        []models.Component        `json:"components"`
	Products          []models.Product          `json:"inventory"`
	Orders            []models.Order            `json:"orders"`
	Invoices          []models.Invoice          `json:"invoices"`
	CreditNotes       []models.CreditNote       `json:"creditNotes"`
	PurchaseOrders    []models.PurchaseOrder    `json:"purchaseOrders"`
	ProductionOrders  []models.ProductionOrder  `json:"productionOrders"`
	Events            []models.Event            `json:"events"`
	Notifications     []models.Notification     `json:"notifications"`
	TaxRates          []models.TaxRate          `json:"taxRates"`
	Users             []models.User             `json:"users"`
	Currencies        []models.Currency         `json:"currencies"`
}

func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := DecodeStrict(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// DecodeStrict decodes one JSON value into v and rejects unknown fields.
func DecodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation("empty JSON body")
		}
		return &apperror.Error{Kind: apperror.KindValidation, Message: "invalid JSON", Err: err}
	}
	if dec.More() {
		return apperror.Validation("invalid JSON: trailing data")
	}
	return nil
}
