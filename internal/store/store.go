package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"distribution-backend/internal/audit"
	"distribution-backend/internal/models"

	"go.uber.org/zap"
)

// Store owns every entity collection and the audit trail. It is not safe
// for concurrent use; callers hold Lock for the length of one operation.
type Store struct {
	mu          sync.Mutex
	slot        Slot
	trail       *audit.Trail
	log         *zap.Logger
	now         func() time.Time
	currentUser *models.SessionUser

	Agents            *Collection[models.Agent, *models.Agent]
	Leads             *Collection[models.Lead, *models.Lead]
	Quotes            *Collection[models.Quote, *models.Quote]
	Customers         *Collection[models.Customer, *models.Customer]
	CustomerContracts *Collection[models.CustomerContract, *models.CustomerContract]
	Suppliers         *Collection[models.Supplier, *models.Supplier]
	Components        *Collection[models.Component, *models.Component]
	Products          *Collection[models.Product, *models.Product]
	Orders            *Collection[models.Order, *models.Order]
	Invoices          *Collection[models.Invoice, *models.Invoice]
	CreditNotes       *Collection[models.CreditNote, *models.CreditNote]
	PurchaseOrders    *Collection[models.PurchaseOrder, *models.PurchaseOrder]
	ProductionOrders  *Collection[models.ProductionOrder, *models.ProductionOrder]
	Notifications     *Collection[models.Notification, *models.Notification]
	TaxRates          *Collection[models.TaxRate, *models.TaxRate]
	Users             *Collection[models.User, *models.User]
	Currencies        *CurrencyCollection
}

func New(slot Slot, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		slot:  slot,
		log:   logger,
		now:   time.Now,
		trail: audit.NewTrail(nil),
	}
	s.Agents = newCollection[models.Agent](s, "agent")
	s.Leads = newCollection[models.Lead](s, "lead")
	s.Quotes = newCollection[models.Quote](s, "quote")
	s.Customers = newCollection[models.Customer](s, "customer")
	s.CustomerContracts = newCollection[models.CustomerContract](s, "customer contract")
	s.Suppliers = newCollection[models.Supplier](s, "supplier")
	s.Components = newCollection[models.Component](s, "component")
	s.Products = newCollection[models.Product](s, "product")
	s.Orders = newCollection[models.Order](s, "order")
	s.Invoices = newCollection[models.Invoice](s, "invoice")
	s.CreditNotes = newCollection[models.CreditNote](s, "credit note")
	s.PurchaseOrders = newCollection[models.PurchaseOrder](s, "purchase order")
	s.ProductionOrders = newCollection[models.ProductionOrder](s, "production order")
	s.Notifications = newCollection[models.Notification](s, "notification")
	s.TaxRates = newCollection[models.TaxRate](s, "tax rate")
	s.Users = newCollection[models.User](s, "user")
	s.Currencies = &CurrencyCollection{owner: s}
	return s
}

// Open builds a store from whatever the slot holds. An empty slot yields
// an empty store.
func Open(ctx context.Context, slot Slot, logger *zap.Logger) (*Store, error) {
	s := New(slot, logger)

	data, err := slot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if data == nil {
		s.log.Info("snapshot slot is empty, starting with an empty store")
		return s, nil
	}

	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	s.Restore(doc)
	s.log.Info("snapshot loaded",
		zap.Int("products", s.Products.Len()),
		zap.Int("orders", s.Orders.Len()),
		zap.Int("events", s.trail.Len()),
	)
	return s, nil
}

// WithClock replaces the wall clock for the store and its audit trail.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	s.trail.WithClock(now)
	return s
}

func (s *Store) Now() time.Time { return s.now() }

// Today is the current calendar day in the server's local time zone.
func (s *Store) Today() models.Date { return models.DateOf(s.now()) }

func (s *Store) Lock()   { s.mu.Lock() }
func (s *Store) Unlock() { s.mu.Unlock() }

func (s *Store) Trail() *audit.Trail { return s.trail }

func (s *Store) Logger() *zap.Logger { return s.log }

func (s *Store) CurrentUser() *models.SessionUser { return s.currentUser }

func (s *Store) SetCurrentUser(u *models.SessionUser) { s.currentUser = u }

// Record appends a domain event attributed to the current user.
func (s *Store) Record(action, details string, fields map[string]any) models.Event {
	return s.trail.WriteLog(audit.LogOptions{
		User:    s.currentUser.AuditName(),
		Action:  action,
		Details: details,
		Context: fields,
	})
}

// Empty reports whether the store holds no catalog data at all.
func (s *Store) Empty() bool {
	return s.Products.Len() == 0 && s.Components.Len() == 0 && s.Customers.Len() == 0 && s.Users.Len() == 0
}

// Save writes the full snapshot to the slot.
func (s *Store) Save(ctx context.Context) error {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.slot.Save(ctx, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.log.Debug("snapshot saved", zap.Int("bytes", len(data)))
	return nil
}

func (s *Store) Snapshot() Document {
	return Document{
		Entities: Entities{
			Agents:            s.Agents.values(),
			Leads:             s.Leads.values(),
			Quotes:            s.Quotes.values(),
			Customers:         s.Customers.values(),
			CustomerContracts: s.CustomerContracts.values(),
			Suppliers:         s.Suppliers.values(),
			Components:        s.Components.values(),
			Products:          s.Products.values(),
			Orders:            s.Orders.values(),
			Invoices:          s.Invoices.values(),
			CreditNotes:       s.CreditNotes.values(),
			PurchaseOrders:    s.PurchaseOrders.values(),
			ProductionOrders:  s.ProductionOrders.values(),
			Events:            s.trail.Events(),
			Notifications:     s.Notifications.values(),
			TaxRates:          s.TaxRates.values(),
			Users:             s.Users.values(),
			Currencies:        s.Currencies.All(),
		},
		CurrentUser: s.currentUser,
	}
}

// Restore replaces all state with doc. No events are written.
func (s *Store) Restore(doc Document) {
	e := doc.Entities
	s.Agents.load(e.Agents)
	s.Leads.load(e.Leads)
	s.Quotes.load(e.Quotes)
	s.Customers.load(e.Customers)
	s.CustomerContracts.load(e.CustomerContracts)
	s.Suppliers.load(e.Suppliers)
	s.Components.load(e.Components)
	s.Products.load(e.Products)
	s.Orders.load(e.Orders)
	s.Invoices.load(e.Invoices)
	s.CreditNotes.load(e.CreditNotes)
	s.PurchaseOrders.load(e.PurchaseOrders)
	s.ProductionOrders.load(e.ProductionOrders)
	s.Notifications.load(e.Notifications)
	s.TaxRates.load(e.TaxRates)
	s.Users.load(e.Users)
	s.Currencies.items = append([]models.Currency(nil), e.Currencies...)
	s.trail = audit.NewTrail(e.Events).WithClock(s.now)
	s.currentUser = doc.CurrentUser
}

// DefaultTaxRate returns the rate flagged as default, or nil.
func (s *Store) DefaultTaxRate() *models.TaxRate {
	for _, r := range s.TaxRates.All() {
		if r.IsDefault {
			return r
		}
	}
	return nil
}

func actionName(verb, entity string) string {
	return audit.ActionName(verb, strings.TrimSpace(entity))
}
