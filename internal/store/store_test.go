package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	now := time.Date(2025, 8, 6, 10, 0, 0, 0, time.UTC)
	return New(NewMemorySlot(nil), nil).WithClock(func() time.Time { return now })
}

func TestCollection_AddAllocatesMaxPlusOne(t *testing.T) {
	s := newTestStore(t)

	first := s.Customers.Add(models.Customer{Company: "GrocerChoice B.V."})
	assert.Equal(t, 1, first.ID)

	s.Restore(Document{Entities: Entities{Customers: []models.Customer{{ID: 101}, {ID: 103}}}})
	next := s.Customers.Add(models.Customer{Company: "Amsterdam Deli"})
	assert.Equal(t, 104, next.ID)
}

func TestCollection_MutationsAppendEvents(t *testing.T) {
	s := newTestStore(t)
	s.SetCurrentUser(&models.SessionUser{ID: 1, Username: "admin", Name: "System Admin"})

	lead := s.Leads.Add(models.Lead{Name: "Alina Popescu"})
	_, err := s.Leads.Update(lead.ID, func(l *models.Lead) error {
		l.Status = models.LeadContacted
		return nil
	})
	require.NoError(t, err)
	assert.True(t, s.Leads.Delete(lead.ID))
	assert.False(t, s.Leads.Delete(lead.ID), "second delete is a no-op")

	events := s.Trail().Events()
	require.Len(t, events, 3)
	assert.Equal(t, "CREATED_LEAD", events[0].Action)
	assert.Equal(t, "UPDATED_LEAD", events[1].Action)
	assert.Equal(t, "DELETED_LEAD", events[2].Action)
	assert.Equal(t, "Deleted lead #1 (Alina Popescu)", events[2].Details)
	assert.Equal(t, "System Admin (admin)", events[0].User)
	assert.Less(t, events[0].ID, events[1].ID)
	assert.Less(t, events[1].ID, events[2].ID)
}

func TestCollection_UpdateMissingIsNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Orders.Update(42, func(*models.Order) error { return nil })
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Zero(t, s.Trail().Len())
}

func TestCollection_FailedUpdateLeavesEntityUntouched(t *testing.T) {
	s := newTestStore(t)
	order := s.Orders.Add(models.Order{Status: models.OrderPending})

	_, err := s.Orders.Update(order.ID, func(o *models.Order) error {
		o.Status = models.OrderShipped
		return errors.New("refused")
	})
	require.Error(t, err)
	got, _ := s.Orders.Get(order.ID)
	assert.Equal(t, models.OrderPending, got.Status)
}

func TestCollection_FailedUpdateLeavesSlicesUntouched(t *testing.T) {
	s := newTestStore(t)
	order := s.Orders.Add(models.Order{Status: models.OrderPending, Items: []models.LineItem{
		{ProductID: 201, Quantity: decimal.NewFromInt(1)},
	}})

	_, err := s.Orders.Update(order.ID, func(o *models.Order) error {
		if err := DecodeStrict([]byte(`{"items":[{"productId":9,"quantity":999}]}`), o); err != nil {
			return err
		}
		return errors.New("refused")
	})
	require.Error(t, err)
	got, _ := s.Orders.Get(order.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 201, got.Items[0].ProductID)
	assert.True(t, got.Items[0].Quantity.Equal(decimal.NewFromInt(1)))

	c := s.Components.Add(models.Component{Name: "Cucumbers (kg)", StockBatches: []models.ComponentBatch{
		{SupplierLotNumber: "A", Quantity: decimal.NewFromInt(10), ReceivedDate: models.NewDate(2025, 7, 1)},
	}})
	_, err = s.Components.UpdateJSON(c.ID, []byte(`{"stockBatches":[{"supplierLotNumber":"B","quantity":1}],"bogus":1}`))
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	stored, _ := s.Components.Get(c.ID)
	require.Len(t, stored.StockBatches, 1)
	assert.Equal(t, "A", stored.StockBatches[0].SupplierLotNumber)
	assert.True(t, stored.StockBatches[0].Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, models.NewDate(2025, 7, 1), stored.StockBatches[0].ReceivedDate)
}

func TestCollection_UpdateJSONMergesAndKeepsID(t *testing.T) {
	s := newTestStore(t)
	c := s.Components.Add(models.Component{Name: "Vinegar (L)", Cost: decimal.RequireFromString("0.80")})

	updated, err := s.Components.UpdateJSON(c.ID, []byte(`{"id": 99, "cost": 0.95}`))
	require.NoError(t, err)
	assert.Equal(t, c.ID, updated.ID)
	assert.Equal(t, "Vinegar (L)", updated.Name)
	assert.True(t, updated.Cost.Equal(decimal.RequireFromString("0.95")))

	_, err = s.Components.UpdateJSON(c.ID, []byte(`{"colour": "red"}`))
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestStore_SaveAndOpenRoundTrip(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot(nil)
	s := New(slot, nil)
	s.SetCurrentUser(&models.SessionUser{ID: 2, Username: "john.doe", Name: "John Doe"})
	s.Products.Add(models.Product{
		Name: "Dill Pickles (500g Jar)",
		StockBatches: []models.ProductBatch{
			{LotNumber: "LOT-20250801-1", Quantity: decimal.NewFromInt(40), ExpiryDate: models.NewDate(2026, 8, 1)},
		},
	})
	_, err := s.Currencies.Add(models.Currency{Code: "EUR", Name: "Euro", Symbol: "€", Rate: decimal.NewFromInt(1)})
	require.NoError(t, err)

	before, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, before, "mutations never save implicitly")

	require.NoError(t, s.Save(ctx))

	reopened, err := Open(ctx, slot, nil)
	require.NoError(t, err)
	p, ok := reopened.Products.Get(1)
	require.True(t, ok)
	assert.Equal(t, "LOT-20250801-1", p.StockBatches[0].LotNumber)
	assert.Equal(t, models.NewDate(2026, 8, 1), p.StockBatches[0].ExpiryDate)
	assert.Equal(t, "john.doe", reopened.CurrentUser().Username)
	assert.Equal(t, 2, reopened.Trail().Len())
	_, ok = reopened.Currencies.Get("EUR")
	assert.True(t, ok)
}

func TestOpen_EmptySlot(t *testing.T) {
	s, err := Open(context.Background(), NewMemorySlot(nil), nil)
	require.NoError(t, err)
	assert.True(t, s.Empty())
}

func TestOpen_RejectsUnknownFields(t *testing.T) {
	slot := NewMemorySlot([]byte(`{"entities": {"inventory": [{"id": 1, "flavour": "dill"}]}, "currentUser": null}`))
	_, err := Open(context.Background(), slot, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestCurrencies(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Currencies.Add(models.Currency{Code: "RON", Name: "Leu"})
	require.NoError(t, err)

	_, err = s.Currencies.Add(models.Currency{Code: "RON"})
	assert.True(t, apperror.Is(err, apperror.KindPrecondition))

	updated, err := s.Currencies.UpdateJSON("RON", []byte(`{"symbol": "lei"}`))
	require.NoError(t, err)
	assert.Equal(t, "lei", updated.Symbol)
	assert.Equal(t, "Leu", updated.Name)

	assert.True(t, s.Currencies.Delete("RON"))
	assert.False(t, s.Currencies.Delete("RON"))
}

func TestStore_DefaultTaxRate(t *testing.T) {
	s := newTestStore(t)
	assert.Nil(t, s.DefaultTaxRate())
	s.TaxRates.Add(models.TaxRate{Name: "TVA Redusa", Rate: decimal.RequireFromString("0.09")})
	s.TaxRates.Add(models.TaxRate{Name: "TVA Standard", Rate: decimal.RequireFromString("0.19"), IsDefault: true})
	require.NotNil(t, s.DefaultTaxRate())
	assert.Equal(t, "TVA Standard", s.DefaultTaxRate().Name)
}
