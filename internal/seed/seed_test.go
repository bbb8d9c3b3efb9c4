package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"
	"distribution-backend/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestParseBundledCatalog(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "configs", "seed.yaml"))
	require.NoError(t, err)

	e, err := Parse(data)
	require.NoError(t, err)

	require.Len(t, e.Products, 2)
	assert.Equal(t, "PIC-DIL-500G", e.Products[0].SKU)
	assert.True(t, decimal.RequireFromString("2.2").Equal(e.Products[0].PricingTiers[1].Price))
	assert.Equal(t, models.NewDate(2026, 6, 10), e.Products[0].StockBatches[0].ExpiryDate)
	require.Len(t, e.Quotes, 2)
	assert.Nil(t, e.Quotes[0].CustomerID)
	require.NotNil(t, e.Quotes[0].LeadID)
	assert.Equal(t, 3, *e.Quotes[0].LeadID)
	require.Len(t, e.Currencies, 2)

	require.Len(t, e.Users, 4)
	assert.NotEqual(t, "admin123", e.Users[0].Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(e.Users[0].Password), []byte("admin123")))
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("inventory:\n  - { id: 1, name: X, colour: red }\n"))
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
components:
  - { id: 701, name: Cucumbers (kg), cost: 1.5, stockBatches: [] }
users:
  - { id: 1, username: admin, password: secret, role: admin, name: Admin }
`), 0o600))

	slot := store.NewMemorySlot(nil)
	s := store.New(slot, nil)
	seeded, err := Apply(context.Background(), s, path, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.Equal(t, 1, s.Components.Len())

	reopened, err := store.Open(context.Background(), slot, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Users.Len())

	// a populated store is left alone
	seeded, err = Apply(context.Background(), s, path, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, seeded)

	seeded, err = Apply(context.Background(), store.New(store.NewMemorySlot(nil), nil), filepath.Join(dir, "missing.yaml"), zap.NewNop())
	require.NoError(t, err)
	assert.False(t, seeded)
}
