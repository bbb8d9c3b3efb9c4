package inventory

import (
	"testing"

	"distribution-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDeduct_FIFOComponents(t *testing.T) {
	d1 := models.NewDate(2025, 7, 1)
	d2 := models.NewDate(2025, 7, 15)
	batches := []models.ComponentBatch{
		{SupplierLotNumber: "B", Quantity: dec("300"), ReceivedDate: d2},
		{SupplierLotNumber: "A", Quantity: dec("200"), ReceivedDate: d1},
	}

	left, draws := Deduct(batches, dec("250"), FIFO)

	require.Len(t, left, 1)
	assert.Equal(t, "B", left[0].SupplierLotNumber)
	assert.True(t, left[0].Quantity.Equal(dec("250")))
	assert.Equal(t, d2, left[0].ReceivedDate)

	require.Len(t, draws, 2)
	assert.Equal(t, "A", draws[0].Lot)
	assert.True(t, draws[0].Quantity.Equal(dec("200")))
	assert.Equal(t, "B", draws[1].Lot)
	assert.True(t, draws[1].Quantity.Equal(dec("50")))

	assert.True(t, batches[0].Quantity.Equal(dec("300")), "input untouched")
}

func TestDeduct_FEFOProducts(t *testing.T) {
	batches := []models.ProductBatch{
		{LotNumber: "LATE", Quantity: dec("10"), ExpiryDate: models.NewDate(2026, 1, 1)},
		{LotNumber: "EARLY", Quantity: dec("10"), ExpiryDate: models.NewDate(2025, 9, 1)},
	}

	left, draws := Deduct(batches, dec("12"), FEFO)

	require.Len(t, draws, 2)
	assert.Equal(t, "EARLY", draws[0].Lot)
	require.Len(t, left, 1)
	assert.Equal(t, "LATE", left[0].LotNumber)
	assert.True(t, left[0].Quantity.Equal(dec("8")))
}

func TestDeduct_ShortfallDrainsEverything(t *testing.T) {
	batches := []models.ProductBatch{{LotNumber: "X", Quantity: dec("5"), ExpiryDate: models.NewDate(2025, 9, 1)}}

	left, draws := Deduct(batches, dec("9"), FEFO)

	assert.Empty(t, left)
	require.Len(t, draws, 1)
	assert.True(t, draws[0].Quantity.Equal(dec("5")))
}

func TestDeduct_ZeroAndNegativeAreNoops(t *testing.T) {
	batches := []models.ProductBatch{{LotNumber: "X", Quantity: dec("5")}}
	for _, q := range []string{"0", "-3"} {
		left, draws := Deduct(batches, dec(q), FEFO)
		assert.Len(t, left, 1)
		assert.Empty(t, draws)
	}
}

func TestDeduct_PrunesPreexistingEmptyBatches(t *testing.T) {
	batches := []models.ComponentBatch{
		{SupplierLotNumber: "EMPTY", Quantity: decimal.Zero},
		{SupplierLotNumber: "FULL", Quantity: dec("4")},
	}
	left, _ := Deduct(batches, dec("1"), FIFO)
	require.Len(t, left, 1)
	assert.Equal(t, "FULL", left[0].SupplierLotNumber)
}

func TestTotalStockAndAddBatch(t *testing.T) {
	var batches []models.ProductBatch
	assert.True(t, TotalStock(batches).IsZero())

	batches = AddBatch(batches, models.ProductBatch{LotNumber: "L1", Quantity: dec("2.5")})
	batches = AddBatch(batches, models.ProductBatch{LotNumber: "L1", Quantity: dec("1.5")})
	assert.Len(t, batches, 2, "same lot is not merged")
	assert.True(t, TotalStock(batches).Equal(dec("4")))
}
