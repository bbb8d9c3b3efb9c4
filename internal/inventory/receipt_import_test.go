package inventory

import (
	"bytes"
	"testing"

	"distribution-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildSheet(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseReceiptSheet(t *testing.T) {
	components := []*models.Component{
		{ID: 701, Name: "Cucumbers (kg)"},
		{ID: 704, Name: "Glass Jar (500g)"},
	}
	buf := buildSheet(t, [][]any{
		{"Component", "Quantity", "Supplier lot"},
		{"701", 500, "FVF-0825-A"},
		{"glass  jar (500g)", "2000", "PKG-77"},
		{"Saffron", 1, "SP-1"},
		{"704", "-5", "PKG-78"},
		{"704", 10},
		{},
	})

	items, skipped, err := ParseReceiptSheet(buf, components)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, 701, items[0].ComponentID)
	assert.True(t, items[0].Quantity.Equal(dec("500")))
	assert.Equal(t, "FVF-0825-A", items[0].SupplierLotNumber)
	assert.Equal(t, 704, items[1].ComponentID)

	require.Len(t, skipped, 3)
	assert.Equal(t, 4, skipped[0].Row)
	assert.Contains(t, skipped[0].Reason, "Saffron")
	assert.Contains(t, skipped[1].Reason, "invalid quantity")
	assert.Contains(t, skipped[2].Reason, "expected")
}

func TestParseReceiptSheet_NotASpreadsheet(t *testing.T) {
	_, _, err := ParseReceiptSheet(bytes.NewBufferString("componentId,quantity"), nil)
	assert.Error(t, err)
}
