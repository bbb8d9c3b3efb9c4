package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"
	"distribution-backend/internal/pricing"
	"distribution-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func items(productID int, qty string) []models.LineItem {
	return []models.LineItem{{ProductID: productID, Quantity: dec(qty)}}
}

func newTestReports(t *testing.T) (*store.Store, *Reports) {
	t.Helper()
	s := store.New(store.NewMemorySlot(nil), nil).
		WithClock(func() time.Time { return time.Date(2025, 8, 6, 15, 0, 0, 0, time.UTC) })
	s.Restore(store.Document{Entities: store.Entities{
		TaxRates: []models.TaxRate{{ID: 1, Name: "Standard", Rate: dec("0.19"), IsDefault: true}},
		Agents:   []models.Agent{{ID: 1, Name: "John Doe"}, {ID: 2, Name: "Jane Smith"}},
		Customers: []models.Customer{
			{ID: 101, Name: "GrocerChoice B.V.", AgentID: 1},
			{ID: 102, Name: "EuroFood Imports", AgentID: 2},
		},
		Products: []models.Product{
			{ID: 201, Name: "Dill Pickles", Cost: dec("1.25"),
				PricingTiers: []models.PricingTier{{MinQty: dec("1"), Price: dec("2.50")}, {MinQty: dec("100"), Price: dec("2.20")}},
				StockBatches: []models.ProductBatch{{LotNumber: "A", Quantity: dec("5"), ExpiryDate: models.NewDate(2026, 1, 1)}}},
			{ID: 202, Name: "Marinated Olives", Cost: dec("2.10"),
				PricingTiers: []models.PricingTier{{MinQty: dec("1"), Price: dec("4.00")}}},
			{ID: 203, Name: "Pickled Onions",
				StockBatches: []models.ProductBatch{{LotNumber: "B", Quantity: dec("50"), ExpiryDate: models.NewDate(2026, 1, 1)}}},
		},
		Orders: []models.Order{
			{ID: 301, CustomerID: 101, AgentID: 1, Date: models.NewDate(2025, 8, 6), Status: models.OrderCompleted, Items: items(201, "100")},
			{ID: 302, CustomerID: 102, AgentID: 2, Date: models.NewDate(2025, 8, 4), Status: models.OrderShipped, Items: items(202, "10")},
			{ID: 303, CustomerID: 102, AgentID: 2, Date: models.NewDate(2025, 7, 1), Status: models.OrderDelivered, Items: items(201, "10")},
			{ID: 304, CustomerID: 101, AgentID: 1, Date: models.NewDate(2025, 8, 5), Status: models.OrderPending, Items: items(201, "1000")},
			{ID: 305, CustomerID: 101, AgentID: 1, Date: models.NewDate(2025, 8, 5), Status: models.OrderCancelled, Items: items(201, "1000")},
		},
		Invoices: []models.Invoice{
			{ID: 1, OrderID: 301, DueDate: models.NewDate(2025, 8, 10), Total: dec("100"), Status: models.InvoiceSent},
			{ID: 2, OrderID: 302, DueDate: models.NewDate(2025, 7, 1), Total: dec("50"), Status: models.InvoiceSent},
			{ID: 3, OrderID: 303, DueDate: models.NewDate(2025, 4, 1), Total: dec("10"), Status: models.InvoiceSent},
			{ID: 4, OrderID: 303, DueDate: models.NewDate(2025, 4, 1), Total: dec("999"), Status: models.InvoicePaid},
		},
	}})
	return s, NewReports(s, pricing.NewResolver(s))
}

func TestSalesSummary(t *testing.T) {
	_, r := newTestReports(t)

	all := r.SalesSummary(Range{})
	assert.Equal(t, 3, all.CompletedOrders)
	assert.True(t, dec("285").Equal(all.TotalRevenue), all.TotalRevenue.String())
	assert.True(t, dec("126.5").Equal(all.TotalProfit), all.TotalProfit.String())

	august := r.SalesSummary(Range{From: models.NewDate(2025, 8, 1), To: models.NewDate(2025, 8, 31)})
	assert.Equal(t, 2, august.CompletedOrders)
	assert.True(t, dec("260").Equal(august.TotalRevenue))
}

func TestRankings(t *testing.T) {
	_, r := newTestReports(t)

	products := r.TopProducts(Range{}, 3)
	require.Len(t, products, 2)
	assert.Equal(t, 201, products[0].ID)
	assert.True(t, dec("245").Equal(products[0].TotalRevenue))
	assert.Len(t, r.TopProducts(Range{}, 1), 1)

	customers := r.TopCustomers(Range{}, 3)
	require.Len(t, customers, 2)
	assert.Equal(t, "GrocerChoice B.V.", customers[0].Name)
	assert.True(t, dec("261.8").Equal(customers[0].TotalRevenue))
	assert.True(t, dec("77.35").Equal(customers[1].TotalRevenue))

	agents := r.TopAgents(Range{}, 4)
	require.Len(t, agents, 2)
	assert.Equal(t, "John Doe", agents[0].Name)
	assert.Equal(t, "Jane Smith", agents[1].Name)
}

func TestReceivablesAging(t *testing.T) {
	_, r := newTestReports(t)

	aging := r.ReceivablesAging()
	assert.Equal(t, 3, aging.OpenInvoices)
	assert.True(t, dec("100").Equal(aging.Current))
	assert.True(t, dec("50").Equal(aging.Days31To60))
	assert.True(t, aging.Days61To90.IsZero())
	assert.True(t, dec("10").Equal(aging.Over90))
	assert.True(t, dec("160").Equal(aging.Outstanding))
}

func TestInventoryOverviewAndRecent(t *testing.T) {
	_, r := newTestReports(t)

	o := r.InventoryOverview()
	assert.Equal(t, 3, o.TotalProducts)
	assert.True(t, dec("55").Equal(o.ItemsInStock))
	assert.Equal(t, 1, o.LowStock)
	assert.Equal(t, 1, o.OutOfStock)

	recent := r.RecentOrders(2)
	require.Len(t, recent, 2)
	assert.Equal(t, 305, recent[0].ID)
	assert.Equal(t, 304, recent[1].ID)
}

func TestSalesChart(t *testing.T) {
	_, r := newTestReports(t)

	daily, err := r.SalesChart(PeriodDaily, 0)
	require.NoError(t, err)
	require.Len(t, daily.Points, 7)
	assert.Equal(t, "2025-07-31", daily.From)
	assert.Equal(t, "2025-08-06", daily.To)
	assert.True(t, dec("47.6").Equal(daily.Points[4].Total))
	assert.Equal(t, 1, daily.Points[6].Orders)
	assert.True(t, dec("309.4").Equal(daily.GrandTotal))

	weekly, err := r.SalesChart(PeriodWeekly, 2)
	require.NoError(t, err)
	require.Len(t, weekly.Points, 2)
	assert.Equal(t, "2025-07-28", weekly.Points[0].Label)
	assert.Equal(t, "2025-08-04", weekly.Points[1].Label)
	assert.Equal(t, "2025-08-10", weekly.To)
	assert.Equal(t, 2, weekly.Points[1].Orders)

	monthly, err := r.SalesChart(PeriodMonthly, 2)
	require.NoError(t, err)
	require.Len(t, monthly.Points, 2)
	assert.True(t, dec("29.75").Equal(monthly.Points[0].Total))
	assert.True(t, dec("339.15").Equal(monthly.GrandTotal))

	_, err = r.SalesChart("hourly", 0)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestHandlers(t *testing.T) {
	_, r := newTestReports(t)
	app := fiber.New()
	app.Get("/api/dashboard/top/:kind", TopHandler(r))
	app.Get("/api/dashboard/sales-summary", SalesSummaryHandler(r))
	app.Get("/api/dashboard/sales-chart", SalesChartHandler(r))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard/top/agents?limit=1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var agents []Ranked
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&agents))
	require.Len(t, agents, 1)
	assert.Equal(t, 1, agents[0].ID)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard/top/suppliers", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard/sales-summary?from=2025-13-01", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard/sales-chart?period=weekly&count=104", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var chart SalesChart
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&chart))
	assert.Len(t, chart.Points, 104)

	for _, q := range []string{"count=100000000", "period=weekly&count=105", "period=monthly&count=121", "count=-1"} {
		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard/sales-chart?"+q, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}
