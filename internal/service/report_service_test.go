package service

import (
	"context"
	"testing"
	"time"

	"tindahan/pkg/period"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryValuation(t *testing.T) {
	env := newTestEnv(t)

	env.seedItem(t, "A-001", "20.00", "26.00", 10) // 200 cost, 260 selling
	env.seedItem(t, "B-001", "38.00", "45.00", 5)  // 190 cost, 225 selling

	v, err := env.reports.InventoryValuation(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "485.00", v.TotalAtSellingPrice.StringFixed(2))
	assert.Equal(t, "390.00", v.TotalAtSupplierCost.StringFixed(2))
	assert.Equal(t, "95.00", v.ProjectedProfit.StringFixed(2))
}

func TestReorderCost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Below threshold: 2 < 5, restock 10 at 20.00 each.
	env.seedItem(t, "A-001", "20.00", "26.00", 2)
	// Healthy: 8 >= 5, excluded.
	env.seedItem(t, "B-001", "38.00", "45.00", 8)

	cost, err := env.reports.ReorderCost(ctx)
	require.NoError(t, err)
	assert.Equal(t, "200.00", cost.StringFixed(2))

	alerts, err := env.reports.ReorderAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "A-001", alerts[0].ItemNo)
}

// The canonical month: 1000.00 of sales that cost 600.00 to stock, with
// 200.00 of expenses, nets exactly 200.00.
func TestFinancialSummaryNetIncome(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedItem(t, "A-001", "60.00", "100.00", 20)

	day := time.Date(2026, 8, 12, 14, 0, 0, 0, time.Local)
	_, err := env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:      "A-001",
		Quantity:    10,
		UnitPrice:   "100.00",
		PaymentMode: "CASH",
		OccurredAt:  datePtr(day),
	})
	require.NoError(t, err)

	_, err = env.expenses.AddExpense(ctx, ExpenseRequest{
		SpentOn:     datePtr(day),
		Description: "Delivery fees",
		Amount:      "200.00",
	})
	require.NoError(t, err)

	summary, err := env.reports.FinancialSummaryFor(ctx, period.Monthly, day)
	require.NoError(t, err)

	assert.Equal(t, "1000.00", summary.Revenue.StringFixed(2))
	assert.Equal(t, "600.00", summary.COGS.StringFixed(2))
	assert.Equal(t, "400.00", summary.GrossProfit.StringFixed(2))
	assert.Equal(t, "200.00", summary.TotalExpense.StringFixed(2))
	assert.Equal(t, "200.00", summary.NetIncome.StringFixed(2))
}

func TestSalesStatsIgnoresStockIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 10)

	day := time.Date(2026, 8, 12, 9, 0, 0, 0, time.Local)
	_, err := env.stock.RecordStockIn(ctx, StockInRequest{
		ItemNo:     "A-001",
		Quantity:   50,
		UnitCost:   "19.00",
		OccurredAt: datePtr(day),
	})
	require.NoError(t, err)
	_, err = env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:      "A-001",
		Quantity:    2,
		UnitPrice:   "26.00",
		PaymentMode: "CASH",
		OccurredAt:  datePtr(day.Add(time.Hour)),
	})
	require.NoError(t, err)

	r, err := period.Of(period.Daily, day)
	require.NoError(t, err)
	stats, err := env.reports.SalesStats(ctx, r.Start, r.End)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Transactions, "deliveries are not sales")
	assert.Equal(t, "52.00", stats.Revenue.StringFixed(2))
	assert.Equal(t, "40.00", stats.COGS.StringFixed(2))
	assert.Equal(t, "12.00", stats.GrossProfit.StringFixed(2))
}

func TestCOGSUsesCostSnapshotAtSaleTime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 10)

	day := time.Date(2026, 8, 12, 9, 0, 0, 0, time.Local)
	_, err := env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:      "A-001",
		Quantity:    2,
		UnitPrice:   "26.00",
		PaymentMode: "CASH",
		OccurredAt:  datePtr(day),
	})
	require.NoError(t, err)

	// Supplier price rises after the sale; yesterday's margin must not move.
	_, err = env.catalog.UpdateItem(ctx, "A-001", UpdateItemRequest{
		Name:          "Item A-001",
		SupplierPrice: "30.00",
		SellingPrice:  "39.00",
	})
	require.NoError(t, err)

	r, err := period.Of(period.Daily, day)
	require.NoError(t, err)
	stats, err := env.reports.SalesStats(ctx, r.Start, r.End)
	require.NoError(t, err)
	assert.Equal(t, "40.00", stats.COGS.StringFixed(2), "2 units at the 20.00 snapshot")
}

func TestCOGSByItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 10)
	env.seedItem(t, "B-001", "38.00", "45.00", 10)

	day := time.Date(2026, 8, 12, 9, 0, 0, 0, time.Local)
	sales := []struct {
		itemNo string
		qty    int
		price  string
	}{
		{"A-001", 2, "26.00"},
		{"B-001", 1, "45.00"},
		{"A-001", 3, "26.00"},
	}
	for _, s := range sales {
		_, err := env.stock.RecordStockOut(ctx, StockOutRequest{
			ItemNo:      s.itemNo,
			Quantity:    s.qty,
			UnitPrice:   s.price,
			PaymentMode: "CASH",
			OccurredAt:  datePtr(day),
		})
		require.NoError(t, err)
	}

	r, err := period.Of(period.Daily, day)
	require.NoError(t, err)
	lines, err := env.reports.COGSByItem(ctx, r.Start, r.End)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "A-001", lines[0].ItemNo)
	assert.Equal(t, 5, lines[0].QuantitySold)
	assert.Equal(t, "130.00", lines[0].SellingValue.StringFixed(2))
	assert.Equal(t, "100.00", lines[0].COGS.StringFixed(2))

	assert.Equal(t, "B-001", lines[1].ItemNo)
	assert.Equal(t, 1, lines[1].QuantitySold)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 3)

	_, err := env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:      "A-001",
		Quantity:    1,
		UnitPrice:   "26.00",
		PaymentMode: "CASH",
	})
	require.NoError(t, err)

	d, err := env.reports.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, "52.00", d.Valuation.TotalAtSellingPrice.StringFixed(2))
	require.Len(t, d.ReorderAlerts, 1)
	assert.Equal(t, "200.00", d.ReorderCost.StringFixed(2), "restock 10 at 20.00")
	assert.Equal(t, 1, d.Today.Transactions)
}
