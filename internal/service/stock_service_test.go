package service

import (
	"context"
	"testing"
	"time"

	"tindahan/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStockInAddsToStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 4)

	res, err := env.stock.RecordStockIn(ctx, StockInRequest{
		ItemNo:   "A-001",
		Quantity: 10,
		UnitCost: "19.50",
	})
	require.NoError(t, err)

	assert.Equal(t, "IN", res.Movement.Direction)
	assert.Equal(t, 14, res.Movement.StockAfter)
	assert.Equal(t, "195.00", res.Movement.LineAmount)
	assert.Equal(t, "25.35", res.SuggestedSellingPrice, "30% markup on the delivery cost")
	assert.Equal(t, "6.50", res.ProfitPerUnit, "selling 26.00 minus cost 19.50")
	assert.False(t, res.ReorderNeeded)

	item, err := env.catalog.GetItem(ctx, "A-001")
	require.NoError(t, err)
	assert.Equal(t, 14, item.CurrentStock)
}

func TestRecordStockInRejectsDiscontinuedItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 4)

	_, err := env.catalog.SetActive(ctx, "A-001", false)
	require.NoError(t, err)

	_, err = env.stock.RecordStockIn(ctx, StockInRequest{
		ItemNo:   "A-001",
		Quantity: 10,
		UnitCost: "19.50",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	item, err := env.catalog.GetItem(ctx, "A-001")
	require.NoError(t, err)
	assert.Equal(t, 4, item.CurrentStock)
}

func TestRecordStockOutCashSale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 10)

	res, err := env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:           "A-001",
		Quantity:         6,
		UnitPrice:        "26.00",
		AdditionalCharge: "5.00",
		PaymentMode:      "CASH",
	})
	require.NoError(t, err)

	assert.Equal(t, "OUT", res.Movement.Direction)
	assert.Equal(t, 4, res.Movement.StockAfter, "10 on hand minus 6 sold")
	assert.Equal(t, "161.00", res.Movement.LineAmount, "6 x 26.00 + 5.00 charge")
	assert.Equal(t, "20.00", res.Movement.UnitCost, "supplier price snapshot at sale time")
	assert.Equal(t, "₱ 161.00", res.LineAmountDisplay)
	assert.Nil(t, res.CreditSaleID)
	assert.True(t, res.ReorderNeeded, "4 left is below the threshold of 5")
}

func TestRecordStockOutInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 3)

	_, err := env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:      "A-001",
		Quantity:    4,
		UnitPrice:   "26.00",
		PaymentMode: "CASH",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// The failed sale left nothing behind.
	item, err := env.catalog.GetItem(ctx, "A-001")
	require.NoError(t, err)
	assert.Equal(t, 3, item.CurrentStock)
	movements, err := env.stock.ListByPeriod(ctx, time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestRecordStockOutCreditOpensCreditSale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 10)

	res, err := env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:       "A-001",
		Quantity:     2,
		UnitPrice:    "26.00",
		PaymentMode:  "CREDIT",
		CustomerName: "Aling Nena",
	})
	require.NoError(t, err)
	require.NotNil(t, res.CreditSaleID)

	sale, err := env.credits.GetCreditSale(ctx, *res.CreditSaleID)
	require.NoError(t, err)
	assert.Equal(t, "Aling Nena", sale.CustomerName)
	assert.Equal(t, "52.00", sale.TotalDue)
	assert.Equal(t, "0.00", sale.AmountPaid)
	assert.Equal(t, "UNPAID", sale.Status)
}

func TestRecordStockOutCreditRequiresCustomer(t *testing.T) {
	env := newTestEnv(t)
	env.seedItem(t, "A-001", "20.00", "26.00", 10)

	_, err := env.stock.RecordStockOut(context.Background(), StockOutRequest{
		ItemNo:      "A-001",
		Quantity:    1,
		UnitPrice:   "26.00",
		PaymentMode: "CREDIT",
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestEditMovementReplaysStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 10)

	out, err := env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:      "A-001",
		Quantity:    6,
		UnitPrice:   "26.00",
		PaymentMode: "CASH",
	})
	require.NoError(t, err)

	// Correct the sale from 6 to 2 units; four units come back.
	edited, err := env.stock.EditMovement(ctx, out.Movement.ID, EditMovementRequest{
		Quantity:  2,
		UnitPrice: "26.00",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, edited.StockAfter)
	assert.Equal(t, "52.00", edited.LineAmount)

	item, err := env.catalog.GetItem(ctx, "A-001")
	require.NoError(t, err)
	assert.Equal(t, 8, item.CurrentStock)
}

func TestEditMovementRejectsNegativeStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 0)

	in, err := env.stock.RecordStockIn(ctx, StockInRequest{
		ItemNo:   "A-001",
		Quantity: 5,
		UnitCost: "20.00",
	})
	require.NoError(t, err)

	_, err = env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:      "A-001",
		Quantity:    4,
		UnitPrice:   "26.00",
		PaymentMode: "CASH",
	})
	require.NoError(t, err)

	// Shrinking the delivery from 5 to 3 would leave stock at -1.
	_, err = env.stock.EditMovement(ctx, in.Movement.ID, EditMovementRequest{
		Quantity:  3,
		UnitPrice: "20.00",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))

	item, err := env.catalog.GetItem(ctx, "A-001")
	require.NoError(t, err)
	assert.Equal(t, 1, item.CurrentStock, "rejected edit changed nothing")
}

func TestEditMovementSyncsLinkedCreditSale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 10)

	out, err := env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:       "A-001",
		Quantity:     4,
		UnitPrice:    "26.00",
		PaymentMode:  "CREDIT",
		CustomerName: "Mang Tomas",
	})
	require.NoError(t, err)
	require.NotNil(t, out.CreditSaleID)

	_, err = env.credits.RecordDeposit(ctx, *out.CreditSaleID, DepositRequest{Amount: "52.00"})
	require.NoError(t, err)

	// New total 2 x 26.00 = 52.00 equals the amount already paid.
	_, err = env.stock.EditMovement(ctx, out.Movement.ID, EditMovementRequest{
		Quantity:  2,
		UnitPrice: "26.00",
	})
	require.NoError(t, err)

	sale, err := env.credits.GetCreditSale(ctx, *out.CreditSaleID)
	require.NoError(t, err)
	assert.Equal(t, "52.00", sale.TotalDue)
	assert.Equal(t, "PAID", sale.Status)

	// Shrinking below the paid amount must be refused.
	_, err = env.stock.EditMovement(ctx, out.Movement.ID, EditMovementRequest{
		Quantity:  1,
		UnitPrice: "26.00",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestDeleteMovementRestoresStockAndDropsCreditSale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 10)

	out, err := env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:       "A-001",
		Quantity:     3,
		UnitPrice:    "26.00",
		PaymentMode:  "CREDIT",
		CustomerName: "Aling Nena",
	})
	require.NoError(t, err)
	require.NotNil(t, out.CreditSaleID)

	require.NoError(t, env.stock.DeleteMovement(ctx, out.Movement.ID))

	item, err := env.catalog.GetItem(ctx, "A-001")
	require.NoError(t, err)
	assert.Equal(t, 10, item.CurrentStock)

	_, err = env.credits.GetCreditSale(ctx, *out.CreditSaleID)
	assert.True(t, apperror.IsNotFound(err), "credit record leaves with its movement")
}

func TestDeleteStockInRejectedWhenUnitsAlreadySold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 0)

	in, err := env.stock.RecordStockIn(ctx, StockInRequest{
		ItemNo:   "A-001",
		Quantity: 5,
		UnitCost: "20.00",
	})
	require.NoError(t, err)

	_, err = env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:      "A-001",
		Quantity:    3,
		UnitPrice:   "26.00",
		PaymentMode: "CASH",
	})
	require.NoError(t, err)

	err = env.stock.DeleteMovement(ctx, in.Movement.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err), "reversing the delivery would leave stock at -3")
}

func TestListByPeriodBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 10)

	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local)
	inside := day.Add(9 * time.Hour)
	after := day.AddDate(0, 0, 1).Add(time.Minute)

	for _, ts := range []time.Time{inside, after} {
		_, err := env.stock.RecordStockOut(ctx, StockOutRequest{
			ItemNo:      "A-001",
			Quantity:    1,
			UnitPrice:   "26.00",
			PaymentMode: "CASH",
			OccurredAt:  datePtr(ts),
		})
		require.NoError(t, err)
	}

	movements, err := env.stock.ListByPeriod(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, movements, 1, "the next day's entry stays outside the half-open range")
	assert.Equal(t, inside.Format(time.RFC3339), movements[0].OccurredAt)
}
