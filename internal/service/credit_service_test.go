package service

import (
	"context"
	"testing"

	"tindahan/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openCredit sells on credit and returns the credit sale id.
func openCredit(t *testing.T, env *testEnv, customer string, qty int) uint {
	t.Helper()
	res, err := env.stock.RecordStockOut(context.Background(), StockOutRequest{
		ItemNo:       "A-001",
		Quantity:     qty,
		UnitPrice:    "25.00",
		PaymentMode:  "CREDIT",
		CustomerName: customer,
	})
	require.NoError(t, err)
	require.NotNil(t, res.CreditSaleID)
	return *res.CreditSaleID
}

func TestRecordDepositStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "25.00", 50)
	id := openCredit(t, env, "Aling Nena", 4) // 100.00 due

	sale, err := env.credits.RecordDeposit(ctx, id, DepositRequest{Amount: "40.00"})
	require.NoError(t, err)
	assert.Equal(t, "PARTIAL", sale.Status)
	assert.Equal(t, "60.00", sale.Balance)
	assert.Equal(t, "₱ 60.00", sale.BalanceDisplay)

	sale, err = env.credits.RecordDeposit(ctx, id, DepositRequest{Amount: "60.00"})
	require.NoError(t, err)
	assert.Equal(t, "PAID", sale.Status)
	assert.Equal(t, "0.00", sale.Balance)
}

func TestZeroTotalCreditSaleOpensSettled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "25.00", 50)

	// A giveaway on credit owes nothing, so it must not linger as an
	// uncollectable UNPAID entry.
	res, err := env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:       "A-001",
		Quantity:     1,
		UnitPrice:    "0.00",
		PaymentMode:  "CREDIT",
		CustomerName: "Aling Nena",
	})
	require.NoError(t, err)
	require.NotNil(t, res.CreditSaleID)

	sale, err := env.credits.GetCreditSale(ctx, *res.CreditSaleID)
	require.NoError(t, err)
	assert.Equal(t, "PAID", sale.Status)
	assert.Equal(t, "0.00", sale.Balance)
}

func TestRecordDepositRejectsOverpayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "25.00", 50)
	id := openCredit(t, env, "Aling Nena", 2) // 50.00 due

	_, err := env.credits.RecordDeposit(ctx, id, DepositRequest{Amount: "50.01"})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	sale, err := env.credits.GetCreditSale(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "UNPAID", sale.Status, "rejected deposit changed nothing")
	assert.Equal(t, "0.00", sale.AmountPaid)
}

func TestRecordDepositRejectsNonPositiveAmount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "25.00", 50)
	id := openCredit(t, env, "Aling Nena", 2)

	for _, amount := range []string{"0", "-5.00", "abc"} {
		_, err := env.credits.RecordDeposit(ctx, id, DepositRequest{Amount: amount})
		assert.True(t, apperror.IsValidation(err), "amount %q", amount)
	}
}

func TestDeleteCreditSaleKeepsMovement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "25.00", 50)
	id := openCredit(t, env, "Aling Nena", 2)

	sale, err := env.credits.GetCreditSale(ctx, id)
	require.NoError(t, err)

	require.NoError(t, env.credits.DeleteCreditSale(ctx, id))

	_, err = env.credits.GetCreditSale(ctx, id)
	assert.True(t, apperror.IsNotFound(err))

	mv, err := env.moveRepo.FindByID(ctx, sale.MovementID)
	require.NoError(t, err, "the sale itself stays on the ledger")
	assert.Equal(t, 48, mv.StockAfter)

	item, err := env.catalog.GetItem(ctx, "A-001")
	require.NoError(t, err)
	assert.Equal(t, 48, item.CurrentStock, "forgiving a debt does not return goods")
}

func TestListByStatusValidatesEnum(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "25.00", 50)
	openCredit(t, env, "Aling Nena", 2)
	paid := openCredit(t, env, "Mang Tomas", 1)

	_, err := env.credits.RecordDeposit(ctx, paid, DepositRequest{Amount: "25.00"})
	require.NoError(t, err)

	unpaid, err := env.credits.ListByStatus(ctx, "UNPAID")
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, "Aling Nena", unpaid[0].CustomerName)

	_, err = env.credits.ListByStatus(ctx, "OVERDUE")
	assert.True(t, apperror.IsValidation(err))
}

func TestListByCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "25.00", 50)
	openCredit(t, env, "Aling Nena", 2)
	openCredit(t, env, "Aling Nena", 1)
	openCredit(t, env, "Mang Tomas", 1)

	sales, err := env.credits.ListByCustomer(ctx, "Aling Nena")
	require.NoError(t, err)
	assert.Len(t, sales, 2)
}
