package service

import (
	"context"
	"testing"

	"tindahan/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemAppliesDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.catalog.AddItem(ctx, CreateItemRequest{
		ItemNo:        "A-001",
		Name:          "Sardines",
		SupplierPrice: "20.00",
		SellingPrice:  "26.00",
		InitialStock:  3,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, item.ReorderLevel, "missing reorder level takes the configured default")
	assert.True(t, item.IsActive)
	assert.True(t, item.ReorderNeeded, "stock 3 is below the threshold of 5")
	assert.Equal(t, "26.00", item.SuggestedSellingPrice, "30% markup on 20.00")
}

func TestAddItemRejectsDuplicateItemNo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 10)

	_, err := env.catalog.AddItem(ctx, CreateItemRequest{
		ItemNo:        "A-001",
		Name:          "Another",
		SupplierPrice: "5.00",
		SellingPrice:  "7.00",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAddItemRejectsBadPrices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		supplier string
		selling  string
	}{
		{"non-numeric supplier", "abc", "10.00"},
		{"negative supplier", "-1.00", "10.00"},
		{"non-numeric selling", "10.00", ""},
		{"negative selling", "10.00", "-0.01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.catalog.AddItem(ctx, CreateItemRequest{
				ItemNo:        "B-" + tc.name,
				Name:          "Bad",
				SupplierPrice: tc.supplier,
				SellingPrice:  tc.selling,
			})
			assert.True(t, apperror.IsValidation(err))
		})
	}
}

func TestUpdateItemDoesNotTouchStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 7)

	item, err := env.catalog.UpdateItem(ctx, "A-001", UpdateItemRequest{
		Name:          "Sardines Large",
		SupplierPrice: "21.00",
		SellingPrice:  "28.00",
		ReorderQty:    15,
	})
	require.NoError(t, err)

	assert.Equal(t, "Sardines Large", item.Name)
	assert.Equal(t, "21.00", item.SupplierPrice)
	assert.Equal(t, 7, item.CurrentStock, "catalog edits never move stock")
}

func TestGetItemNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.GetItem(context.Background(), "NOPE")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteItemKeepsMovementHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 10)

	out, err := env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:      "A-001",
		Quantity:    2,
		UnitPrice:   "26.00",
		PaymentMode: "CASH",
	})
	require.NoError(t, err)

	require.NoError(t, env.catalog.DeleteItem(ctx, "A-001"))

	_, err = env.catalog.GetItem(ctx, "A-001")
	assert.True(t, apperror.IsNotFound(err), "deleted item is gone from the catalog")

	mv, err := env.moveRepo.FindByID(ctx, out.Movement.ID)
	require.NoError(t, err, "ledger history survives the delete")
	assert.Equal(t, "A-001", mv.ItemNo)
}

func TestSearchItemsNameSubstringAndNumberPrefix(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "RC-01", "38.00", "45.00", 10)
	env.seedItem(t, "SD-01", "20.00", "26.00", 10)

	_, err := env.catalog.UpdateItem(ctx, "RC-01", UpdateItemRequest{
		Name:          "Rice 1kg",
		SupplierPrice: "38.00",
		SellingPrice:  "45.00",
	})
	require.NoError(t, err)

	byName, err := env.catalog.SearchItems(ctx, "ICE")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "RC-01", byName[0].ItemNo)

	byNo, err := env.catalog.SearchItems(ctx, "sd")
	require.NoError(t, err)
	require.Len(t, byNo, 1)
	assert.Equal(t, "SD-01", byNo[0].ItemNo)
}

func TestSearchItemsTreatsWildcardsLiterally(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "JC-01", "10.00", "14.00", 10)
	env.seedItem(t, "JC-02", "10.00", "14.00", 10)

	_, err := env.catalog.UpdateItem(ctx, "JC-01", UpdateItemRequest{
		Name:          "Juice 100% Orange",
		SupplierPrice: "10.00",
		SellingPrice:  "14.00",
	})
	require.NoError(t, err)
	_, err = env.catalog.UpdateItem(ctx, "JC-02", UpdateItemRequest{
		Name:          "Juice 1000ml Mango",
		SupplierPrice: "10.00",
		SellingPrice:  "14.00",
	})
	require.NoError(t, err)

	got, err := env.catalog.SearchItems(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, got, 1, "percent sign matches literally, not as a wildcard")
	assert.Equal(t, "JC-01", got[0].ItemNo)

	got, err = env.catalog.SearchItems(ctx, "100_")
	require.NoError(t, err)
	assert.Empty(t, got, "underscore matches literally, not as a wildcard")
}

func TestSetActiveBlocksSales(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "A-001", "20.00", "26.00", 10)

	item, err := env.catalog.SetActive(ctx, "A-001", false)
	require.NoError(t, err)
	assert.False(t, item.IsActive)

	_, err = env.stock.RecordStockOut(ctx, StockOutRequest{
		ItemNo:      "A-001",
		Quantity:    1,
		UnitPrice:   "26.00",
		PaymentMode: "CASH",
	})
	assert.True(t, apperror.IsValidation(err), "discontinued items cannot be sold")
}

func TestSuggestSellingPriceRounding(t *testing.T) {
	env := newTestEnv(t)

	// 18.55 * 1.30 = 24.115, rounds to 24.12
	got := env.catalog.SuggestSellingPrice(decimal.RequireFromString("18.55"))
	assert.Equal(t, "24.12", got.StringFixed(2))
}
