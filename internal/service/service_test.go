package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"tindahan/internal/config"
	"tindahan/internal/database"
	"tindahan/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

// testEnv wires every service against a fresh in-memory database.
type testEnv struct {
	db       *gorm.DB
	itemRepo repository.ItemRepository
	moveRepo repository.MovementRepository
	credRepo repository.CreditSaleRepository
	expRepo  repository.ExpenseRepository
	audRepo  repository.AuditRepository

	catalog  CatalogService
	stock    StockService
	credits  CreditService
	expenses ExpenseService
	transfer TransferService
	reports  ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// One shared-cache database per test, one connection so every query sees
	// the migrated schema.
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	itemRepo := repository.NewItemRepository(db)
	moveRepo := repository.NewMovementRepository(db)
	credRepo := repository.NewCreditSaleRepository(db)
	expRepo := repository.NewExpenseRepository(db)
	audRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	pricing := config.PricingConfig{
		MarkupPercent:       decimal.NewFromInt(30),
		DefaultReorderLevel: 5,
	}

	catalog := NewCatalogService(itemRepo, audRepo, txManager, pricing)
	stock := NewStockService(itemRepo, moveRepo, credRepo, audRepo, txManager, catalog, nil)

	return &testEnv{
		db:       db,
		itemRepo: itemRepo,
		moveRepo: moveRepo,
		credRepo: credRepo,
		expRepo:  expRepo,
		audRepo:  audRepo,
		catalog:  catalog,
		stock:    stock,
		credits:  NewCreditService(credRepo, audRepo, txManager),
		expenses: NewExpenseService(expRepo, audRepo, txManager),
		transfer: NewTransferService(itemRepo, audRepo, txManager),
		reports:  NewReportService(itemRepo, moveRepo, expRepo),
	}
}

// seedItem registers a basic catalog entry for ledger tests.
func (e *testEnv) seedItem(t *testing.T, itemNo string, supplier, selling string, stock int) {
	t.Helper()
	_, err := e.catalog.AddItem(context.Background(), CreateItemRequest{
		ItemNo:        itemNo,
		Name:          "Item " + itemNo,
		Unit:          "pc",
		SupplierPrice: supplier,
		SellingPrice:  selling,
		InitialStock:  stock,
		ReorderQty:    10,
	})
	require.NoError(t, err)
}

func datePtr(t time.Time) *time.Time { return &t }
