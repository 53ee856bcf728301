package database

import (
	"fmt"
	"os"
	"path/filepath"

	"tindahan/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewConnection opens the store's SQLite file and migrates the schema. The
// data lives in a single local file; there is exactly one writer process.
func NewConnection(dbPath string) (*gorm.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Ledger rows reference catalog rows; keep the database honest about it
	db.Exec("PRAGMA foreign_keys = ON")

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// Migrate auto-migrates the core models. Shared with tests, which run the
// same schema against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Item{},
		&model.StockMovement{},
		&model.CreditSale{},
		&model.Expense{},
		&model.Operator{},
		&model.AuditLog{},
	)
}
