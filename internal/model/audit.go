package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionAddItem        = "ADD_ITEM"
	ActionUpdateItem     = "UPDATE_ITEM"
	ActionDeleteItem     = "DELETE_ITEM"
	ActionSetItemActive  = "SET_ITEM_ACTIVE"
	ActionImportCatalog  = "IMPORT_CATALOG"
	ActionStockIn        = "STOCK_IN"
	ActionStockOut       = "STOCK_OUT"
	ActionEditMovement   = "EDIT_MOVEMENT"
	ActionDeleteMovement = "DELETE_MOVEMENT"
	ActionRecordDeposit  = "RECORD_DEPOSIT"
	ActionDeleteCredit   = "DELETE_CREDIT_SALE"
	ActionAddExpense     = "ADD_EXPENSE"
	ActionEditExpense    = "EDIT_EXPENSE"
	ActionDeleteExpense  = "DELETE_EXPENSE"
)

// AuditLog records What and When for every mutation, so the operator can trace
// how the books got to their current state. It never drives rollback.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(100);index" json:"entity_id"`
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string    `gorm:"type:text" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns the record id; SQLite has no uuid default.
func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
