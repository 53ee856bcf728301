package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a discrete cost entry (rent, utilities, supplies) with no
// relationship to the stock ledgers.
type Expense struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	SpentOn     time.Time       `gorm:"not null;index" json:"spent_on"`
	Category    string          `gorm:"type:varchar(100)" json:"category"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
