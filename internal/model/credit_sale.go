package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Credit sale status constants
const (
	CreditUnpaid  = "UNPAID"
	CreditPartial = "PARTIAL"
	CreditPaid    = "PAID"
)

// CreditSale tracks the amount owed on a CREDIT stock-out until fully paid.
// Each record references exactly one OUT movement with payment mode CREDIT.
type CreditSale struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	MovementID   uint            `gorm:"not null;uniqueIndex" json:"movement_id"`
	Movement     *StockMovement  `gorm:"foreignKey:MovementID" json:"movement,omitempty"`
	CustomerName string          `gorm:"type:varchar(255);not null;index" json:"customer_name"`
	TotalDue     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_due"`
	AmountPaid   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"amount_paid"`
	Status       string          `gorm:"type:varchar(10);not null;index" json:"status"` // UNPAID, PARTIAL, PAID
	DueDate      *time.Time      `json:"due_date,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Balance is the amount still owed.
func (c *CreditSale) Balance() decimal.Decimal {
	return c.TotalDue.Sub(c.AmountPaid)
}

// DeriveStatus recomputes Status from AmountPaid against TotalDue. Called
// whenever either side changes. The paid check comes first so a zero-total
// sale counts as settled rather than stuck at UNPAID.
func (c *CreditSale) DeriveStatus() {
	switch {
	case c.AmountPaid.Equal(c.TotalDue):
		c.Status = CreditPaid
	case c.AmountPaid.IsZero():
		c.Status = CreditUnpaid
	default:
		c.Status = CreditPartial
	}
}
