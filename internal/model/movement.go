package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction constants
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// Payment mode constants (OUT movements only)
const (
	PaymentCash   = "CASH"
	PaymentCredit = "CREDIT"
)

// StockMovement is an entry in the append-only stock ledger, the source of
// truth for every stock change. Entries are immutable except through the
// explicit edit/delete operations, which also reverse their stock effect.
type StockMovement struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemNo    string `gorm:"type:varchar(100);not null;index" json:"item_no"`
	Item      *Item  `gorm:"foreignKey:ItemNo;references:ItemNo" json:"item,omitempty"`
	Direction string `gorm:"type:varchar(10);not null;index" json:"direction"` // IN, OUT
	Quantity  int    `gorm:"not null" json:"quantity"`

	// UnitPrice is the supplier cost for IN entries and the selling price for
	// OUT entries, captured at transaction time. UnitCost is always the
	// supplier cost snapshot; OUT entries use it for COGS.
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_cost"`
	AdditionalCharge decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"additional_charge"`
	PaymentMode      string          `gorm:"type:varchar(10)" json:"payment_mode,omitempty"` // CASH, CREDIT

	// LineAmount = Quantity x UnitPrice + AdditionalCharge.
	LineAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"line_amount"`

	// StockAfter snapshots the item's stock immediately after this entry was
	// applied.
	StockAfter int       `gorm:"not null" json:"stock_after"`
	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Delta is the signed stock effect of the entry.
func (m *StockMovement) Delta() int {
	if m.Direction == DirectionOut {
		return -m.Quantity
	}
	return m.Quantity
}
