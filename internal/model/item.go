package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultReorderLevel is applied when a catalog entry does not set its own
// threshold.
const DefaultReorderLevel = 5

// Item represents a catalog entry with its current stock level.
//
// CurrentStock is never written directly by callers; it only changes through
// stock movement ledger entries, so replaying the ledger always reproduces it.
type Item struct {
	ItemNo        string          `gorm:"type:varchar(100);primaryKey" json:"item_no"`
	Name          string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Unit          string          `gorm:"type:varchar(50)" json:"unit"` // pcs, kg, pack, ...
	SupplierPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"supplier_price"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"selling_price"`
	CurrentStock  int             `gorm:"not null;default:0" json:"current_stock"`
	ReorderLevel  int             `gorm:"not null;default:5" json:"reorder_level"`
	ReorderQty    int             `gorm:"not null;default:5" json:"reorder_qty"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"` // discontinued items cannot be sold
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"` // movement history survives deletion
}

// ReorderNeeded reports whether stock has fallen below the item's threshold.
func (i *Item) ReorderNeeded() bool {
	return i.CurrentStock < i.ReorderLevel
}

// ReorderSuggestion returns the suggested restock quantity, or zero when no
// reorder is needed.
func (i *Item) ReorderSuggestion() int {
	if i.ReorderNeeded() {
		return i.ReorderQty
	}
	return 0
}
