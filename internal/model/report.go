package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valuation totals the catalog at selling and at supplier price.
type Valuation struct {
	TotalAtSellingPrice decimal.Decimal `json:"total_at_selling_price"`
	TotalAtSupplierCost decimal.Decimal `json:"total_at_supplier_cost"`
	ProjectedProfit     decimal.Decimal `json:"projected_profit"`
}

// SalesStats aggregates OUT movements over a period.
type SalesStats struct {
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	Revenue      decimal.Decimal `json:"revenue"`
	COGS         decimal.Decimal `json:"cogs"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	Transactions int             `json:"transactions"`
}

// FinancialSummary is the full period statement: sales, expenses, net income.
type FinancialSummary struct {
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	Revenue      decimal.Decimal `json:"revenue"`
	COGS         decimal.Decimal `json:"cogs"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetIncome    decimal.Decimal `json:"net_income"`
}

// ItemCOGS is a per-item cost-of-goods-sold line within a period.
type ItemCOGS struct {
	ItemNo       string          `json:"item_no"`
	ItemName     string          `json:"item_name"`
	QuantitySold int             `json:"quantity_sold"`
	SellingValue decimal.Decimal `json:"selling_value"`
	COGS         decimal.Decimal `json:"cogs"`
}

// Dashboard is the landing-view aggregate: valuation, restock pressure and
// today's trading.
type Dashboard struct {
	Valuation     Valuation       `json:"valuation"`
	ReorderCost   decimal.Decimal `json:"reorder_cost"`
	ReorderAlerts []Item          `json:"reorder_alerts"`
	Today         SalesStats      `json:"today"`
}
