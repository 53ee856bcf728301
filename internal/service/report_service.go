package service

import (
	"context"
	"time"

	"tindahan/internal/model"
	"tindahan/internal/repository"
	"tindahan/pkg/period"

	"github.com/shopspring/decimal"
)

// ReportService is a pure read-side consumer of the catalog and the ledgers.
// It owns no persistent state; every figure is recomputed from the rows on
// demand, so totals always reconcile with the ledger.
type ReportService interface {
	InventoryValuation(ctx context.Context) (model.Valuation, error)
	ReorderCost(ctx context.Context) (decimal.Decimal, error)
	ReorderAlerts(ctx context.Context) ([]model.Item, error)
	SalesStats(ctx context.Context, start, end time.Time) (model.SalesStats, error)
	ExpenseTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	FinancialSummary(ctx context.Context, start, end time.Time) (model.FinancialSummary, error)
	FinancialSummaryFor(ctx context.Context, kind period.Kind, ref time.Time) (model.FinancialSummary, error)
	COGSByItem(ctx context.Context, start, end time.Time) ([]model.ItemCOGS, error)
	Dashboard(ctx context.Context) (model.Dashboard, error)
}

type reportService struct {
	itemRepo    repository.ItemRepository
	moveRepo    repository.MovementRepository
	expenseRepo repository.ExpenseRepository
}

func NewReportService(
	itemRepo repository.ItemRepository,
	moveRepo repository.MovementRepository,
	expenseRepo repository.ExpenseRepository,
) ReportService {
	return &reportService{
		itemRepo:    itemRepo,
		moveRepo:    moveRepo,
		expenseRepo: expenseRepo,
	}
}

// InventoryValuation totals current stock at selling price and at supplier
// cost. Projected profit is the spread between the two.
func (s *reportService) InventoryValuation(ctx context.Context) (model.Valuation, error) {
	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return model.Valuation{}, err
	}

	selling := decimal.Zero
	supplier := decimal.Zero
	for i := range items {
		stock := decimal.NewFromInt(int64(items[i].CurrentStock))
		selling = selling.Add(stock.Mul(items[i].SellingPrice))
		supplier = supplier.Add(stock.Mul(items[i].SupplierPrice))
	}

	return model.Valuation{
		TotalAtSellingPrice: selling,
		TotalAtSupplierCost: supplier,
		ProjectedProfit:     selling.Sub(supplier),
	}, nil
}

// ReorderCost sums reorder quantity at supplier cost over items below their
// threshold.
func (s *reportService) ReorderCost(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.itemRepo.ListReorderNeeded(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i := range items {
		qty := decimal.NewFromInt(int64(items[i].ReorderQty))
		total = total.Add(qty.Mul(items[i].SupplierPrice))
	}
	return total, nil
}

func (s *reportService) ReorderAlerts(ctx context.Context) ([]model.Item, error) {
	return s.itemRepo.ListReorderNeeded(ctx)
}

// SalesStats aggregates OUT movements in [start, end): revenue from line
// amounts, COGS from the supplier-cost snapshots taken at sale time.
func (s *reportService) SalesStats(ctx context.Context, start, end time.Time) (model.SalesStats, error) {
	movements, err := s.moveRepo.ListOutByPeriod(ctx, start, end)
	if err != nil {
		return model.SalesStats{}, err
	}

	revenue := decimal.Zero
	cogs := decimal.Zero
	for i := range movements {
		mv := &movements[i]
		revenue = revenue.Add(mv.LineAmount)
		cogs = cogs.Add(mv.UnitCost.Mul(decimal.NewFromInt(int64(mv.Quantity))))
	}

	return model.SalesStats{
		Start:        start,
		End:          end,
		Revenue:      revenue,
		COGS:         cogs,
		GrossProfit:  revenue.Sub(cogs),
		Transactions: len(movements),
	}, nil
}

func (s *reportService) ExpenseTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	expenses, err := s.expenseRepo.ListByPeriod(ctx, start, end)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i := range expenses {
		total = total.Add(expenses[i].Amount)
	}
	return total, nil
}

func (s *reportService) FinancialSummary(ctx context.Context, start, end time.Time) (model.FinancialSummary, error) {
	stats, err := s.SalesStats(ctx, start, end)
	if err != nil {
		return model.FinancialSummary{}, err
	}
	expenses, err := s.ExpenseTotal(ctx, start, end)
	if err != nil {
		return model.FinancialSummary{}, err
	}

	return model.FinancialSummary{
		Start:        start,
		End:          end,
		Revenue:      stats.Revenue,
		COGS:         stats.COGS,
		GrossProfit:  stats.GrossProfit,
		TotalExpense: expenses,
		NetIncome:    stats.GrossProfit.Sub(expenses),
	}, nil
}

// FinancialSummaryFor resolves a named bucket (daily/weekly/monthly) around
// the reference date and summarizes it.
func (s *reportService) FinancialSummaryFor(ctx context.Context, kind period.Kind, ref time.Time) (model.FinancialSummary, error) {
	r, err := period.Of(kind, ref)
	if err != nil {
		return model.FinancialSummary{}, err
	}
	return s.FinancialSummary(ctx, r.Start, r.End)
}

// COGSByItem breaks the period's cost of goods sold down per item.
func (s *reportService) COGSByItem(ctx context.Context, start, end time.Time) ([]model.ItemCOGS, error) {
	movements, err := s.moveRepo.ListOutByPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	byItem := make(map[string]*model.ItemCOGS)
	order := make([]string, 0)
	for i := range movements {
		mv := &movements[i]
		line, ok := byItem[mv.ItemNo]
		if !ok {
			line = &model.ItemCOGS{ItemNo: mv.ItemNo}
			byItem[mv.ItemNo] = line
			order = append(order, mv.ItemNo)
		}
		qty := decimal.NewFromInt(int64(mv.Quantity))
		line.QuantitySold += mv.Quantity
		line.SellingValue = line.SellingValue.Add(mv.LineAmount)
		line.COGS = line.COGS.Add(mv.UnitCost.Mul(qty))
	}

	res := make([]model.ItemCOGS, 0, len(order))
	for _, itemNo := range order {
		line := byItem[itemNo]
		if item, err := s.itemRepo.FindByItemNo(ctx, itemNo); err == nil {
			line.ItemName = item.Name
		}
		res = append(res, *line)
	}
	return res, nil
}

// Dashboard assembles the landing view: valuation, restock pressure and
// today's trading.
func (s *reportService) Dashboard(ctx context.Context) (model.Dashboard, error) {
	valuation, err := s.InventoryValuation(ctx)
	if err != nil {
		return model.Dashboard{}, err
	}
	reorderCost, err := s.ReorderCost(ctx)
	if err != nil {
		return model.Dashboard{}, err
	}
	alerts, err := s.itemRepo.ListReorderNeeded(ctx)
	if err != nil {
		return model.Dashboard{}, err
	}

	today, err := period.Of(period.Daily, time.Now())
	if err != nil {
		return model.Dashboard{}, err
	}
	stats, err := s.SalesStats(ctx, today.Start, today.End)
	if err != nil {
		return model.Dashboard{}, err
	}

	return model.Dashboard{
		Valuation:     valuation,
		ReorderCost:   reorderCost,
		ReorderAlerts: alerts,
		Today:         stats,
	}, nil
}
