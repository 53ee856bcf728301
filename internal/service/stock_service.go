package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tindahan/internal/model"
	"tindahan/internal/repository"
	ws "tindahan/internal/websocket"
	"tindahan/pkg/apperror"
	"tindahan/pkg/currency"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type StockInRequest struct {
	ItemNo     string     `json:"item_no" binding:"required"`
	Quantity   int        `json:"quantity" binding:"required"`
	UnitCost   string     `json:"unit_cost" binding:"required"` // decimal string
	OccurredAt *time.Time `json:"occurred_at"`                  // defaults to now
}

type StockOutRequest struct {
	ItemNo           string     `json:"item_no" binding:"required"`
	Quantity         int        `json:"quantity" binding:"required"`
	UnitPrice        string     `json:"unit_price" binding:"required"`
	AdditionalCharge string     `json:"additional_charge"`
	PaymentMode      string     `json:"payment_mode" binding:"required,oneof=CASH CREDIT"`
	CustomerName     string     `json:"customer_name"` // required for CREDIT
	DueDate          *time.Time `json:"due_date"`
	OccurredAt       *time.Time `json:"occurred_at"`
}

type EditMovementRequest struct {
	Quantity         int        `json:"quantity" binding:"required"`
	UnitPrice        string     `json:"unit_price" binding:"required"`
	AdditionalCharge string     `json:"additional_charge"`
	OccurredAt       *time.Time `json:"occurred_at"`
}

type MovementResponse struct {
	ID               uint   `json:"id"`
	ItemNo           string `json:"item_no"`
	Direction        string `json:"direction"`
	Quantity         int    `json:"quantity"`
	UnitPrice        string `json:"unit_price"`
	UnitCost         string `json:"unit_cost"`
	AdditionalCharge string `json:"additional_charge"`
	PaymentMode      string `json:"payment_mode,omitempty"`
	LineAmount       string `json:"line_amount"`
	StockAfter       int    `json:"stock_after"`
	OccurredAt       string `json:"occurred_at"`
}

// StockInResponse carries the appended entry plus the pricing hints shown on
// the stock-in screen.
type StockInResponse struct {
	Movement              MovementResponse `json:"movement"`
	SuggestedSellingPrice string           `json:"suggested_selling_price"`
	ProfitPerUnit         string           `json:"profit_per_unit"`
	ReorderNeeded         bool             `json:"reorder_needed"`
}

type StockOutResponse struct {
	Movement          MovementResponse `json:"movement"`
	LineAmountDisplay string           `json:"line_amount_display"`
	CreditSaleID      *uint            `json:"credit_sale_id,omitempty"`
	ReorderNeeded     bool             `json:"reorder_needed"`
}

// StockEvent is the payload broadcast to the UI whenever stock changes.
type StockEvent struct {
	Event         string `json:"event"`
	ItemNo        string `json:"item_no"`
	ItemName      string `json:"item_name"`
	CurrentStock  int    `json:"current_stock"`
	ReorderNeeded bool   `json:"reorder_needed"`
}

// --- Interface ---

type StockService interface {
	RecordStockIn(ctx context.Context, req StockInRequest) (StockInResponse, error)
	RecordStockOut(ctx context.Context, req StockOutRequest) (StockOutResponse, error)
	EditMovement(ctx context.Context, id uint, req EditMovementRequest) (MovementResponse, error)
	DeleteMovement(ctx context.Context, id uint) error
	ListByPeriod(ctx context.Context, start, end time.Time) ([]MovementResponse, error)
}

type stockService struct {
	itemRepo   repository.ItemRepository
	moveRepo   repository.MovementRepository
	creditRepo repository.CreditSaleRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
	catalog    CatalogService
	hub        *ws.Hub
}

func NewStockService(
	itemRepo repository.ItemRepository,
	moveRepo repository.MovementRepository,
	creditRepo repository.CreditSaleRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	catalog CatalogService,
	hub *ws.Hub,
) StockService {
	return &stockService{
		itemRepo:   itemRepo,
		moveRepo:   moveRepo,
		creditRepo: creditRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
		catalog:    catalog,
		hub:        hub,
	}
}

// --- Implementation ---

func (s *stockService) RecordStockIn(ctx context.Context, req StockInRequest) (StockInResponse, error) {
	if req.Quantity <= 0 {
		return StockInResponse{}, apperror.Validation("movement", "quantity", "must be positive")
	}
	unitCost, err := decimal.NewFromString(req.UnitCost)
	if err != nil || unitCost.IsNegative() {
		return StockInResponse{}, apperror.Validation("movement", "unit_cost", "must be a non-negative decimal")
	}

	var (
		item *model.Item
		mv   model.StockMovement
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err = s.findItem(txCtx, req.ItemNo)
		if err != nil {
			return err
		}
		if !item.IsActive {
			return apperror.Validation("item", "item_no", fmt.Sprintf("item %q is discontinued", item.ItemNo))
		}

		newStock := item.CurrentStock + req.Quantity
		mv = model.StockMovement{
			ItemNo:           item.ItemNo,
			Direction:        model.DirectionIn,
			Quantity:         req.Quantity,
			UnitPrice:        unitCost,
			UnitCost:         unitCost,
			AdditionalCharge: decimal.Zero,
			LineAmount:       unitCost.Mul(decimal.NewFromInt(int64(req.Quantity))),
			StockAfter:       newStock,
			OccurredAt:       occurredAt(req.OccurredAt),
		}
		if err := s.moveRepo.Create(txCtx, &mv); err != nil {
			return fmt.Errorf("failed to append stock-in entry: %w", err)
		}
		if err := s.itemRepo.UpdateStock(txCtx, item.ItemNo, newStock); err != nil {
			return fmt.Errorf("failed to update stock for %s: %w", item.ItemNo, err)
		}
		item.CurrentStock = newStock

		return s.audit(txCtx, model.ActionStockIn, &mv, item.Name)
	})
	if err != nil {
		return StockInResponse{}, err
	}

	s.broadcastStock(item)

	return StockInResponse{
		Movement:              mapMovement(&mv),
		SuggestedSellingPrice: s.catalog.SuggestSellingPrice(unitCost).StringFixed(2),
		ProfitPerUnit:         item.SellingPrice.Sub(unitCost).StringFixed(2),
		ReorderNeeded:         item.ReorderNeeded(),
	}, nil
}

func (s *stockService) RecordStockOut(ctx context.Context, req StockOutRequest) (StockOutResponse, error) {
	if req.Quantity <= 0 {
		return StockOutResponse{}, apperror.Validation("movement", "quantity", "must be positive")
	}
	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil || unitPrice.IsNegative() {
		return StockOutResponse{}, apperror.Validation("movement", "unit_price", "must be a non-negative decimal")
	}
	charge := decimal.Zero
	if req.AdditionalCharge != "" {
		charge, err = decimal.NewFromString(req.AdditionalCharge)
		if err != nil || charge.IsNegative() {
			return StockOutResponse{}, apperror.Validation("movement", "additional_charge", "must be a non-negative decimal")
		}
	}
	if req.PaymentMode == model.PaymentCredit && strings.TrimSpace(req.CustomerName) == "" {
		return StockOutResponse{}, apperror.Validation("credit_sale", "customer_name", "required for credit sales")
	}

	var (
		item     *model.Item
		mv       model.StockMovement
		creditID *uint
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err = s.findItem(txCtx, req.ItemNo)
		if err != nil {
			return err
		}
		if !item.IsActive {
			return apperror.Validation("item", "item_no", fmt.Sprintf("item %q is discontinued", item.ItemNo))
		}
		if req.Quantity > item.CurrentStock {
			return apperror.InsufficientStock(item.ItemNo, item.CurrentStock, req.Quantity)
		}

		newStock := item.CurrentStock - req.Quantity
		lineAmount := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))).Add(charge)
		mv = model.StockMovement{
			ItemNo:           item.ItemNo,
			Direction:        model.DirectionOut,
			Quantity:         req.Quantity,
			UnitPrice:        unitPrice,
			UnitCost:         item.SupplierPrice, // COGS snapshot at sale time
			AdditionalCharge: charge,
			PaymentMode:      req.PaymentMode,
			LineAmount:       lineAmount,
			StockAfter:       newStock,
			OccurredAt:       occurredAt(req.OccurredAt),
		}
		if err := s.moveRepo.Create(txCtx, &mv); err != nil {
			return fmt.Errorf("failed to append stock-out entry: %w", err)
		}
		if err := s.itemRepo.UpdateStock(txCtx, item.ItemNo, newStock); err != nil {
			return fmt.Errorf("failed to update stock for %s: %w", item.ItemNo, err)
		}
		item.CurrentStock = newStock

		if req.PaymentMode == model.PaymentCredit {
			cs := model.CreditSale{
				MovementID:   mv.ID,
				CustomerName: strings.TrimSpace(req.CustomerName),
				TotalDue:     lineAmount,
				AmountPaid:   decimal.Zero,
				DueDate:      req.DueDate,
			}
			cs.DeriveStatus()
			if err := s.creditRepo.Create(txCtx, &cs); err != nil {
				return fmt.Errorf("failed to create credit sale: %w", err)
			}
			creditID = &cs.ID
		}

		return s.audit(txCtx, model.ActionStockOut, &mv, item.Name)
	})
	if err != nil {
		return StockOutResponse{}, err
	}

	s.broadcastStock(item)

	return StockOutResponse{
		Movement:          mapMovement(&mv),
		LineAmountDisplay: currency.Format(mv.LineAmount),
		CreditSaleID:      creditID,
		ReorderNeeded:     item.ReorderNeeded(),
	}, nil
}

// EditMovement rewrites an entry's quantity, pricing or timestamp. Direction
// and payment mode are immutable. The original stock delta is reversed before
// the new one is applied; if either step would drive stock negative the whole
// edit is rejected.
func (s *stockService) EditMovement(ctx context.Context, id uint, req EditMovementRequest) (MovementResponse, error) {
	if req.Quantity <= 0 {
		return MovementResponse{}, apperror.Validation("movement", "quantity", "must be positive")
	}
	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil || unitPrice.IsNegative() {
		return MovementResponse{}, apperror.Validation("movement", "unit_price", "must be a non-negative decimal")
	}
	charge := decimal.Zero
	if req.AdditionalCharge != "" {
		charge, err = decimal.NewFromString(req.AdditionalCharge)
		if err != nil || charge.IsNegative() {
			return MovementResponse{}, apperror.Validation("movement", "additional_charge", "must be a non-negative decimal")
		}
	}

	var (
		item *model.Item
		mv   *model.StockMovement
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		mv, err = s.findMovement(txCtx, id)
		if err != nil {
			return err
		}
		item, err = s.findItem(txCtx, mv.ItemNo)
		if err != nil {
			return err
		}

		// Reverse the old delta, then apply the new one.
		reversed := item.CurrentStock - mv.Delta()
		if reversed < 0 {
			return apperror.Conflict("movement", fmt.Sprint(id),
				fmt.Sprintf("cannot reverse entry: stock would drop to %d", reversed))
		}
		newDelta := req.Quantity
		if mv.Direction == model.DirectionOut {
			newDelta = -req.Quantity
		}
		newStock := reversed + newDelta
		if newStock < 0 {
			return apperror.Conflict("movement", fmt.Sprint(id),
				fmt.Sprintf("cannot apply new quantity: stock would drop to %d", newStock))
		}

		mv.Quantity = req.Quantity
		mv.UnitPrice = unitPrice
		if mv.Direction == model.DirectionIn {
			mv.UnitCost = unitPrice
			mv.AdditionalCharge = decimal.Zero
		} else {
			mv.AdditionalCharge = charge
		}
		mv.LineAmount = unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))).Add(mv.AdditionalCharge)
		mv.StockAfter = newStock
		if req.OccurredAt != nil {
			mv.OccurredAt = *req.OccurredAt
		}

		if err := s.moveRepo.Update(txCtx, mv); err != nil {
			return fmt.Errorf("failed to update movement %d: %w", id, err)
		}
		if err := s.itemRepo.UpdateStock(txCtx, item.ItemNo, newStock); err != nil {
			return fmt.Errorf("failed to update stock for %s: %w", item.ItemNo, err)
		}
		item.CurrentStock = newStock

		// A linked credit sale follows the new line amount.
		if mv.Direction == model.DirectionOut && mv.PaymentMode == model.PaymentCredit {
			if err := s.syncCreditSale(txCtx, mv); err != nil {
				return err
			}
		}

		return s.audit(txCtx, model.ActionEditMovement, mv, item.Name)
	})
	if err != nil {
		return MovementResponse{}, err
	}

	s.broadcastStock(item)
	return mapMovement(mv), nil
}

// DeleteMovement removes an entry and restores the stock it moved. A linked
// credit sale is removed with its movement.
func (s *stockService) DeleteMovement(ctx context.Context, id uint) error {
	var item *model.Item
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		mv, err := s.findMovement(txCtx, id)
		if err != nil {
			return err
		}
		item, err = s.findItem(txCtx, mv.ItemNo)
		if err != nil {
			return err
		}

		restored := item.CurrentStock - mv.Delta()
		if restored < 0 {
			return apperror.Conflict("movement", fmt.Sprint(id),
				fmt.Sprintf("cannot reverse entry: stock would drop to %d", restored))
		}

		if mv.Direction == model.DirectionOut && mv.PaymentMode == model.PaymentCredit {
			cs, err := s.creditRepo.FindByMovementID(txCtx, mv.ID)
			if err == nil {
				if err := s.creditRepo.Delete(txCtx, cs.ID); err != nil {
					return fmt.Errorf("failed to delete linked credit sale: %w", err)
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up linked credit sale: %w", err)
			}
		}

		if err := s.moveRepo.Delete(txCtx, mv.ID); err != nil {
			return fmt.Errorf("failed to delete movement %d: %w", id, err)
		}
		if err := s.itemRepo.UpdateStock(txCtx, item.ItemNo, restored); err != nil {
			return fmt.Errorf("failed to restore stock for %s: %w", item.ItemNo, err)
		}
		item.CurrentStock = restored

		return s.audit(txCtx, model.ActionDeleteMovement, mv, item.Name)
	})
	if err != nil {
		return err
	}

	s.broadcastStock(item)
	return nil
}

func (s *stockService) ListByPeriod(ctx context.Context, start, end time.Time) ([]MovementResponse, error) {
	movements, err := s.moveRepo.ListByPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	res := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		res = append(res, mapMovement(&movements[i]))
	}
	return res, nil
}

// --- helpers ---

func (s *stockService) findItem(ctx context.Context, itemNo string) (*model.Item, error) {
	item, err := s.itemRepo.FindByItemNo(ctx, itemNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("item", itemNo)
		}
		return nil, fmt.Errorf("failed to find item %s: %w", itemNo, err)
	}
	return item, nil
}

func (s *stockService) findMovement(ctx context.Context, id uint) (*model.StockMovement, error) {
	mv, err := s.moveRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("movement", fmt.Sprint(id))
		}
		return nil, fmt.Errorf("failed to find movement %d: %w", id, err)
	}
	return mv, nil
}

func (s *stockService) syncCreditSale(ctx context.Context, mv *model.StockMovement) error {
	cs, err := s.creditRepo.FindByMovementID(ctx, mv.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up linked credit sale: %w", err)
	}

	if cs.AmountPaid.GreaterThan(mv.LineAmount) {
		return apperror.Conflict("credit_sale", fmt.Sprint(cs.ID),
			"amount already paid exceeds the new total due")
	}
	cs.TotalDue = mv.LineAmount
	cs.DeriveStatus()
	if err := s.creditRepo.Update(ctx, cs); err != nil {
		return fmt.Errorf("failed to update linked credit sale: %w", err)
	}
	return nil
}

func (s *stockService) audit(ctx context.Context, action string, mv *model.StockMovement, itemName string) error {
	details, _ := json.Marshal(mv)
	entry := &model.AuditLog{
		Action:     action,
		EntityID:   fmt.Sprint(mv.ID),
		EntityName: itemName,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *stockService) broadcastStock(item *model.Item) {
	if s.hub == nil || item == nil {
		return
	}
	payload, _ := json.Marshal(StockEvent{
		Event:         "stock_changed",
		ItemNo:        item.ItemNo,
		ItemName:      item.Name,
		CurrentStock:  item.CurrentStock,
		ReorderNeeded: item.ReorderNeeded(),
	})
	s.hub.Publish(payload)
}

func mapMovement(mv *model.StockMovement) MovementResponse {
	return MovementResponse{
		ID:               mv.ID,
		ItemNo:           mv.ItemNo,
		Direction:        mv.Direction,
		Quantity:         mv.Quantity,
		UnitPrice:        mv.UnitPrice.StringFixed(2),
		UnitCost:         mv.UnitCost.StringFixed(2),
		AdditionalCharge: mv.AdditionalCharge.StringFixed(2),
		PaymentMode:      mv.PaymentMode,
		LineAmount:       mv.LineAmount.StringFixed(2),
		StockAfter:       mv.StockAfter,
		OccurredAt:       mv.OccurredAt.Format(time.RFC3339),
	}
}

func occurredAt(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now()
}
