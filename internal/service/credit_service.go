package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tindahan/internal/model"
	"tindahan/internal/repository"
	"tindahan/pkg/apperror"
	"tindahan/pkg/currency"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type DepositRequest struct {
	Amount string `json:"amount" binding:"required"` // decimal string
}

type CreditSaleResponse struct {
	ID             uint   `json:"id"`
	MovementID     uint   `json:"movement_id"`
	CustomerName   string `json:"customer_name"`
	TotalDue       string `json:"total_due"`
	AmountPaid     string `json:"amount_paid"`
	Balance        string `json:"balance"`
	BalanceDisplay string `json:"balance_display"`
	Status         string `json:"status"`
	DueDate        string `json:"due_date,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// --- Interface ---

type CreditService interface {
	RecordDeposit(ctx context.Context, id uint, req DepositRequest) (CreditSaleResponse, error)
	DeleteCreditSale(ctx context.Context, id uint) error
	GetCreditSale(ctx context.Context, id uint) (CreditSaleResponse, error)
	ListCreditSales(ctx context.Context, page, limit int) ([]CreditSaleResponse, int64, error)
	ListByStatus(ctx context.Context, status string) ([]CreditSaleResponse, error)
	ListByCustomer(ctx context.Context, customerName string) ([]CreditSaleResponse, error)
}

type creditService struct {
	creditRepo repository.CreditSaleRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
}

func NewCreditService(
	creditRepo repository.CreditSaleRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) CreditService {
	return &creditService{
		creditRepo: creditRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
	}
}

// --- Implementation ---

func (s *creditService) RecordDeposit(ctx context.Context, id uint, req DepositRequest) (CreditSaleResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return CreditSaleResponse{}, apperror.Validation("credit_sale", "amount", "must be a positive decimal")
	}

	var cs *model.CreditSale
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		cs, err = s.findCreditSale(txCtx, id)
		if err != nil {
			return err
		}

		newPaid := cs.AmountPaid.Add(amount)
		if newPaid.GreaterThan(cs.TotalDue) {
			return apperror.Validation("credit_sale", "amount",
				fmt.Sprintf("deposit would exceed balance of %s", cs.Balance().StringFixed(2)))
		}

		cs.AmountPaid = newPaid
		cs.DeriveStatus()
		if err := s.creditRepo.Update(txCtx, cs); err != nil {
			return fmt.Errorf("failed to update credit sale %d: %w", id, err)
		}

		return s.audit(txCtx, model.ActionRecordDeposit, cs, map[string]any{
			"deposit": amount.StringFixed(2),
			"status":  cs.Status,
		})
	})
	if err != nil {
		return CreditSaleResponse{}, err
	}

	return mapCreditSale(cs), nil
}

// DeleteCreditSale drops the receivable record only; the stock-out it
// references stays on the ledger.
func (s *creditService) DeleteCreditSale(ctx context.Context, id uint) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		cs, err := s.findCreditSale(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.creditRepo.Delete(txCtx, cs.ID); err != nil {
			return fmt.Errorf("failed to delete credit sale %d: %w", id, err)
		}
		return s.audit(txCtx, model.ActionDeleteCredit, cs, map[string]any{"deleted": true})
	})
}

func (s *creditService) GetCreditSale(ctx context.Context, id uint) (CreditSaleResponse, error) {
	cs, err := s.findCreditSale(ctx, id)
	if err != nil {
		return CreditSaleResponse{}, err
	}
	return mapCreditSale(cs), nil
}

func (s *creditService) ListCreditSales(ctx context.Context, page, limit int) ([]CreditSaleResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	sales, total, err := s.creditRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return mapCreditSales(sales), total, nil
}

func (s *creditService) ListByStatus(ctx context.Context, status string) ([]CreditSaleResponse, error) {
	switch status {
	case model.CreditUnpaid, model.CreditPartial, model.CreditPaid:
	default:
		return nil, apperror.Validation("credit_sale", "status", "must be UNPAID, PARTIAL or PAID")
	}

	sales, err := s.creditRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return mapCreditSales(sales), nil
}

func (s *creditService) ListByCustomer(ctx context.Context, customerName string) ([]CreditSaleResponse, error) {
	sales, err := s.creditRepo.ListByCustomer(ctx, customerName)
	if err != nil {
		return nil, err
	}
	return mapCreditSales(sales), nil
}

// --- helpers ---

func (s *creditService) findCreditSale(ctx context.Context, id uint) (*model.CreditSale, error) {
	cs, err := s.creditRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("credit_sale", fmt.Sprint(id))
		}
		return nil, fmt.Errorf("failed to find credit sale %d: %w", id, err)
	}
	return cs, nil
}

func (s *creditService) audit(ctx context.Context, action string, cs *model.CreditSale, payload any) error {
	details, _ := json.Marshal(payload)
	entry := &model.AuditLog{
		Action:     action,
		EntityID:   fmt.Sprint(cs.ID),
		EntityName: cs.CustomerName,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func mapCreditSale(cs *model.CreditSale) CreditSaleResponse {
	res := CreditSaleResponse{
		ID:             cs.ID,
		MovementID:     cs.MovementID,
		CustomerName:   cs.CustomerName,
		TotalDue:       cs.TotalDue.StringFixed(2),
		AmountPaid:     cs.AmountPaid.StringFixed(2),
		Balance:        cs.Balance().StringFixed(2),
		BalanceDisplay: currency.Format(cs.Balance()),
		Status:         cs.Status,
		CreatedAt:      cs.CreatedAt.Format(time.RFC3339),
	}
	if cs.DueDate != nil {
		res.DueDate = cs.DueDate.Format("2006-01-02")
	}
	return res
}

func mapCreditSales(sales []model.CreditSale) []CreditSaleResponse {
	res := make([]CreditSaleResponse, 0, len(sales))
	for i := range sales {
		res = append(res, mapCreditSale(&sales[i]))
	}
	return res
}
