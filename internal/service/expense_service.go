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
	"tindahan/pkg/apperror"
	"tindahan/pkg/currency"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type ExpenseRequest struct {
	SpentOn     *time.Time `json:"spent_on"` // defaults to today
	Category    string     `json:"category"`
	Description string     `json:"description" binding:"required"`
	Amount      string     `json:"amount" binding:"required"` // decimal string
}

type ExpenseResponse struct {
	ID            uint   `json:"id"`
	SpentOn       string `json:"spent_on"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	AmountDisplay string `json:"amount_display"`
}

// --- Interface ---

type ExpenseService interface {
	AddExpense(ctx context.Context, req ExpenseRequest) (ExpenseResponse, error)
	EditExpense(ctx context.Context, id uint, req ExpenseRequest) (ExpenseResponse, error)
	DeleteExpense(ctx context.Context, id uint) error
	ListExpenses(ctx context.Context, page, limit int) ([]ExpenseResponse, int64, error)
	ListByPeriod(ctx context.Context, start, end time.Time) ([]ExpenseResponse, error)
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewExpenseService(
	expenseRepo repository.ExpenseRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ExpenseService {
	return &expenseService{
		expenseRepo: expenseRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *expenseService) AddExpense(ctx context.Context, req ExpenseRequest) (ExpenseResponse, error) {
	expense, err := s.buildExpense(req)
	if err != nil {
		return ExpenseResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Create(txCtx, expense); err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}
		return s.audit(txCtx, model.ActionAddExpense, expense)
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	return mapExpense(expense), nil
}

func (s *expenseService) EditExpense(ctx context.Context, id uint, req ExpenseRequest) (ExpenseResponse, error) {
	updated, err := s.buildExpense(req)
	if err != nil {
		return ExpenseResponse{}, err
	}

	var expense *model.Expense
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		expense, err = s.findExpense(txCtx, id)
		if err != nil {
			return err
		}

		expense.SpentOn = updated.SpentOn
		expense.Category = updated.Category
		expense.Description = updated.Description
		expense.Amount = updated.Amount
		if err := s.expenseRepo.Update(txCtx, expense); err != nil {
			return fmt.Errorf("failed to update expense %d: %w", id, err)
		}
		return s.audit(txCtx, model.ActionEditExpense, expense)
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	return mapExpense(expense), nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id uint) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		expense, err := s.findExpense(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.expenseRepo.Delete(txCtx, expense.ID); err != nil {
			return fmt.Errorf("failed to delete expense %d: %w", id, err)
		}
		return s.audit(txCtx, model.ActionDeleteExpense, expense)
	})
}

func (s *expenseService) ListExpenses(ctx context.Context, page, limit int) ([]ExpenseResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	expenses, total, err := s.expenseRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return mapExpenses(expenses), total, nil
}

func (s *expenseService) ListByPeriod(ctx context.Context, start, end time.Time) ([]ExpenseResponse, error) {
	expenses, err := s.expenseRepo.ListByPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return mapExpenses(expenses), nil
}

// --- helpers ---

func (s *expenseService) buildExpense(req ExpenseRequest) (*model.Expense, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, apperror.Validation("expense", "description", "must not be empty")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.Validation("expense", "amount", "must be a positive decimal")
	}

	spentOn := time.Now()
	if req.SpentOn != nil {
		spentOn = *req.SpentOn
	}

	return &model.Expense{
		SpentOn:     spentOn,
		Category:    strings.TrimSpace(req.Category),
		Description: description,
		Amount:      amount,
	}, nil
}

func (s *expenseService) findExpense(ctx context.Context, id uint) (*model.Expense, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("expense", fmt.Sprint(id))
		}
		return nil, fmt.Errorf("failed to find expense %d: %w", id, err)
	}
	return expense, nil
}

func (s *expenseService) audit(ctx context.Context, action string, expense *model.Expense) error {
	details, _ := json.Marshal(expense)
	entry := &model.AuditLog{
		Action:     action,
		EntityID:   fmt.Sprint(expense.ID),
		EntityName: expense.Description,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func mapExpense(expense *model.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            expense.ID,
		SpentOn:       expense.SpentOn.Format("2006-01-02"),
		Category:      expense.Category,
		Description:   expense.Description,
		Amount:        expense.Amount.StringFixed(2),
		AmountDisplay: currency.Format(expense.Amount),
	}
}

func mapExpenses(expenses []model.Expense) []ExpenseResponse {
	res := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		res = append(res, mapExpense(&expenses[i]))
	}
	return res
}
