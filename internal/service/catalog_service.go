package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tindahan/internal/config"
	"tindahan/internal/model"
	"tindahan/internal/repository"
	"tindahan/pkg/apperror"
	"tindahan/pkg/currency"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateItemRequest struct {
	ItemNo        string `json:"item_no" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Unit          string `json:"unit"`
	SupplierPrice string `json:"supplier_price" binding:"required"` // decimal string
	SellingPrice  string `json:"selling_price" binding:"required"`
	InitialStock  int    `json:"initial_stock"`
	ReorderLevel  *int   `json:"reorder_level"` // nil applies the configured default
	ReorderQty    int    `json:"reorder_qty"`
}

type UpdateItemRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Unit          string `json:"unit"`
	SupplierPrice string `json:"supplier_price" binding:"required"`
	SellingPrice  string `json:"selling_price" binding:"required"`
	ReorderLevel  *int   `json:"reorder_level"`
	ReorderQty    int    `json:"reorder_qty"`
}

type ItemResponse struct {
	ItemNo                string `json:"item_no"`
	Name                  string `json:"name"`
	Description           string `json:"description"`
	Unit                  string `json:"unit"`
	SupplierPrice         string `json:"supplier_price"`
	SellingPrice          string `json:"selling_price"`
	SellingPriceDisplay   string `json:"selling_price_display"`
	CurrentStock          int    `json:"current_stock"`
	ReorderLevel          int    `json:"reorder_level"`
	ReorderQty            int    `json:"reorder_qty"`
	ReorderNeeded         bool   `json:"reorder_needed"`
	ReorderSuggestion     int    `json:"reorder_suggestion"`
	SuggestedSellingPrice string `json:"suggested_selling_price"`
	IsActive              bool   `json:"is_active"`
}

// --- Interface ---

type CatalogService interface {
	AddItem(ctx context.Context, req CreateItemRequest) (ItemResponse, error)
	UpdateItem(ctx context.Context, itemNo string, req UpdateItemRequest) (ItemResponse, error)
	DeleteItem(ctx context.Context, itemNo string) error
	GetItem(ctx context.Context, itemNo string) (ItemResponse, error)
	ListItems(ctx context.Context, page, limit int) ([]ItemResponse, int64, error)
	SearchItems(ctx context.Context, query string) ([]ItemResponse, error)
	SetActive(ctx context.Context, itemNo string, active bool) (ItemResponse, error)

	// SuggestSellingPrice applies the configured markup to a supplier cost,
	// rounded to centavos.
	SuggestSellingPrice(supplierCost decimal.Decimal) decimal.Decimal
}

type catalogService struct {
	itemRepo  repository.ItemRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	pricing   config.PricingConfig
}

func NewCatalogService(
	itemRepo repository.ItemRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	pricing config.PricingConfig,
) CatalogService {
	return &catalogService{
		itemRepo:  itemRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		pricing:   pricing,
	}
}

// --- Implementation ---

func (s *catalogService) AddItem(ctx context.Context, req CreateItemRequest) (ItemResponse, error) {
	itemNo := strings.TrimSpace(req.ItemNo)
	name := strings.TrimSpace(req.Name)
	if itemNo == "" {
		return ItemResponse{}, apperror.Validation("item", "item_no", "must not be empty")
	}
	if name == "" {
		return ItemResponse{}, apperror.Validation("item", "name", "must not be empty")
	}

	supplierPrice, sellingPrice, err := parsePrices(req.SupplierPrice, req.SellingPrice)
	if err != nil {
		return ItemResponse{}, err
	}
	if req.InitialStock < 0 {
		return ItemResponse{}, apperror.Validation("item", "initial_stock", "must not be negative")
	}
	if req.ReorderQty < 0 {
		return ItemResponse{}, apperror.Validation("item", "reorder_qty", "must not be negative")
	}

	reorderLevel := s.pricing.DefaultReorderLevel
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			return ItemResponse{}, apperror.Validation("item", "reorder_level", "must not be negative")
		}
		reorderLevel = *req.ReorderLevel
	}

	if _, err := s.itemRepo.FindByItemNo(ctx, itemNo); err == nil {
		return ItemResponse{}, apperror.Validation("item", "item_no", fmt.Sprintf("item %q already exists", itemNo))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ItemResponse{}, fmt.Errorf("failed to check item %s: %w", itemNo, err)
	}

	item := model.Item{
		ItemNo:        itemNo,
		Name:          name,
		Description:   req.Description,
		Unit:          req.Unit,
		SupplierPrice: supplierPrice,
		SellingPrice:  sellingPrice,
		CurrentStock:  req.InitialStock,
		ReorderLevel:  reorderLevel,
		ReorderQty:    req.ReorderQty,
		IsActive:      true,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.itemRepo.Create(txCtx, &item); err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		return s.audit(txCtx, model.ActionAddItem, &item, req)
	})
	if err != nil {
		return ItemResponse{}, err
	}

	return s.mapItem(&item), nil
}

func (s *catalogService) UpdateItem(ctx context.Context, itemNo string, req UpdateItemRequest) (ItemResponse, error) {
	item, err := s.findItem(ctx, itemNo)
	if err != nil {
		return ItemResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ItemResponse{}, apperror.Validation("item", "name", "must not be empty")
	}
	supplierPrice, sellingPrice, err := parsePrices(req.SupplierPrice, req.SellingPrice)
	if err != nil {
		return ItemResponse{}, err
	}
	if req.ReorderQty < 0 {
		return ItemResponse{}, apperror.Validation("item", "reorder_qty", "must not be negative")
	}
	if req.ReorderLevel != nil && *req.ReorderLevel < 0 {
		return ItemResponse{}, apperror.Validation("item", "reorder_level", "must not be negative")
	}

	item.Name = name
	item.Description = req.Description
	item.Unit = req.Unit
	item.SupplierPrice = supplierPrice
	item.SellingPrice = sellingPrice
	item.ReorderQty = req.ReorderQty
	if req.ReorderLevel != nil {
		item.ReorderLevel = *req.ReorderLevel
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.itemRepo.Update(txCtx, item); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		return s.audit(txCtx, model.ActionUpdateItem, item, req)
	})
	if err != nil {
		return ItemResponse{}, err
	}

	return s.mapItem(item), nil
}

// DeleteItem removes a catalog entry. Movement history referencing the item is
// preserved; the delete is soft.
func (s *catalogService) DeleteItem(ctx context.Context, itemNo string) error {
	item, err := s.findItem(ctx, itemNo)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.itemRepo.Delete(txCtx, item.ItemNo); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}
		return s.audit(txCtx, model.ActionDeleteItem, item, map[string]any{"deleted": true})
	})
}

func (s *catalogService) GetItem(ctx context.Context, itemNo string) (ItemResponse, error) {
	item, err := s.findItem(ctx, itemNo)
	if err != nil {
		return ItemResponse{}, err
	}
	return s.mapItem(item), nil
}

func (s *catalogService) ListItems(ctx context.Context, page, limit int) ([]ItemResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	items, total, err := s.itemRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.mapItems(items), total, nil
}

func (s *catalogService) SearchItems(ctx context.Context, query string) ([]ItemResponse, error) {
	items, err := s.itemRepo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.mapItems(items), nil
}

func (s *catalogService) SetActive(ctx context.Context, itemNo string, active bool) (ItemResponse, error) {
	item, err := s.findItem(ctx, itemNo)
	if err != nil {
		return ItemResponse{}, err
	}

	item.IsActive = active
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.itemRepo.Update(txCtx, item); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		return s.audit(txCtx, model.ActionSetItemActive, item, map[string]any{"is_active": active})
	})
	if err != nil {
		return ItemResponse{}, err
	}

	return s.mapItem(item), nil
}

func (s *catalogService) SuggestSellingPrice(supplierCost decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(s.pricing.MarkupPercent.Div(decimal.NewFromInt(100)))
	return supplierCost.Mul(factor).Round(2)
}

// --- helpers ---

func (s *catalogService) findItem(ctx context.Context, itemNo string) (*model.Item, error) {
	item, err := s.itemRepo.FindByItemNo(ctx, itemNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("item", itemNo)
		}
		return nil, fmt.Errorf("failed to find item %s: %w", itemNo, err)
	}
	return item, nil
}

func (s *catalogService) audit(ctx context.Context, action string, item *model.Item, payload any) error {
	details, _ := json.Marshal(payload)
	entry := &model.AuditLog{
		Action:     action,
		EntityID:   item.ItemNo,
		EntityName: item.Name,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *catalogService) mapItem(item *model.Item) ItemResponse {
	return ItemResponse{
		ItemNo:                item.ItemNo,
		Name:                  item.Name,
		Description:           item.Description,
		Unit:                  item.Unit,
		SupplierPrice:         item.SupplierPrice.StringFixed(2),
		SellingPrice:          item.SellingPrice.StringFixed(2),
		SellingPriceDisplay:   currency.Format(item.SellingPrice),
		CurrentStock:          item.CurrentStock,
		ReorderLevel:          item.ReorderLevel,
		ReorderQty:            item.ReorderQty,
		ReorderNeeded:         item.ReorderNeeded(),
		ReorderSuggestion:     item.ReorderSuggestion(),
		SuggestedSellingPrice: s.SuggestSellingPrice(item.SupplierPrice).StringFixed(2),
		IsActive:              item.IsActive,
	}
}

func (s *catalogService) mapItems(items []model.Item) []ItemResponse {
	res := make([]ItemResponse, 0, len(items))
	for i := range items {
		res = append(res, s.mapItem(&items[i]))
	}
	return res
}

// parsePrices validates the two monetary fields shared by create and update.
func parsePrices(supplier, selling string) (decimal.Decimal, decimal.Decimal, error) {
	supplierPrice, err := decimal.NewFromString(supplier)
	if err != nil {
		return decimal.Zero, decimal.Zero, apperror.Validation("item", "supplier_price", "invalid decimal")
	}
	sellingPrice, err := decimal.NewFromString(selling)
	if err != nil {
		return decimal.Zero, decimal.Zero, apperror.Validation("item", "selling_price", "invalid decimal")
	}
	if supplierPrice.IsNegative() {
		return decimal.Zero, decimal.Zero, apperror.Validation("item", "supplier_price", "must not be negative")
	}
	if sellingPrice.IsNegative() {
		return decimal.Zero, decimal.Zero, apperror.Validation("item", "selling_price", "must not be negative")
	}
	return supplierPrice, sellingPrice, nil
}
