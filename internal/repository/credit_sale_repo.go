package repository

import (
	"context"

	"tindahan/internal/model"

	"gorm.io/gorm"
)

type CreditSaleRepository interface {
	Create(ctx context.Context, cs *model.CreditSale) error
	Update(ctx context.Context, cs *model.CreditSale) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.CreditSale, error)
	FindByMovementID(ctx context.Context, movementID uint) (*model.CreditSale, error)
	List(ctx context.Context, page, limit int) ([]model.CreditSale, int64, error)
	ListByStatus(ctx context.Context, status string) ([]model.CreditSale, error)
	ListByCustomer(ctx context.Context, customerName string) ([]model.CreditSale, error)
}

type creditSaleRepository struct {
	db *gorm.DB
}

func NewCreditSaleRepository(db *gorm.DB) CreditSaleRepository {
	return &creditSaleRepository{db: db}
}

func (r *creditSaleRepository) Create(ctx context.Context, cs *model.CreditSale) error {
	return GetDB(ctx, r.db).Create(cs).Error
}

func (r *creditSaleRepository) Update(ctx context.Context, cs *model.CreditSale) error {
	return GetDB(ctx, r.db).Save(cs).Error
}

func (r *creditSaleRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Delete(&model.CreditSale{}, id).Error
}

func (r *creditSaleRepository) FindByID(ctx context.Context, id uint) (*model.CreditSale, error) {
	var cs model.CreditSale
	if err := GetDB(ctx, r.db).First(&cs, id).Error; err != nil {
		return nil, err
	}
	return &cs, nil
}

func (r *creditSaleRepository) FindByMovementID(ctx context.Context, movementID uint) (*model.CreditSale, error) {
	var cs model.CreditSale
	if err := GetDB(ctx, r.db).Where("movement_id = ?", movementID).First(&cs).Error; err != nil {
		return nil, err
	}
	return &cs, nil
}

func (r *creditSaleRepository) List(ctx context.Context, page, limit int) ([]model.CreditSale, int64, error) {
	var sales []model.CreditSale
	var total int64

	db := GetDB(ctx, r.db).Model(&model.CreditSale{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("status asc, customer_name asc").Offset(offset).Limit(limit).Find(&sales).Error; err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

func (r *creditSaleRepository) ListByStatus(ctx context.Context, status string) ([]model.CreditSale, error) {
	var sales []model.CreditSale
	err := GetDB(ctx, r.db).
		Where("status = ?", status).
		Order("customer_name asc, id asc").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *creditSaleRepository) ListByCustomer(ctx context.Context, customerName string) ([]model.CreditSale, error) {
	var sales []model.CreditSale
	err := GetDB(ctx, r.db).
		Where("customer_name = ?", customerName).
		Order("id asc").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}
