package repository

import (
	"context"

	"tindahan/internal/model"

	"gorm.io/gorm"
)

type OperatorRepository interface {
	Create(ctx context.Context, op *model.Operator) error
	Update(ctx context.Context, op *model.Operator) error
	FindByUsername(ctx context.Context, username string) (*model.Operator, error)
	Count(ctx context.Context) (int64, error)
}

type operatorRepository struct {
	db *gorm.DB
}

func NewOperatorRepository(db *gorm.DB) OperatorRepository {
	return &operatorRepository{db: db}
}

func (r *operatorRepository) Create(ctx context.Context, op *model.Operator) error {
	return GetDB(ctx, r.db).Create(op).Error
}

func (r *operatorRepository) Update(ctx context.Context, op *model.Operator) error {
	return GetDB(ctx, r.db).Save(op).Error
}

func (r *operatorRepository) FindByUsername(ctx context.Context, username string) (*model.Operator, error) {
	var op model.Operator
	if err := GetDB(ctx, r.db).Where("username = ?", username).First(&op).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *operatorRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Operator{}).Count(&total).Error
	return total, err
}
