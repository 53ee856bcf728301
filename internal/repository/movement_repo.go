package repository

import (
	"context"
	"time"

	"tindahan/internal/model"

	"gorm.io/gorm"
)

type MovementRepository interface {
	Create(ctx context.Context, mv *model.StockMovement) error
	Update(ctx context.Context, mv *model.StockMovement) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.StockMovement, error)
	ListByPeriod(ctx context.Context, start, end time.Time) ([]model.StockMovement, error)
	ListOutByPeriod(ctx context.Context, start, end time.Time) ([]model.StockMovement, error)
}

type movementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) Create(ctx context.Context, mv *model.StockMovement) error {
	return GetDB(ctx, r.db).Create(mv).Error
}

func (r *movementRepository) Update(ctx context.Context, mv *model.StockMovement) error {
	return GetDB(ctx, r.db).Save(mv).Error
}

func (r *movementRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Delete(&model.StockMovement{}, id).Error
}

func (r *movementRepository) FindByID(ctx context.Context, id uint) (*model.StockMovement, error) {
	var mv model.StockMovement
	if err := GetDB(ctx, r.db).First(&mv, id).Error; err != nil {
		return nil, err
	}
	return &mv, nil
}

// ListByPeriod returns movements with occurred_at in [start, end), ascending.
func (r *movementRepository) ListByPeriod(ctx context.Context, start, end time.Time) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := GetDB(ctx, r.db).
		Where("occurred_at >= ? AND occurred_at < ?", start, end).
		Order("occurred_at asc, id asc").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *movementRepository) ListOutByPeriod(ctx context.Context, start, end time.Time) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := GetDB(ctx, r.db).
		Where("direction = ? AND occurred_at >= ? AND occurred_at < ?", model.DirectionOut, start, end).
		Order("occurred_at asc, id asc").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}
