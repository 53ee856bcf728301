package repository

import (
	"context"
	"strings"

	"tindahan/internal/model"

	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, itemNo string) error
	FindByItemNo(ctx context.Context, itemNo string) (*model.Item, error)
	List(ctx context.Context, page, limit int) ([]model.Item, int64, error)
	ListAll(ctx context.Context) ([]model.Item, error)
	Search(ctx context.Context, query string) ([]model.Item, error)
	ListReorderNeeded(ctx context.Context) ([]model.Item, error)
	UpdateStock(ctx context.Context, itemNo string, stock int) error
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, itemNo string) error {
	return GetDB(ctx, r.db).Where("item_no = ?", itemNo).Delete(&model.Item{}).Error
}

func (r *itemRepository) FindByItemNo(ctx context.Context, itemNo string) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).First(&item, "item_no = ?", itemNo).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, page, limit int) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Item{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at asc, item_no asc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *itemRepository) ListAll(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := GetDB(ctx, r.db).Order("created_at asc, item_no asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Search matches a case-insensitive substring of the name or a prefix of the
// item number. Results keep catalog insertion order.
func (r *itemRepository) Search(ctx context.Context, query string) ([]model.Item, error) {
	var items []model.Item
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.ListAll(ctx)
	}

	// LIKE metacharacters in the query are taken literally.
	esc := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(q)
	err := GetDB(ctx, r.db).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(item_no) LIKE ? ESCAPE '\'`, "%"+esc+"%", esc+"%").
		Order("created_at asc, item_no asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) ListReorderNeeded(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := GetDB(ctx, r.db).
		Where("current_stock < reorder_level").
		Order("created_at asc, item_no asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStock is only called by the stock service inside its ledger
// transactions; nothing else writes current_stock.
func (r *itemRepository) UpdateStock(ctx context.Context, itemNo string, stock int) error {
	return GetDB(ctx, r.db).Model(&model.Item{}).
		Where("item_no = ?", itemNo).
		Update("current_stock", stock).Error
}
