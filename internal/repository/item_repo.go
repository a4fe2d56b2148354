package repository

import (
	"context"

	"clinistock/internal/dto"
	"clinistock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemRepository defines the data access contract for supply items.
// Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via stubs.
type ItemRepository interface {
	Create(ctx context.Context, i *model.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	List(ctx context.Context, filter dto.ItemFilter) ([]model.Item, int64, error)
	ListBelowMinimum(ctx context.Context) ([]model.Item, error)
	Update(ctx context.Context, i *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Used inside consumption transactions — callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Item, error)
	SaveTx(tx *gorm.DB, i *model.Item) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) Create(ctx context.Context, i *model.Item) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var i model.Item
	err := r.db.WithContext(ctx).Preload("Supplier").First(&i, "id = ?", id).Error
	return &i, err
}

func (r *itemRepo) List(ctx context.Context, filter dto.ItemFilter) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Item{})

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.BelowMin {
		q = q.Where("current_stock <= minimum_stock")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Supplier").Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *itemRepo) ListBelowMinimum(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Preload("Supplier").
		Where("current_stock <= minimum_stock").
		Order("name ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) Update(ctx context.Context, i *model.Item) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *itemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Item{}, "id = ?", id).Error
}

func (r *itemRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Item, error) {
	var i model.Item
	err := tx.First(&i, "id = ?", id).Error
	return &i, err
}

func (r *itemRepo) SaveTx(tx *gorm.DB, i *model.Item) error {
	return tx.Save(i).Error
}

func (r *itemRepo) DB() *gorm.DB { return r.db }
