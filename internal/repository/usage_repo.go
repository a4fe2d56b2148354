package repository

import (
	"context"
	"time"

	"clinistock/internal/dto"
	"clinistock/internal/model"

	"gorm.io/gorm"
)

type UsageRepository interface {
	// CreateTx inserts a usage record inside a consumption transaction.
	CreateTx(tx *gorm.DB, u *model.Usage) error
	List(ctx context.Context, limit int) ([]model.Usage, error)
	// SumByItemBetween aggregates consumed quantities per item for the
	// monthly report; [from, to) interval.
	SumByItemBetween(ctx context.Context, from, to time.Time) ([]dto.ItemTotal, error)
}

type usageRepo struct{ db *gorm.DB }

func NewUsageRepository(db *gorm.DB) UsageRepository { return &usageRepo{db: db} }

func (r *usageRepo) CreateTx(tx *gorm.DB, u *model.Usage) error {
	return tx.Create(u).Error
}

func (r *usageRepo) List(ctx context.Context, limit int) ([]model.Usage, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var usages []model.Usage
	err := r.db.WithContext(ctx).Preload("Item").Preload("Patient").
		Order("used_at DESC").Limit(limit).Find(&usages).Error
	return usages, err
}

func (r *usageRepo) SumByItemBetween(ctx context.Context, from, to time.Time) ([]dto.ItemTotal, error) {
	var rows []dto.ItemTotal
	err := r.db.WithContext(ctx).
		Table("usages").
		Select("items.name AS item_name, SUM(usages.quantity) AS total").
		Joins("JOIN items ON items.id = usages.item_id").
		Where("usages.used_at >= ? AND usages.used_at < ?", from, to).
		Group("items.id, items.name").
		Order("items.name ASC").
		Scan(&rows).Error
	return rows, err
}
