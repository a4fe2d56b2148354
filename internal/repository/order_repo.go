package repository

import (
	"context"
	"time"

	"clinistock/internal/dto"
	"clinistock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository is the persistence contract of the reorder aggregator
// and the order views. The Tx methods run inside a consumption or
// document-generation transaction.
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// FindPendingBySupplierTx returns the most recent pending order for a
	// supplier, or gorm.ErrRecordNotFound.
	FindPendingBySupplierTx(tx *gorm.DB, supplierID uuid.UUID) (*model.Order, error)
	// CreateTx persists (flushes) a new order immediately so its identity
	// is available for line merging within the same batch.
	CreateTx(tx *gorm.DB, o *model.Order) error
	// FindLineTx locates the single line for an (order, item) pair.
	FindLineTx(tx *gorm.DB, orderID, itemID uuid.UUID) (*model.OrderItem, error)
	CreateLineTx(tx *gorm.DB, line *model.OrderItem) error
	SaveLineTx(tx *gorm.DB, line *model.OrderItem) error
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error

	// SumOrderedByItemBetween aggregates ordered quantities per item for
	// the monthly report; [from, to) interval over the order date.
	SumOrderedByItemBetween(ctx context.Context, from, to time.Time) ([]dto.ItemTotal, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Supplier").Preload("Lines").Preload("Lines.Item").
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Supplier").Preload("Lines").Preload("Lines.Item").
		Order("order_date DESC").Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepo) FindPendingBySupplierTx(tx *gorm.DB, supplierID uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := tx.Where("supplier_id = ? AND status = ?", supplierID, model.OrderStatusPending).
		Order("order_date DESC").First(&o).Error
	return &o, err
}

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindLineTx(tx *gorm.DB, orderID, itemID uuid.UUID) (*model.OrderItem, error) {
	var line model.OrderItem
	err := tx.Where("order_id = ? AND item_id = ?", orderID, itemID).First(&line).Error
	return &line, err
}

func (r *orderRepo) CreateLineTx(tx *gorm.DB, line *model.OrderItem) error {
	return tx.Create(line).Error
}

func (r *orderRepo) SaveLineTx(tx *gorm.DB, line *model.OrderItem) error {
	return tx.Save(line).Error
}

func (r *orderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepo) SumOrderedByItemBetween(ctx context.Context, from, to time.Time) ([]dto.ItemTotal, error) {
	var rows []dto.ItemTotal
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("items.name AS item_name, SUM(order_items.quantity) AS total").
		Joins("JOIN items ON items.id = order_items.item_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.order_date >= ? AND orders.order_date < ?", from, to).
		Group("items.id, items.name").
		Order("items.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
