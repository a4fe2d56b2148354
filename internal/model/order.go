package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending  = "pending"  // accumulating reorder lines
	OrderStatusSent     = "sent"     // document generated and transmitted
	OrderStatusReceived = "received" // goods arrived (manual transition)
)

// Order is a purchase order for one supplier. At most one pending order
// exists per supplier at a time: every reorder trigger for that supplier
// merges into it until the document is generated.
type Order struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderDate  time.Time `gorm:"not null;index"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status     string    `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Supplier *Supplier   `gorm:"foreignKey:SupplierID"`
	Lines    []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem is one order line. Invariant: at most one line per
// (order, item) pair — repeated triggers merge by summing Quantity.
type OrderItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID   uuid.UUID `gorm:"type:uuid;not null"`
	Quantity int       `gorm:"not null"`

	Item *Item `gorm:"foreignKey:ItemID"`
}
