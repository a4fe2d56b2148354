package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	UnitTypeIndividual = "individual"
	UnitTypeBox        = "box"
)

// Item is a consumable supply tracked by the clinic.
// CurrentStock never goes below zero — consumption clamps at 0.
type Item struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"index;not null"`
	UnitType string    `gorm:"type:varchar(10);not null;default:'individual'"` // "individual" | "box"
	// ItemsPerBox is only meaningful when UnitType is "box"
	ItemsPerBox  *int
	MinimumStock int        `gorm:"not null;default:0"`
	CurrentStock int        `gorm:"not null;default:0"`
	SupplierID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

// BelowMinimum reports whether the item has hit its reorder threshold.
func (i *Item) BelowMinimum() bool {
	return i.CurrentStock <= i.MinimumStock
}
