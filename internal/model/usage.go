package model

import (
	"time"

	"github.com/google/uuid"
)

// Usage is an immutable consumption record: created when stock is used,
// never updated or deleted except by the bulk data-clear operation.
type Usage struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Quantity  int        `gorm:"not null"`
	UsedAt    time.Time  `gorm:"not null;index"`
	PatientID *uuid.UUID `gorm:"type:uuid;index"`

	Item    *Item    `gorm:"foreignKey:ItemID"`
	Patient *Patient `gorm:"foreignKey:PatientID"`
}
