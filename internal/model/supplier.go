package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a vendor orders are sent to. FaxNumber is mandatory because
// fax is the transmission channel for purchase orders in this clinic;
// Email, when present, receives a digital copy of the document.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	FaxNumber string    `gorm:"not null"`
	Address   *string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []Item `gorm:"foreignKey:SupplierID"`
}
