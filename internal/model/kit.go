package model

import (
	"time"

	"github.com/google/uuid"
)

// ItemSet is a reusable, supplier-agnostic bundle of items ("generic kit").
type ItemSet struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Lines []SetItem `gorm:"foreignKey:ItemSetID"`
}

// PatientSet is a kit bound to a single patient; consuming it always
// records usage against that patient.
type PatientSet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Patient *Patient  `gorm:"foreignKey:PatientID"`
	Lines   []SetItem `gorm:"foreignKey:PatientSetID"`
}

// SetItem is one line of a kit. Exactly one of PatientSetID / ItemSetID
// is set — a line belongs to either a patient kit or a generic kit.
type SetItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PatientSetID *uuid.UUID `gorm:"type:uuid;index"`
	ItemSetID    *uuid.UUID `gorm:"type:uuid;index"`
	ItemID       uuid.UUID  `gorm:"type:uuid;not null"`
	Quantity     int        `gorm:"not null"`

	Item *Item `gorm:"foreignKey:ItemID"`
}
