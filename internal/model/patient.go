package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a home-visit patient supplies can be consumed for.
type Patient struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"not null"`
	// Code is the clinic's external patient identifier (e.g. "P001")
	Code      *string `gorm:"column:patient_code"`
	Address   *string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Sets []PatientSet `gorm:"foreignKey:PatientID"`
}
