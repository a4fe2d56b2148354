package model

import "github.com/google/uuid"

// DefaultClinicName seeds the singleton row on first access.
const DefaultClinicName = "Home-visit clinic"

// ClinicInfo is a singleton describing the ordering clinic. It only
// feeds the purchase-order document header. Lazily created on first
// read via the get-or-initialize accessor.
type ClinicInfo struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"not null"`
	Address  *string
	Phone    *string
	Fax      *string
	Email    *string
	Website  *string
	Director *string
}

func (ClinicInfo) TableName() string { return "clinic_info" }
