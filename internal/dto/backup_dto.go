package dto

import "clinistock/internal/model"

// BackupSnapshot is the full JSON export of the database. Restore replaces
// every table with the snapshot contents inside one transaction.
type BackupSnapshot struct {
	ExportedAt  string             `json:"exported_at"`
	Suppliers   []model.Supplier   `json:"suppliers"`
	Items       []model.Item       `json:"items"`
	Patients    []model.Patient    `json:"patients"`
	ItemSets    []model.ItemSet    `json:"item_sets"`
	PatientSets []model.PatientSet `json:"patient_sets"`
	SetItems    []model.SetItem    `json:"set_items"`
	Usages      []model.Usage      `json:"usages"`
	Orders      []model.Order      `json:"orders"`
	OrderItems  []model.OrderItem  `json:"order_items"`
	Clinic      *model.ClinicInfo  `json:"clinic,omitempty"`
}

// ClearDataRequest wipes operational data. Suppliers survive unless
// KeepSuppliers is false.
type ClearDataRequest struct {
	KeepSuppliers bool `json:"keep_suppliers"`
}
