package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateItemRequest struct {
	Name         string  `json:"name"           validate:"required,min=1,max=120"`
	UnitType     string  `json:"unit_type"      validate:"required,oneof=individual box"`
	ItemsPerBox  *int    `json:"items_per_box"  validate:"omitempty,min=1"`
	MinimumStock int     `json:"minimum_stock"  validate:"min=0"`
	CurrentStock int     `json:"current_stock"  validate:"min=0"`
	SupplierID   *string `json:"supplier_id"    validate:"omitempty,uuid"`
}

type UpdateItemRequest struct {
	Name         *string `json:"name"           validate:"omitempty,min=1,max=120"`
	UnitType     *string `json:"unit_type"      validate:"omitempty,oneof=individual box"`
	ItemsPerBox  *int    `json:"items_per_box"  validate:"omitempty,min=1"`
	MinimumStock *int    `json:"minimum_stock"  validate:"omitempty,min=0"`
	SupplierID   *string `json:"supplier_id"    validate:"omitempty,uuid"`
}

// SetStockRequest is the inline stock-level edit on the item list view.
type SetStockRequest struct {
	CurrentStock int `json:"current_stock" validate:"min=0"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ItemFilter struct {
	Name       string `form:"name"`
	SupplierID string `form:"supplier_id"`
	BelowMin   bool   `form:"below_min"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	UnitType     string  `json:"unit_type"`
	ItemsPerBox  *int    `json:"items_per_box"`
	MinimumStock int     `json:"minimum_stock"`
	CurrentStock int     `json:"current_stock"`
	SupplierID   *string `json:"supplier_id"`
	SupplierName *string `json:"supplier_name,omitempty"`
	BelowMin     bool    `json:"below_min"`
}

type ItemListResponse struct {
	Data  []ItemResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// CSVImportResponse summarizes a tolerant item import: bad rows are
// counted, not fatal.
type CSVImportResponse struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}
