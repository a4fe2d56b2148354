package dto

// ConsumptionLineRequest is one ad-hoc consumption line. Lines with an
// empty item id or non-positive quantity are skipped, not fatal.
type ConsumptionLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type RecordUsageRequest struct {
	PatientID *string                  `json:"patient_id" validate:"omitempty,uuid"`
	Lines     []ConsumptionLineRequest `json:"lines"      validate:"required,min=1"`
}

// UseItemSetRequest consumes a generic kit, optionally on behalf of a patient.
type UseItemSetRequest struct {
	PatientID *string `json:"patient_id" validate:"omitempty,uuid"`
}

// ConsumptionResult reports what a consumption batch did. OrderIDs lists
// every pending order touched by reorder triggers, in the order they were
// first touched; RedirectOrderID is the first of them, used by clients to
// jump straight to the generated order view.
type ConsumptionResult struct {
	UsedLines       int      `json:"used_lines"`
	SkippedLines    int      `json:"skipped_lines"`
	Reordered       bool     `json:"reordered"`
	OrderIDs        []string `json:"order_ids"`
	RedirectOrderID *string  `json:"redirect_order_id"`
}
