package dto

type OrderLineResponse struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	UnitType string `json:"unit_type"`
	Quantity int    `json:"quantity"`
}

type OrderResponse struct {
	ID           string              `json:"id"`
	OrderDate    string              `json:"order_date"`
	SupplierID   string              `json:"supplier_id"`
	SupplierName string              `json:"supplier_name"`
	Status       string              `json:"status"`
	Lines        []OrderLineResponse `json:"lines"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
}

// OrderDocumentResponse is returned after document generation; Status is
// always "sent" afterwards.
type OrderDocumentResponse struct {
	OrderID string `json:"order_id"`
	PDFPath string `json:"pdf_path"`
	Status  string `json:"status"`
	Emailed bool   `json:"emailed"`
}

// UpdateOrderStatusRequest handles the manual "received" transition.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=received"`
}
