package dto

// KitLineRequest is one (item, quantity) line submitted when authoring a
// kit. Lines with an empty item id or non-positive quantity are skipped.
type KitLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type CreateItemSetRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=120"`
	Description *string          `json:"description"`
	Lines       []KitLineRequest `json:"lines"`
}

type CreatePatientSetRequest struct {
	Name      string           `json:"name"       validate:"required,min=1,max=120"`
	PatientID string           `json:"patient_id" validate:"required,uuid"`
	Lines     []KitLineRequest `json:"lines"`
}

// ReplaceKitLinesRequest rewrites a kit's lines wholesale (delete + insert).
type ReplaceKitLinesRequest struct {
	Lines []KitLineRequest `json:"lines"`
}

type KitLineResponse struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

type ItemSetResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Lines       []KitLineResponse `json:"lines"`
}

type PatientSetResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	PatientID   string            `json:"patient_id"`
	PatientName string            `json:"patient_name"`
	Lines       []KitLineResponse `json:"lines"`
}
