package dto

type CreateSupplierRequest struct {
	Name      string  `json:"name"       validate:"required,min=1,max=120"`
	FaxNumber string  `json:"fax_number" validate:"required,min=4,max=30"`
	Address   *string `json:"address"`
	Email     *string `json:"email"      validate:"omitempty,email"`
}

type SupplierResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	FaxNumber string  `json:"fax_number"`
	Address   *string `json:"address"`
	Email     *string `json:"email"`
	ItemCount int     `json:"item_count"`
}
