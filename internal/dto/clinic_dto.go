package dto

type UpdateClinicRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Fax      *string `json:"fax"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Website  *string `json:"website"`
	Director *string `json:"director"`
}

type ClinicResponse struct {
	Name     string  `json:"name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Fax      *string `json:"fax"`
	Email    *string `json:"email"`
	Website  *string `json:"website"`
	Director *string `json:"director"`
}
