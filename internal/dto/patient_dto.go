package dto

type CreatePatientRequest struct {
	Name    string  `json:"name"    validate:"required,min=1,max=120"`
	Code    *string `json:"code"    validate:"omitempty,max=20"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type PatientResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Code    *string `json:"code"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}
