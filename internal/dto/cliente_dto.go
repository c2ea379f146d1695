package dto

type ClienteRequest struct {
	Nombre   string  `json:"nombre"   validate:"max=120"`
	Telefono *string `json:"telefono" validate:"omitempty,max=30"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type ClienteResponse struct {
	ID       uint    `json:"id"`
	Nombre   string  `json:"nombre"`
	Telefono *string `json:"telefono"`
	Email    *string `json:"email"`
}
