package dto

type ProveedorRequest struct {
	Nombre    string  `json:"nombre"    validate:"max=120"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=30"`
	Direccion *string `json:"direccion" validate:"omitempty,max=200"`
}

type ProveedorResponse struct {
	ID        uint    `json:"id"`
	Nombre    string  `json:"nombre"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
}
