package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=1"`
}

type ValidarTokenRequest struct {
	Token string `json:"token"`
}

type CrearUsuarioRequest struct {
	Nombre   string `json:"nombre"   validate:"required,min=1,max=100"`
	Username string `json:"username" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required,min=4"`
	Rol      string `json:"rol"      validate:"required"`
}

type ActualizarUsuarioRequest struct {
	Nombre   string `json:"nombre"   validate:"required,min=1,max=100"`
	Username string `json:"username" validate:"required,min=1,max=50"`
	Rol      string `json:"rol"      validate:"required"`
	// Empty keeps the current password.
	Password string `json:"password" validate:"omitempty,min=4"`
	Activo   *bool  `json:"activo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID       uint   `json:"id"`
	Nombre   string `json:"nombre"`
	Username string `json:"username"`
	Rol      string `json:"rol"`
	Activo   bool   `json:"activo"`
}

type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresIn int             `json:"expires_in"` // seconds
	Usuario   UsuarioResponse `json:"usuario"`
}
