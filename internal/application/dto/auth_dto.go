package dto

// LoginRequest entrada para login con email y password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest entrada para registro de una cuenta local.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,strongpwd"`
	Name     string `json:"name" validate:"required,min=2,max=200"`
}

// RefreshRequest permite enviar el refresh token en el body cuando no hay cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse proyección pública del usuario (sin password ni refresh token).
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// AuthResponse par de tokens más el usuario autenticado.
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// OAuthProfile datos mínimos que devuelve un proveedor de login social.
type OAuthProfile struct {
	ID          string
	Email       string
	DisplayName string
	GivenName   string
}
