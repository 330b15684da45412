package entity

import "time"

// Roles válidos para User.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Proveedores de login social soportados.
const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

// User representa una cuenta del sistema (local, OAuth o ambas).
type User struct {
	ID               string
	Email            string // único
	PasswordHash     string // bcrypt; vacío en cuentas creadas solo por OAuth
	Name             string
	Role             string // USER, ADMIN
	OAuthProvider    string // google, facebook; vacío si nunca se vinculó
	OAuthID          string
	RefreshTokenHash string // hash del único refresh token vigente; vacío tras logout
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasPassword indica si la cuenta admite login con email y contraseña.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
