package auth

import (
	"context"
	"time"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
)

// OAuthProvider abstrae un proveedor de login social (Google, Facebook).
type OAuthProvider interface {
	Name() string
	// AuthCodeURL devuelve la URL de consentimiento a la que se redirige al usuario.
	AuthCodeURL(state string) string
	// FetchProfile canjea el code por un token y lee el perfil del usuario.
	FetchProfile(ctx context.Context, code string) (*dto.OAuthProfile, error)
}

// OAuthStateStore guarda el parámetro state entre el inicio y el callback (anti-CSRF).
type OAuthStateStore interface {
	Save(ctx context.Context, state, provider string, ttl time.Duration) error
	// Consume devuelve el proveedor asociado y borra el state; ok=false si no existe o expiró.
	Consume(ctx context.Context, state string) (provider string, ok bool, err error)
}
