package repository

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) cuando no existe el registro.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByOAuth(ctx context.Context, provider, oauthID string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// UpdateRefreshToken reemplaza el hash del refresh token vigente; hash vacío lo invalida.
	UpdateRefreshToken(ctx context.Context, userID, hash string) error
	// RotateRefreshToken cambia oldHash por newHash solo si oldHash sigue vigente;
	// ErrConflict si otro proceso ya lo reemplazó.
	RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string) error
}
