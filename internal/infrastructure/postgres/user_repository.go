package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, email, password_hash, name, role, oauth_provider, oauth_id, refresh_token, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. ErrDuplicate si el email o el par OAuth ya existen.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, nullable(user.PasswordHash), user.Name, user.Role,
		nullable(user.OAuthProvider), nullable(user.OAuthID), nullable(user.RefreshTokenHash),
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByOAuth obtiene un usuario por proveedor e id externo.
func (r *UserRepo) GetByOAuth(ctx context.Context, provider, oauthID string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE oauth_provider = $1 AND oauth_id = $2`, provider, oauthID)
}

func (r *UserRepo) findOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var (
		u                                      entity.User
		password, provider, oauthID, refreshTk *string
	)
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Email, &password, &u.Name, &u.Role, &provider, &oauthID, &refreshTk,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.PasswordHash = deref(password)
	u.OAuthProvider = deref(provider)
	u.OAuthID = deref(oauthID)
	u.RefreshTokenHash = deref(refreshTk)
	return &u, nil
}

// Update actualiza datos de perfil y vinculación OAuth (no el refresh token).
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET email = $2, password_hash = $3, name = $4, role = $5,
			oauth_provider = $6, oauth_id = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		user.ID, user.Email, nullable(user.PasswordHash), user.Name, user.Role,
		nullable(user.OAuthProvider), nullable(user.OAuthID), user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateRefreshToken guarda el hash del refresh token vigente (vacío -> NULL).
func (r *UserRepo) UpdateRefreshToken(ctx context.Context, userID, hash string) error {
	if !validID(userID) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`, userID, nullable(hash))
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RotateRefreshToken reemplaza el hash solo si el guardado sigue siendo oldHash.
// Dos renovaciones concurrentes con el mismo token: la segunda no encuentra fila y recibe ErrConflict.
func (r *UserRepo) RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string) error {
	if !validID(userID) || oldHash == "" {
		return domain.ErrConflict
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET refresh_token = $3, updated_at = now() WHERE id = $1 AND refresh_token = $2`,
		userID, oldHash, nullable(newHash))
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}
