package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
	"github.com/jhoicas/farmacia-api/pkg/jwt"
	"github.com/jhoicas/farmacia-api/pkg/logger"
	"github.com/jhoicas/farmacia-api/pkg/sanitize"
)

const (
	hashCost      = 10
	oauthStateTTL = 10 * time.Minute
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// AuthUseCase casos de uso de autenticación: credenciales locales, OAuth y ciclo de vida de tokens.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	jwtCfg    JWTConfig
	log       *logger.Logger
	states    OAuthStateStore
	providers map[string]OAuthProvider
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log, providers: map[string]OAuthProvider{}}
}

// WithOAuth habilita el login social con los proveedores indicados.
func (uc *AuthUseCase) WithOAuth(states OAuthStateStore, providers ...OAuthProvider) *AuthUseCase {
	uc.states = states
	for _, p := range providers {
		uc.providers[p.Name()] = p
	}
	return uc
}

// ValidateUser busca por email y compara el password. Devuelve (nil, nil) si no hay coincidencia:
// usuario inexistente, cuenta solo OAuth o password incorrecto.
// El usuario devuelto no incluye el hash del password ni el del refresh token.
func (uc *AuthUseCase) ValidateUser(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, sanitize.Email(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasPassword() {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	safe := *user
	safe.PasswordHash = ""
	safe.RefreshTokenHash = ""
	return &safe, nil
}

// LoginWithPassword valida la entrada y las credenciales y emite el par de tokens.
func (uc *AuthUseCase) LoginWithPassword(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.ValidateUser(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.Login(ctx, user)
}

// Login emite access + refresh token y guarda el hash del refresh, reemplazando el anterior.
func (uc *AuthUseCase) Login(ctx context.Context, user *entity.User) (*dto.AuthResponse, error) {
	out, hash, err := uc.issueTokens(user)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.UpdateRefreshToken(ctx, user.ID, hash); err != nil {
		return nil, fmt.Errorf("guardar refresh token: %w", err)
	}
	uc.log.Info().Str("user_id", user.ID).Msg("sesión iniciada")
	return out, nil
}

// issueTokens firma el par de tokens y devuelve también el hash a persistir del refresh.
func (uc *AuthUseCase) issueTokens(user *entity.User) (*dto.AuthResponse, string, error) {
	access, err := jwt.Generate(uc.jwtCfg.AccessSecret, uc.jwtCfg.Issuer, jwt.TypeAccess, user.ID, user.Email, user.Role, uc.jwtCfg.AccessTTL)
	if err != nil {
		return nil, "", err
	}
	refresh, err := jwt.Generate(uc.jwtCfg.RefreshSecret, uc.jwtCfg.Issuer, jwt.TypeRefresh, user.ID, user.Email, user.Role, uc.jwtCfg.RefreshTTL)
	if err != nil {
		return nil, "", err
	}
	hash, err := hashRefreshToken(refresh)
	if err != nil {
		return nil, "", err
	}
	return &dto.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *toUserResponse(user),
	}, hash, nil
}

// Register crea una cuenta local con rol USER. ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	in.Email = sanitize.Email(in.Email)
	in.Name = sanitize.Text(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), hashCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         entity.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("usuario registrado")
	return toUserResponse(user), nil
}

// OAuthLogin resuelve la cuenta de un perfil externo: por (proveedor, id), luego por email
// vinculando el proveedor, y si no existe crea una cuenta USER sin password.
func (uc *AuthUseCase) OAuthLogin(ctx context.Context, profile *dto.OAuthProfile, provider string) (*dto.AuthResponse, error) {
	if provider != entity.ProviderGoogle && provider != entity.ProviderFacebook {
		return nil, domain.NewValidationError("provider", "proveedor OAuth no soportado")
	}
	if profile == nil || profile.ID == "" || profile.Email == "" {
		return nil, domain.NewValidationError("profile", "información OAuth inválida")
	}
	email := sanitize.Email(profile.Email)
	name := sanitize.Text(profile.DisplayName)
	if name == "" {
		name = sanitize.Text(profile.GivenName)
	}
	if name == "" {
		name = "User"
	}

	user, err := uc.userRepo.GetByOAuth(ctx, provider, profile.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = uc.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if user != nil {
			user.OAuthProvider = provider
			user.OAuthID = profile.ID
			user.UpdatedAt = time.Now()
			if err := uc.userRepo.Update(ctx, user); err != nil {
				return nil, err
			}
			uc.log.Info().Str("user_id", user.ID).Str("provider", provider).Msg("cuenta vinculada a proveedor OAuth")
		} else {
			now := time.Now()
			user = &entity.User{
				ID:            uuid.New().String(),
				Email:         email,
				Name:          name,
				Role:          entity.RoleUser,
				OAuthProvider: provider,
				OAuthID:       profile.ID,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := uc.userRepo.Create(ctx, user); err != nil {
				return nil, err
			}
			uc.log.Info().Str("user_id", user.ID).Str("provider", provider).Msg("usuario creado por OAuth")
		}
	}
	return uc.Login(ctx, user)
}

// RefreshToken verifica el refresh token, lo compara con el hash guardado y rota el par.
// Cualquier falla se reporta como ErrUnauthorized.
func (uc *AuthUseCase) RefreshToken(ctx context.Context, token string) (*dto.AuthResponse, error) {
	claims, err := jwt.Parse(uc.jwtCfg.RefreshSecret, jwt.TypeRefresh, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID())
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshTokenHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if !matchRefreshToken(user.RefreshTokenHash, token) {
		uc.log.Warn().Str("user_id", user.ID).Msg("refresh token no coincide con el vigente")
		return nil, domain.ErrUnauthorized
	}
	out, hash, err := uc.issueTokens(user)
	if err != nil {
		return nil, err
	}
	// Solo gana quien todavía ve el hash leído arriba; el resto llegó tarde con el mismo token.
	if err := uc.userRepo.RotateRefreshToken(ctx, user.ID, user.RefreshTokenHash, hash); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			uc.log.Warn().Str("user_id", user.ID).Msg("refresh token ya rotado")
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("rotar refresh token: %w", err)
	}
	uc.log.Info().Str("user_id", user.ID).Msg("tokens renovados")
	return out, nil
}

// Me devuelve la proyección pública del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return toUserResponse(user), nil
}

// Logout invalida el refresh token vigente del usuario.
func (uc *AuthUseCase) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	if err := uc.userRepo.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", userID).Msg("sesión cerrada")
	return nil
}

// HasProvider indica si el proveedor OAuth está habilitado.
func (uc *AuthUseCase) HasProvider(name string) bool {
	_, ok := uc.providers[name]
	return ok && uc.states != nil
}

// BeginOAuth genera y guarda un state y devuelve la URL de consentimiento del proveedor junto
// con el state, que el llamador debe dejar en el navegador para ligarlo al callback.
func (uc *AuthUseCase) BeginOAuth(ctx context.Context, provider string) (target, state string, err error) {
	p, ok := uc.providers[provider]
	if !ok || uc.states == nil {
		return "", "", domain.ErrNotFound
	}
	state, err = newState()
	if err != nil {
		return "", "", err
	}
	if err := uc.states.Save(ctx, state, provider, oauthStateTTL); err != nil {
		return "", "", fmt.Errorf("guardar state oauth: %w", err)
	}
	return p.AuthCodeURL(state), state, nil
}

// CompleteOAuth valida el state, obtiene el perfil con el code y ejecuta OAuthLogin.
// boundState es el state que guardó el navegador al iniciar el flujo: un callback con el
// state de otra sesión no inicia sesión aunque el state exista en el store.
func (uc *AuthUseCase) CompleteOAuth(ctx context.Context, provider, state, boundState, code string) (*dto.AuthResponse, error) {
	p, ok := uc.providers[provider]
	if !ok || uc.states == nil {
		return nil, domain.ErrNotFound
	}
	if state == "" || code == "" {
		return nil, domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(state), []byte(boundState)) != 1 {
		uc.log.Warn().Str("provider", provider).Msg("state oauth no corresponde al navegador")
		return nil, domain.ErrUnauthorized
	}
	saved, found, err := uc.states.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if !found || saved != provider {
		return nil, domain.ErrUnauthorized
	}
	profile, err := p.FetchProfile(ctx, code)
	if err != nil {
		uc.log.Warn().Err(err).Str("provider", provider).Msg("no se pudo obtener el perfil OAuth")
		return nil, domain.ErrUnauthorized
	}
	return uc.OAuthLogin(ctx, profile, provider)
}

// hashRefreshToken aplica bcrypt sobre el SHA-256 del token: bcrypt ignora lo que pase de 72 bytes.
func hashRefreshToken(token string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(digest(token)), hashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func matchRefreshToken(hash, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(digest(token))) == nil
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
