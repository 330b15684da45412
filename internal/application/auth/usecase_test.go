package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/farmacia-api/internal/application/auth"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository/repotest"
	"github.com/jhoicas/farmacia-api/pkg/jwt"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

var testJWT = auth.JWTConfig{
	AccessSecret:  "access-secret-for-tests",
	RefreshSecret: "refresh-secret-for-tests",
	Issuer:        "farmacia-test",
	AccessTTL:     time.Hour,
	RefreshTTL:    7 * 24 * time.Hour,
}

func newAuth(t *testing.T) (*auth.AuthUseCase, *repotest.Store) {
	t.Helper()
	store := repotest.NewStore()
	return auth.NewAuthUseCase(store.Users(), testJWT, logger.Nop()), store
}

func seedUser(t *testing.T, store *repotest.Store, email, password string) *entity.User {
	t.Helper()
	u := &entity.User{ID: "u-" + email, Email: email, Name: "Seed", Role: entity.RoleUser}
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		u.PasswordHash = string(h)
	}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func TestRegister_CreaUsuarioConRolUser(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()

	out, err := uc.Register(ctx, dto.RegisterRequest{Email: "a@x.com", Password: "Abc123", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", out.Email)
	assert.Equal(t, "Ann", out.Name)
	assert.Equal(t, entity.RoleUser, out.Role)

	saved, err := store.Users().GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.NotEqual(t, "Abc123", saved.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("Abc123")))
}

func TestRegister_EmailDuplicadoEsConflicto(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, dto.RegisterRequest{Email: "a@x.com", Password: "Abc123", Name: "Ann"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, dto.RegisterRequest{Email: "A@X.com", Password: "Abc123", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, store.UserCount())
}

func TestRegister_EntradaInvalida(t *testing.T) {
	uc, store := newAuth(t)

	_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "a@x.com", Password: "abc", Name: "Ann"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, store.UserCount())
}

func TestValidateUser(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()
	seedUser(t, store, "a@x.com", "Abc123")
	seedUser(t, store, "oauth@x.com", "")

	u, err := uc.ValidateUser(ctx, "a@x.com", "Abc123")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Empty(t, u.PasswordHash)
	assert.Empty(t, u.RefreshTokenHash)

	u, err = uc.ValidateUser(ctx, "a@x.com", "incorrecto")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = uc.ValidateUser(ctx, "nadie@x.com", "Abc123")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = uc.ValidateUser(ctx, "oauth@x.com", "")
	require.NoError(t, err)
	assert.Nil(t, u, "una cuenta solo OAuth nunca valida por password")
}

func TestLoginWithPassword_EmiteTokensYGuardaHash(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()
	seed := seedUser(t, store, "a@x.com", "Abc123")

	out, err := uc.LoginWithPassword(ctx, dto.LoginRequest{Email: "a@x.com", Password: "Abc123"})
	require.NoError(t, err)
	assert.Equal(t, seed.ID, out.User.ID)

	claims, err := jwt.Parse(testJWT.AccessSecret, jwt.TypeAccess, out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, seed.ID, claims.UserID())
	assert.Equal(t, entity.RoleUser, claims.Role)

	_, err = jwt.Parse(testJWT.AccessSecret, jwt.TypeRefresh, out.RefreshToken)
	assert.Error(t, err, "el refresh token se firma con otro secreto")

	saved, _ := store.Users().GetByID(ctx, seed.ID)
	assert.NotEmpty(t, saved.RefreshTokenHash)
	assert.NotContains(t, saved.RefreshTokenHash, out.RefreshToken)
}

func TestLoginWithPassword_CredencialesInvalidas(t *testing.T) {
	uc, store := newAuth(t)
	seedUser(t, store, "a@x.com", "Abc123")

	_, err := uc.LoginWithPassword(context.Background(), dto.LoginRequest{Email: "a@x.com", Password: "Otra123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshToken_RotacionDeUnSoloUso(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()
	seed := seedUser(t, store, "a@x.com", "Abc123")

	first, err := uc.Login(ctx, seed)
	require.NoError(t, err)

	second, err := uc.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = uc.RefreshToken(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "el token ya rotado no se acepta")

	_, err = uc.RefreshToken(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshToken_ConcurrenteSoloUnoGana(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()
	seed := seedUser(t, store, "a@x.com", "Abc123")

	first, err := uc.Login(ctx, seed)
	require.NoError(t, err)

	const n = 4
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok         int
		rejected   int
		unexpected []error
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := uc.RefreshToken(ctx, first.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrUnauthorized):
				rejected++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Empty(t, unexpected)
	assert.Equal(t, 1, ok, "el mismo refresh token solo puede renovarse una vez")
	assert.Equal(t, n-1, rejected)
}

func TestRefreshToken_FallasColapsanEnUnauthorized(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()
	seed := seedUser(t, store, "a@x.com", "Abc123")

	first, err := uc.Login(ctx, seed)
	require.NoError(t, err)

	cases := map[string]string{
		"malformado":    "no.es.jwt",
		"access token":  first.AccessToken,
		"firma ajena":   mustToken(t, "otro-secreto", jwt.TypeRefresh, seed.ID, time.Hour),
		"expirado":      mustToken(t, testJWT.RefreshSecret, jwt.TypeRefresh, seed.ID, -time.Minute),
		"sin usuario":   mustToken(t, testJWT.RefreshSecret, jwt.TypeRefresh, "no-existe", time.Hour),
		"hash distinto": mustToken(t, testJWT.RefreshSecret, jwt.TypeRefresh, seed.ID, time.Hour),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.RefreshToken(ctx, tok)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestLogout_InvalidaRefreshToken(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()
	seed := seedUser(t, store, "a@x.com", "Abc123")

	out, err := uc.Login(ctx, seed)
	require.NoError(t, err)
	require.NoError(t, uc.Logout(ctx, seed.ID))

	_, err = uc.RefreshToken(ctx, out.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMe(t *testing.T) {
	uc, store := newAuth(t)
	seed := seedUser(t, store, "a@x.com", "Abc123")

	me, err := uc.Me(context.Background(), seed.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", me.Email)

	_, err = uc.Me(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestOAuthLogin_ResolucionDeCuenta(t *testing.T) {
	ctx := context.Background()

	t.Run("crea cuenta nueva sin password", func(t *testing.T) {
		uc, store := newAuth(t)
		out, err := uc.OAuthLogin(ctx, &dto.OAuthProfile{ID: "g-1", Email: "New@X.com", DisplayName: "Nuevo"}, entity.ProviderGoogle)
		require.NoError(t, err)
		assert.Equal(t, "new@x.com", out.User.Email)
		assert.Equal(t, entity.RoleUser, out.User.Role)

		u, _ := store.Users().GetByOAuth(ctx, entity.ProviderGoogle, "g-1")
		require.NotNil(t, u)
		assert.False(t, u.HasPassword())
	})

	t.Run("vincula por email", func(t *testing.T) {
		uc, store := newAuth(t)
		seed := seedUser(t, store, "a@x.com", "Abc123")
		out, err := uc.OAuthLogin(ctx, &dto.OAuthProfile{ID: "fb-9", Email: "a@x.com"}, entity.ProviderFacebook)
		require.NoError(t, err)
		assert.Equal(t, seed.ID, out.User.ID)

		u, _ := store.Users().GetByID(ctx, seed.ID)
		assert.Equal(t, entity.ProviderFacebook, u.OAuthProvider)
		assert.Equal(t, "fb-9", u.OAuthID)
		assert.True(t, u.HasPassword(), "vincular no borra el password local")
		assert.Equal(t, 1, store.UserCount())
	})

	t.Run("reutiliza por proveedor e id", func(t *testing.T) {
		uc, store := newAuth(t)
		first, err := uc.OAuthLogin(ctx, &dto.OAuthProfile{ID: "g-1", Email: "a@x.com", GivenName: "Ann"}, entity.ProviderGoogle)
		require.NoError(t, err)
		second, err := uc.OAuthLogin(ctx, &dto.OAuthProfile{ID: "g-1", Email: "cambiado@x.com"}, entity.ProviderGoogle)
		require.NoError(t, err)
		assert.Equal(t, first.User.ID, second.User.ID)
		assert.Equal(t, "Ann", second.User.Name)
		assert.Equal(t, 1, store.UserCount())
	})

	t.Run("perfil incompleto", func(t *testing.T) {
		uc, _ := newAuth(t)
		_, err := uc.OAuthLogin(ctx, &dto.OAuthProfile{ID: "g-1"}, entity.ProviderGoogle)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("nombre por defecto", func(t *testing.T) {
		uc, _ := newAuth(t)
		out, err := uc.OAuthLogin(ctx, &dto.OAuthProfile{ID: "g-2", Email: "b@x.com", DisplayName: "<b></b>"}, entity.ProviderGoogle)
		require.NoError(t, err)
		assert.Equal(t, "User", out.User.Name)
	})
}

type fakeProvider struct {
	name    string
	profile *dto.OAuthProfile
	err     error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://idp.example/auth?state=" + state
}

func (p *fakeProvider) FetchProfile(_ context.Context, code string) (*dto.OAuthProfile, error) {
	if code != "buen-code" {
		return nil, errors.New("code inválido")
	}
	return p.profile, p.err
}

type memStates struct{ m map[string]string }

func (s *memStates) Save(_ context.Context, state, provider string, _ time.Duration) error {
	s.m[state] = provider
	return nil
}

func (s *memStates) Consume(_ context.Context, state string) (string, bool, error) {
	p, ok := s.m[state]
	delete(s.m, state)
	return p, ok, nil
}

func TestOAuthFlow_StateDeUnSoloUso(t *testing.T) {
	uc, _ := newAuth(t)
	states := &memStates{m: map[string]string{}}
	uc.WithOAuth(states, &fakeProvider{name: entity.ProviderGoogle, profile: &dto.OAuthProfile{ID: "g-1", Email: "a@x.com"}})
	ctx := context.Background()

	assert.True(t, uc.HasProvider(entity.ProviderGoogle))
	assert.False(t, uc.HasProvider(entity.ProviderFacebook))

	url, state, err := uc.BeginOAuth(ctx, entity.ProviderGoogle)
	require.NoError(t, err)
	require.Len(t, states.m, 1)
	assert.Contains(t, states.m, state)
	assert.Contains(t, url, state)

	out, err := uc.CompleteOAuth(ctx, entity.ProviderGoogle, state, state, "buen-code")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", out.User.Email)

	_, err = uc.CompleteOAuth(ctx, entity.ProviderGoogle, state, state, "buen-code")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = uc.BeginOAuth(ctx, entity.ProviderFacebook)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOAuthFlow_StateLigadoAlNavegador(t *testing.T) {
	uc, store := newAuth(t)
	states := &memStates{m: map[string]string{}}
	uc.WithOAuth(states, &fakeProvider{name: entity.ProviderGoogle, profile: &dto.OAuthProfile{ID: "g-1", Email: "a@x.com"}})
	ctx := context.Background()

	// El state lo inició otro navegador: la víctima no lo tiene guardado.
	_, attacker, err := uc.BeginOAuth(ctx, entity.ProviderGoogle)
	require.NoError(t, err)

	for name, bound := range map[string]string{"sin state propio": "", "state de otra sesión": "otro-state"} {
		t.Run(name, func(t *testing.T) {
			_, err := uc.CompleteOAuth(ctx, entity.ProviderGoogle, attacker, bound, "buen-code")
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
	assert.Equal(t, 0, store.UserCount())
	assert.Contains(t, states.m, attacker, "un callback rechazado no consume el state")
}

func mustToken(t *testing.T, secret, typ, userID string, ttl time.Duration) string {
	t.Helper()
	tok, err := jwt.Generate(secret, testJWT.Issuer, typ, userID, "a@x.com", entity.RoleUser, ttl)
	require.NoError(t, err)
	return tok
}
