package http

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-api/internal/application/auth"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
)

// oauthStateCookieTTL coincide con la vida del state en el store.
const oauthStateCookieTTL = 10 * time.Minute

// CookieConfig parámetros de las cookies httpOnly con los tokens.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthHandler maneja registro, login, refresh, logout y el login social.
type AuthHandler struct {
	uc          *auth.AuthUseCase
	cookies     CookieConfig
	frontendURL string
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookies CookieConfig, frontendURL string) *AuthHandler {
	return &AuthHandler{uc: uc, cookies: cookies, frontendURL: frontendURL}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	user, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.LoginWithPassword(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	h.setTokenCookies(c, out)
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Rotar el par de tokens
// @Description  Toma el refresh token de la cookie refresh_token o del body.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  false  "refresh_token"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := c.Cookies(CookieRefreshToken)
	if token == "" {
		var in dto.RefreshRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&in); err != nil {
				return invalidBody(c)
			}
		}
		token = in.RefreshToken
	}
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "refresh token requerido"})
	}
	out, err := h.uc.RefreshToken(c.UserContext(), token)
	if err != nil {
		return writeError(c, err)
	}
	h.setTokenCookies(c, out)
	return c.JSON(out)
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	h.clearTokenCookies(c)
	return c.JSON(dto.MessageResponse{Message: "sesión cerrada"})
}

// OAuthStart redirige al consentimiento del proveedor y deja el state en una cookie httpOnly.
func (h *AuthHandler) OAuthStart(provider string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		target, state, err := h.uc.BeginOAuth(c.UserContext(), provider)
		if err != nil {
			return writeError(c, err)
		}
		c.Cookie(&fiber.Cookie{
			Name:     CookieOAuthState,
			Value:    state,
			Path:     "/api/auth",
			Expires:  time.Now().Add(oauthStateCookieTTL),
			HTTPOnly: true,
			Secure:   h.cookies.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.Redirect(target, fiber.StatusFound)
	}
}

// OAuthCallback completa el login social, deja los tokens en cookies y vuelve al frontend.
// El state de la query debe coincidir con el de la cookie puesta en OAuthStart.
func (h *AuthHandler) OAuthCallback(provider string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !h.uc.HasProvider(provider) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "proveedor no habilitado"})
		}
		bound := c.Cookies(CookieOAuthState)
		c.Cookie(&fiber.Cookie{Name: CookieOAuthState, Path: "/api/auth", Expires: time.Unix(0, 0), HTTPOnly: true, Secure: h.cookies.Secure})

		out, err := h.uc.CompleteOAuth(c.UserContext(), provider, c.Query("state"), bound, c.Query("code"))
		if err != nil {
			return c.Redirect(h.frontendURL+"/login?error="+url.QueryEscape("oauth_failed"), fiber.StatusFound)
		}
		h.setTokenCookies(c, out)
		return c.Redirect(h.frontendURL, fiber.StatusFound)
	}
}

func (h *AuthHandler) setTokenCookies(c *fiber.Ctx, out *dto.AuthResponse) {
	now := time.Now()
	c.Cookie(&fiber.Cookie{
		Name:     CookieAccessToken,
		Value:    out.AccessToken,
		Path:     "/",
		Expires:  now.Add(h.cookies.AccessTTL),
		HTTPOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     CookieRefreshToken,
		Value:    out.RefreshToken,
		Path:     "/api/auth",
		Expires:  now.Add(h.cookies.RefreshTTL),
		HTTPOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTokenCookies(c *fiber.Ctx) {
	past := time.Unix(0, 0)
	c.Cookie(&fiber.Cookie{Name: CookieAccessToken, Path: "/", Expires: past, HTTPOnly: true, Secure: h.cookies.Secure})
	c.Cookie(&fiber.Cookie{Name: CookieRefreshToken, Path: "/api/auth", Expires: past, HTTPOnly: true, Secure: h.cookies.Secure})
}
