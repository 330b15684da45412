package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/pkg/jwt"
)

// Locals keys con los claims del access token.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// Cookies emitidas por login, refresh y el callback OAuth.
const (
	CookieAccessToken  = "access_token"
	CookieRefreshToken = "refresh_token"

	// CookieOAuthState liga el state OAuth al navegador que inició el flujo.
	CookieOAuthState = "oauth_state"
)

// AuthMiddleware valida el access token (header Bearer o cookie access_token) y carga los claims en c.Locals.
func AuthMiddleware(accessSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, errResp := accessToken(c)
		if errResp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(errResp)
		}
		claims, err := jwt.Parse(accessSecret, jwt.TypeAccess, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID())
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// OptionalAuth carga los claims si hay un access token válido y nunca rechaza la petición.
func OptionalAuth(accessSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, errResp := accessToken(c); errResp == nil {
			if claims, err := jwt.Parse(accessSecret, jwt.TypeAccess, tokenString); err == nil {
				c.Locals(LocalUserID, claims.UserID())
				c.Locals(LocalEmail, claims.Email)
				c.Locals(LocalRole, claims.Role)
			}
		}
		return c.Next()
	}
}

func accessToken(c *fiber.Ctx) (string, *dto.ErrorResponse) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if cookie := c.Cookies(CookieAccessToken); cookie != "" {
			return cookie, nil
		}
		return "", &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"}
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", &dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"}
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"}
	}
	return tokenString, nil
}

// RequireRole autoriza la ruta si el rol del token satisface alguno de roles.
// ADMIN satisface cualquier requisito. Debe usarse después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, r := range roles {
			if domain.Authorize(role, r) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permisos para este recurso"})
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetEmail devuelve el email del token.
func GetEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmail).(string)
	return s
}

func callerFrom(c *fiber.Ctx) domain.Caller {
	return domain.Caller{UserID: GetUserID(c), Role: GetRole(c)}
}
