package domain

import "github.com/jhoicas/farmacia-api/internal/domain/entity"

// Caller identifica a quien invoca un caso de uso (extraído del token de acceso).
type Caller struct {
	UserID string
	Role   string
}

// IsAdmin indica si el caller tiene rol ADMIN.
func (c Caller) IsAdmin() bool {
	return c.Role == entity.RoleAdmin
}

// Authorize decide si callerRole satisface requiredRole. ADMIN satisface cualquier requisito.
func Authorize(callerRole, requiredRole string) bool {
	if callerRole == "" {
		return false
	}
	if callerRole == entity.RoleAdmin {
		return true
	}
	return callerRole == requiredRole
}
