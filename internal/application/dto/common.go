package dto

// PageRequest paginación para listados (skip/take).
type PageRequest struct {
	Skip int `query:"skip" validate:"min=0"`
	Take int `query:"take" validate:"min=0,max=100"`
}

// DefaultPage aplica valores por defecto si Take es cero.
func (p *PageRequest) DefaultPage() {
	if p.Take <= 0 {
		p.Take = 20
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse cuerpo para operaciones sin payload (logout, refresh, delete).
type MessageResponse struct {
	Message string `json:"message"`
}
