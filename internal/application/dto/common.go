package dto

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// PageRequest ventana de un listado (órdenes, corridas, ventas, maestros).
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage normaliza la ventana: sin límite usa DefaultPageLimit y nunca
// pasa de MaxPageLimit.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error de la API; Code es estable (NOT_FOUND,
// UNKNOWN_ITEM, INVALID_STATE, VALIDATION, PERSISTENCE, ...).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
