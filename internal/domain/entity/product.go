package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un medicamento o artículo del catálogo.
// Stock nunca es negativo: se descuenta al crear pedidos y se repone al cancelarlos.
type Product struct {
	ID          string
	Name        string // único
	Description string
	Price       decimal.Decimal // precio de venta, >= 0
	Stock       int
	CategoryID  string
	ImageURL    string
	Category    *Category // poblado en lecturas con join
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasStock indica si hay unidades suficientes para vender qty.
func (p *Product) HasStock(qty int) bool {
	return qty > 0 && p.Stock >= qty
}
