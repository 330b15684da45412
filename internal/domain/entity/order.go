package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido. Solo PENDING admite cancelación.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// IsValidOrderStatus verifica que s sea uno de los estados conocidos.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order es la cabecera de un pedido; Total se deriva de las líneas al crearlo.
type Order struct {
	ID        string
	UserID    string
	Total     decimal.Decimal
	Status    string
	Items     []OrderItem
	User      *UserSummary // poblado en listados de administración
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancellable indica si el pedido puede cancelarse.
func (o *Order) IsCancellable() bool {
	return o.Status == OrderStatusPending
}

// OrderItem es una línea del pedido. Price es el precio unitario al momento de la compra.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	Price     decimal.Decimal
	Product   *Product
}

// Subtotal devuelve Price * Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// UserSummary datos mínimos del dueño de un pedido.
type UserSummary struct {
	ID    string
	Name  string
	Email string
}
