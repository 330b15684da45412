package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest una línea del pedido.
type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// CreateOrderRequest entrada para crear un pedido.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest entrada para cambiar el estado (solo ADMIN).
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING DELIVERED CANCELLED"`
}

// OrderItemResponse línea de un pedido con su producto.
type OrderItemResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"productId"`
	Quantity  int              `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	Product   *ProductResponse `json:"product,omitempty"`
}

// OrderUserResponse dueño del pedido en listados de administración.
type OrderUserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	Total     decimal.Decimal     `json:"total"`
	Status    string              `json:"status"`
	Items     []OrderItemResponse `json:"items"`
	User      *OrderUserResponse  `json:"user,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}
