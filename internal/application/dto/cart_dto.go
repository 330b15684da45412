package dto

import "time"

// AddCartItemRequest entrada para agregar un producto al carrito.
type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// UpdateCartItemRequest entrada para fijar la cantidad de un ítem.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

// CartItemResponse ítem del carrito con su producto.
type CartItemResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"productId"`
	Quantity  int              `json:"quantity"`
	Product   *ProductResponse `json:"product,omitempty"`
}

// CartResponse salida del carrito.
type CartResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	Items     []CartItemResponse `json:"items"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
