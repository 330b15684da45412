package entity

import "time"

// Cart es el carrito único de un usuario.
type Cart struct {
	ID        string
	UserID    string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem es un producto dentro del carrito; (CartID, ProductID) es único.
type CartItem struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int
	OwnerID   string // user_id del carrito, resuelto por join
	Product   *Product
	CreatedAt time.Time
	UpdatedAt time.Time
}
