package repository

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// CartRepository define el puerto de persistencia para Cart y CartItem (DIP).
type CartRepository interface {
	// GetByUserID devuelve el carrito con ítems y productos, o (nil, nil) si el usuario no tiene.
	GetByUserID(ctx context.Context, userID string) (*entity.Cart, error)
	Create(ctx context.Context, cart *entity.Cart) error
	// GetItem devuelve el ítem con OwnerID resuelto, o (nil, nil).
	GetItem(ctx context.Context, itemID string) (*entity.CartItem, error)
	// AddItem inserta el ítem o, si el producto ya está en el carrito, le suma item.Quantity
	// en una sola operación atómica.
	AddItem(ctx context.Context, item *entity.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error
	DeleteItem(ctx context.Context, itemID string) error
	ClearItems(ctx context.Context, cartID string) error
}
