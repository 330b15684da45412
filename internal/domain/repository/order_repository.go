package repository

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y sus líneas (DIP).
type OrderRepository interface {
	// Create inserta la cabecera y todas sus líneas.
	Create(ctx context.Context, order *entity.Order) error
	// GetByID devuelve el pedido con líneas y productos, o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate como GetByID pero con la fila bloqueada hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// List devuelve todos los pedidos con líneas, productos y resumen del usuario.
	List(ctx context.Context) ([]*entity.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Order, error)
	// UpdateStatus falla con ErrNotFound si el pedido no existe.
	UpdateStatus(ctx context.Context, id, status string) error
}
