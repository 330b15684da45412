package repository

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// ProductFilter filtros opcionales para el listado de productos.
type ProductFilter struct {
	CategoryID string
	Search     string
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve el producto con su categoría, o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila dentro de la transacción en curso (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// AdjustStock suma delta al stock; falla con ErrInsufficientStock si el resultado sería negativo.
	AdjustStock(ctx context.Context, id string, delta int) error
	Delete(ctx context.Context, id string) error
}
