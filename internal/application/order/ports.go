package order

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una única transacción con repositorios ligados a ella.
// Si fn devuelve error se hace rollback de todo lo escrito.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(products repository.ProductRepository, orders repository.OrderRepository) error) error
}

// ReceiptGenerator genera el comprobante PDF de un pedido.
type ReceiptGenerator interface {
	OrderReceipt(order *entity.Order) ([]byte, error)
}
