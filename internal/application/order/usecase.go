package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

// ErrReceiptUnavailable se devuelve cuando no hay generador de comprobantes configurado.
var ErrReceiptUnavailable = errors.New("generador de comprobantes no configurado")

// OrderUseCase flujo de pedidos: creación con descuento de stock, consulta,
// cambio de estado y cancelación con reposición.
type OrderUseCase struct {
	orderRepo repository.OrderRepository
	tx        TxRunner
	receipts  ReceiptGenerator
	log       *logger.Logger
}

// NewOrderUseCase construye el caso de uso. receipts puede ser nil.
func NewOrderUseCase(orderRepo repository.OrderRepository, tx TxRunner, receipts ReceiptGenerator, log *logger.Logger) *OrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{orderRepo: orderRepo, tx: tx, receipts: receipts, log: log}
}

// Create valida las líneas contra el stock, descuenta el stock y guarda el pedido en estado PENDING.
// Todo ocurre en una transacción: si una línea falla no queda ningún descuento aplicado.
func (uc *OrderUseCase) Create(ctx context.Context, caller domain.Caller, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if caller.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	now := time.Now()
	order := &entity.Order{
		ID:        uuid.New().String(),
		UserID:    caller.UserID,
		Status:    entity.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.RunOrder(ctx, func(products repository.ProductRepository, orders repository.OrderRepository) error {
		total := decimal.Zero
		items := make([]entity.OrderItem, 0, len(in.Items))
		for _, line := range in.Items {
			p, err := products.GetForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("producto %s: %w", line.ProductID, domain.ErrNotFound)
			}
			if !p.HasStock(line.Quantity) {
				return fmt.Errorf("producto %q (disponible %d, solicitado %d): %w", p.Name, p.Stock, line.Quantity, domain.ErrInsufficientStock)
			}
			item := entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: p.ID,
				Quantity:  line.Quantity,
				Price:     p.Price,
				Product:   p,
			}
			total = total.Add(item.Subtotal())
			if err := products.AdjustStock(ctx, p.ID, -line.Quantity); err != nil {
				return err
			}
			p.Stock -= line.Quantity
			items = append(items, item)
		}
		order.Total = total
		order.Items = items
		return orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("user_id", order.UserID).
		Str("total", order.Total.StringFixed(2)).Int("items", len(order.Items)).Msg("pedido creado")
	return dto.NewOrderResponse(order), nil
}

// FindAll lista todos los pedidos con su dueño. Solo ADMIN.
func (uc *OrderUseCase) FindAll(ctx context.Context, caller domain.Caller) ([]dto.OrderResponse, error) {
	if !domain.Authorize(caller.Role, entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	list, err := uc.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(list), nil
}

// FindByUserID lista los pedidos del caller.
func (uc *OrderUseCase) FindByUserID(ctx context.Context, caller domain.Caller) ([]dto.OrderResponse, error) {
	if caller.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	list, err := uc.orderRepo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(list), nil
}

// FindOne obtiene un pedido si el caller es su dueño o ADMIN.
func (uc *OrderUseCase) FindOne(ctx context.Context, id string, caller domain.Caller) (*dto.OrderResponse, error) {
	o, err := uc.findOwned(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	return dto.NewOrderResponse(o), nil
}

// UpdateStatus sobrescribe el estado del pedido. Solo ADMIN; no valida transiciones.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, caller domain.Caller, id string, in dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	if !domain.Authorize(caller.Role, entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.orderRepo.UpdateStatus(ctx, id, in.Status); err != nil {
		return nil, err
	}
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	uc.log.Info().Str("order_id", id).Str("status", in.Status).Str("by", caller.UserID).Msg("estado de pedido actualizado")
	return dto.NewOrderResponse(o), nil
}

// Cancel cancela un pedido PENDING y repone el stock de cada línea.
func (uc *OrderUseCase) Cancel(ctx context.Context, id string, caller domain.Caller) (*dto.OrderResponse, error) {
	o, err := uc.findOwned(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if !o.IsCancellable() {
		return nil, fmt.Errorf("pedido en estado %s: %w", o.Status, domain.ErrForbidden)
	}
	err = uc.tx.RunOrder(ctx, func(products repository.ProductRepository, orders repository.OrderRepository) error {
		current, err := orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if !current.IsCancellable() {
			return fmt.Errorf("pedido en estado %s: %w", current.Status, domain.ErrForbidden)
		}
		for _, it := range current.Items {
			if err := products.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		return orders.UpdateStatus(ctx, id, entity.OrderStatusCancelled)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", id).Str("by", caller.UserID).Msg("pedido cancelado")

	o, err = uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewOrderResponse(o), nil
}

// Receipt genera el comprobante PDF del pedido con la misma autorización que FindOne.
func (uc *OrderUseCase) Receipt(ctx context.Context, id string, caller domain.Caller) ([]byte, error) {
	if uc.receipts == nil {
		return nil, ErrReceiptUnavailable
	}
	o, err := uc.findOwned(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	return uc.receipts.OrderReceipt(o)
}

func (uc *OrderUseCase) findOwned(ctx context.Context, id string, caller domain.Caller) (*entity.Order, error) {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if !caller.IsAdmin() && o.UserID != caller.UserID {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

func toOrderResponses(list []*entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *dto.NewOrderResponse(o))
	}
	return out
}
