package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta cabecera y líneas. Debe ejecutarse dentro de una transacción (TxRunner).
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO orders (id, user_id, total, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.UserID, o.Total, o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("usuario %s: %w", o.UserID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	for i, it := range o.Items {
		_, err := r.q.Exec(ctx,
			`INSERT INTO order_items (id, order_id, product_id, line_no, quantity, price) VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, o.ID, it.ProductID, i+1, it.Quantity, it.Price,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un pedido con sus líneas y productos.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT id, user_id, total, status, created_at, updated_at FROM orders WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila del pedido (SELECT ... FOR UPDATE).
// Debe usarse dentro de una transacción: una segunda cancelación espera y luego ve el estado nuevo.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT id, user_id, total, status, created_at, updated_at FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) getOne(ctx context.Context, query, id string) (*entity.Order, error) {
	if !validID(id) {
		return nil, nil
	}
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	list := []*entity.Order{&o}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return &o, nil
}

// List devuelve todos los pedidos (más recientes primero) con el resumen del usuario.
func (r *OrderRepo) List(ctx context.Context) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, `
		SELECT o.id, o.user_id, o.total, o.status, o.created_at, o.updated_at, u.id, u.name, u.email
		FROM orders o JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC, o.id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	list := []*entity.Order{}
	for rows.Next() {
		var (
			o entity.Order
			u entity.UserSummary
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt, &u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.User = &u
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, r.loadItems(ctx, list)
}

// ListByUser devuelve los pedidos de un usuario.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	if !validID(userID) {
		return []*entity.Order{}, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, total, status, created_at, updated_at
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	defer rows.Close()
	list := []*entity.Order{}
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, r.loadItems(ctx, list)
}

// UpdateStatus sobrescribe el estado.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// loadItems carga en una sola consulta las líneas (con producto) de todos los pedidos.
func (r *OrderRepo) loadItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	byID := make(map[string]*entity.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
		o.Items = []entity.OrderItem{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
			p.id, p.name, p.description, p.price, p.stock, p.category_id, p.image_url, p.created_at, p.updated_at
		FROM order_items oi JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1::uuid[])
		ORDER BY oi.order_id, oi.line_no`, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			it    entity.OrderItem
			p     entity.Product
			image *string
		)
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &image, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		p.ImageURL = deref(image)
		it.Product = &p
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}
