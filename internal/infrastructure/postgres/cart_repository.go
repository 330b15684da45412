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

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo implementación del puerto CartRepository sobre PostgreSQL.
type CartRepo struct {
	q Querier
}

func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// GetByUserID devuelve el carrito del usuario con sus ítems (orden de inserción).
func (r *CartRepo) GetByUserID(ctx context.Context, userID string) (*entity.Cart, error) {
	if !validID(userID) {
		return nil, nil
	}
	var c entity.Cart
	err := r.q.QueryRow(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
			`+productJoinColumns+`
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at, ci.id`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()
	c.Items = []entity.CartItem{}
	for rows.Next() {
		var (
			it    entity.CartItem
			p     entity.Product
			cat   entity.Category
			image *string
		)
		if err := rows.Scan(
			&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &image, &p.CreatedAt, &p.UpdatedAt,
			&cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt, &cat.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		p.ImageURL = deref(image)
		p.Category = &cat
		it.Product = &p
		it.OwnerID = c.UserID
		c.Items = append(c.Items, it)
	}
	return &c, rows.Err()
}

// Create crea el carrito; ErrDuplicate si el usuario ya tiene uno.
func (r *CartRepo) Create(ctx context.Context, c *entity.Cart) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO carts (id, user_id, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.UserID, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("usuario %s: %w", c.UserID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

// GetItem devuelve el ítem con el user_id del carrito como OwnerID.
func (r *CartRepo) GetItem(ctx context.Context, itemID string) (*entity.CartItem, error) {
	if !validID(itemID) {
		return nil, nil
	}
	var it entity.CartItem
	err := r.q.QueryRow(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at, c.user_id
		FROM cart_items ci JOIN carts c ON c.id = ci.cart_id
		WHERE ci.id = $1`, itemID,
	).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt, &it.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return &it, nil
}

// AddItem hace upsert sobre (cart_id, product_id): dos altas simultáneas del mismo producto
// terminan en una sola fila con las cantidades sumadas.
func (r *CartRepo) AddItem(ctx context.Context, it *entity.CartItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`,
		it.ID, it.CartID, it.ProductID, it.Quantity, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (r *CartRepo) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	if !validID(itemID) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE cart_items SET quantity = $2, updated_at = now() WHERE id = $1`, itemID, quantity)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CartRepo) DeleteItem(ctx context.Context, itemID string) error {
	if !validID(itemID) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CartRepo) ClearItems(ctx context.Context, cartID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
