package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// CartUseCase carrito de compras: un carrito por usuario, creado en el primer uso.
type CartUseCase struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(carts repository.CartRepository, products repository.ProductRepository) *CartUseCase {
	return &CartUseCase{carts: carts, products: products}
}

// GetCart devuelve el carrito del usuario o nil si aún no tiene uno.
func (uc *CartUseCase) GetCart(ctx context.Context, userID string) (*dto.CartResponse, error) {
	c, err := uc.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewCartResponse(c), nil
}

// AddToCart agrega qty unidades del producto; si ya estaba en el carrito suma la cantidad.
func (uc *CartUseCase) AddToCart(ctx context.Context, userID string, in dto.AddCartItemRequest) (*dto.CartResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	p, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
	}

	c, err := uc.ensureCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	item := &entity.CartItem{
		ID:        uuid.New().String(),
		CartID:    c.ID,
		ProductID: p.ID,
		Quantity:  in.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.carts.AddItem(ctx, item); err != nil {
		return nil, err
	}
	return uc.GetCart(ctx, userID)
}

// UpdateItem fija la cantidad de un ítem del carrito del usuario.
func (uc *CartUseCase) UpdateItem(ctx context.Context, itemID, userID string, in dto.UpdateCartItemRequest) (*dto.CartResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if _, err := uc.ownedItem(ctx, itemID, userID); err != nil {
		return nil, err
	}
	if err := uc.carts.UpdateItemQuantity(ctx, itemID, in.Quantity); err != nil {
		return nil, err
	}
	return uc.GetCart(ctx, userID)
}

// RemoveItem elimina un ítem del carrito del usuario.
func (uc *CartUseCase) RemoveItem(ctx context.Context, itemID, userID string) (*dto.CartResponse, error) {
	if _, err := uc.ownedItem(ctx, itemID, userID); err != nil {
		return nil, err
	}
	if err := uc.carts.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}
	return uc.GetCart(ctx, userID)
}

// Clear vacía el carrito del usuario. Sin carrito no hace nada.
func (uc *CartUseCase) Clear(ctx context.Context, userID string) error {
	c, err := uc.carts.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}
	return uc.carts.ClearItems(ctx, c.ID)
}

func (uc *CartUseCase) ensureCart(ctx context.Context, userID string) (*entity.Cart, error) {
	c, err := uc.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}
	now := time.Now()
	c = &entity.Cart{ID: uuid.New().String(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	if err := uc.carts.Create(ctx, c); err != nil {
		// Otra petición del mismo usuario lo creó primero.
		if errors.Is(err, domain.ErrDuplicate) {
			return uc.carts.GetByUserID(ctx, userID)
		}
		return nil, err
	}
	return c, nil
}

func (uc *CartUseCase) ownedItem(ctx context.Context, itemID, userID string) (*entity.CartItem, error) {
	item, err := uc.carts.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}
