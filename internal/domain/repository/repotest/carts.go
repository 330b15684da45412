package repotest

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// CartRepo implementa repository.CartRepository en memoria.
type CartRepo struct{ s *Store }

func (r *CartRepo) GetByUserID(_ context.Context, userID string) (*entity.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.carts {
		if c.UserID != userID {
			continue
		}
		out := *c
		out.Items = []entity.CartItem{}
		for _, id := range r.s.itemIDs {
			it := r.s.cartItems[id]
			if it.CartID != c.ID {
				continue
			}
			item := *it
			item.OwnerID = c.UserID
			if p, ok := r.s.products[it.ProductID]; ok {
				item.Product = cloneProduct(p)
			}
			out.Items = append(out.Items, item)
		}
		return &out, nil
	}
	return nil, nil
}

func (r *CartRepo) Create(_ context.Context, cart *entity.Cart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.carts {
		if c.UserID == cart.UserID {
			return domain.ErrDuplicate
		}
	}
	c := *cart
	c.Items = nil
	r.s.carts[cart.ID] = &c
	return nil
}

func (r *CartRepo) GetItem(_ context.Context, itemID string) (*entity.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.cartItems[itemID]
	if !ok {
		return nil, nil
	}
	out := *it
	if c, ok := r.s.carts[it.CartID]; ok {
		out.OwnerID = c.UserID
	}
	return &out, nil
}

func (r *CartRepo) AddItem(_ context.Context, item *entity.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.carts[item.CartID]; !ok {
		return domain.ErrNotFound
	}
	for _, it := range r.s.cartItems {
		if it.CartID == item.CartID && it.ProductID == item.ProductID {
			it.Quantity += item.Quantity
			it.UpdatedAt = item.UpdatedAt
			return nil
		}
	}
	c := *item
	c.Product = nil
	r.s.cartItems[item.ID] = &c
	r.s.itemIDs = append(r.s.itemIDs, item.ID)
	return nil
}

func (r *CartRepo) UpdateItemQuantity(_ context.Context, itemID string, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.cartItems[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	it.Quantity = quantity
	return nil
}

func (r *CartRepo) DeleteItem(_ context.Context, itemID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.cartItems[itemID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.cartItems, itemID)
	r.s.itemIDs = removeID(r.s.itemIDs, itemID)
	return nil
}

func (r *CartRepo) ClearItems(_ context.Context, cartID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, it := range r.s.cartItems {
		if it.CartID == cartID {
			delete(r.s.cartItems, id)
			r.s.itemIDs = removeID(r.s.itemIDs, id)
		}
	}
	return nil
}
