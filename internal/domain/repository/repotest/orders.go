package repotest

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// OrderRepo implementa repository.OrderRepository en memoria.
type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[o.ID]; ok {
		return domain.ErrDuplicate
	}
	c := cloneOrder(o)
	c.User = nil
	for i := range c.Items {
		c.Items[i].Product = nil
	}
	r.s.orders[o.ID] = c
	r.s.orderIDs = append(r.s.orderIDs, o.ID)
	return nil
}

// detailed debe llamarse con mu tomado.
func (r *OrderRepo) detailed(o *entity.Order, withUser bool) *entity.Order {
	c := cloneOrder(o)
	for i := range c.Items {
		if p, ok := r.s.products[c.Items[i].ProductID]; ok {
			c.Items[i].Product = cloneProduct(p)
		}
	}
	if withUser {
		if u, ok := r.s.users[o.UserID]; ok {
			c.User = &entity.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	return c
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orders[id]; ok {
		return r.detailed(o, false), nil
	}
	return nil, nil
}

// GetForUpdate no necesita bloqueo propio: Store.RunOrder ya serializa las transacciones.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) List(_ context.Context) ([]*entity.Order, error) {
	return r.list("", true), nil
}

func (r *OrderRepo) ListByUser(_ context.Context, userID string) ([]*entity.Order, error) {
	return r.list(userID, false), nil
}

func (r *OrderRepo) list(userID string, withUser bool) []*entity.Order {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Order, 0, len(r.s.orderIDs))
	for i := len(r.s.orderIDs) - 1; i >= 0; i-- {
		o := r.s.orders[r.s.orderIDs[i]]
		if userID != "" && o.UserID != userID {
			continue
		}
		out = append(out, r.detailed(o, withUser))
	}
	return out
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}
