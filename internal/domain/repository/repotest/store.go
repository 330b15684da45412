// Package repotest implementa los puertos de repository en memoria para tests
// de casos de uso y handlers. Replica las señales de error de la capa postgres:
// (nil, nil) en lecturas sin resultado, ErrNotFound en escrituras sobre ids
// inexistentes, ErrDuplicate en claves únicas y ErrInsufficientStock en AdjustStock.
package repotest

import (
	"context"
	"sync"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// Store es la "base de datos" compartida por todos los repositorios en memoria.
type Store struct {
	mu         sync.Mutex
	txMu       sync.Mutex
	users      map[string]*entity.User
	categories map[string]*entity.Category
	products   map[string]*entity.Product
	orders     map[string]*entity.Order
	orderIDs   []string
	carts      map[string]*entity.Cart
	cartItems  map[string]*entity.CartItem
	itemIDs    []string
	articles   map[string]*entity.Article
	articleIDs []string
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		users:      map[string]*entity.User{},
		categories: map[string]*entity.Category{},
		products:   map[string]*entity.Product{},
		orders:     map[string]*entity.Order{},
		carts:      map[string]*entity.Cart{},
		cartItems:  map[string]*entity.CartItem{},
		articles:   map[string]*entity.Article{},
	}
}

func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }
func (s *Store) Carts() *CartRepo { return &CartRepo{s: s} }
func (s *Store) Articles() *ArticleRepo { return &ArticleRepo{s: s} }

// RunOrder ejecuta fn como una transacción: si fn falla, productos y pedidos
// vuelven al estado previo.
func (s *Store) RunOrder(ctx context.Context, fn func(products repository.ProductRepository, orders repository.OrderRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	products := make(map[string]*entity.Product, len(s.products))
	for id, p := range s.products {
		products[id] = cloneProduct(p)
	}
	orders := make(map[string]*entity.Order, len(s.orders))
	for id, o := range s.orders {
		orders[id] = cloneOrder(o)
	}
	orderIDs := append([]string(nil), s.orderIDs...)
	s.mu.Unlock()

	if err := fn(s.Products(), s.Orders()); err != nil {
		s.mu.Lock()
		s.products, s.orders, s.orderIDs = products, orders, orderIDs
		s.mu.Unlock()
		return err
	}
	return nil
}

// Stock devuelve el stock actual de un producto (-1 si no existe).
func (s *Store) Stock(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return -1
	}
	return p.Stock
}

// OrderCount devuelve la cantidad de pedidos guardados.
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// UserCount devuelve la cantidad de usuarios guardados.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func cloneCategory(c *entity.Category) *entity.Category {
	cc := *c
	return &cc
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	if p.Category != nil {
		c.Category = cloneCategory(p.Category)
	}
	return &c
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Items = make([]entity.OrderItem, len(o.Items))
	copy(c.Items, o.Items)
	if o.User != nil {
		u := *o.User
		c.User = &u
	}
	return &c
}

func cloneArticle(a *entity.Article) *entity.Article {
	c := *a
	return &c
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
