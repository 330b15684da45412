package dto

import "github.com/jhoicas/farmacia-api/internal/domain/entity"

// Constructores de respuesta compartidos por los casos de uso de catálogo, carrito y pedidos.

// NewCategoryResponse convierte una entidad Category.
func NewCategoryResponse(c *entity.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewProductResponse convierte una entidad Product (con su categoría si viene cargada).
func NewProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		Category:    NewCategoryResponse(p.Category),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewOrderResponse convierte un pedido con sus líneas.
func NewOrderResponse(o *entity.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Product:   NewProductResponse(it.Product),
		})
	}
	out := &OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Total:     o.Total,
		Status:    o.Status,
		Items:     items,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.User != nil {
		out.User = &OrderUserResponse{ID: o.User.ID, Name: o.User.Name, Email: o.User.Email}
	}
	return out
}

// NewCartResponse convierte un carrito con sus ítems.
func NewCartResponse(c *entity.Cart) *CartResponse {
	if c == nil {
		return nil
	}
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Product:   NewProductResponse(it.Product),
		})
	}
	return &CartResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     items,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewArticleResponse convierte una entidad Article.
func NewArticleResponse(a *entity.Article) *ArticleResponse {
	if a == nil {
		return nil
	}
	return &ArticleResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		ImageURL:  a.ImageURL,
		Author:    a.Author,
		Slug:      a.Slug,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
