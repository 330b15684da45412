package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"min=0"`
	CategoryID  string          `json:"categoryId" validate:"required"`
	ImageURL    string          `json:"imageUrl" validate:"omitempty,url"`
}

// UpdateProductRequest entrada parcial; los campos nil no se modifican.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	CategoryID  *string          `json:"categoryId" validate:"omitempty,min=1"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,url"`
}

// ProductListRequest filtros de listado (query string).
type ProductListRequest struct {
	CategoryID string `query:"categoryId"`
	Search     string `query:"search"`
	PageRequest
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Stock       int               `json:"stock"`
	CategoryID  string            `json:"categoryId"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	Category    *CategoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}
