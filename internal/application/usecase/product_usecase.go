package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
	"github.com/jhoicas/farmacia-api/pkg/sanitize"
)

// ProductUseCase casos de uso CRUD para productos. Las escrituras son solo para ADMIN.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories}
}

// Create crea un nuevo producto. ErrDuplicate si el nombre ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, caller domain.Caller, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !domain.Authorize(caller.Role, entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	in.Name = sanitize.Text(in.Name)
	in.Description = sanitize.Text(in.Description)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "debe ser mayor o igual a 0")
	}
	cat, err := uc.category(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	product.Category = cat
	return dto.NewProductResponse(product), nil
}

// GetByID obtiene un producto con su categoría.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewProductResponse(product), nil
}

// Update actualiza los campos enviados de un producto.
func (uc *ProductUseCase) Update(ctx context.Context, caller domain.Caller, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if !domain.Authorize(caller.Role, entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = sanitize.Text(*in.Name)
	}
	if in.Description != nil {
		product.Description = sanitize.Text(*in.Description)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.NewValidationError("price", "debe ser mayor o igual a 0")
		}
		product.Price = *in.Price
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.CategoryID != nil && *in.CategoryID != product.CategoryID {
		cat, err := uc.category(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = cat.ID
		product.Category = cat
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return dto.NewProductResponse(product), nil
}

// List lista productos con filtros opcionales y paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) ([]dto.ProductResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		CategoryID: in.CategoryID,
		Search:     in.Search,
		Limit:      in.Take,
		Offset:     in.Skip,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.NewProductResponse(p))
	}
	return items, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if !domain.Authorize(caller.Role, entity.RoleAdmin) {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) category(ctx context.Context, id string) (*entity.Category, error) {
	cat, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("categoría %s: %w", id, domain.ErrNotFound)
	}
	return cat, nil
}
