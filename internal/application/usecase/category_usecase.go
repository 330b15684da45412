package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
	"github.com/jhoicas/farmacia-api/pkg/sanitize"
	"github.com/jhoicas/farmacia-api/pkg/slug"
)

// CategoryUseCase CRUD de categorías.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría; si no se envía slug se deriva del nombre.
func (uc *CategoryUseCase) Create(ctx context.Context, caller domain.Caller, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if !domain.Authorize(caller.Role, entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	in.Name = sanitize.Text(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Category{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Slug:      categorySlug(in),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if c.Slug == "" {
		return nil, domain.NewValidationError("slug", "no se pudo derivar del nombre")
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return dto.NewCategoryResponse(c), nil
}

func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewCategoryResponse(c), nil
}

func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *dto.NewCategoryResponse(c))
	}
	return out, nil
}

// Update renombra la categoría y recalcula el slug si no se envía uno.
func (uc *CategoryUseCase) Update(ctx context.Context, caller domain.Caller, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if !domain.Authorize(caller.Role, entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	in.Name = sanitize.Text(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	c.Name = in.Name
	c.Slug = categorySlug(in)
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return dto.NewCategoryResponse(c), nil
}

// Delete elimina la categoría. ErrConflict si todavía tiene productos.
func (uc *CategoryUseCase) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if !domain.Authorize(caller.Role, entity.RoleAdmin) {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(ctx, id)
}

func categorySlug(in dto.CategoryRequest) string {
	if in.Slug != "" {
		return slug.Make(in.Slug)
	}
	return slug.Make(in.Name)
}
