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

// ArticleUseCase noticias y artículos de salud (/news).
type ArticleUseCase struct {
	repo repository.ArticleRepository
}

func NewArticleUseCase(repo repository.ArticleRepository) *ArticleUseCase {
	return &ArticleUseCase{repo: repo}
}

// Create publica un artículo. El slug, si no se envía, se deriva del título.
func (uc *ArticleUseCase) Create(ctx context.Context, caller domain.Caller, in dto.CreateArticleRequest) (*dto.ArticleResponse, error) {
	if !domain.Authorize(caller.Role, entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	in.Title = sanitize.Text(in.Title)
	in.Author = sanitize.Text(in.Author)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	s := in.Slug
	if s == "" {
		s = in.Title
	}
	now := time.Now()
	a := &entity.Article{
		ID:        uuid.New().String(),
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		Author:    in.Author,
		Slug:      slug.Make(s),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if a.Slug == "" {
		return nil, domain.NewValidationError("slug", "no se pudo derivar del título")
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return dto.NewArticleResponse(a), nil
}

// List devuelve artículos del más reciente al más antiguo.
func (uc *ArticleUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ArticleResponse, error) {
	if err := dto.Validate(page); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Skip, page.Take)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ArticleResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *dto.NewArticleResponse(a))
	}
	return out, nil
}

func (uc *ArticleUseCase) GetByID(ctx context.Context, id string) (*dto.ArticleResponse, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewArticleResponse(a), nil
}

// Update aplica los campos enviados.
func (uc *ArticleUseCase) Update(ctx context.Context, caller domain.Caller, id string, in dto.UpdateArticleRequest) (*dto.ArticleResponse, error) {
	if !domain.Authorize(caller.Role, entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if in.Title != nil {
		a.Title = sanitize.Text(*in.Title)
	}
	if in.Content != nil {
		a.Content = *in.Content
	}
	if in.ImageURL != nil {
		a.ImageURL = *in.ImageURL
	}
	if in.Author != nil {
		a.Author = sanitize.Text(*in.Author)
	}
	if in.Slug != nil {
		a.Slug = slug.Make(*in.Slug)
		if a.Slug == "" {
			return nil, domain.NewValidationError("slug", "slug inválido")
		}
	}
	a.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return dto.NewArticleResponse(a), nil
}

func (uc *ArticleUseCase) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if !domain.Authorize(caller.Role, entity.RoleAdmin) {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(ctx, id)
}
