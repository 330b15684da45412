package repotest

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// CategoryRepo implementa repository.CategoryRepository en memoria.
type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.categories {
		if ex.Name == c.Name || ex.Slug == c.Slug {
			return domain.ErrDuplicate
		}
	}
	r.s.categories[c.ID] = cloneCategory(c)
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[id]; ok {
		return cloneCategory(c), nil
	}
	return nil, nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, cloneCategory(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, ex := range r.s.categories {
		if id != c.ID && (ex.Name == c.Name || ex.Slug == c.Slug) {
			return domain.ErrDuplicate
		}
	}
	r.s.categories[c.ID] = cloneCategory(c)
	return nil
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	for _, p := range r.s.products {
		if p.CategoryID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.categories, id)
	return nil
}

// ProductRepo implementa repository.ProductRepository en memoria.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.products {
		if ex.Name == p.Name {
			return domain.ErrDuplicate
		}
	}
	c := cloneProduct(p)
	c.Category = nil
	r.s.products[p.ID] = c
	return nil
}

// withCategory debe llamarse con mu tomado.
func (r *ProductRepo) withCategory(p *entity.Product) *entity.Product {
	c := cloneProduct(p)
	if cat, ok := r.s.categories[p.CategoryID]; ok {
		c.Category = cloneCategory(cat)
	}
	return c
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		return r.withCategory(p), nil
	}
	return nil, nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, r.withCategory(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []*entity.Product{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, ex := range r.s.products {
		if id != p.ID && ex.Name == p.Name {
			return domain.ErrDuplicate
		}
	}
	c := cloneProduct(p)
	c.Category = nil
	r.s.products[p.ID] = c
	return nil
}

func (r *ProductRepo) AdjustStock(_ context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return domain.ErrInsufficientStock
	}
	p.Stock += delta
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

// ArticleRepo implementa repository.ArticleRepository en memoria.
type ArticleRepo struct{ s *Store }

func (r *ArticleRepo) Create(_ context.Context, a *entity.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.articles {
		if ex.Slug == a.Slug {
			return domain.ErrDuplicate
		}
	}
	r.s.articles[a.ID] = cloneArticle(a)
	r.s.articleIDs = append(r.s.articleIDs, a.ID)
	return nil
}

func (r *ArticleRepo) GetByID(_ context.Context, id string) (*entity.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.articles[id]; ok {
		return cloneArticle(a), nil
	}
	return nil, nil
}

// List devuelve los artículos del más reciente al más antiguo.
func (r *ArticleRepo) List(_ context.Context, skip, take int) ([]*entity.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Article, 0, len(r.s.articleIDs))
	for i := len(r.s.articleIDs) - 1; i >= 0; i-- {
		out = append(out, cloneArticle(r.s.articles[r.s.articleIDs[i]]))
	}
	if skip > 0 {
		if skip >= len(out) {
			return []*entity.Article{}, nil
		}
		out = out[skip:]
	}
	if take > 0 && take < len(out) {
		out = out[:take]
	}
	return out, nil
}

func (r *ArticleRepo) Update(_ context.Context, a *entity.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.articles[a.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, ex := range r.s.articles {
		if id != a.ID && ex.Slug == a.Slug {
			return domain.ErrDuplicate
		}
	}
	r.s.articles[a.ID] = cloneArticle(a)
	return nil
}

func (r *ArticleRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.articles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.articles, id)
	r.s.articleIDs = removeID(r.s.articleIDs, id)
	return nil
}
