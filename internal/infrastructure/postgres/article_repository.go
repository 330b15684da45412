package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

const articleColumns = `id, title, content, image_url, author, slug, created_at, updated_at`

// ArticleRepo implementación del puerto ArticleRepository sobre PostgreSQL.
type ArticleRepo struct {
	q Querier
}

func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO articles (`+articleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Title, a.Content, nullable(a.ImageURL), a.Author, a.Slug, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	if !validID(id) {
		return nil, nil
	}
	a, err := scanArticle(r.q.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// List ordena del más reciente al más antiguo; take <= 0 no limita.
func (r *ArticleRepo) List(ctx context.Context, skip, take int) ([]*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles ORDER BY created_at DESC, id OFFSET $1`
	args := []any{skip}
	if take > 0 {
		query += ` LIMIT $2`
		args = append(args, take)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()
	list := []*entity.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE articles SET title = $2, content = $3, image_url = $4, author = $5, slug = $6, updated_at = $7
		WHERE id = $1`,
		a.ID, a.Title, a.Content, nullable(a.ImageURL), a.Author, a.Slug, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ArticleRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanArticle(row pgx.Row) (*entity.Article, error) {
	var (
		a     entity.Article
		image *string
	)
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &image, &a.Author, &a.Slug, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.ImageURL = deref(image)
	return &a, nil
}
