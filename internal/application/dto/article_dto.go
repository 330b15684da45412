package dto

import "time"

// CreateArticleRequest entrada para publicar un artículo.
type CreateArticleRequest struct {
	Title    string `json:"title" validate:"required,max=250"`
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
	Author   string `json:"author" validate:"required,max=120"`
	Slug     string `json:"slug" validate:"omitempty,max=250"`
}

// UpdateArticleRequest entrada parcial (PATCH).
type UpdateArticleRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=250"`
	Content  *string `json:"content" validate:"omitempty,min=1"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
	Author   *string `json:"author" validate:"omitempty,min=1,max=120"`
	Slug     *string `json:"slug" validate:"omitempty,min=1,max=250"`
}

// ArticleResponse salida de un artículo.
type ArticleResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Author    string    `json:"author"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
