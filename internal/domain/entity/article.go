package entity

import "time"

// Article es una noticia o artículo de salud publicado en /news.
type Article struct {
	ID        string
	Title     string
	Content   string
	ImageURL  string
	Author    string
	Slug      string // único
	CreatedAt time.Time
	UpdatedAt time.Time
}
