package entity

import "time"

// Category agrupa productos del catálogo (antibióticos, analgésicos...).
type Category struct {
	ID        string
	Name      string // único
	Slug      string // único, derivado del nombre
	CreatedAt time.Time
	UpdatedAt time.Time
}
