package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/pkg/logger"
	"github.com/jhoicas/farmacia-api/pkg/slug"
)

// SeedOptions datos iniciales configurables desde la CLI.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

var (
	seedCategories = []string{"Thuốc kháng sinh", "Thuốc giảm đau", "Thuốc hỗ trợ"}
	seedArticles   = []struct{ title, content string }{
		{"Cách sử dụng thuốc kháng sinh an toàn", "Bài viết về cách sử dụng thuốc kháng sinh an toàn..."},
		{"Tầm quan trọng của Vitamin C", "Bài viết về tầm quan trọng của Vitamin C..."},
	}
)

// Seed crea el usuario administrador, las categorías base y dos artículos.
// Es idempotente: las filas existentes (por email, nombre o slug) no se modifican.
func Seed(ctx context.Context, pool *pgxpool.Pool, opts SeedOptions, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), 10)
	if err != nil {
		return err
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING`,
		uuid.New().String(), opts.AdminEmail, string(hash), opts.AdminName, entity.RoleAdmin)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Info().Str("email", opts.AdminEmail).Bool("created", tag.RowsAffected() == 1).Msg("usuario administrador")

	for _, name := range seedCategories {
		if _, err := tx.Exec(ctx, `
			INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING`,
			uuid.New().String(), name, slug.Make(name)); err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	for _, a := range seedArticles {
		if _, err := tx.Exec(ctx, `
			INSERT INTO articles (id, title, content, author, slug) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (slug) DO NOTHING`,
			uuid.New().String(), a.title, a.content, "Admin", slug.Make(a.title)); err != nil {
			return fmt.Errorf("seed article %q: %w", a.title, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	log.Info().Int("categories", len(seedCategories)).Int("articles", len(seedArticles)).Msg("datos iniciales cargados")
	return nil
}
