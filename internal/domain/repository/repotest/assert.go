package repotest

import "github.com/jhoicas/farmacia-api/internal/domain/repository"

var (
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.OrderRepository    = (*OrderRepo)(nil)
	_ repository.CartRepository     = (*CartRepo)(nil)
	_ repository.ArticleRepository  = (*ArticleRepo)(nil)
)
