package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-api/internal/application/auth"
	"github.com/jhoicas/farmacia-api/internal/application/cart"
	"github.com/jhoicas/farmacia-api/internal/application/order"
	"github.com/jhoicas/farmacia-api/internal/application/usecase"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *usecase.ProductUseCase
	CategoryUC   *usecase.CategoryUseCase
	ArticleUC    *usecase.ArticleUseCase
	OrderUC      *order.OrderUseCase
	CartUC       *cart.CartUseCase
	AccessSecret string
	Cookies      CookieConfig
	FrontendURL  string
	Log          *logger.Logger
}

// Router registra las rutas de la API bajo /api.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log != nil {
		app.Use(RequestLogger(deps.Log))
	}
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.AccessSecret)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookies, deps.FrontendURL)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", OptionalAuth(deps.AccessSecret), authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)
	for _, p := range []string{entity.ProviderGoogle, entity.ProviderFacebook} {
		authGroup.Get("/"+p, authHandler.OAuthStart(p))
		authGroup.Get("/"+p+"/callback", authHandler.OAuthCallback(p))
	}

	// Products: lectura pública
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", requireAuth, adminOnly, productHandler.Create)
	products.Put("/:id", requireAuth, adminOnly, productHandler.Update)
	products.Delete("/:id", requireAuth, adminOnly, productHandler.Delete)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", requireAuth, adminOnly, categoryHandler.Create)
	categories.Put("/:id", requireAuth, adminOnly, categoryHandler.Update)
	categories.Delete("/:id", requireAuth, adminOnly, categoryHandler.Delete)

	newsHandler := NewNewsHandler(deps.ArticleUC)
	news := api.Group("/news")
	news.Get("/", newsHandler.List)
	news.Get("/:id", newsHandler.GetByID)
	news.Post("/", requireAuth, adminOnly, newsHandler.Create)
	news.Patch("/:id", requireAuth, adminOnly, newsHandler.Update)
	news.Delete("/:id", requireAuth, adminOnly, newsHandler.Delete)

	// Orders (protegido). my-orders antes de /:id.
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders := api.Group("/orders", requireAuth)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", adminOnly, orderHandler.FindAll)
	orders.Get("/my-orders", orderHandler.MyOrders)
	orders.Get("/:id", orderHandler.FindOne)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Patch("/:id/status", adminOnly, orderHandler.UpdateStatus)
	orders.Delete("/:id", orderHandler.Cancel)

	// Cart (protegido)
	cartHandler := NewCartHandler(deps.CartUC)
	cartGroup := api.Group("/cart", requireAuth)
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Post("/", cartHandler.Add)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Put("/:id", cartHandler.UpdateItem)
	cartGroup.Delete("/:id", cartHandler.RemoveItem)
}
