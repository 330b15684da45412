package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-api/internal/application/auth"
	"github.com/jhoicas/farmacia-api/internal/application/cart"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/application/order"
	"github.com/jhoicas/farmacia-api/internal/application/usecase"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository/repotest"
	apphttp "github.com/jhoicas/farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

const (
	annID   = "user-ann"
	bobID   = "user-bob"
	adminID = "user-admin"

	frontendURL = "http://frontend.test"
)

type googleStub struct{}

func (googleStub) Name() string { return entity.ProviderGoogle }

func (googleStub) AuthCodeURL(state string) string {
	return "https://accounts.test/auth?state=" + url.QueryEscape(state)
}

func (googleStub) FetchProfile(_ context.Context, code string) (*dto.OAuthProfile, error) {
	if code != "ok" {
		return nil, io.ErrUnexpectedEOF
	}
	return &dto.OAuthProfile{ID: "g-42", Email: "gina@x.com", DisplayName: "Gina"}, nil
}

type memStates struct {
	mu sync.Mutex
	m  map[string]string
}

func (s *memStates) Save(_ context.Context, state, provider string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[state] = provider
	return nil
}

func (s *memStates) Consume(_ context.Context, state string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.m[state]
	delete(s.m, state)
	return p, ok, nil
}

type stubReceipts struct{}

func (stubReceipts) OrderReceipt(o *entity.Order) ([]byte, error) {
	return []byte("%PDF-1.4 " + o.ID), nil
}

// newTestApp arma el router completo sobre repositorios en memoria.
func newTestApp(t *testing.T) (*fiber.App, *repotest.Store) {
	t.Helper()
	store := repotest.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Categories().Create(ctx, &entity.Category{ID: "cat-1", Name: "Thuốc giảm đau", Slug: "thuoc-giam-dau"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "paracetamol", Name: "Paracetamol 500mg", Price: decimal.RequireFromString("12.50"), Stock: 5, CategoryID: "cat-1",
	}))
	for id, role := range map[string]string{annID: entity.RoleUser, bobID: entity.RoleUser, adminID: entity.RoleAdmin} {
		require.NoError(t, store.Users().Create(ctx, &entity.User{ID: id, Email: id + "@x.com", Name: id, Role: role}))
	}

	log := logger.Nop()
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		Issuer:        testIssuer,
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	}, log).WithOAuth(&memStates{m: map[string]string{}}, googleStub{})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    usecase.NewProductUseCase(store.Products(), store.Categories()),
		CategoryUC:   usecase.NewCategoryUseCase(store.Categories()),
		ArticleUC:    usecase.NewArticleUseCase(store.Articles()),
		OrderUC:      order.NewOrderUseCase(store.Orders(), store, stubReceipts{}, log),
		CartUC:       cart.NewCartUseCase(store.Carts(), store.Products()),
		AccessSecret: testAccessSecret,
		Cookies:      apphttp.CookieConfig{AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour},
		FrontendURL:  frontendURL,
		Log:          log,
	})
	return app, store
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func callWithCookies(t *testing.T, app *fiber.App, method, path string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func cookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_RegistroLoginRefreshLogout(t *testing.T) {
	app, _ := newTestApp(t)
	reg := map[string]string{"email": "a@x.com", "password": "Abc123", "name": "Ann"}

	resp := call(t, app, http.MethodPost, "/api/auth/register", "", reg)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[map[string]any](t, resp)
	assert.Equal(t, "USER", user["role"])
	assert.NotContains(t, user, "password")

	resp = call(t, app, http.MethodPost, "/api/auth/register", "", reg)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.com", "password": "Abc123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, cookie(resp, apphttp.CookieAccessToken))
	require.NotNil(t, cookie(resp, apphttp.CookieRefreshToken))
	login := decode[dto.AuthResponse](t, resp)

	resp = call(t, app, http.MethodGet, "/api/auth/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "a@x.com", decode[dto.UserResponse](t, resp).Email)

	resp = call(t, app, http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rotated := decode[dto.AuthResponse](t, resp)

	resp = call(t, app, http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "un refresh token ya rotado no vuelve a servir")

	resp = call(t, app, http.MethodPost, "/api/auth/logout", rotated.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	if c := cookie(resp, apphttp.CookieAccessToken); assert.NotNil(t, c) {
		assert.Empty(t, c.Value)
	}

	resp = call(t, app, http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{RefreshToken: rotated.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "logout invalida el refresh vigente")
}

func TestAuth_LoginCredencialesInvalidas(t *testing.T) {
	app, _ := newTestApp(t)

	resp := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nadie@x.com", "password": "Abc123"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "no-es-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuth_RefreshSinToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp := call(t, app, http.MethodPost, "/api/auth/refresh", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_OAuthGoogle(t *testing.T) {
	app, store := newTestApp(t)

	resp := call(t, app, http.MethodGet, "/api/auth/google", "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	bound := cookie(resp, apphttp.CookieOAuthState)
	require.NotNil(t, bound)
	assert.Equal(t, state, bound.Value)
	assert.True(t, bound.HttpOnly)

	before := store.UserCount()
	callback := "/api/auth/google/callback?code=ok&state=" + url.QueryEscape(state)
	resp = callWithCookies(t, app, http.MethodGet, callback, bound)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, frontendURL, resp.Header.Get("Location"))
	assert.NotNil(t, cookie(resp, apphttp.CookieAccessToken))
	assert.Equal(t, before+1, store.UserCount())

	resp = callWithCookies(t, app, http.MethodGet, callback, bound)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), frontendURL+"/login?error="), "el state es de un solo uso")
}

func TestAuth_OAuthCallbackSinCookieDeState(t *testing.T) {
	app, store := newTestApp(t)

	// Otro navegador inicia el flujo y entrega el link del callback con su state.
	resp := call(t, app, http.MethodGet, "/api/auth/google", "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	callback := "/api/auth/google/callback?code=ok&state=" + url.QueryEscape(loc.Query().Get("state"))

	before := store.UserCount()
	for name, cookies := range map[string][]*http.Cookie{
		"sin cookie":   nil,
		"cookie ajena": {{Name: apphttp.CookieOAuthState, Value: "otro-state"}},
	} {
		t.Run(name, func(t *testing.T) {
			resp := callWithCookies(t, app, http.MethodGet, callback, cookies...)
			require.Equal(t, http.StatusFound, resp.StatusCode)
			assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), frontendURL+"/login?error="))
			assert.Nil(t, cookie(resp, apphttp.CookieAccessToken))
		})
	}
	assert.Equal(t, before, store.UserCount())
}

func TestAuth_OAuthProveedorNoHabilitado(t *testing.T) {
	app, _ := newTestApp(t)

	resp := call(t, app, http.MethodGet, "/api/auth/facebook", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_LecturaPublicaEscrituraAdmin(t *testing.T) {
	app, _ := newTestApp(t)

	resp := call(t, app, http.MethodGet, "/api/products?search=para", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]map[string]any](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "paracetamol", list[0]["id"])

	newProduct := map[string]any{"name": "Vitamina C", "price": "3.20", "stock": 40, "categoryId": "cat-1"}
	resp = call(t, app, http.MethodPost, "/api/products", "", newProduct)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/products", accessTokenFor(t, annID, entity.RoleUser), newProduct)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/products", accessTokenFor(t, adminID, entity.RoleAdmin), newProduct)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	assert.Equal(t, "cat-1", created["categoryId"])

	resp = call(t, app, http.MethodGet, "/api/products/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCategories_SlugDerivado(t *testing.T) {
	app, _ := newTestApp(t)

	resp := call(t, app, http.MethodPost, "/api/categories", accessTokenFor(t, adminID, entity.RoleAdmin), map[string]string{"name": "Vitaminas y Minerales"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "vitaminas-y-minerales", decode[dto.CategoryResponse](t, resp).Slug)
}

func TestNews_CrearYListar(t *testing.T) {
	app, _ := newTestApp(t)
	admin := accessTokenFor(t, adminID, entity.RoleAdmin)

	resp := call(t, app, http.MethodPost, "/api/news", admin, map[string]string{"title": "Cuidado en invierno", "content": "Consejos", "author": "Farmacia"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode[dto.ArticleResponse](t, resp).ID

	resp = call(t, app, http.MethodGet, "/api/news?take=5", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.ArticleResponse](t, resp), 1)

	resp = call(t, app, http.MethodDelete, "/api/news/"+id, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/news/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

func orderBody(productID string, qty int) map[string]any {
	return map[string]any{"items": []map[string]any{{"productId": productID, "quantity": qty}}}
}

func TestOrders_CrearYCancelarRestauraStock(t *testing.T) {
	app, store := newTestApp(t)
	ann := accessTokenFor(t, annID, entity.RoleUser)

	resp := call(t, app, http.MethodPost, "/api/orders", ann, orderBody("paracetamol", 3))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.OrderResponse](t, resp)
	assert.Equal(t, entity.OrderStatusPending, created.Status)
	assert.True(t, created.Total.Equal(decimal.RequireFromString("37.50")))
	assert.Equal(t, 2, store.Stock("paracetamol"))

	resp = call(t, app, http.MethodGet, "/api/orders/my-orders", ann, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.OrderResponse](t, resp), 1)

	resp = call(t, app, http.MethodGet, "/api/orders/"+created.ID, accessTokenFor(t, bobID, entity.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodDelete, "/api/orders/"+created.ID, ann, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.OrderStatusCancelled, decode[dto.OrderResponse](t, resp).Status)
	assert.Equal(t, 5, store.Stock("paracetamol"))

	resp = call(t, app, http.MethodDelete, "/api/orders/"+created.ID, ann, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "solo PENDING se puede cancelar")
	assert.Equal(t, 5, store.Stock("paracetamol"))
}

func TestOrders_StockInsuficiente(t *testing.T) {
	app, store := newTestApp(t)

	resp := call(t, app, http.MethodPost, "/api/orders", accessTokenFor(t, annID, entity.RoleUser), orderBody("paracetamol", 10))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)
	assert.Equal(t, 5, store.Stock("paracetamol"))
	assert.Equal(t, 0, store.OrderCount())
}

func TestOrders_ValidacionYProductoInexistente(t *testing.T) {
	app, _ := newTestApp(t)
	ann := accessTokenFor(t, annID, entity.RoleUser)

	resp := call(t, app, http.MethodPost, "/api/orders", ann, map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/orders", ann, orderBody("no-existe", 1))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrders_AdministracionSoloAdmin(t *testing.T) {
	app, _ := newTestApp(t)
	ann := accessTokenFor(t, annID, entity.RoleUser)
	admin := accessTokenFor(t, adminID, entity.RoleAdmin)

	resp := call(t, app, http.MethodPost, "/api/orders", ann, orderBody("paracetamol", 1))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode[dto.OrderResponse](t, resp).ID

	resp = call(t, app, http.MethodGet, "/api/orders", ann, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/orders", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.OrderResponse](t, resp), 1)

	resp = call(t, app, http.MethodPatch, "/api/orders/"+id+"/status", ann, map[string]string{"status": "DELIVERED"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPatch, "/api/orders/"+id+"/status", admin, map[string]string{"status": "ENVIADO"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPatch, "/api/orders/"+id+"/status", admin, map[string]string{"status": "DELIVERED"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.OrderStatusDelivered, decode[dto.OrderResponse](t, resp).Status)
}

func TestOrders_Comprobante(t *testing.T) {
	app, _ := newTestApp(t)
	ann := accessTokenFor(t, annID, entity.RoleUser)

	resp := call(t, app, http.MethodPost, "/api/orders", ann, orderBody("paracetamol", 1))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode[dto.OrderResponse](t, resp).ID

	resp = call(t, app, http.MethodGet, "/api/orders/"+id+"/receipt", ann, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Carrito
// ──────────────────────────────────────────────────────────────────────────────

func TestCart_FlujoYDueno(t *testing.T) {
	app, _ := newTestApp(t)
	ann := accessTokenFor(t, annID, entity.RoleUser)
	bob := accessTokenFor(t, bobID, entity.RoleUser)

	resp := call(t, app, http.MethodGet, "/api/cart", ann, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "null", strings.TrimSpace(string(raw)), "sin carrito se responde null")

	add := map[string]any{"productId": "paracetamol", "quantity": 2}
	resp = call(t, app, http.MethodPost, "/api/cart", ann, add)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = call(t, app, http.MethodPost, "/api/cart", ann, add)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	c := decode[dto.CartResponse](t, resp)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 4, c.Items[0].Quantity)
	itemID := c.Items[0].ID

	resp = call(t, app, http.MethodPut, "/api/cart/"+itemID, bob, map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = call(t, app, http.MethodDelete, "/api/cart/"+itemID, bob, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPut, "/api/cart/"+itemID, ann, map[string]int{"quantity": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[dto.CartResponse](t, resp).Items[0].Quantity)

	resp = call(t, app, http.MethodDelete, "/api/cart", ann, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
