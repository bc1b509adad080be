package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/handlers/cart"
	"storefront_back_end/internal/handlers/product"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository/memory"
	"storefront_back_end/internal/services"
)

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (*auth.Claims, error) {
	if token != "valid-token" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{Email: "ada@example.com", RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}, nil
}

type stubIdentity struct{}

func (stubIdentity) SignUp(context.Context, auth.SignUpInput) (string, error) { return "sub-1", nil }
func (stubIdentity) ConfirmSignUp(context.Context, string, string) error { return nil }
func (stubIdentity) Login(context.Context, string, string) (models.AuthTokens, error) {
	return models.AuthTokens{AccessToken: "a"}, nil
}

func newEngine(products *memory.ProductStore, orders *memory.OrderStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Deps{
		Verifier: stubVerifier{},
		Limiter:  cache.NewRateLimiter(nil),
		Products: product.NewHandler(services.NewCatalogService(products, nil, nil, time.Minute)),
		Cart:     cart.NewHandler(services.NewPurchaseService(products, orders, nil)),
		Users:    user.NewHandler(services.NewAccountService(stubIdentity{}, memory.NewUserStore())),
	})
	return r
}

func TestPurchaseRequiresToken(t *testing.T) {
	key := models.ProductKey{ID: "p1", Name: "Widget"}
	products := memory.NewProductStore(models.Product{ID: key.ID, Name: key.Name, Stock: 1})
	orders := memory.NewOrderStore()
	r := newEngine(products, orders)

	body := `{"products":[{"id":"p1","name":"Widget"}],"total":10}`
	for _, header := range []string{"", "Bearer garbage", "garbage"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cart/purchase", strings.NewReader(body))
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	assert.Equal(t, 1, products.Stock(key))
	assert.Empty(t, orders.Orders())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart/purchase", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer valid-token")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, products.Stock(key))
	require.Len(t, orders.Orders(), 1)
	assert.Equal(t, "user-1", orders.Orders()[0].UserID)
}

func TestPublicRoutes(t *testing.T) {
	r := newEngine(memory.NewProductStore(), memory.NewOrderStore())

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/products", "", http.StatusOK},
		{http.MethodPost, "/products", `{"name":"X","brand":"Y","price":1}`, http.StatusUnauthorized},
		{http.MethodPost, "/products/validate", `{"name":"X"}`, http.StatusOK},
		{http.MethodPost, "/users/register", `{"name":"Ada","email":"ada@example.com","password":"pw","phone":"+1"}`, http.StatusCreated},
		{http.MethodPost, "/users/login", `{"email":"ada@example.com","password":"pw"}`, http.StatusOK},
		{http.MethodGet, "/users/me", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCORSConfig(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)

	cfg := corsConfig([]string{"https://shop.example.com"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://shop.example.com"}, cfg.AllowOrigins)
}
